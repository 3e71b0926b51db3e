// Package pixkey classifica, valida e normaliza chaves Pix.
//
// Tipos de chave aceitos:
//   - chave aleatória (UUID no formato 8-4-4-4-12)
//   - CPF ou CNPJ, com dígitos verificadores
//   - e-mail
//   - telefone brasileiro, normalizado para +55DDDNUMERO
package pixkey

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// KeyType define o tipo de uma chave Pix
type KeyType string

const (
	KeyTypeRandom   KeyType = "random"
	KeyTypeDocument KeyType = "document"
	KeyTypeEmail    KeyType = "email"
	KeyTypePhone    KeyType = "phone"
)

// KeyTypes lista os tipos na ordem usada pela classificação
var KeyTypes = []KeyType{KeyTypeRandom, KeyTypeDocument, KeyTypeEmail, KeyTypePhone}

// ReferenceLabelSize é o tamanho do identificador gerado por RandomReferenceLabel
const ReferenceLabelSize = 25

var (
	randomPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	emailPattern  = regexp.MustCompile(`^[^@]+@[^@.]+\.[^@]+$`)
	phonePattern  = regexp.MustCompile(`^\+55\d{10,11}$`)
	nonDigits     = regexp.MustCompile(`\D+`)
)

// ParseKeyType converte uma string em KeyType
func ParseKeyType(s string) (KeyType, error) {
	t := KeyType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range KeyTypes {
		if t == known {
			return t, nil
		}
	}
	return "", &UnknownKeyTypeError{Key: s}
}

// Alias retorna o nome do tipo de chave para exibição
func (t KeyType) Alias() string {
	switch t {
	case KeyTypeRandom:
		return "Chave Aleatória"
	case KeyTypeDocument:
		return "CPF/CNPJ"
	case KeyTypeEmail:
		return "E-mail"
	case KeyTypePhone:
		return "Telefone"
	}
	return "Chave Desconhecida"
}

// Validate valida a chave de acordo com o tipo informado
func Validate(t KeyType, key string) error {
	switch t {
	case KeyTypeRandom:
		return ValidateRandom(key)
	case KeyTypeDocument:
		return ValidateDocument(key)
	case KeyTypeEmail:
		return ValidateEmail(key)
	case KeyTypePhone:
		return ValidatePhone(key)
	}
	return &UnknownKeyTypeError{Key: string(t)}
}

// ValidateRandom valida uma chave aleatória
func ValidateRandom(key string) error {
	if !randomPattern.MatchString(key) {
		return &InvalidKeyFormatError{Type: KeyTypeRandom, Key: key}
	}
	return nil
}

// ValidateDocument valida um CPF ou CNPJ, com ou sem pontuação
func ValidateDocument(key string) error {
	doc := ParseDocument(key)

	var ok bool
	switch len(doc) {
	case 11:
		ok = validCPF(doc)
	case 14:
		ok = validCNPJ(doc)
	}

	if !ok {
		return &InvalidKeyFormatError{Type: KeyTypeDocument, Key: key}
	}
	return nil
}

// ValidateEmail valida um e-mail.
// Também aceita a forma com espaço no lugar do @ gerada por ParseEmail.
func ValidateEmail(key string) error {
	if emailPattern.MatchString(key) {
		return nil
	}
	if !strings.Contains(key, "@") && strings.Count(key, " ") == 1 &&
		emailPattern.MatchString(strings.Replace(key, " ", "@", 1)) {
		return nil
	}
	return &InvalidKeyFormatError{Type: KeyTypeEmail, Key: key}
}

// ValidatePhone valida um telefone com DDD, com ou sem +55
func ValidatePhone(key string) error {
	if !phonePattern.MatchString(ParsePhone(key)) {
		return &InvalidKeyFormatError{Type: KeyTypePhone, Key: key}
	}
	return nil
}

// KeyTypeOf descobre o tipo da chave.
// A ordem de tentativa é aleatória, documento, e-mail e telefone.
func KeyTypeOf(key string) (KeyType, error) {
	for _, t := range KeyTypes {
		if Validate(t, key) == nil {
			return t, nil
		}
	}
	return "", &UnknownKeyTypeError{Key: key}
}

// Parse normaliza a chave de acordo com o tipo informado
func Parse(t KeyType, key string) (string, error) {
	switch t {
	case KeyTypeRandom:
		return key, nil
	case KeyTypeDocument:
		return ParseDocument(key), nil
	case KeyTypeEmail:
		return ParseEmail(key, false), nil
	case KeyTypePhone:
		return ParsePhone(key), nil
	}
	return "", &UnknownKeyTypeError{Key: string(t)}
}

// ParseDocument mantém apenas os dígitos do documento
func ParseDocument(doc string) string {
	return nonDigits.ReplaceAllString(doc, "")
}

// ParseEmail retorna o e-mail, trocando o @ por espaço quando whitespace é true
func ParseEmail(email string, whitespace bool) string {
	if whitespace {
		return strings.ReplaceAll(email, "@", " ")
	}
	return email
}

// ParsePhone normaliza o telefone para o formato +55DDDNUMERO
func ParsePhone(phone string) string {
	phone = strings.ReplaceAll(phone, "+55", "")
	return "+55" + nonDigits.ReplaceAllString(phone, "")
}

// RandomReferenceLabel gera um identificador de transação aleatório
// com ReferenceLabelSize caracteres alfanuméricos
func RandomReferenceLabel() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:ReferenceLabelSize])
}

func validCPF(doc string) bool {
	if repeated(doc) {
		return false
	}
	for t := 9; t < 11; t++ {
		sum := 0
		for c := 0; c < t; c++ {
			sum += digit(doc[c]) * (t + 1 - c)
		}
		if digit(doc[t]) != checkDigit(sum) {
			return false
		}
	}
	return true
}

func validCNPJ(doc string) bool {
	if repeated(doc) {
		return false
	}
	for t, weight := range []int{5, 6} {
		n := 12 + t
		sum := 0
		for i, w := 0, weight; i < n; i++ {
			sum += digit(doc[i]) * w
			if w == 2 {
				w = 9
			} else {
				w--
			}
		}
		if digit(doc[n]) != checkDigit(sum) {
			return false
		}
	}
	return true
}

func checkDigit(sum int) int {
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}

func repeated(doc string) bool {
	return strings.Count(doc, doc[:1]) == len(doc)
}

func digit(b byte) int {
	return int(b - '0')
}
