package pixkey

import (
	"errors"
	"fmt"
)

// Erros sentinela
var (
	// ErrInvalidKey indica chave Pix em formato inválido
	ErrInvalidKey = errors.New("pixkey: chave inválida")

	// ErrUnknownKeyType indica que o tipo da chave não pôde ser determinado
	ErrUnknownKeyType = errors.New("pixkey: tipo de chave desconhecido")
)

// InvalidKeyFormatError é retornado quando a chave não é válida para o tipo
type InvalidKeyFormatError struct {
	Type KeyType
	Key  string
}

func (e *InvalidKeyFormatError) Error() string {
	return fmt.Sprintf("a chave de %s `%s` está inválida", e.Type.Alias(), e.Key)
}

func (e *InvalidKeyFormatError) Unwrap() error {
	return ErrInvalidKey
}

// UnknownKeyTypeError é retornado quando nenhum tipo de chave reconhece o valor
type UnknownKeyTypeError struct {
	Key string
}

func (e *UnknownKeyTypeError) Error() string {
	return fmt.Sprintf("não foi possível determinar o tipo da chave `%s`", e.Key)
}

func (e *UnknownKeyTypeError) Unwrap() error {
	return ErrUnknownKeyType
}
