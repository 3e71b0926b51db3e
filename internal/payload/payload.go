// Package payload monta códigos Pix estáticos e dinâmicos sobre a árvore emv.MPM.
//
// Os métodos de configuração são encadeáveis e acumulam os erros encontrados.
// Os erros são retornados juntos por PixCode:
//
//	code, err := payload.NewStatic().
//	    SetPixKey(pixkey.KeyTypeRandom, "aae2196f-5f93-46e4-89e6-73bf4138427b").
//	    SetMerchantName("Studio Piggly").
//	    SetMerchantCity("Uberaba").
//	    SetAmount(109.90).
//	    PixCode(false)
package payload

import (
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/magnani/pixcode/internal/emv"
	"github.com/magnani/pixcode/internal/logging"
)

var logger = logging.New("Payload")

// Kind diferencia códigos estáticos de dinâmicos
type Kind string

const (
	KindStatic  Kind = "static"
	KindDynamic Kind = "dynamic"
)

// DefaultReferenceLabel é o identificador usado quando nenhum é informado
const DefaultReferenceLabel = "***"

// ImageEncoder gera a imagem de um código Pix.
// Implementado por *qrcode.Renderer.
type ImageEncoder interface {
	DataURI(code string) (string, error)
}

// Payload é o contrato comum aos códigos estáticos e dinâmicos
type Payload interface {
	Kind() Kind
	MPM() *emv.MPM
	PixCode(regenerate bool) (string, error)
}

var (
	_ Payload = (*Static)(nil)
	_ Payload = (*Dynamic)(nil)
)

var urlPattern = regexp.MustCompile(`(?i)^(https?://)?(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)

// base guarda a árvore e os erros acumulados pelos métodos encadeáveis
type base struct {
	mpm    *emv.MPM
	strict bool
	errs   []error
}

func (b *base) fail(err error) {
	logger.Debug("erro ao configurar código", zap.Error(err))
	b.errs = append(b.errs, err)
}

// set altera um campo respeitando a política de tamanho
func (b *base) set(f *emv.Field, v string) {
	if f == nil {
		return
	}
	if !b.strict {
		f.SetValue(v)
		return
	}
	if err := f.SetValueStrict(v); err != nil {
		b.fail(err)
	}
}

func (b *base) setMerchantName(name string) {
	b.set(b.mpm.Leaf(emv.IDMerchantName), cleanUpper(name))
}

func (b *base) setMerchantCity(city string) {
	b.set(b.mpm.Leaf(emv.IDMerchantCity), cleanUpper(city))
}

func (b *base) setPostalCode(code string) {
	b.set(b.mpm.Leaf(emv.IDPostalCode), cleanUpper(code))
}

func (b *base) unsetPointOfInitiation() {
	b.mpm.RemoveField(emv.IDPointOfInitiationMethod)
}

func (b *base) referenceLabel() *emv.Field {
	if additional := b.mpm.AdditionalData(); additional != nil {
		return additional.Leaf(emv.IDReferenceLabel)
	}
	return nil
}

// Err retorna os erros acumulados até aqui
func (b *base) Err() error {
	return multierr.Combine(b.errs...)
}

// MPM retorna a árvore de campos
func (b *base) MPM() *emv.MPM {
	return b.mpm
}

// PixCode gera o código Pix. O código fica em cache e só é refeito com regenerate=true.
func (b *base) PixCode(regenerate bool) (string, error) {
	if err := b.Err(); err != nil {
		return "", err
	}
	return b.mpm.Export(regenerate)
}

// QRCode gera a imagem do código Pix como data URI
func (b *base) QRCode(enc ImageEncoder) (string, error) {
	code, err := b.PixCode(false)
	if err != nil {
		return "", err
	}
	return enc.DataURI(code)
}

// FormatAmount formata um valor com duas casas decimais
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// ParseAmount converte o valor do campo 54 em float64
func ParseAmount(s string) (float64, error) {
	if !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("valor inválido: %q", s)
	}
	return strconv.ParseFloat(s, 64)
}
