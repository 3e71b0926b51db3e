// Package reader lê códigos Pix (copia e cola) já gerados.
//
//	r, err := reader.New(code)
//	key, ok := r.PixKey()
package reader

import (
	"strconv"

	"github.com/magnani/pixcode/internal/emv"
	"github.com/magnani/pixcode/internal/logging"
	"github.com/magnani/pixcode/internal/payload"
	"github.com/magnani/pixcode/internal/pixkey"
)

var logger = logging.New("Reader")

// Reader dá acesso aos campos de um código Pix lido
type Reader struct {
	raw string
	mpm *emv.MPM
}

// New lê o código Pix
func New(raw string) (*Reader, error) {
	mpm, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return &Reader{raw: raw, mpm: mpm}, nil
}

// Raw retorna o código original
func (r *Reader) Raw() string {
	return r.raw
}

// MPM retorna a árvore lida
func (r *Reader) MPM() *emv.MPM {
	return r.mpm
}

// Kind classifica o código pelo campo 01. Sem ele, a presença da URL indica código dinâmico.
func (r *Reader) Kind() payload.Kind {
	if v, ok := value(r.mpm.Leaf(emv.IDPointOfInitiationMethod)); ok {
		switch v {
		case emv.InitiationStatic:
			return payload.KindStatic
		case emv.InitiationDynamic:
			return payload.KindDynamic
		}
	}
	if _, ok := r.URL(); ok {
		return payload.KindDynamic
	}
	return payload.KindStatic
}

// PixKey retorna a chave Pix
func (r *Reader) PixKey() (string, bool) {
	return value(r.mpm.MerchantAccount().Leaf(emv.IDPixKey))
}

// KeyType classifica a chave Pix do código
func (r *Reader) KeyType() (pixkey.KeyType, error) {
	key, _ := r.PixKey()
	return pixkey.KeyTypeOf(key)
}

// Description retorna a descrição do pagamento
func (r *Reader) Description() (string, bool) {
	return value(r.mpm.MerchantAccount().Leaf(emv.IDPaymentDescription))
}

// URL retorna a URL do payload de um código dinâmico
func (r *Reader) URL() (string, bool) {
	return value(r.mpm.MerchantAccount().Leaf(emv.IDPaymentURL))
}

// Amount retorna o valor da transação
func (r *Reader) Amount() (float64, bool) {
	v, ok := value(r.mpm.Leaf(emv.IDTransactionAmount))
	if !ok {
		return 0, false
	}
	amount, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// MerchantName retorna o nome do recebedor
func (r *Reader) MerchantName() (string, bool) {
	return value(r.mpm.Leaf(emv.IDMerchantName))
}

// MerchantCity retorna a cidade do recebedor
func (r *Reader) MerchantCity() (string, bool) {
	return value(r.mpm.Leaf(emv.IDMerchantCity))
}

// PostalCode retorna o CEP do recebedor
func (r *Reader) PostalCode() (string, bool) {
	return value(r.mpm.Leaf(emv.IDPostalCode))
}

// ReferenceLabel retorna o identificador da transação
func (r *Reader) ReferenceLabel() (string, bool) {
	return value(r.mpm.AdditionalData().Leaf(emv.IDReferenceLabel))
}

// Payload monta um código estático ou dinâmico com os campos lidos.
// O código usa uma cópia da árvore, então a árvore do Reader não muda.
// Os padrões dos presets não entram nos campos 01 e 62.05 quando o código lido não os tinha.
func (r *Reader) Payload() (payload.Payload, error) {
	mpm, err := Decode(r.raw)
	if err != nil {
		return nil, err
	}

	var p payload.Payload
	if r.Kind() == payload.KindDynamic {
		p = payload.NewDynamic().ChangeMPM(mpm)
	} else {
		p = payload.NewStatic().ChangeMPM(mpm)
	}

	if _, ok := value(r.mpm.Leaf(emv.IDPointOfInitiationMethod)); !ok {
		mpm.RemoveField(emv.IDPointOfInitiationMethod)
	}
	if _, ok := r.ReferenceLabel(); !ok {
		if label := mpm.AdditionalData().Leaf(emv.IDReferenceLabel); label != nil {
			label.SetDefault("")
		}
	}
	return p, nil
}

// value retorna o valor lido do campo, sem considerar o padrão
func value(f *emv.Field) (string, bool) {
	if f == nil || !f.HasValue() {
		return "", false
	}
	return f.Value(), true
}
