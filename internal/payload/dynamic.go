package payload

import (
	"fmt"

	"github.com/magnani/pixcode/internal/emv"
)

// Dynamic é um código Pix dinâmico: os dados da cobrança ficam na URL
type Dynamic struct {
	base
}

// NewDynamic cria um código dinâmico
func NewDynamic() *Dynamic {
	return new(Dynamic).ChangeMPM(emv.NewMPM())
}

// Kind retorna KindDynamic
func (d *Dynamic) Kind() Kind {
	return KindDynamic
}

// ChangeMPM troca a árvore de campos, aplicando as regras do código dinâmico
func (d *Dynamic) ChangeMPM(mpm *emv.MPM) *Dynamic {
	if initiation := mpm.Leaf(emv.IDPointOfInitiationMethod); initiation != nil {
		initiation.SetValue(emv.InitiationDynamic)
	}
	mpm.RemoveField(emv.IDTransactionAmount)
	if account := mpm.MerchantAccount(); account != nil {
		account.RemoveField(emv.IDPixKey).RemoveField(emv.IDPaymentDescription)
	}
	if additional := mpm.AdditionalData(); additional != nil {
		if label := additional.Leaf(emv.IDReferenceLabel); label != nil {
			label.SetDefault(DefaultReferenceLabel)
		}
	}

	d.mpm = mpm
	return d
}

// Strict faz os próximos valores maiores que o campo gerarem erro em vez de serem cortados
func (d *Dynamic) Strict() *Dynamic {
	d.strict = true
	return d
}

// SetURL define a URL do payload da cobrança
func (d *Dynamic) SetURL(url string) *Dynamic {
	field := d.mpm.MerchantAccount().Leaf(emv.IDPaymentURL)
	if field == nil {
		d.fail(fmt.Errorf("o campo de URL foi removido"))
		return d
	}
	if !urlPattern.MatchString(url) {
		d.fail(fmt.Errorf("o campo %s (%s) não é uma URL válida: %q", field.ID(), field.Name(), url))
		return d
	}
	d.set(field, url)
	return d
}

// URL retorna a URL do payload da cobrança
func (d *Dynamic) URL() string {
	if field := d.mpm.MerchantAccount().Leaf(emv.IDPaymentURL); field != nil {
		return field.Value()
	}
	return ""
}

// SetMerchantName define o nome do recebedor
func (d *Dynamic) SetMerchantName(name string) *Dynamic {
	d.setMerchantName(name)
	return d
}

// SetMerchantCity define a cidade do recebedor
func (d *Dynamic) SetMerchantCity(city string) *Dynamic {
	d.setMerchantCity(city)
	return d
}

// SetPostalCode define o CEP do recebedor
func (d *Dynamic) SetPostalCode(code string) *Dynamic {
	d.setPostalCode(code)
	return d
}

// UnsetPointOfInitiation remove o campo 01
func (d *Dynamic) UnsetPointOfInitiation() *Dynamic {
	d.unsetPointOfInitiation()
	return d
}
