package payload

import (
	"fmt"

	"github.com/magnani/pixcode/internal/emv"
	"github.com/magnani/pixcode/internal/pixkey"
)

// Static é um código Pix estático: a chave Pix fica no próprio código
type Static struct {
	base
}

// NewStatic cria um código estático
func NewStatic() *Static {
	return new(Static).ChangeMPM(emv.NewMPM())
}

// Kind retorna KindStatic
func (s *Static) Kind() Kind {
	return KindStatic
}

// ChangeMPM troca a árvore de campos, aplicando as regras do código estático
func (s *Static) ChangeMPM(mpm *emv.MPM) *Static {
	if account := mpm.MerchantAccount(); account != nil {
		if key := account.Leaf(emv.IDPixKey); key != nil {
			key.SetRequired(true)
		}
		account.RemoveField(emv.IDPaymentURL)
	}
	if additional := mpm.AdditionalData(); additional != nil {
		if label := additional.Leaf(emv.IDReferenceLabel); label != nil {
			label.SetDefault(DefaultReferenceLabel)
		}
	}

	s.mpm = mpm
	return s
}

// Strict faz os próximos valores maiores que o campo gerarem erro em vez de serem cortados
func (s *Static) Strict() *Static {
	s.strict = true
	return s
}

// SetPixKey valida, normaliza e define a chave Pix
func (s *Static) SetPixKey(keyType pixkey.KeyType, key string) *Static {
	if err := pixkey.Validate(keyType, key); err != nil {
		s.fail(err)
		return s
	}
	parsed, err := pixkey.Parse(keyType, key)
	if err != nil {
		s.fail(err)
		return s
	}
	s.set(s.mpm.MerchantAccount().Leaf(emv.IDPixKey), parsed)
	return s
}

// SetDescription define a descrição do pagamento
func (s *Static) SetDescription(description string) *Static {
	s.set(s.mpm.MerchantAccount().Leaf(emv.IDPaymentDescription), cleanUpper(description))
	return s
}

// SetAmount define o valor da transação. Zero remove o valor.
// Valores que não cabem no campo 54 são rejeitados mesmo fora do modo estrito.
func (s *Static) SetAmount(amount float64) *Static {
	if amount < 0 {
		s.fail(fmt.Errorf("o valor da transação não pode ser negativo: %.2f", amount))
		return s
	}
	field := s.mpm.Leaf(emv.IDTransactionAmount)
	v := ""
	if amount > 0 {
		v = FormatAmount(amount)
	}
	// Cortar o valor mudaria a quantia cobrada, então não há modo tolerante aqui
	if field != nil && len(v) > field.Size() {
		s.fail(&emv.FieldTooLongError{ID: field.ID(), Name: field.Name(), Size: field.Size(), Length: len(v)})
		return s
	}
	s.set(field, v)
	return s
}

// SetAmountCents define o valor da transação em centavos
func (s *Static) SetAmountCents(cents int64) *Static {
	return s.SetAmount(float64(cents) / 100)
}

// SetReferenceLabel define o identificador da transação.
// Uma string vazia gera um identificador aleatório.
func (s *Static) SetReferenceLabel(tid string) *Static {
	if tid == "" {
		tid = pixkey.RandomReferenceLabel()
	} else {
		tid = cleanTID(tid)
	}
	s.set(s.referenceLabel(), tid)
	return s
}

// ReferenceLabel retorna o identificador da transação, ou o padrão
func (s *Static) ReferenceLabel() string {
	if label := s.referenceLabel(); label != nil {
		return label.Value()
	}
	return ""
}

// UnsetReferenceLabel remove o identificador e o padrão, omitindo o campo 62
func (s *Static) UnsetReferenceLabel() *Static {
	if label := s.referenceLabel(); label != nil {
		label.SetValue("").SetDefault("")
	}
	return s
}

// SetMerchantName define o nome do recebedor
func (s *Static) SetMerchantName(name string) *Static {
	s.setMerchantName(name)
	return s
}

// SetMerchantCity define a cidade do recebedor
func (s *Static) SetMerchantCity(city string) *Static {
	s.setMerchantCity(city)
	return s
}

// SetPostalCode define o CEP do recebedor
func (s *Static) SetPostalCode(code string) *Static {
	s.setPostalCode(code)
	return s
}

// UnsetPointOfInitiation remove o campo 01, como fazem alguns bancos
func (s *Static) UnsetPointOfInitiation() *Static {
	s.unsetPointOfInitiation()
	return s
}
