package emv

import (
	"go.uber.org/zap"
)

// Ids dos campos raiz
const (
	IDPayloadFormatIndicator      = "00"
	IDPointOfInitiationMethod     = "01"
	IDMerchantAccountInformation  = "26"
	IDMerchantCategoryCode        = "52"
	IDTransactionCurrency         = "53"
	IDTransactionAmount           = "54"
	IDCountryCode                 = "58"
	IDMerchantName                = "59"
	IDMerchantCity                = "60"
	IDPostalCode                  = "61"
	IDAdditionalDataFieldTemplate = "62"
	IDCRC16                       = "63"
)

// Ids dos filhos de Merchant Account Information (26)
const (
	IDGUID               = "00"
	IDPixKey             = "01"
	IDPaymentDescription = "02"
	IDPaymentURL         = "25"
)

// Ids dos filhos de Additional Data Field Template (62)
const (
	IDReferenceLabel = "05"
)

// Valores fixos do catálogo
const (
	PayloadFormatIndicator = "01"
	InitiationStatic       = "11"
	InitiationDynamic      = "12"
	PixGUID                = "br.gov.bcb.pix"
	CurrencyBRL            = "986"
	CountryBR              = "BR"
	DefaultCategoryCode    = "0000"

	// Prefix é o início de todo código Pix válido
	Prefix = IDPayloadFormatIndicator + "02" + PayloadFormatIndicator

	crcFooter = IDCRC16 + "04"
)

// MPM é a árvore de campos de um código Pix
type MPM struct {
	fields map[string]Node
	code   string
}

// NewMPM cria a árvore com o catálogo de campos do Pix
func NewMPM() *MPM {
	account := NewMultiField(IDMerchantAccountInformation, "Merchant Account Information", 99, true, 0, 99).
		MustAddField(NewField(IDGUID, "Globally Unique Identifier", 32, true, PixGUID)).
		MustAddField(NewField(IDPixKey, "Pix Key", 36, false, "")).
		MustAddField(NewField(IDPaymentDescription, "Payment Description", 40, false, "")).
		MustAddField(NewField(IDPaymentURL, "Payment URL", 77, false, ""))

	additional := NewMultiField(IDAdditionalDataFieldTemplate, "Additional Data Field Template", 99, false, 0, 99).
		MustAddField(NewField(IDReferenceLabel, "Reference Label", 25, false, ""))

	m := &MPM{fields: make(map[string]Node)}
	for _, n := range []Node{
		NewField(IDPayloadFormatIndicator, "Payload Format Indicator", 2, true, PayloadFormatIndicator),
		NewField(IDPointOfInitiationMethod, "Point of Initiation Method", 2, false, InitiationStatic),
		account,
		NewField(IDMerchantCategoryCode, "Merchant Category Code", 4, true, DefaultCategoryCode),
		NewField(IDTransactionCurrency, "Transaction Currency", 3, true, CurrencyBRL),
		NewField(IDTransactionAmount, "Transaction Amount", 13, false, ""),
		NewField(IDCountryCode, "Country Code", 2, true, CountryBR),
		NewField(IDMerchantName, "Merchant Name", 25, true, ""),
		NewField(IDMerchantCity, "Merchant City", 15, true, ""),
		NewField(IDPostalCode, "Postal Code", 10, false, ""),
		additional,
	} {
		m.SetField(n)
	}
	return m
}

// SetField inclui ou substitui um campo raiz
func (m *MPM) SetField(n Node) *MPM {
	m.fields[n.ID()] = n
	return m
}

// Field retorna o campo raiz com o id informado ou nil
func (m *MPM) Field(id string) Node {
	return m.fields[id]
}

// Leaf retorna o campo raiz simples com o id informado ou nil
func (m *MPM) Leaf(id string) *Field {
	f, _ := m.fields[id].(*Field)
	return f
}

// Composite retorna o campo raiz composto com o id informado ou nil
func (m *MPM) Composite(id string) *MultiField {
	f, _ := m.fields[id].(*MultiField)
	return f
}

// MerchantAccount retorna o campo 26
func (m *MPM) MerchantAccount() *MultiField {
	return m.Composite(IDMerchantAccountInformation)
}

// AdditionalData retorna o campo 62
func (m *MPM) AdditionalData() *MultiField {
	return m.Composite(IDAdditionalDataFieldTemplate)
}

// HasField informa se existe um campo raiz com o id informado
func (m *MPM) HasField(id string) bool {
	_, ok := m.fields[id]
	return ok
}

// RemoveField remove o campo raiz com o id informado
func (m *MPM) RemoveField(id string) *MPM {
	delete(m.fields, id)
	return m
}

// Fields retorna os campos raiz em ordem crescente de id
func (m *MPM) Fields() []Node {
	return sortedNodes(m.fields)
}

// Export gera o código Pix com o rodapé de CRC16.
// O último código gerado fica em cache e só é refeito com regenerate=true.
func (m *MPM) Export(regenerate bool) (string, error) {
	if m.code != "" && !regenerate {
		return m.code, nil
	}

	code, err := exportAll(m.fields)
	if err != nil {
		return "", err
	}
	code += crcFooter
	code += CRC16(code)

	logger.Debug("código gerado", zap.String("code", code))
	m.code = code
	return code, nil
}
