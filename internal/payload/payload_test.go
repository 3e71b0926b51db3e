package payload_test

import (
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/magnani/pixcode/internal/emv"
	"github.com/magnani/pixcode/internal/payload"
	"github.com/magnani/pixcode/internal/pixkey"
	"github.com/magnani/pixcode/internal/testenv"
)

var makeAR = testenv.MakeAR

const (
	interKey  = "285fb964-0087-4a94-851a-5a161ed8888a"
	nubankKey = "aae2196f-5f93-46e4-89e6-73bf4138427b"
)

// samePrefix compara os códigos em caixa alta, ignorando o rodapé de CRC
func samePrefix(a, b string) bool {
	return strings.ToUpper(a[:len(a)-8]) == strings.ToUpper(b[:len(b)-8])
}

func TestStaticBankCodes(t *testing.T) {
	tests := []struct {
		name     string
		payload  *payload.Static
		bankCode string
		want     string
	}{
		{
			name: "inter sem identificador",
			payload: payload.NewStatic().
				SetAmount(1.01).
				SetPixKey(pixkey.KeyTypeRandom, interKey).
				SetDescription("Solicitação de pagamento").
				SetMerchantName("Studio Piggly").
				SetMerchantCity("Uberaba"),
			bankCode: "00020101021126860014br.gov.bcb.pix0136285fb964-0087-4a94-851a-5a161ed8888a0224Solicitacao de pagamento52040000530398654041.015802BR5913STUDIO PIGGLY6007Uberaba62070503***63044EED",
			want:     "00020101021126860014br.gov.bcb.pix0136285fb964-0087-4a94-851a-5a161ed8888a0224SOLICITACAO DE PAGAMENTO52040000530398654041.015802BR5913STUDIO PIGGLY6007UBERABA62070503***6304D819",
		},
		{
			name: "inter com identificador",
			payload: payload.NewStatic().
				SetAmount(1.02).
				SetPixKey(pixkey.KeyTypeRandom, interKey).
				SetReferenceLabel("TX-102").
				SetDescription("DC Acentuação 001").
				SetMerchantName("Studio Piggly").
				SetMerchantCity("Uberaba"),
			bankCode: "00020101021126790014br.gov.bcb.pix0136285fb964-0087-4a94-851a-5a161ed8888a0217DC ACENTUACAO 00152040000530398654041.025802BR5913STUDIO PIGGLY6007Uberaba62090505TX10263040665",
			want:     "00020101021126790014br.gov.bcb.pix0136285fb964-0087-4a94-851a-5a161ed8888a0217DC ACENTUACAO 00152040000530398654041.025802BR5913STUDIO PIGGLY6007UBERABA62090505TX1026304425C",
		},
		{
			name: "nubank sem identificador",
			payload: payload.NewStatic().
				SetAmount(1.01).
				SetPixKey(pixkey.KeyTypeRandom, nubankKey).
				SetMerchantName("Caique Monteiro Araujo").
				SetMerchantCity("São Paulo").
				SetPostalCode("05409000").
				UnsetPointOfInitiation(),
			bankCode: "00020126580014BR.GOV.BCB.PIX0136aae2196f-5f93-46e4-89e6-73bf4138427b52040000530398654041.015802BR5922Caique Monteiro Araujo6009SAO PAULO61080540900062070503***630456D6",
			want:     "00020126580014br.gov.bcb.pix0136aae2196f-5f93-46e4-89e6-73bf4138427b52040000530398654041.015802BR5922CAIQUE MONTEIRO ARAUJO6009SAO PAULO61080540900062070503***63043076",
		},
		{
			name: "nubank com identificador",
			payload: payload.NewStatic().
				SetAmountCents(102).
				SetPixKey(pixkey.KeyTypeRandom, nubankKey).
				SetReferenceLabel("TX-102").
				SetMerchantName("Caique Monteiro Araujo").
				SetMerchantCity("São Paulo").
				SetPostalCode("05409000").
				UnsetPointOfInitiation(),
			bankCode: "00020126580014BR.GOV.BCB.PIX0136aae2196f-5f93-46e4-89e6-73bf4138427b52040000530398654041.025802BR5922Caique Monteiro Araujo6009SAO PAULO61080540900062090505TX1026304F4DB",
			want:     "00020126580014br.gov.bcb.pix0136aae2196f-5f93-46e4-89e6-73bf4138427b52040000530398654041.025802BR5922CAIQUE MONTEIRO ARAUJO6009SAO PAULO61080540900062090505TX1026304E0BD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := makeAR(t)
			code, err := tt.payload.PixCode(false)
			require.NoError(err)
			assert.Equal(tt.want, code)
			assert.True(samePrefix(tt.bankCode, code))
			assert.True(emv.CheckCRC(code))
			assert.True(emv.CheckCRC(tt.bankCode))
		})
	}
}

func TestStaticErrors(t *testing.T) {
	assert, require := makeAR(t)

	s := payload.NewStatic().
		SetPixKey(pixkey.KeyTypeDocument, "12345678901").
		SetAmount(-1).
		SetMerchantName("Studio Piggly").
		SetMerchantCity("Uberaba")

	_, err := s.PixCode(false)
	require.Error(err)
	assert.Len(multierr.Errors(err), 2)
	assert.ErrorIs(err, pixkey.ErrInvalidKey)
}

func TestStaticRequiredKey(t *testing.T) {
	assert, _ := makeAR(t)

	_, err := payload.NewStatic().
		SetMerchantName("Studio Piggly").
		SetMerchantCity("Uberaba").
		PixCode(false)

	var missing *emv.RequiredFieldMissingError
	assert.ErrorAs(err, &missing)
	assert.Equal(emv.IDPixKey, missing.ID)
}

func TestStaticStrict(t *testing.T) {
	assert, require := makeAR(t)

	s := payload.NewStatic().Strict().
		SetPixKey(pixkey.KeyTypeEmail, "caique@piggly.com.br").
		SetMerchantName("Associação Brasileira de Artes Marciais").
		SetMerchantCity("Uberaba")

	_, err := s.PixCode(false)
	var tooLong *emv.FieldTooLongError
	require.ErrorAs(err, &tooLong)
	assert.Equal(emv.IDMerchantName, tooLong.ID)

	code, err := payload.NewStatic().
		SetPixKey(pixkey.KeyTypeEmail, "caique@piggly.com.br").
		SetMerchantName("Associação Brasileira de Artes Marciais").
		SetMerchantCity("Uberaba").
		PixCode(false)
	require.NoError(err)
	assert.Contains(code, "5925ASSOCIACAO BRASILEIRA DE 6007UBERABA")
}

func TestStaticReferenceLabel(t *testing.T) {
	assert, require := makeAR(t)

	s := payload.NewStatic()
	assert.Equal(payload.DefaultReferenceLabel, s.ReferenceLabel())

	s.SetReferenceLabel("")
	assert.Len(s.ReferenceLabel(), pixkey.ReferenceLabelSize)

	s.SetReferenceLabel("pedido #42/a")
	assert.Equal("pedido42a", s.ReferenceLabel())

	code, err := s.UnsetReferenceLabel().
		SetPixKey(pixkey.KeyTypeRandom, nubankKey).
		SetMerchantName("Studio Piggly").
		SetMerchantCity("Uberaba").
		PixCode(false)
	require.NoError(err)
	assert.Equal("", s.ReferenceLabel())
	assert.NotContains(code, "6207")
	assert.True(strings.HasSuffix(code[:len(code)-8], "6007UBERABA"))
}

func TestStaticPixKeyNormalization(t *testing.T) {
	assert, _ := makeAR(t)

	s := payload.NewStatic().
		SetPixKey(pixkey.KeyTypePhone, "(34) 9 9940-1377")
	assert.Equal("+5534999401377", s.MPM().MerchantAccount().Leaf(emv.IDPixKey).Value())

	s.SetPixKey(pixkey.KeyTypeDocument, "192.794.630-12")
	assert.Equal("19279463012", s.MPM().MerchantAccount().Leaf(emv.IDPixKey).Value())
}

func TestStaticCache(t *testing.T) {
	assert, require := makeAR(t)

	s := payload.NewStatic().
		SetPixKey(pixkey.KeyTypeRandom, nubankKey).
		SetMerchantName("Studio Piggly").
		SetMerchantCity("Uberaba")

	first, err := s.PixCode(false)
	require.NoError(err)

	s.SetAmount(10)
	cached, err := s.PixCode(false)
	require.NoError(err)
	assert.Equal(first, cached)

	fresh, err := s.PixCode(true)
	require.NoError(err)
	assert.Contains(fresh, "540510.00")
}

type fakeEncoder struct {
	code string
}

func (f *fakeEncoder) DataURI(code string) (string, error) {
	f.code = code
	return "data:image/png;base64,", nil
}

func TestStaticQRCode(t *testing.T) {
	assert, require := makeAR(t)

	s := payload.NewStatic().
		SetPixKey(pixkey.KeyTypeRandom, nubankKey).
		SetMerchantName("Studio Piggly").
		SetMerchantCity("Uberaba")

	enc := &fakeEncoder{}
	uri, err := s.QRCode(enc)
	require.NoError(err)
	assert.Equal("data:image/png;base64,", uri)

	code, _ := s.PixCode(false)
	assert.Equal(code, enc.code)
}

func TestStaticChangeMPM(t *testing.T) {
	assert, _ := makeAR(t)

	mpm := emv.NewMPM()
	s := payload.NewStatic().ChangeMPM(mpm)

	assert.Same(mpm, s.MPM())
	assert.False(mpm.MerchantAccount().HasField(emv.IDPaymentURL))
	assert.True(mpm.MerchantAccount().Leaf(emv.IDPixKey).Required())
	assert.Equal(payload.KindStatic, s.Kind())
}

func TestDynamic(t *testing.T) {
	assert, require := makeAR(t)

	d := payload.NewDynamic().
		SetURL("pix.example.com/qr/v2/cobv/9d36b84f").
		SetMerchantName("Studio Piggly").
		SetMerchantCity("Uberaba")

	code, err := d.PixCode(false)
	require.NoError(err)
	assert.Equal("00020101021226570014br.gov.bcb.pix2535pix.example.com/qr/v2/cobv/9d36b84f5204000053039865802BR5913STUDIO PIGGLY6007UBERABA62070503***6304D853", code)
	assert.Equal("pix.example.com/qr/v2/cobv/9d36b84f", d.URL())
	assert.Equal(payload.KindDynamic, d.Kind())

	mpm := d.MPM()
	assert.False(mpm.HasField(emv.IDTransactionAmount))
	assert.False(mpm.MerchantAccount().HasField(emv.IDPixKey))
	assert.False(mpm.MerchantAccount().HasField(emv.IDPaymentDescription))
}

func TestDynamicInvalidURL(t *testing.T) {
	assert, _ := makeAR(t)

	_, err := payload.NewDynamic().
		SetURL("não é url").
		SetMerchantName("Studio Piggly").
		SetMerchantCity("Uberaba").
		PixCode(false)
	assert.Error(err)

	assert.NoError(payload.NewDynamic().SetURL("https://pix.example.com/qr/v2/9d36b84f").Err())
}

func TestAmount(t *testing.T) {
	assert, require := makeAR(t)

	assert.Equal("109.90", payload.FormatAmount(109.9))
	assert.Equal("1.00", payload.FormatAmount(1))

	v, err := payload.ParseAmount("1.00")
	require.NoError(err)
	assert.Equal(1.0, v)

	v, err = payload.ParseAmount("109.9")
	require.NoError(err)
	assert.InDelta(109.9, v, 0.0001)

	_, err = payload.ParseAmount("1,00")
	assert.Error(err)
}

func TestAmountTooLong(t *testing.T) {
	assert, require := makeAR(t)

	s := payload.NewStatic().SetAmount(1234567890123.45)
	assert.ErrorIs(s.Err(), emv.ErrFieldTooLong)
	assert.False(s.MPM().Leaf(emv.IDTransactionAmount).HasValue())

	s = payload.NewStatic().
		SetPixKey(pixkey.KeyTypeRandom, nubankKey).
		SetMerchantName("Studio Piggly").
		SetMerchantCity("Uberaba").
		SetAmount(1234567890.12)
	require.NoError(s.Err())
	code, err := s.PixCode(false)
	require.NoError(err)
	assert.Contains(code, "54131234567890.12")
}

func TestStaticMerchantAccountTooLong(t *testing.T) {
	assert, _ := makeAR(t)

	s := payload.NewStatic().
		SetPixKey(pixkey.KeyTypeRandom, nubankKey).
		SetDescription(strings.Repeat("A", 40)).
		SetMerchantName("Studio Piggly").
		SetMerchantCity("Uberaba")
	assert.NoError(s.Err())

	_, err := s.PixCode(false)
	var tooLong *emv.FieldTooLongError
	assert.ErrorAs(err, &tooLong)
	assert.Equal(emv.IDMerchantAccountInformation, tooLong.ID)
	assert.Equal(102, tooLong.Length)

	s.SetDescription(strings.Repeat("A", 37))
	_, err = s.PixCode(true)
	assert.NoError(err)
}
