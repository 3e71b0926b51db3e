package pixkey_test

import (
	"testing"

	"github.com/magnani/pixcode/internal/pixkey"
	"github.com/magnani/pixcode/internal/testenv"
)

var makeAR = testenv.MakeAR

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		keyType pixkey.KeyType
		key     string
		valid   bool
	}{
		{"aleatória", pixkey.KeyTypeRandom, "aae2196f-5f93-46e4-89e6-73bf4138427b", true},
		{"aleatória curta", pixkey.KeyTypeRandom, "aae2196f-5f93-46e4-89e6-73bf41384b", false},
		{"aleatória com sobra", pixkey.KeyTypeRandom, "xaae2196f-5f93-46e4-89e6-73bf4138427b", false},
		{"cpf", pixkey.KeyTypeDocument, "19279463012", true},
		{"cpf formatado", pixkey.KeyTypeDocument, "192.794.630-12", true},
		{"cpf meio formatado", pixkey.KeyTypeDocument, "192.794630-12", true},
		{"cpf inválido", pixkey.KeyTypeDocument, "12345678901", false},
		{"cpf repetido", pixkey.KeyTypeDocument, "111.111.111-11", false},
		{"cnpj formatado", pixkey.KeyTypeDocument, "15.918.804/0001-41", true},
		{"cnpj meio formatado", pixkey.KeyTypeDocument, "15.918.804000141", true},
		{"cnpj", pixkey.KeyTypeDocument, "15918804000141", true},
		{"cnpj inválido", pixkey.KeyTypeDocument, "12.345.678/9000-00", false},
		{"cnpj repetido", pixkey.KeyTypeDocument, "00000000000000", false},
		{"documento sem tamanho", pixkey.KeyTypeDocument, "1234567", false},
		{"email", pixkey.KeyTypeEmail, "caique@piggly.com.br", true},
		{"email com espaço", pixkey.KeyTypeEmail, "caique piggly.com.br", true},
		{"email sem domínio", pixkey.KeyTypeEmail, "caique@piggly", false},
		{"email com dois @", pixkey.KeyTypeEmail, "caique@piggly.com@br", false},
		{"telefone", pixkey.KeyTypePhone, "+5534999401377", true},
		{"telefone com espaço", pixkey.KeyTypePhone, "+5534 99940-1377", true},
		{"telefone com DDD entre parênteses", pixkey.KeyTypePhone, "+55 (34) 99940-1377", true},
		{"telefone sem +55", pixkey.KeyTypePhone, "(34) 99940-1377", true},
		{"telefone fixo", pixkey.KeyTypePhone, "(34) 9940-1377", true},
		{"telefone só dígitos", pixkey.KeyTypePhone, "3499401377", true},
		{"telefone longo", pixkey.KeyTypePhone, "349994013777", false},
		{"tipo desconhecido", pixkey.KeyType("cpf"), "19279463012", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, _ := makeAR(t)
			err := pixkey.Validate(tt.keyType, tt.key)
			if tt.valid {
				assert.NoError(err)
			} else {
				assert.Error(err)
			}
		})
	}
}

func TestValidateErrors(t *testing.T) {
	assert, require := makeAR(t)

	err := pixkey.ValidateDocument("12345678901")
	var invalid *pixkey.InvalidKeyFormatError
	require.ErrorAs(err, &invalid)
	assert.Equal(pixkey.KeyTypeDocument, invalid.Type)
	assert.Equal("12345678901", invalid.Key)
	assert.ErrorIs(err, pixkey.ErrInvalidKey)
	assert.Contains(err.Error(), "CPF/CNPJ")

	err = pixkey.Validate("cpf", "19279463012")
	assert.ErrorIs(err, pixkey.ErrUnknownKeyType)
}

func TestKeyTypeOf(t *testing.T) {
	tests := []struct {
		key  string
		want pixkey.KeyType
	}{
		{"19279463012", pixkey.KeyTypeDocument},
		{"15918804000141", pixkey.KeyTypeDocument},
		{"caique@piggly.com.br", pixkey.KeyTypeEmail},
		{"caique piggly.com.br", pixkey.KeyTypeEmail},
		{"c0827588-c337-48e2-b9c0-b1a78f042390", pixkey.KeyTypeRandom},
		{"+5534999401377", pixkey.KeyTypePhone},
		{"34999401377", pixkey.KeyTypePhone},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert, require := makeAR(t)
			got, err := pixkey.KeyTypeOf(tt.key)
			require.NoError(err)
			assert.Equal(tt.want, got)
		})
	}
}

func TestKeyTypeOfUnknown(t *testing.T) {
	assert, require := makeAR(t)

	_, err := pixkey.KeyTypeOf("unknowkey")
	var unknown *pixkey.UnknownKeyTypeError
	require.ErrorAs(err, &unknown)
	assert.Equal("unknowkey", unknown.Key)
	assert.ErrorIs(err, pixkey.ErrUnknownKeyType)
}

func TestParse(t *testing.T) {
	assert, require := makeAR(t)

	assert.Equal("19279463012", pixkey.ParseDocument("192.794.630-12"))
	assert.Equal("15918804000141", pixkey.ParseDocument("15.918.804/0001-41"))
	assert.Equal("caique@piggly.com.br", pixkey.ParseEmail("caique@piggly.com.br", false))
	assert.Equal("caique piggly.com.br", pixkey.ParseEmail("caique@piggly.com.br", true))
	assert.Equal("+5534999401377", pixkey.ParsePhone("(34) 9 9940-1377"))
	assert.Equal("+5534999401377", pixkey.ParsePhone("+55 (34) 99940-1377"))

	key, err := pixkey.Parse(pixkey.KeyTypePhone, "(34) 99940-1377")
	require.NoError(err)
	assert.Equal("+5534999401377", key)

	key, err = pixkey.Parse(pixkey.KeyTypeRandom, "aae2196f-5f93-46e4-89e6-73bf4138427b")
	require.NoError(err)
	assert.Equal("aae2196f-5f93-46e4-89e6-73bf4138427b", key)

	_, err = pixkey.Parse("unknown", "x")
	assert.ErrorIs(err, pixkey.ErrUnknownKeyType)
}

func TestParseKeyType(t *testing.T) {
	assert, require := makeAR(t)

	kt, err := pixkey.ParseKeyType(" Email ")
	require.NoError(err)
	assert.Equal(pixkey.KeyTypeEmail, kt)

	_, err = pixkey.ParseKeyType("cpf")
	assert.ErrorIs(err, pixkey.ErrUnknownKeyType)
}

func TestAlias(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal("Chave Aleatória", pixkey.KeyTypeRandom.Alias())
	assert.Equal("CPF/CNPJ", pixkey.KeyTypeDocument.Alias())
	assert.Equal("E-mail", pixkey.KeyTypeEmail.Alias())
	assert.Equal("Telefone", pixkey.KeyTypePhone.Alias())
	assert.Equal("Chave Desconhecida", pixkey.KeyType("x").Alias())
}

func TestRandomReferenceLabel(t *testing.T) {
	assert, _ := makeAR(t)

	a, b := pixkey.RandomReferenceLabel(), pixkey.RandomReferenceLabel()
	assert.Len(a, pixkey.ReferenceLabelSize)
	assert.Regexp(`^[0-9A-F]+$`, a)
	assert.NotEqual(a, b)
}
