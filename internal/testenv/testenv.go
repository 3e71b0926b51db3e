// Package testenv reúne utilitários compartilhados pelos testes.
package testenv

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MakeAR cria os objetos de asserção do testify.
//
//	assert, require := testenv.MakeAR(t)
func MakeAR(t require.TestingT) (*assert.Assertions, *require.Assertions) {
	return assert.New(t), require.New(t)
}
