package reader

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload indica um código Pix que não pôde ser lido
var ErrMalformedPayload = errors.New("reader: código Pix malformado")

// MalformedPayloadError descreve onde a leitura do código falhou
type MalformedPayloadError struct {
	Raw    string
	Offset int // Posição, em caracteres, onde a leitura parou
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("código Pix inválido na posição %d: %s", e.Offset, e.Reason)
}

func (e *MalformedPayloadError) Unwrap() error {
	return ErrMalformedPayload
}
