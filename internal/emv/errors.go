package emv

import (
	"errors"
	"fmt"
)

// Erros sentinela
var (
	// ErrRequiredField indica campo obrigatório sem valor nem padrão
	ErrRequiredField = errors.New("emv: campo obrigatório ausente")

	// ErrFieldTooLong indica valor maior que o tamanho do campo
	ErrFieldTooLong = errors.New("emv: valor excede o tamanho do campo")

	// ErrChildIDOutOfRange indica filho fora da faixa aceita pelo campo composto
	ErrChildIDOutOfRange = errors.New("emv: id de campo fora da faixa")
)

// RequiredFieldMissingError é retornado na exportação de um campo obrigatório vazio
type RequiredFieldMissingError struct {
	ID   string
	Name string
}

func (e *RequiredFieldMissingError) Error() string {
	return fmt.Sprintf("o campo %s (%s) é obrigatório", e.ID, e.Name)
}

func (e *RequiredFieldMissingError) Unwrap() error {
	return ErrRequiredField
}

// FieldTooLongError é retornado por SetValueStrict e pela exportação de um
// campo composto cujos filhos somam mais que o tamanho do campo
type FieldTooLongError struct {
	ID     string
	Name   string
	Size   int
	Length int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("o campo %s (%s) aceita até %d caracteres, recebeu %d", e.ID, e.Name, e.Size, e.Length)
}

func (e *FieldTooLongError) Unwrap() error {
	return ErrFieldTooLong
}

// ChildIDOutOfRangeError é retornado por MultiField.AddField
type ChildIDOutOfRangeError struct {
	ContainerID string
	ChildID     string
	Min         int
	Max         int
}

func (e *ChildIDOutOfRangeError) Error() string {
	return fmt.Sprintf("o campo %s aceita ids entre %02d e %02d, recebeu %s", e.ContainerID, e.Min, e.Max, e.ChildID)
}

func (e *ChildIDOutOfRangeError) Unwrap() error {
	return ErrChildIDOutOfRange
}
