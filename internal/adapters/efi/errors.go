package efi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/magnani/pixcode/internal/ports"
)

// Códigos de erro comuns da API Efí
const (
	ErrCodeInvalidToken   = "invalid_token"
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeInvalidValue   = "valor_invalido"
	ErrCodeCobNotFound    = "cobranca_nao_encontrada"
)

// Erros sentinela para condições comuns
var (
	// ErrNotFound indica que o recurso não foi encontrado. Envolve ports.ErrNotFound.
	ErrNotFound = fmt.Errorf("efi: %w", ports.ErrNotFound)

	// ErrUnauthorized indica falha de autenticação
	ErrUnauthorized = errors.New("efi: não autorizado")

	// ErrInvalidRequest indica requisição inválida
	ErrInvalidRequest = errors.New("efi: requisição inválida")

	// ErrConflict indica que já existe uma cobrança com o mesmo txid
	ErrConflict = errors.New("efi: txid já utilizado")

	// ErrRateLimited indica rate limiting
	ErrRateLimited = errors.New("efi: rate limit atingido")

	// ErrServerError indica erro interno do servidor Efí
	ErrServerError = errors.New("efi: erro do servidor")
)

// IsNotFound retorna true se o erro indica que o recurso não foi encontrado
func IsNotFound(err error) bool {
	return matches(err, ErrNotFound, func(e *APIError) bool {
		return e.Status == http.StatusNotFound || e.Nome == ErrCodeCobNotFound
	})
}

// IsUnauthorized retorna true se o erro indica falha de autenticação
func IsUnauthorized(err error) bool {
	return matches(err, ErrUnauthorized, func(e *APIError) bool {
		return e.Status == http.StatusUnauthorized
	})
}

// IsRateLimited retorna true se o erro indica rate limiting
func IsRateLimited(err error) bool {
	return matches(err, ErrRateLimited, func(e *APIError) bool {
		return e.Status == http.StatusTooManyRequests
	})
}

// IsServerError retorna true se o erro é do servidor (5xx)
func IsServerError(err error) bool {
	return matches(err, ErrServerError, func(e *APIError) bool {
		return e.Status >= 500
	})
}

func matches(err, sentinel error, check func(*APIError) bool) bool {
	if errors.Is(err, sentinel) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return check(apiErr)
	}
	return false
}

// ClassifyError converte um erro da API para um erro sentinela quando apropriado
func ClassifyError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Error())
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error())
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Error())
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, apiErr.Error())
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, apiErr.Error())
	}

	if apiErr.Status >= 500 {
		return fmt.Errorf("%w: %s", ErrServerError, apiErr.Error())
	}

	return err
}

// ValidationError representa um erro de validação com detalhes do campo
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("erro de validação no campo '%s': %s", e.Field, e.Message)
}

// NewValidationError cria um novo ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// WrapAPIError envolve um erro com contexto adicional
func WrapAPIError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("efi %s: %w", operation, ClassifyError(err))
}
