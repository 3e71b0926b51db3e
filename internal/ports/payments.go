// Package ports define as interfaces (portas) para adaptadores externos
// Seguindo o padrão Hexagonal Architecture / Ports & Adapters
package ports

import (
	"context"
	"errors"

	"github.com/magnani/pixcode/internal/domain"
)

// ErrNotFound indica que a cobrança não existe no provedor
var ErrNotFound = errors.New("recurso não encontrado")

// PixChargeRequest representa uma requisição para criar cobrança PIX imediata
type PixChargeRequest struct {
	TxID        string // Identificador único da transação (opcional, será gerado se vazio)
	Amount      int64  // Valor em centavos
	Description string // Solicitação ao pagador
	ExpiresIn   int    // Tempo de expiração em segundos (ex: 3600 para 1 hora)

	// Dados do pagador
	PayerName     string
	PayerDocument string // CPF ou CNPJ
}

// PixChargeResponse representa uma cobrança PIX no provedor
type PixChargeResponse struct {
	TxID      string // Identificador da transação
	Status    string // Status no provedor (ex: ATIVA, CONCLUIDA)
	State     domain.ChargeStatus
	Location  string // URL do payload, usada nos códigos dinâmicos
	PixCode   string // Código PIX copia e cola
	Amount    int64  // Valor em centavos
	CreatedAt string // Data/hora de criação
	ExpiresIn int    // Expiração em segundos a partir da criação
}

// PixProvider define a interface para o gateway PIX (Efí Bank)
type PixProvider interface {
	// CreatePixCharge cria uma nova cobrança PIX imediata
	CreatePixCharge(ctx context.Context, req *PixChargeRequest) (*PixChargeResponse, error)

	// GetPixCharge consulta uma cobrança PIX pelo txid
	GetPixCharge(ctx context.Context, txid string) (*PixChargeResponse, error)

	// CancelPixCharge cancela uma cobrança PIX pendente
	CancelPixCharge(ctx context.Context, txid string) error

	// RefundPix solicita devolução de um PIX recebido
	RefundPix(ctx context.Context, e2eID string, amount int64) error
}
