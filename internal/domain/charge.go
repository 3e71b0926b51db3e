// Package domain contém as entidades da aplicação
package domain

import "time"

// ChargeStatus representa o estado de uma cobrança
type ChargeStatus string

const (
	ChargeStatusPending   ChargeStatus = "pending"
	ChargeStatusConfirmed ChargeStatus = "confirmed"
	ChargeStatusCancelled ChargeStatus = "cancelled"
	ChargeStatusRefunded  ChargeStatus = "refunded"
	ChargeStatusExpired   ChargeStatus = "expired"
)

// ChargeKind diferencia cobranças com código estático ou dinâmico
type ChargeKind string

const (
	ChargeKindStatic  ChargeKind = "static"
	ChargeKindDynamic ChargeKind = "dynamic"
)

// Charge representa uma cobrança com o código Pix gerado para ela
type Charge struct {
	TxID        string       `json:"txid"`
	Kind        ChargeKind   `json:"kind"`
	Amount      int64        `json:"amount"` // Valor em centavos
	Description string       `json:"description,omitempty"`
	Status      ChargeStatus `json:"status"`
	PixCode     string       `json:"pix_code"`
	PixQRCode   string       `json:"pix_qr_code,omitempty"` // Imagem em data URI
	Location    string       `json:"location,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	PaidAt      *time.Time   `json:"paid_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewCharge cria uma nova cobrança pendente
func NewCharge(txid string, kind ChargeKind, amountInCents int64, pixCode string) *Charge {
	now := time.Now()
	return &Charge{
		TxID:      txid,
		Kind:      kind,
		Amount:    amountInCents,
		Status:    ChargeStatusPending,
		PixCode:   pixCode,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ExpireIn define a expiração a partir da criação
func (c *Charge) ExpireIn(d time.Duration) {
	if d <= 0 {
		c.ExpiresAt = nil
		return
	}
	at := c.CreatedAt.Add(d)
	c.ExpiresAt = &at
}

// IsPaid verifica se a cobrança foi paga
func (c *Charge) IsPaid() bool {
	return c.Status == ChargeStatusConfirmed
}

// IsExpired verifica se a cobrança expirou
func (c *Charge) IsExpired() bool {
	if c.Status == ChargeStatusExpired {
		return true
	}
	if c.ExpiresAt == nil || c.IsPaid() {
		return false
	}
	return time.Now().After(*c.ExpiresAt)
}

// AmountInReais retorna o valor em reais
func (c *Charge) AmountInReais() float64 {
	return float64(c.Amount) / 100
}

// Confirm marca a cobrança como paga
func (c *Charge) Confirm() {
	now := time.Now()
	c.Status = ChargeStatusConfirmed
	c.PaidAt = &now
	c.UpdatedAt = now
}

// Cancel marca a cobrança como cancelada
func (c *Charge) Cancel() {
	c.Status = ChargeStatusCancelled
	c.UpdatedAt = time.Now()
}

// Expire marca a cobrança como expirada
func (c *Charge) Expire() {
	c.Status = ChargeStatusExpired
	c.UpdatedAt = time.Now()
}

// Refund marca a cobrança como devolvida
func (c *Charge) Refund() {
	c.Status = ChargeStatusRefunded
	c.UpdatedAt = time.Now()
}
