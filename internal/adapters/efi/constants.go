package efi

import "github.com/magnani/pixcode/internal/domain"

const (
	// Produção
	PixURLProd = "https://pix.api.efipay.com.br"

	// Sandbox/Homologação
	PixURLSandbox = "https://pix-h.api.efipay.com.br"
)

// Status de uma cobrança imediata
const (
	CobStatusActive        = "ATIVA"
	CobStatusCompleted     = "CONCLUIDA"
	CobStatusRemovedByUser = "REMOVIDA_PELO_USUARIO_RECEBEDOR"
	CobStatusRemovedByPSP  = "REMOVIDA_PELO_PSP"
)

const (
	defaultExpiration = 3600

	// Tamanho aceito para o txid de uma cobrança imediata
	txIDMinLength = 26
	txIDMaxLength = 35
)

// ChargeStatus converte o status da cobrança Efí no status do domínio
func ChargeStatus(status string) domain.ChargeStatus {
	switch status {
	case CobStatusCompleted:
		return domain.ChargeStatusConfirmed
	case CobStatusRemovedByUser:
		return domain.ChargeStatusCancelled
	case CobStatusRemovedByPSP:
		return domain.ChargeStatusExpired
	}
	return domain.ChargeStatusPending
}
