// Package emv implementa o código Pix no formato EMV MPM (Merchant Presented Mode).
//
// O código é uma sequência de entradas TLV:
//
//	id (2 dígitos) + tamanho (2 dígitos) + valor
//
// Os campos compostos (26 e 62) carregam no valor outra sequência TLV. Ao final
// vem o rodapé 6304 seguido do CRC16 calculado sobre todo o código anterior,
// incluindo o próprio "6304".
//
// # Início Rápido
//
//	mpm := emv.NewMPM()
//	mpm.MerchantAccount().Leaf(emv.IDPixKey).SetValue("aae2196f-5f93-46e4-89e6-73bf4138427b")
//	mpm.Leaf(emv.IDMerchantName).SetValue("STUDIO PIGGLY")
//	mpm.Leaf(emv.IDMerchantCity).SetValue("Uberaba")
//	code, err := mpm.Export(false)
//
// # Cache
//
// Export memoriza o último código gerado. Alterar um campo não invalida o cache:
// passe regenerate=true depois de qualquer alteração.
package emv

import "github.com/magnani/pixcode/internal/logging"

var logger = logging.New("Emv")
