// Package efi implementa o adaptador para a API PIX da Efí Bank (antiga Gerencianet).
//
// O pacote cobre as cobranças imediatas (cob): criação, consulta, cancelamento
// e devolução. O código copia e cola devolvido pela API é o mesmo formato EMV
// gerado e lido pelos pacotes payload e reader.
//
// # Autenticação
//
// A API Efí usa OAuth2 com mTLS (mutual TLS). Você precisa:
//   - Client ID e Client Secret (do painel Efí)
//   - Certificado .p12 (gerado no painel Efí)
//
// # Início Rápido
//
//	client, err := efi.NewClient(&cfg.Efi, "sua-chave-pix")
//
//	charge, err := client.CreatePixCharge(ctx, &ports.PixChargeRequest{
//	    Amount:      9990,
//	    Description: "Mensalidade Academia",
//	    ExpiresIn:   3600,
//	})
//
// # Tratamento de Erros
//
//	if efi.IsNotFound(err) {
//	    // Cobrança não existe
//	}
//
// # Documentação da API
//
// https://dev.efipay.com.br
package efi

import "github.com/magnani/pixcode/internal/logging"

var logger = logging.New("Efi")
