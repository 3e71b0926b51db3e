// Package main é o ponto de entrada da API de códigos Pix
package main

import (
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/magnani/pixcode/internal/adapters/efi"
	"github.com/magnani/pixcode/internal/config"
	"github.com/magnani/pixcode/internal/handlers"
	"github.com/magnani/pixcode/internal/logging"
	"github.com/magnani/pixcode/internal/ports"
	"github.com/magnani/pixcode/internal/qrcode"
)

var logger = logging.New("Main")

func main() {
	defer logger.Sync()
	logger.Info("💠 Iniciando Pix API...")

	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("❌ Erro ao carregar configurações", zap.Error(err))
	}

	logger.Info("📦 Ambiente", zap.String("env", cfg.Env))

	level, err := qrcode.ParseLevel(cfg.QRCode.Level)
	if err != nil {
		logger.Fatal("❌ Nível de correção inválido", zap.Error(err))
	}
	renderer, err := qrcode.NewRenderer(qrcode.Options{Size: cfg.QRCode.Size, Level: level}, cfg.QRCode.CacheSize)
	if err != nil {
		logger.Fatal("❌ Erro ao criar gerador de QR Code", zap.Error(err))
	}

	// O cliente Efí só é criado com credenciais e certificado
	var provider ports.PixProvider
	if cfg.Efi.Enabled() {
		if _, err := os.Stat(cfg.Efi.CertificatePath); err == nil {
			efiClient, err := efi.NewClient(&cfg.Efi, cfg.Merchant.PixKey)
			if err != nil {
				logger.Warn("⚠️  Erro ao inicializar cliente Efí", zap.Error(err))
			} else {
				provider = efiClient
				logger.Info("✅ Cliente Efí inicializado", zap.Bool("sandbox", cfg.Efi.Sandbox))
			}
		} else {
			logger.Warn("⚠️  Certificado não encontrado, o cliente Efí não será inicializado",
				zap.String("path", cfg.Efi.CertificatePath))
		}
	}

	// Configura o router
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", handlers.HealthCheck)
	mux.HandleFunc("/api/health", handlers.HealthCheck)

	pixHandler := handlers.NewPixHandler(cfg.Merchant, renderer, provider,
		time.Duration(cfg.Efi.ExpiresIn)*time.Second)
	pixHandler.Register(mux)
	if provider != nil {
		logger.Info("📨 Endpoint de cobranças registrado: /api/pix/charges")
	}

	// Inicia o servidor
	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("🚀 Servidor rodando", zap.String("url", "http://localhost"+addr))
	logger.Info("🏥 Health check", zap.String("url", "http://localhost"+addr+"/health"))

	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("❌ Erro ao iniciar servidor", zap.Error(err))
	}
}
