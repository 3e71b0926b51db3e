// Package config gerencia as configurações do aplicativo
// carregando variáveis de ambiente do arquivo .env
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

// Config armazena todas as configurações da aplicação
type Config struct {
	// Servidor
	Port string
	Env  string

	// Recebedor padrão dos códigos gerados
	Merchant MerchantConfig

	// Imagens de QR Code
	QRCode QRCodeConfig

	// Efí Bank
	Efi EfiConfig
}

// MerchantConfig armazena os dados do recebedor usados quando a requisição não informa
type MerchantConfig struct {
	PixKey     string
	Name       string
	City       string
	PostalCode string
}

// QRCodeConfig armazena as opções de geração de imagem
type QRCodeConfig struct {
	Size      int
	Level     string
	CacheSize int
}

// EfiConfig armazena configurações específicas da Efí Bank
type EfiConfig struct {
	ClientID            string
	ClientSecret        string
	CertificatePath     string
	CertificatePassword string
	Sandbox             bool
	PixURL              string
	ExpiresIn           int // Expiração padrão das cobranças, em segundos
}

// Enabled informa se há credenciais suficientes para criar o cliente Efí
func (c *EfiConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.CertificatePath != ""
}

// Load carrega as configurações do arquivo .env e variáveis de ambiente
// O arquivo .env é opcional - variáveis de ambiente têm prioridade
func Load() (*Config, error) {
	// Tenta carregar .env (ignora erro se não existir)
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),
		Merchant: MerchantConfig{
			PixKey:     getEnv("PIX_KEY", ""),
			Name:       getEnv("PIX_MERCHANT_NAME", ""),
			City:       getEnv("PIX_MERCHANT_CITY", ""),
			PostalCode: getEnv("PIX_POSTAL_CODE", ""),
		},
		QRCode: QRCodeConfig{
			Size:      getEnvInt("QRCODE_SIZE", 256),
			Level:     getEnv("QRCODE_ECC", "M"),
			CacheSize: getEnvInt("QRCODE_CACHE_SIZE", 128),
		},
		Efi: EfiConfig{
			ClientID:            getEnv("EFI_CLIENT_ID", ""),
			ClientSecret:        getEnv("EFI_CLIENT_SECRET", ""),
			CertificatePath:     getEnv("EFI_CERTIFICATE_PATH", ""),
			CertificatePassword: getEnv("EFI_CERTIFICATE_PASSWORD", ""),
			Sandbox:             getEnvBool("EFI_SANDBOX", true),
			PixURL:              getEnv("EFI_PIX_URL", ""), // Vazio usa a URL de produção ou sandbox
			ExpiresIn:           getEnvInt("EFI_EXPIRES_IN", 3600),
		},
	}

	// Validação básica
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate verifica se as configurações têm valores aceitáveis
func (c *Config) validate() error {
	var errs []error
	if c.QRCode.Size <= 0 {
		errs = append(errs, fmt.Errorf("QRCODE_SIZE deve ser positivo"))
	}
	if c.QRCode.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("QRCODE_CACHE_SIZE deve ser positivo"))
	}
	switch c.QRCode.Level {
	case "L", "M", "Q", "H":
	default:
		errs = append(errs, fmt.Errorf("QRCODE_ECC deve ser L, M, Q ou H"))
	}
	if c.Efi.ClientID != "" && c.Efi.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("EFI_CLIENT_SECRET é obrigatório quando EFI_CLIENT_ID é informado"))
	}
	return multierr.Combine(errs...)
}

// IsDevelopment retorna true se estiver em ambiente de desenvolvimento
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction retorna true se estiver em ambiente de produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv obtém uma variável de ambiente ou retorna o valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool obtém uma variável de ambiente como bool
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvInt obtém uma variável de ambiente como int
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
