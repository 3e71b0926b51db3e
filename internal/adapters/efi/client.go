package efi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/crypto/pkcs12"

	"github.com/magnani/pixcode/internal/config"
	"github.com/magnani/pixcode/internal/pixkey"
	"github.com/magnani/pixcode/internal/ports"
)

var txIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{26,35}$`)

// Client implementa ports.PixProvider para a API Efí Bank
type Client struct {
	baseURL      string
	pixKey       string // Chave PIX do recebedor
	expiresIn    int
	httpClient   *http.Client
	tokenManager *TokenManager
}

// NewClient cria um novo cliente Efí com mTLS configurado
func NewClient(cfg *config.EfiConfig, pixKey string) (*Client, error) {
	// Carrega o certificado para mTLS
	tlsConfig, err := loadCertificate(cfg.CertificatePath, cfg.CertificatePassword)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar certificado: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: tlsConfig,
		},
	}

	return NewClientWithHTTP(cfg, pixKey, httpClient)
}

// NewClientWithHTTP cria um cliente usando o http.Client informado
func NewClientWithHTTP(cfg *config.EfiConfig, pixKey string, httpClient *http.Client) (*Client, error) {
	if _, err := pixkey.KeyTypeOf(pixKey); err != nil {
		return nil, fmt.Errorf("chave PIX do recebedor inválida: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.PixURL, "/")
	if baseURL == "" {
		baseURL = PixURLProd
		if cfg.Sandbox {
			baseURL = PixURLSandbox
		}
	}

	expiresIn := cfg.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = defaultExpiration
	}

	return &Client{
		baseURL:      baseURL,
		pixKey:       pixKey,
		expiresIn:    expiresIn,
		httpClient:   httpClient,
		tokenManager: NewTokenManager(cfg.ClientID, cfg.ClientSecret, baseURL, httpClient),
	}, nil
}

// loadCertificate carrega um certificado .p12 para mTLS
func loadCertificate(certPath, password string) (*tls.Config, error) {
	certData, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler certificado: %w", err)
	}

	privateKey, certificate, err := pkcs12.Decode(certData, password)
	if err != nil {
		return nil, fmt.Errorf("erro ao decodificar certificado PKCS12: %w", err)
	}

	tlsCert := tls.Certificate{
		Certificate: [][]byte{certificate.Raw},
		PrivateKey:  privateKey,
	}

	return &tls.Config{
		Certificates: []tls.Certificate{tlsCert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// NewTxID gera um txid aceito pela API (32 caracteres alfanuméricos)
func NewTxID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// doRequest executa uma requisição HTTP autenticada
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar requisição: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro na requisição HTTP: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	logger.Debug("resposta da API",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokenManager.Invalidate()
		return nil, fmt.Errorf("%w: token inválido ou expirado", ErrUnauthorized)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{}
		if json.Unmarshal(respBody, apiErr) != nil {
			apiErr.Detail = string(respBody)
		}
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return nil, apiErr
	}

	return respBody, nil
}

// CreatePixCharge cria uma nova cobrança PIX imediata
func (c *Client) CreatePixCharge(ctx context.Context, req *ports.PixChargeRequest) (*ports.PixChargeResponse, error) {
	if req.Amount <= 0 {
		return nil, NewValidationError("valor", "deve ser maior que zero")
	}
	if req.TxID != "" && !txIDPattern.MatchString(req.TxID) {
		return nil, NewValidationError("txid", fmt.Sprintf("deve ter de %d a %d caracteres alfanuméricos", txIDMinLength, txIDMaxLength))
	}

	expiresIn := req.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = c.expiresIn
	}

	efiReq := PixCobRequest{
		Calendario:     PixCalendario{Expiracao: expiresIn},
		Valor:          PixValor{Original: formatCents(req.Amount)},
		Chave:          c.pixKey,
		SolicitacaoPag: req.Description,
	}

	if req.PayerName != "" || req.PayerDocument != "" {
		efiReq.Devedor = &PixDevedor{Nome: req.PayerName}
		switch doc := pixkey.ParseDocument(req.PayerDocument); len(doc) {
		case 11:
			efiReq.Devedor.CPF = doc
		case 14:
			efiReq.Devedor.CNPJ = doc
		}
	}

	// Com txid a cobrança é criada por PUT, sem txid a Efí gera um
	path, method := "/v2/cob", http.MethodPost
	if req.TxID != "" {
		path, method = "/v2/cob/"+req.TxID, http.MethodPut
	}

	respBody, err := c.doRequest(ctx, method, path, efiReq)
	if err != nil {
		return nil, WrapAPIError("criar cobrança", err)
	}

	return parseCharge(respBody), nil
}

// GetPixCharge consulta uma cobrança PIX pelo txid
func (c *Client) GetPixCharge(ctx context.Context, txid string) (*ports.PixChargeResponse, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/v2/cob/"+txid, nil)
	if err != nil {
		return nil, WrapAPIError("consultar cobrança", err)
	}

	return parseCharge(respBody), nil
}

// CancelPixCharge cancela uma cobrança PIX pendente
func (c *Client) CancelPixCharge(ctx context.Context, txid string) error {
	patchData := map[string]string{"status": CobStatusRemovedByUser}

	if _, err := c.doRequest(ctx, http.MethodPatch, "/v2/cob/"+txid, patchData); err != nil {
		return WrapAPIError("cancelar cobrança", err)
	}
	return nil
}

// RefundPix solicita devolução de um PIX recebido
func (c *Client) RefundPix(ctx context.Context, e2eID string, amount int64) error {
	if amount <= 0 {
		return NewValidationError("valor", "deve ser maior que zero")
	}

	refundID := NewTxID()
	path := fmt.Sprintf("/v2/pix/%s/devolucao/%s", e2eID, refundID)

	devReq := PixDevolucaoRequest{Valor: formatCents(amount)}
	if _, err := c.doRequest(ctx, http.MethodPut, path, devReq); err != nil {
		return WrapAPIError("solicitar devolução", err)
	}
	return nil
}

// parseCharge extrai os campos usados da resposta de uma cobrança
func parseCharge(body []byte) *ports.PixChargeResponse {
	res := gjson.ParseBytes(body)
	status := res.Get("status").String()
	return &ports.PixChargeResponse{
		TxID:      res.Get("txid").String(),
		Status:    status,
		State:     ChargeStatus(status),
		Location:  res.Get("loc.location").String(),
		PixCode:   res.Get("pixCopiaECola").String(),
		Amount:    int64(math.Round(res.Get("valor.original").Float() * 100)),
		CreatedAt: res.Get("calendario.criacao").String(),
		ExpiresIn: int(res.Get("calendario.expiracao").Int()),
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// Garante que Client implementa PixProvider
var _ ports.PixProvider = (*Client)(nil)
