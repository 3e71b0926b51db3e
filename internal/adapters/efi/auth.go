package efi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// TokenManager gerencia tokens OAuth2 com refresh automático
// É thread-safe e cacheia o token até próximo da expiração
type TokenManager struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client

	mu          sync.RWMutex
	token       string
	expiresAt   time.Time
	refreshLead time.Duration // Tempo antes da expiração para fazer refresh
}

// NewTokenManager cria um novo gerenciador de tokens
func NewTokenManager(clientID, clientSecret, baseURL string, httpClient *http.Client) *TokenManager {
	return &TokenManager{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		httpClient:   httpClient,
		refreshLead:  60 * time.Second,
	}
}

// GetToken retorna um token válido, renovando se necessário
func (tm *TokenManager) GetToken(ctx context.Context) (string, error) {
	tm.mu.RLock()
	if tm.valid() {
		token := tm.token
		tm.mu.RUnlock()
		return token, nil
	}
	tm.mu.RUnlock()

	return tm.refresh(ctx)
}

// valid deve ser chamado com o lock adquirido
func (tm *TokenManager) valid() bool {
	return tm.token != "" && time.Now().Add(tm.refreshLead).Before(tm.expiresAt)
}

// refresh obtém um novo token da API
func (tm *TokenManager) refresh(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Outra goroutine pode ter renovado enquanto esperávamos o lock
	if tm.valid() {
		return tm.token, nil
	}

	body := strings.NewReader(`{"grant_type":"client_credentials"}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.baseURL+"/oauth/token", body)
	if err != nil {
		return "", fmt.Errorf("erro ao criar requisição de auth: %w", err)
	}
	req.SetBasicAuth(tm.clientID, tm.clientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro na requisição de auth: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("erro ao ler resposta de auth: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr APIError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Mensagem != "" {
			return "", fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Mensagem)
		}
		return "", fmt.Errorf("%w: status %d - %s", ErrUnauthorized, resp.StatusCode, string(respBody))
	}

	res := gjson.ParseBytes(respBody)
	token := res.Get("access_token").String()
	if token == "" {
		return "", fmt.Errorf("resposta de auth sem access_token")
	}

	tm.token = token
	tm.expiresAt = time.Now().Add(time.Duration(res.Get("expires_in").Int()) * time.Second)
	logger.Debug("token renovado", zap.Time("expiresAt", tm.expiresAt))

	return tm.token, nil
}

// Invalidate força a renovação do token na próxima chamada
// Útil quando recebemos erro 401
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.token = ""
	tm.expiresAt = time.Time{}
}
