package efi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/magnani/pixcode/internal/config"
	"github.com/magnani/pixcode/internal/domain"
	"github.com/magnani/pixcode/internal/ports"
	"github.com/magnani/pixcode/internal/testenv"
)

const (
	testPixKey = "aae2196f-5f93-46e4-89e6-73bf4138427b"
	testTxID   = "7978c0c97ea847e78e8849634473c1f1"
	testCode   = "00020101021226830014BR.GOV.BCB.PIX2561qrcodespix.sejaefi.com.br/v2/41e0badf811a4ce6ad8a80b306821fce5204000053039865802BR5906EFI SA6009SAO PAULO62070503***630475A9"
)

// fakeEfi simula os endpoints usados da API Efí
type fakeEfi struct {
	tokens   int32
	lastBody map[string]interface{}
}

func (f *fakeEfi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/oauth/token" {
		if user, pass, ok := r.BasicAuth(); !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"nome":"invalid_client","mensagem":"credenciais inválidas"}`)
			return
		}
		atomic.AddInt32(&f.tokens, 1)
		io.WriteString(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
		return
	}

	if r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if r.Body != nil {
		body, _ := io.ReadAll(r.Body)
		f.lastBody = nil
		_ = json.Unmarshal(body, &f.lastBody)
	}

	switch {
	case r.Method == http.MethodPut && r.URL.Path == "/v2/cob/"+testTxID,
		r.Method == http.MethodPost && r.URL.Path == "/v2/cob",
		r.Method == http.MethodGet && r.URL.Path == "/v2/cob/"+testTxID:
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{
			"calendario": {"criacao": "2024-03-01T10:00:00.000Z", "expiracao": 3600},
			"txid": "`+testTxID+`",
			"revisao": 0,
			"loc": {"id": 789, "location": "qrcodespix.sejaefi.com.br/v2/41e0badf811a4ce6ad8a80b306821fce", "tipoCob": "cob"},
			"status": "ATIVA",
			"valor": {"original": "109.90"},
			"chave": "`+testPixKey+`",
			"pixCopiaECola": "`+testCode+`"
		}`)
	case r.Method == http.MethodPatch && r.URL.Path == "/v2/cob/"+testTxID:
		io.WriteString(w, `{"txid":"`+testTxID+`","status":"REMOVIDA_PELO_USUARIO_RECEBEDOR"}`)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/v2/pix/E123/devolucao/"):
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"d1","status":"EM_PROCESSAMENTO"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"nome":"cobranca_nao_encontrada","mensagem":"Nenhuma cobrança encontrada para o txid informado."}`)
	}
}

func newTestClient(t *testing.T) (*Client, *fakeEfi) {
	fake := &fakeEfi{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := &config.EfiConfig{ClientID: "client", ClientSecret: "secret", PixURL: srv.URL + "/"}
	client, err := NewClientWithHTTP(cfg, testPixKey, srv.Client())
	if err != nil {
		t.Fatalf("NewClientWithHTTP() error = %v", err)
	}
	return client, fake
}

func TestCreatePixCharge(t *testing.T) {
	assert, require := testenv.MakeAR(t)
	client, fake := newTestClient(t)

	resp, err := client.CreatePixCharge(context.Background(), &ports.PixChargeRequest{
		TxID:          testTxID,
		Amount:        10990,
		Description:   "Mensalidade",
		PayerName:     "João Silva",
		PayerDocument: "192.794.630-12",
	})
	require.NoError(err)
	assert.Equal(testTxID, resp.TxID)
	assert.Equal(CobStatusActive, resp.Status)
	assert.Equal(domain.ChargeStatusPending, resp.State)
	assert.Equal(testCode, resp.PixCode)
	assert.Equal(int64(10990), resp.Amount)
	assert.Equal(3600, resp.ExpiresIn)
	assert.Equal("qrcodespix.sejaefi.com.br/v2/41e0badf811a4ce6ad8a80b306821fce", resp.Location)

	assert.Equal(testPixKey, fake.lastBody["chave"])
	assert.Equal("109.90", fake.lastBody["valor"].(map[string]interface{})["original"])
	assert.Equal("19279463012", fake.lastBody["devedor"].(map[string]interface{})["cpf"])

	_, err = client.GetPixCharge(context.Background(), testTxID)
	require.NoError(err)
	assert.Equal(int32(1), atomic.LoadInt32(&fake.tokens))
}

func TestCreatePixChargeValidation(t *testing.T) {
	assert, _ := testenv.MakeAR(t)
	client, _ := newTestClient(t)

	_, err := client.CreatePixCharge(context.Background(), &ports.PixChargeRequest{Amount: 0})
	var validation *ValidationError
	assert.ErrorAs(err, &validation)
	assert.Equal("valor", validation.Field)

	_, err = client.CreatePixCharge(context.Background(), &ports.PixChargeRequest{Amount: 100, TxID: "curto"})
	assert.ErrorAs(err, &validation)
	assert.Equal("txid", validation.Field)
}

func TestGetPixChargeNotFound(t *testing.T) {
	assert, _ := testenv.MakeAR(t)
	client, _ := newTestClient(t)

	_, err := client.GetPixCharge(context.Background(), "inexistente")
	assert.True(IsNotFound(err))
	assert.Contains(err.Error(), "consultar cobrança")
	assert.ErrorIs(err, ports.ErrNotFound)

	err = client.CancelPixCharge(context.Background(), "inexistente")
	assert.ErrorIs(err, ports.ErrNotFound)
}

func TestCancelAndRefund(t *testing.T) {
	assert, _ := testenv.MakeAR(t)
	client, fake := newTestClient(t)

	assert.NoError(client.CancelPixCharge(context.Background(), testTxID))
	assert.Equal(CobStatusRemovedByUser, fake.lastBody["status"])

	assert.NoError(client.RefundPix(context.Background(), "E123", 500))
	assert.Equal("5.00", fake.lastBody["valor"])

	assert.Error(client.RefundPix(context.Background(), "E123", 0))
}

func TestTokenManagerUnauthorized(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	srv := httptest.NewServer(&fakeEfi{})
	defer srv.Close()

	tm := NewTokenManager("client", "errado", srv.URL, srv.Client())
	_, err := tm.GetToken(context.Background())
	assert.ErrorIs(err, ErrUnauthorized)
	assert.True(IsUnauthorized(err))
}

func TestNewClientInvalidPixKey(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	_, err := NewClientWithHTTP(&config.EfiConfig{}, "chave", http.DefaultClient)
	assert.Error(err)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		check    func(error) bool
		sentinel error
	}{
		{"404", &APIError{Status: 404, Mensagem: "Not found"}, IsNotFound, ErrNotFound},
		{"401", &APIError{Status: 401}, IsUnauthorized, ErrUnauthorized},
		{"429", &APIError{Status: 429}, IsRateLimited, ErrRateLimited},
		{"503", &APIError{Status: 503}, IsServerError, ErrServerError},
		{"409", &APIError{Status: 409}, func(error) bool { return true }, ErrConflict},
		{"400", &APIError{Status: 400}, func(error) bool { return true }, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, _ := testenv.MakeAR(t)
			assert.True(tt.check(tt.err))
			assert.ErrorIs(ClassifyError(tt.err), tt.sentinel)
			assert.ErrorIs(WrapAPIError("operação", tt.err), tt.sentinel)
		})
	}

	assert, _ := testenv.MakeAR(t)
	assert.True(IsNotFound(&APIError{Status: 400, Nome: ErrCodeCobNotFound}))
	assert.False(IsNotFound(&APIError{Status: 400}))
	assert.Nil(WrapAPIError("operação", nil))
}

func TestChargeStatus(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	assert.Equal(domain.ChargeStatusPending, ChargeStatus(CobStatusActive))
	assert.Equal(domain.ChargeStatusConfirmed, ChargeStatus(CobStatusCompleted))
	assert.Equal(domain.ChargeStatusCancelled, ChargeStatus(CobStatusRemovedByUser))
	assert.Equal(domain.ChargeStatusExpired, ChargeStatus(CobStatusRemovedByPSP))
}

func TestNewTxID(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	id := NewTxID()
	assert.Len(id, 32)
	assert.Regexp(txIDPattern, id)
	assert.NotEqual(id, NewTxID())
}
