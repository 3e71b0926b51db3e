// Package handlers contém os handlers HTTP da aplicação
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/magnani/pixcode/internal/config"
	"github.com/magnani/pixcode/internal/domain"
	"github.com/magnani/pixcode/internal/emv"
	"github.com/magnani/pixcode/internal/logging"
	"github.com/magnani/pixcode/internal/payload"
	"github.com/magnani/pixcode/internal/pixkey"
	"github.com/magnani/pixcode/internal/ports"
	"github.com/magnani/pixcode/internal/qrcode"
	"github.com/magnani/pixcode/internal/reader"
)

var logger = logging.New("Handlers")

const maxBodySize = 1 << 20

// PixHandler gera e lê códigos Pix
type PixHandler struct {
	merchant  config.MerchantConfig
	renderer  *qrcode.Renderer
	provider  ports.PixProvider // nil quando a Efí não está configurada
	chargeTTL time.Duration
}

// NewPixHandler cria o handler. provider pode ser nil.
func NewPixHandler(merchant config.MerchantConfig, renderer *qrcode.Renderer, provider ports.PixProvider, chargeTTL time.Duration) *PixHandler {
	return &PixHandler{
		merchant:  merchant,
		renderer:  renderer,
		provider:  provider,
		chargeTTL: chargeTTL,
	}
}

// Register registra as rotas do handler no mux
func (h *PixHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/pix/static", h.StaticCode)
	mux.HandleFunc("/api/pix/dynamic", h.DynamicCode)
	mux.HandleFunc("/api/pix/decode", h.Decode)
	mux.HandleFunc("/api/pix/qrcode", h.QRCode)
	if h.provider != nil {
		mux.HandleFunc("/api/pix/charges", h.CreateCharge)
		mux.HandleFunc("/api/pix/charges/", h.Charge)
	}
}

// MerchantRequest são os dados do recebedor. Campos vazios usam a configuração.
type MerchantRequest struct {
	Name       string `json:"merchant_name"`
	City       string `json:"merchant_city"`
	PostalCode string `json:"postal_code"`
}

// StaticRequest é o corpo de POST /api/pix/static
type StaticRequest struct {
	MerchantRequest
	KeyType        string  `json:"key_type"` // Detectado pela chave quando vazio
	Key            string  `json:"key"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	ReferenceLabel string  `json:"reference_label"`
	RandomLabel    bool    `json:"random_reference_label"`
	Strict         bool    `json:"strict"`
	WithQRCode     bool    `json:"qrcode"`
}

// DynamicRequest é o corpo de POST /api/pix/dynamic
type DynamicRequest struct {
	MerchantRequest
	URL        string `json:"url"`
	Strict     bool   `json:"strict"`
	WithQRCode bool   `json:"qrcode"`
}

// CodeResponse é a resposta com o código gerado
type CodeResponse struct {
	Kind    payload.Kind `json:"kind"`
	PixCode string       `json:"pix_code"`
	QRCode  string       `json:"qr_code,omitempty"` // Imagem em data URI
}

// DecodeRequest é o corpo de POST /api/pix/decode
type DecodeRequest struct {
	Code string `json:"code"`
}

// FieldResponse é um campo lido do código
type FieldResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DecodeResponse descreve o código lido
type DecodeResponse struct {
	Kind           payload.Kind    `json:"kind"`
	CRCValid       bool            `json:"crc_valid"`
	PixKey         string          `json:"pix_key,omitempty"`
	KeyType        pixkey.KeyType  `json:"key_type,omitempty"`
	Description    string          `json:"description,omitempty"`
	URL            string          `json:"url,omitempty"`
	Amount         *float64        `json:"amount,omitempty"`
	MerchantName   string          `json:"merchant_name,omitempty"`
	MerchantCity   string          `json:"merchant_city,omitempty"`
	PostalCode     string          `json:"postal_code,omitempty"`
	ReferenceLabel string          `json:"reference_label,omitempty"`
	Fields         []FieldResponse `json:"fields"`
}

// ChargeRequest é o corpo de POST /api/pix/charges
type ChargeRequest struct {
	TxID          string `json:"txid"`
	Amount        int64  `json:"amount"` // Valor em centavos
	Description   string `json:"description"`
	PayerName     string `json:"payer_name"`
	PayerDocument string `json:"payer_document"`
}

// StaticCode gera um código estático
// Endpoint: POST /api/pix/static
func (h *PixHandler) StaticCode(w http.ResponseWriter, r *http.Request) {
	var req StaticRequest
	if !decodeBody(w, r, &req) {
		return
	}

	key := req.Key
	if key == "" {
		key = h.merchant.PixKey
	}

	var (
		keyType pixkey.KeyType
		err     error
	)
	if req.KeyType != "" {
		keyType, err = pixkey.ParseKeyType(req.KeyType)
	} else {
		keyType, err = pixkey.KeyTypeOf(key)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := payload.NewStatic()
	if req.Strict {
		p.Strict()
	}
	p.SetPixKey(keyType, key).
		SetMerchantName(h.merchantName(req.MerchantRequest)).
		SetMerchantCity(h.merchantCity(req.MerchantRequest)).
		SetDescription(req.Description).
		SetAmount(req.Amount)

	if postal := h.postalCode(req.MerchantRequest); postal != "" {
		p.SetPostalCode(postal)
	}
	switch {
	case req.RandomLabel:
		p.SetReferenceLabel("")
	case req.ReferenceLabel != "":
		p.SetReferenceLabel(req.ReferenceLabel)
	}

	h.writeCode(w, p, req.WithQRCode)
}

// DynamicCode gera um código dinâmico
// Endpoint: POST /api/pix/dynamic
func (h *PixHandler) DynamicCode(w http.ResponseWriter, r *http.Request) {
	var req DynamicRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p := payload.NewDynamic()
	if req.Strict {
		p.Strict()
	}
	p.SetURL(req.URL).
		SetMerchantName(h.merchantName(req.MerchantRequest)).
		SetMerchantCity(h.merchantCity(req.MerchantRequest))

	if postal := h.postalCode(req.MerchantRequest); postal != "" {
		p.SetPostalCode(postal)
	}

	h.writeCode(w, p, req.WithQRCode)
}

// Decode lê um código Pix
// Endpoint: POST /api/pix/decode
func (h *PixHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rd, err := reader.New(req.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, Describe(rd))
}

// QRCode retorna a imagem PNG de um código Pix
// Endpoint: GET /api/pix/qrcode?code=...&size=256&level=M
func (h *PixHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	query := r.URL.Query()
	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "parâmetro code é obrigatório")
		return
	}

	opts := h.renderer.Options()
	if size := query.Get("size"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n <= 0 || n > 2048 {
			writeError(w, http.StatusBadRequest, "parâmetro size inválido")
			return
		}
		opts.Size = n
	}
	if level := query.Get("level"); level != "" {
		l, err := qrcode.ParseLevel(level)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Level = l
	}

	img, err := h.renderer.PNGWith(code, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// CreateCharge cria uma cobrança imediata no provedor e devolve o código dinâmico
// Endpoint: POST /api/pix/charges
func (h *PixHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "provedor Pix não configurado")
		return
	}

	var req ChargeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount deve ser maior que zero")
		return
	}

	resp, err := h.provider.CreatePixCharge(r.Context(), &ports.PixChargeRequest{
		TxID:          req.TxID,
		Amount:        req.Amount,
		Description:   req.Description,
		ExpiresIn:     int(h.chargeTTL / time.Second),
		PayerName:     req.PayerName,
		PayerDocument: req.PayerDocument,
	})
	if err != nil {
		writeProviderError(w, err)
		return
	}

	charge, err := h.charge(resp)
	if err != nil {
		logger.Warn("código Pix inválido na cobrança", zap.String("txid", resp.TxID), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	charge.Description = req.Description

	logger.Info("cobrança criada", zap.String("txid", charge.TxID), zap.Int64("amount", charge.Amount))
	writeJSON(w, http.StatusCreated, charge)
}

// Charge atende as rotas de uma cobrança existente
// Endpoints: GET e DELETE /api/pix/charges/{txid}, POST /api/pix/charges/{txid}/refund
func (h *PixHandler) Charge(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "provedor Pix não configurado")
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/pix/charges/"), "/")
	txid := parts[0]
	if txid == "" || len(parts) > 2 || (len(parts) == 2 && parts[1] != "refund") {
		writeError(w, http.StatusNotFound, "cobrança não encontrada")
		return
	}

	switch {
	case len(parts) == 2:
		h.refundCharge(w, r, txid)
	case r.Method == http.MethodGet:
		h.getCharge(w, r, txid)
	case r.Method == http.MethodDelete:
		h.cancelCharge(w, r, txid)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Método não permitido")
	}
}

// RefundRequest é o corpo de POST /api/pix/charges/{txid}/refund
type RefundRequest struct {
	E2EID  string `json:"e2e_id"`
	Amount int64  `json:"amount"` // Em centavos. Zero devolve o valor da cobrança.
}

func (h *PixHandler) getCharge(w http.ResponseWriter, r *http.Request, txid string) {
	charge, ok := h.fetchCharge(w, r, txid)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, charge)
}

func (h *PixHandler) cancelCharge(w http.ResponseWriter, r *http.Request, txid string) {
	if err := h.provider.CancelPixCharge(r.Context(), txid); err != nil {
		writeProviderError(w, err)
		return
	}

	charge, ok := h.fetchCharge(w, r, txid)
	if !ok {
		return
	}
	charge.Cancel()

	logger.Info("cobrança cancelada", zap.String("txid", txid))
	writeJSON(w, http.StatusOK, charge)
}

func (h *PixHandler) refundCharge(w http.ResponseWriter, r *http.Request, txid string) {
	var req RefundRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.E2EID == "" || req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "e2e_id é obrigatório e amount não pode ser negativo")
		return
	}

	charge, ok := h.fetchCharge(w, r, txid)
	if !ok {
		return
	}
	if !charge.IsPaid() {
		writeError(w, http.StatusConflict, "a cobrança não foi paga")
		return
	}

	amount := req.Amount
	if amount == 0 {
		amount = charge.Amount
	}
	if amount > charge.Amount {
		writeError(w, http.StatusBadRequest, "amount maior que o valor da cobrança")
		return
	}

	if err := h.provider.RefundPix(r.Context(), req.E2EID, amount); err != nil {
		writeProviderError(w, err)
		return
	}
	charge.Refund()

	logger.Info("devolução solicitada", zap.String("txid", txid), zap.Int64("amount", amount))
	writeJSON(w, http.StatusOK, charge)
}

// fetchCharge consulta a cobrança e responde o erro quando falha
func (h *PixHandler) fetchCharge(w http.ResponseWriter, r *http.Request, txid string) (*domain.Charge, bool) {
	resp, err := h.provider.GetPixCharge(r.Context(), txid)
	if err != nil {
		writeProviderError(w, err)
		return nil, false
	}

	charge, err := h.charge(resp)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return nil, false
	}
	return charge, true
}

// charge monta a cobrança do domínio a partir da resposta do provedor
func (h *PixHandler) charge(resp *ports.PixChargeResponse) (*domain.Charge, error) {
	rd, err := reader.New(resp.PixCode)
	if err != nil {
		return nil, err
	}

	kind := domain.ChargeKindStatic
	if rd.Kind() == payload.KindDynamic {
		kind = domain.ChargeKindDynamic
	}

	charge := domain.NewCharge(resp.TxID, kind, resp.Amount, resp.PixCode)
	switch resp.State {
	case domain.ChargeStatusConfirmed:
		charge.Confirm()
	case domain.ChargeStatusCancelled:
		charge.Cancel()
	case domain.ChargeStatusExpired:
		charge.Expire()
	case domain.ChargeStatusRefunded:
		charge.Refund()
	}
	if created, err := time.Parse(time.RFC3339, resp.CreatedAt); err == nil {
		charge.CreatedAt = created
	}
	if url, ok := rd.URL(); ok {
		charge.Location = url
	} else {
		charge.Location = resp.Location
	}

	ttl := h.chargeTTL
	if resp.ExpiresIn > 0 {
		ttl = time.Duration(resp.ExpiresIn) * time.Second
	}
	charge.ExpireIn(ttl)

	if charge.PixQRCode, err = h.renderer.DataURI(resp.PixCode); err != nil {
		return nil, err
	}
	return charge, nil
}

func (h *PixHandler) merchantName(req MerchantRequest) string {
	if req.Name != "" {
		return req.Name
	}
	return h.merchant.Name
}

func (h *PixHandler) merchantCity(req MerchantRequest) string {
	if req.City != "" {
		return req.City
	}
	return h.merchant.City
}

func (h *PixHandler) postalCode(req MerchantRequest) string {
	if req.PostalCode != "" {
		return req.PostalCode
	}
	return h.merchant.PostalCode
}

type codePayload interface {
	payload.Payload
	QRCode(enc payload.ImageEncoder) (string, error)
}

func (h *PixHandler) writeCode(w http.ResponseWriter, p codePayload, withQRCode bool) {
	code, err := p.PixCode(false)
	if err != nil {
		writeErrors(w, err)
		return
	}

	resp := CodeResponse{Kind: p.Kind(), PixCode: code}
	if withQRCode {
		if resp.QRCode, err = p.QRCode(h.renderer); err != nil {
			logger.Warn("erro ao gerar QR Code", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "erro ao gerar QR Code")
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Describe monta a resposta de leitura de um código
func Describe(rd *reader.Reader) DecodeResponse {
	resp := DecodeResponse{
		Kind:     rd.Kind(),
		CRCValid: emv.CheckCRC(rd.Raw()),
		Fields:   flatten(rd.MPM().Fields(), ""),
	}

	resp.PixKey, _ = rd.PixKey()
	if resp.PixKey != "" {
		resp.KeyType, _ = rd.KeyType()
	}
	resp.Description, _ = rd.Description()
	resp.URL, _ = rd.URL()
	if amount, ok := rd.Amount(); ok {
		resp.Amount = &amount
	}
	resp.MerchantName, _ = rd.MerchantName()
	resp.MerchantCity, _ = rd.MerchantCity()
	resp.PostalCode, _ = rd.PostalCode()
	resp.ReferenceLabel, _ = rd.ReferenceLabel()
	return resp
}

// flatten lista os campos com valor. Subcampos usam o id "26.01".
func flatten(nodes []emv.Node, prefix string) []FieldResponse {
	fields := []FieldResponse{}
	for _, n := range nodes {
		id := prefix + n.ID()
		switch n := n.(type) {
		case *emv.Field:
			if n.HasValue() {
				fields = append(fields, FieldResponse{ID: id, Name: n.Name(), Value: n.Value()})
			}
		case *emv.MultiField:
			fields = append(fields, flatten(n.Fields(), id+".")...)
		}
	}
	return fields
}

// decodeBody lê o corpo JSON de uma requisição POST
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		logger.Debug("corpo inválido", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return false
	}
	return true
}

// ErrorResponse é o corpo das respostas de erro
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("erro ao escrever resposta", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeProviderError responde 404 para cobranças inexistentes e 502 para as demais falhas
func writeProviderError(w http.ResponseWriter, err error) {
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	logger.Warn("erro no provedor Pix", zap.Error(err))
	writeError(w, http.StatusBadGateway, err.Error())
}

// writeErrors responde 400 com cada erro acumulado na montagem do código
func writeErrors(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: "código Pix inválido"}
	for _, e := range multierr.Errors(err) {
		resp.Details = append(resp.Details, e.Error())
	}
	var missing *emv.RequiredFieldMissingError
	if errors.As(err, &missing) {
		resp.Error = "campo obrigatório ausente"
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// HealthCheck endpoint para verificar se o servidor está funcionando
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pixcode-api",
	})
}
