// Package qrcode gera a imagem do QR Code a partir do código Pix.
//
// As imagens geradas ficam em um cache LRU indexado pelo código e pelas opções.
package qrcode

import (
	"encoding/base64"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	goqrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/magnani/pixcode/internal/logging"
)

var logger = logging.New("QRCode")

// Level define o nível de correção de erro
type Level string

const (
	LevelLow     Level = "L"
	LevelMedium  Level = "M"
	LevelQuart   Level = "Q"
	LevelHighest Level = "H"
)

// ParseLevel converte uma letra em Level
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelLow, LevelMedium, LevelQuart, LevelHighest:
		return l, nil
	}
	return "", fmt.Errorf("nível de correção inválido: %q", s)
}

func (l Level) recovery() goqrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return goqrcode.Low
	case LevelQuart:
		return goqrcode.High
	case LevelHighest:
		return goqrcode.Highest
	}
	return goqrcode.Medium
}

// Options configura a imagem gerada
type Options struct {
	Size  int   // Lado da imagem em pixels
	Level Level // Nível de correção de erro
}

// DefaultOptions são as opções usadas quando nada é informado
var DefaultOptions = Options{Size: 256, Level: LevelMedium}

// Renderer gera e guarda em cache as imagens de QR Code
type Renderer struct {
	opts  Options
	cache *lru.Cache
}

type cacheKey struct {
	code string
	opts Options
}

// NewRenderer cria um Renderer com cache para até cacheSize imagens
func NewRenderer(opts Options, cacheSize int) (*Renderer, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions.Size
	}
	if opts.Level == "" {
		opts.Level = DefaultOptions.Level
	}

	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cache de QR Code: %w", err)
	}

	return &Renderer{opts: opts, cache: cache}, nil
}

// Options retorna as opções padrão do Renderer
func (r *Renderer) Options() Options {
	return r.opts
}

// PNG gera a imagem PNG com as opções padrão
func (r *Renderer) PNG(code string) ([]byte, error) {
	return r.PNGWith(code, r.opts)
}

// PNGWith gera a imagem PNG com as opções informadas
func (r *Renderer) PNGWith(code string, opts Options) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("código Pix vazio")
	}

	key := cacheKey{code: code, opts: opts}
	if img, ok := r.cache.Get(key); ok {
		return img.([]byte), nil
	}

	img, err := goqrcode.Encode(code, opts.Level.recovery(), opts.Size)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar QR Code: %w", err)
	}

	if evicted := r.cache.Add(key, img); evicted {
		logger.Debug("imagem removida do cache", zap.Int("len", r.cache.Len()))
	}
	return img, nil
}

// DataURI gera a imagem PNG codificada como data URI
func (r *Renderer) DataURI(code string) (string, error) {
	img, err := r.PNG(code)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img), nil
}

// Terminal gera o QR Code como texto para exibição em terminal
func (r *Renderer) Terminal(code string) (string, error) {
	q, err := goqrcode.New(code, r.opts.Level.recovery())
	if err != nil {
		return "", fmt.Errorf("erro ao gerar QR Code: %w", err)
	}
	return q.ToSmallString(false), nil
}
