// Package logging é um invólucro fino sobre a biblioteca zap.
//
// O nível de cada pacote vem da variável PIXCODE_LOG_<Pacote> ou, na ausência
// dela, de PIXCODE_LOG. Apenas a primeira letra é considerada:
// D (debug), I (info), W (warn), E (error), F (fatal).
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix é o prefixo das variáveis de ambiente de nível de log.
const EnvPrefix = "PIXCODE_LOG"

var root = func() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		os.Stderr,
		zap.DebugLevel,
	)
	return zap.New(core)
}()

// New cria um logger nomeado para o pacote.
// Por convenção fica no mesmo arquivo da documentação do pacote:
//
//	var logger = logging.New("Reader")
func New(pkg string) *zap.Logger {
	return root.Named(pkg).
		WithOptions(zap.IncreaseLevel(zap.NewAtomicLevelAt(parseLevel(GetLevel(pkg)))))
}

// GetLevel retorna o nível configurado para o pacote como uma letra.
// Retorna 0 quando nada foi configurado.
func GetLevel(pkg string) rune {
	lvl, ok := os.LookupEnv(EnvPrefix + "_" + pkg)
	if !ok {
		lvl, ok = os.LookupEnv(EnvPrefix)
	}
	if !ok || len(lvl) == 0 {
		return 0
	}
	return rune(lvl[0])
}

func parseLevel(lvl rune) zapcore.Level {
	switch lvl {
	case 'V', 'D':
		return zapcore.DebugLevel
	case 'I':
		return zapcore.InfoLevel
	case 'W':
		return zapcore.WarnLevel
	case 'E':
		return zapcore.ErrorLevel
	case 'F', 'N':
		return zapcore.DPanicLevel
	}
	return zapcore.InfoLevel
}
