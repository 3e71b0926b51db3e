// Command pixcode gera e lê códigos Pix (copia e cola).
package main

import (
	"os"
	"sort"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/magnani/pixcode/internal/config"
	"github.com/magnani/pixcode/internal/logging"
	"github.com/magnani/pixcode/internal/qrcode"
)

var (
	logger   = logging.New("Cli")
	cfg      *config.Config
	renderer *qrcode.Renderer
)

var app = &cli.App{
	Name:  "pixcode",
	Usage: "Gera e lê códigos Pix.",
	// .env é carregado aqui, antes dos flags dos comandos lerem as variáveis de ambiente
	Before: func(c *cli.Context) (e error) {
		if cfg, e = config.Load(); e != nil {
			return e
		}
		level, e := qrcode.ParseLevel(cfg.QRCode.Level)
		if e != nil {
			return e
		}
		renderer, e = qrcode.NewRenderer(qrcode.Options{Size: cfg.QRCode.Size, Level: level}, cfg.QRCode.CacheSize)
		return e
	},
}

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

func main() {
	defer logger.Sync()

	sort.Sort(cli.CommandsByName(app.Commands))
	if e := app.Run(os.Args); e != nil {
		logger.Fatal("erro", zap.Error(e))
	}
}
