package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/magnani/pixcode/internal/qrcode"
)

func init() {
	var out, level string
	var size int
	defineCommand(&cli.Command{
		Name:      "qrcode",
		Usage:     "Gera o QR Code de um código Pix.",
		ArgsUsage: "CODIGO|-",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Usage:       "Grava o PNG no `arquivo`. Sem ele, imprime no terminal.",
				Destination: &out,
			},
			&cli.IntFlag{
				Name:        "size",
				Usage:       "`Tamanho` da imagem em pixels.",
				Destination: &size,
			},
			&cli.StringFlag{
				Name:        "level",
				Usage:       "`Nível` de correção de erro (L, M, Q, H).",
				Destination: &level,
			},
		},
		Action: func(c *cli.Context) error {
			code, e := codeArg(c)
			if e != nil {
				return e
			}

			if out == "" {
				text, e := renderer.Terminal(code)
				if e != nil {
					return e
				}
				fmt.Fprint(c.App.Writer, text)
				return nil
			}

			opts := renderer.Options()
			if size > 0 {
				opts.Size = size
			}
			if level != "" {
				if opts.Level, e = qrcode.ParseLevel(level); e != nil {
					return e
				}
			}
			img, e := renderer.PNGWith(code, opts)
			if e != nil {
				return e
			}
			return os.WriteFile(out, img, 0o644)
		},
	})
}
