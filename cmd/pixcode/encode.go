package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/magnani/pixcode/internal/payload"
	"github.com/magnani/pixcode/internal/pixkey"
)

func merchantFlags(name, city, postal *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Usage:       "`Nome` do recebedor.",
			EnvVars:     []string{"PIX_MERCHANT_NAME"},
			Destination: name,
		},
		&cli.StringFlag{
			Name:        "city",
			Usage:       "`Cidade` do recebedor.",
			EnvVars:     []string{"PIX_MERCHANT_CITY"},
			Destination: city,
		},
		&cli.StringFlag{
			Name:        "postal",
			Usage:       "`CEP` do recebedor.",
			EnvVars:     []string{"PIX_POSTAL_CODE"},
			Destination: postal,
		},
	}
}

// writeCode imprime o código e, se pedido, grava a imagem PNG
func writeCode(c *cli.Context, p payload.Payload, pngFile string) error {
	code, e := p.PixCode(false)
	if e != nil {
		return e
	}
	fmt.Fprintln(c.App.Writer, code)

	if pngFile == "" {
		return nil
	}
	img, e := renderer.PNG(code)
	if e != nil {
		return e
	}
	if e := os.WriteFile(pngFile, img, 0o644); e != nil {
		return e
	}
	logger.Debug("QR Code gravado", zap.String("file", pngFile), zap.Int("bytes", len(img)))
	return nil
}

func init() {
	var key, keyType, name, city, postal, description, tid, pngFile string
	var amount float64
	var randomTID, strict, noInitiation bool
	static := &cli.Command{
		Name:  "static",
		Usage: "Gera um código estático com a chave Pix.",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "key",
				Usage:       "`Chave` Pix.",
				EnvVars:     []string{"PIX_KEY"},
				Destination: &key,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "type",
				Usage:       "`Tipo` da chave (random, document, email, phone). Detectado pela chave quando omitido.",
				Destination: &keyType,
			},
			&cli.StringFlag{
				Name:        "description",
				Usage:       "`Descrição` do pagamento.",
				Destination: &description,
			},
			&cli.Float64Flag{
				Name:        "amount",
				Usage:       "`Valor` da transação em reais.",
				Destination: &amount,
			},
			&cli.StringFlag{
				Name:        "tid",
				Usage:       "`Identificador` da transação.",
				Destination: &tid,
			},
			&cli.BoolFlag{
				Name:        "random-tid",
				Usage:       "Gera um identificador da transação aleatório.",
				Destination: &randomTID,
			},
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "Falha em vez de cortar valores maiores que o campo.",
				Destination: &strict,
			},
			&cli.BoolFlag{
				Name:        "no-initiation",
				Usage:       "Omite o campo 01 (método de iniciação).",
				Destination: &noInitiation,
			},
			&cli.StringFlag{
				Name:        "qrcode",
				Usage:       "Grava o QR Code em PNG no `arquivo`.",
				Destination: &pngFile,
			},
		}, merchantFlags(&name, &city, &postal)...),
		Action: func(c *cli.Context) error {
			t, e := pixkey.KeyTypeOf(key)
			if keyType != "" {
				t, e = pixkey.ParseKeyType(keyType)
			}
			if e != nil {
				return e
			}

			p := payload.NewStatic()
			if strict {
				p.Strict()
			}
			p.SetPixKey(t, key).
				SetMerchantName(name).
				SetMerchantCity(city).
				SetDescription(description).
				SetAmount(amount)
			if postal != "" {
				p.SetPostalCode(postal)
			}
			switch {
			case randomTID:
				p.SetReferenceLabel("")
			case tid != "":
				p.SetReferenceLabel(tid)
			}
			if noInitiation {
				p.UnsetPointOfInitiation()
			}
			return writeCode(c, p, pngFile)
		},
	}

	var url, dynName, dynCity, dynPostal, dynPNG string
	var dynStrict bool
	dynamic := &cli.Command{
		Name:  "dynamic",
		Usage: "Gera um código dinâmico que aponta para a URL da cobrança.",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Usage:       "`URL` do payload da cobrança.",
				Destination: &url,
				Required:    true,
			},
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "Falha em vez de cortar valores maiores que o campo.",
				Destination: &dynStrict,
			},
			&cli.StringFlag{
				Name:        "qrcode",
				Usage:       "Grava o QR Code em PNG no `arquivo`.",
				Destination: &dynPNG,
			},
		}, merchantFlags(&dynName, &dynCity, &dynPostal)...),
		Action: func(c *cli.Context) error {
			p := payload.NewDynamic()
			if dynStrict {
				p.Strict()
			}
			p.SetURL(url).
				SetMerchantName(dynName).
				SetMerchantCity(dynCity)
			if dynPostal != "" {
				p.SetPostalCode(dynPostal)
			}
			return writeCode(c, p, dynPNG)
		},
	}

	defineCommand(&cli.Command{
		Name:        "encode",
		Usage:       "Gera um código Pix.",
		Subcommands: []*cli.Command{static, dynamic},
	})
}
