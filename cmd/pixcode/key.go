package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/magnani/pixcode/internal/pixkey"
)

func keyArg(c *cli.Context) (string, error) {
	key := c.Args().First()
	if key == "" {
		return "", errors.New("chave Pix não informada")
	}
	return key, nil
}

// keyTypeOf usa o tipo informado ou detecta pela chave
func keyTypeOf(keyType, key string) (pixkey.KeyType, error) {
	if keyType != "" {
		return pixkey.ParseKeyType(keyType)
	}
	return pixkey.KeyTypeOf(key)
}

func init() {
	var keyType string
	typeFlag := &cli.StringFlag{
		Name:        "type",
		Usage:       "`Tipo` da chave (random, document, email, phone). Detectado pela chave quando omitido.",
		Destination: &keyType,
	}

	defineCommand(&cli.Command{
		Name:  "key",
		Usage: "Inspeciona chaves Pix.",
		Subcommands: []*cli.Command{
			{
				Name:      "type",
				Usage:     "Detecta o tipo da chave.",
				ArgsUsage: "CHAVE",
				Action: func(c *cli.Context) error {
					key, e := keyArg(c)
					if e != nil {
						return e
					}
					t, e := pixkey.KeyTypeOf(key)
					if e != nil {
						return e
					}
					fmt.Fprintf(c.App.Writer, "%s\t%s\n", t, t.Alias())
					return nil
				},
			},
			{
				Name:      "validate",
				Usage:     "Valida uma chave.",
				ArgsUsage: "CHAVE",
				Flags:     []cli.Flag{typeFlag},
				Action: func(c *cli.Context) error {
					key, e := keyArg(c)
					if e != nil {
						return e
					}
					t, e := keyTypeOf(keyType, key)
					if e != nil {
						return e
					}
					if e := pixkey.Validate(t, key); e != nil {
						return e
					}
					fmt.Fprintln(c.App.Writer, "ok")
					return nil
				},
			},
			{
				Name:      "parse",
				Usage:     "Imprime a chave normalizada como vai no código.",
				ArgsUsage: "CHAVE",
				Flags:     []cli.Flag{typeFlag},
				Action: func(c *cli.Context) error {
					key, e := keyArg(c)
					if e != nil {
						return e
					}
					t, e := keyTypeOf(keyType, key)
					if e != nil {
						return e
					}
					if e := pixkey.Validate(t, key); e != nil {
						return e
					}
					parsed, e := pixkey.Parse(t, key)
					if e != nil {
						return e
					}
					fmt.Fprintln(c.App.Writer, parsed)
					return nil
				},
			},
		},
	})
}
