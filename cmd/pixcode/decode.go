package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/urfave/cli/v2"

	"github.com/magnani/pixcode/internal/handlers"
	"github.com/magnani/pixcode/internal/reader"
)

// codeArg lê o código do primeiro argumento, ou da entrada padrão com "-"
func codeArg(c *cli.Context) (string, error) {
	code := c.Args().First()
	if code == "-" {
		data, e := io.ReadAll(c.App.Reader)
		if e != nil {
			return "", e
		}
		code = string(data)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errors.New("código Pix não informado")
	}
	return code, nil
}

func init() {
	var compact bool
	defineCommand(&cli.Command{
		Name:      "decode",
		Usage:     "Lê um código Pix e imprime os campos em JSON.",
		ArgsUsage: "CODIGO|-",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "compact",
				Usage:       "Imprime o JSON em uma única linha.",
				Destination: &compact,
			},
		},
		Action: func(c *cli.Context) error {
			code, e := codeArg(c)
			if e != nil {
				return e
			}
			rd, e := reader.New(code)
			if e != nil {
				return e
			}

			j, e := json.Marshal(handlers.Describe(rd))
			if e != nil {
				return e
			}
			if !compact {
				j = pretty.Pretty(j)
			}
			fmt.Fprint(c.App.Writer, strings.TrimRight(string(j), "\n")+"\n")
			return nil
		},
	})
}
