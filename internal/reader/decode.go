package reader

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/magnani/pixcode/internal/emv"
)

// Decode lê um código Pix em uma nova árvore emv.MPM.
//
// Campos desconhecidos são ignorados e os valores são copiados sem checar
// tamanho. O CRC16 do rodapé não é conferido. Em caso de erro nenhuma árvore
// é retornada.
func Decode(raw string) (*emv.MPM, error) {
	if !strings.HasPrefix(raw, emv.Prefix) {
		return nil, &MalformedPayloadError{Raw: raw, Reason: fmt.Sprintf("o código deve começar com %s", emv.Prefix)}
	}

	mpm := emv.NewMPM()
	if err := decode(raw, []rune(raw), 0, mpm.Field); err != nil {
		return nil, err
	}
	return mpm, nil
}

// decode percorre as entradas TLV de data, que começa na posição offset do código
func decode(raw string, data []rune, offset int, lookup func(id string) emv.Node) error {
	for pos := 0; pos < len(data); {
		if len(data)-pos < 4 {
			return &MalformedPayloadError{Raw: raw, Offset: offset + pos, Reason: "entrada incompleta"}
		}

		id := string(data[pos : pos+2])
		length, ok := parseLength(data[pos+2 : pos+4])
		if !ok {
			return &MalformedPayloadError{
				Raw:    raw,
				Offset: offset + pos + 2,
				Reason: fmt.Sprintf("tamanho inválido no campo %s", id),
			}
		}
		pos += 4

		if len(data)-pos < length {
			return &MalformedPayloadError{
				Raw:    raw,
				Offset: offset + pos,
				Reason: fmt.Sprintf("o campo %s declara %d caracteres, restam %d", id, length, len(data)-pos),
			}
		}
		value := data[pos : pos+length]

		switch n := lookup(id).(type) {
		case nil:
			logger.Debug("campo ignorado", zap.String("id", id), zap.Int("offset", offset+pos))
		case *emv.Field:
			n.SetRawValue(string(value))
		case *emv.MultiField:
			if err := decode(raw, value, offset+pos, n.Field); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("reader: nó inesperado %T", n))
		}
		pos += length
	}
	return nil
}

func parseLength(digits []rune) (int, bool) {
	n := 0
	for _, d := range digits {
		if d < '0' || d > '9' {
			return 0, false
		}
		n = n*10 + int(d-'0')
	}
	return n, true
}
