package emv

import (
	"fmt"
	"strings"
)

const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// CRC16 calcula o CRC-16/CCITT-FALSE do código e retorna 4 dígitos
// hexadecimais em caixa alta.
func CRC16(payload string) string {
	crc := uint16(crcInitial)
	for i := 0; i < len(payload); i++ {
		crc ^= uint16(payload[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}

// CheckCRC informa se o rodapé do código confere com o CRC16 recalculado.
// A decodificação não chama esta função.
func CheckCRC(code string) bool {
	if len(code) < len(crcFooter)+4 {
		return false
	}
	body, sum := code[:len(code)-4], code[len(code)-4:]
	if !strings.HasSuffix(body, crcFooter) {
		return false
	}
	return strings.EqualFold(sum, CRC16(body))
}
