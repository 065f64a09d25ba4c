// internal/app/system/refcode/refcode.go

// Package refcode generates the short uppercase reference codes lojistas
// quote on bank transfers for promotion payments.
package refcode

import (
	"crypto/rand"
	"math/big"
)

const (
	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Length of a reference code. Eight characters over a 36-symbol alphabet
	// is plenty for a human-matched payment reference.
	Length = 8
)

var charsetLen = big.NewInt(int64(len(charset)))

// New returns a random 8-character uppercase reference code. Each character
// is drawn with rand.Int so the 36 symbols are equally likely; reducing a
// raw byte mod 36 would skew the low characters.
func New() (string, error) {
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		buf[i] = charset[n.Int64()]
	}
	return string(buf), nil
}
