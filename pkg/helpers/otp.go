package helpers

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	pinMin = 100000
	pinMax = 999999
)

// GenResetPIN returns a uniformly random six-digit PIN with no leading zero.
func GenResetPIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(pinMax-pinMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+pinMin, 10), nil
}
