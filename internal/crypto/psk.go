// Package crypto derives WPA pre-shared keys from decoded credentials, so a
// recovered passphrase can be checked against a captured handshake.
package crypto

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pskIterations = 4096
	pskSize       = 32

	minPassphrase = 8
	maxPassphrase = 63
)

var ErrInvalidPassphrase = errors.New("crypto: not a WPA passphrase")

// DerivePSK computes the 256-bit WPA pre-shared key for passphrase on ssid
// (PBKDF2-HMAC-SHA1, 4096 iterations, SSID as salt).
func DerivePSK(passphrase, ssid string) ([]byte, error) {
	if !validPassphrase(passphrase) {
		return nil, ErrInvalidPassphrase
	}
	return pbkdf2.Key([]byte(passphrase), []byte(ssid), pskIterations, pskSize, sha1.New), nil
}

// DerivePSKHex is DerivePSK hex-encoded. A passphrase that already is a
// 64-digit hex key is returned as-is, lowercased.
func DerivePSKHex(passphrase, ssid string) (string, error) {
	if len(passphrase) == 2*pskSize {
		if _, err := hex.DecodeString(passphrase); err == nil {
			return strings.ToLower(passphrase), nil
		}
	}
	psk, err := DerivePSK(passphrase, ssid)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(psk), nil
}

// validPassphrase reports whether p is 8..63 printable ASCII characters.
func validPassphrase(p string) bool {
	if len(p) < minPassphrase || len(p) > maxPassphrase {
		return false
	}
	for i := 0; i < len(p); i++ {
		if p[i] < 0x20 || p[i] > 0x7e {
			return false
		}
	}
	return true
}
