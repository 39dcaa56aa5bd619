package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

func HmacSHA256(secret, data string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SignUserToken issues a bearer token of the form "<ownerID>.<hmac>".
func SignUserToken(secret, ownerID string) string {
	return ownerID + "." + HmacSHA256(secret, ownerID)
}

// VerifyUserToken returns the owner id carried by token when its signature
// matches secret.
func VerifyUserToken(secret, token string) (string, bool) {
	i := strings.LastIndexByte(token, '.')
	if i <= 0 || i == len(token)-1 {
		return "", false
	}
	ownerID, sig := token[:i], token[i+1:]
	if !ConstantTimeEqual(sig, HmacSHA256(secret, ownerID)) {
		return "", false
	}
	return ownerID, true
}

// Truncate returns the first n runes of s and whether anything was cut.
func Truncate(s string, n int) (string, bool) {
	if n < 0 {
		n = 0
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
