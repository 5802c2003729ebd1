package peerlink

import (
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"errors"
)

const (
	autoGenKeyLength = 16
	base62Chars      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	pbkdf2Iterations = 100000
	pbkdf2Salt       = "keyglitch-peerlink-v1"
)

// GenerateKey creates a random 16-character base62 passphrase, used
// whenever a server starts without a configured password.
func GenerateKey() (string, error) {
	randomBytes := make([]byte, autoGenKeyLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	key := make([]byte, autoGenKeyLength)
	for i, b := range randomBytes {
		key[i] = base62Chars[int(b)%62]
	}

	return string(key), nil
}

// DeriveKey stretches a passphrase to a 32-byte key via PBKDF2-SHA256.
func DeriveKey(password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("peerlink: password cannot be empty")
	}
	return pbkdf2.Key(sha256.New, password, []byte(pbkdf2Salt), pbkdf2Iterations, 32)
}

// DeriveSessionKey mixes the shared key with both handshake nonces into a
// per-connection session key.
func DeriveSessionKey(key, serverNonce, clientNonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(serverNonce)
	h.Write(clientNonce)
	h.Write([]byte("keyglitch-peerlink-session-v1"))
	return h.Sum(nil)
}
