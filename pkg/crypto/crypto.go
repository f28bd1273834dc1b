package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"math/big"
)

func SHA256Hex(b []byte) string {
	hashed := sha256.Sum256(b)
	return hex.EncodeToString(hashed[:])
}

// HashDocument returns the SHA256 hex digest of the canonical JSON encoding
// of doc. Map keys are serialized in sorted order, so two documents with the
// same content always produce the same digest regardless of field insertion
// order.
func HashDocument(doc any) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	return SHA256Hex(b), nil
}

func HMAC(hashFunc func() hash.Hash, data []byte, secret []byte) string {
	h := hmac.New(hashFunc, secret)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func GenerateRandomAlphabet(n uint) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[RandIntn(len(alphabet))]
	}
	return string(b)
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}
