package authenticator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/mitchellh/mapstructure"
)

// TokenEngine signs and verifies short-lived capability tokens. The same
// engine serves access tokens and QR tokens; the caller chooses the
// expiration per token kind.
type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}

type standardClaims struct {
	jwt.RegisteredClaims
	Object map[string]any `json:"obj,omitempty"`
}

type jwtEngine struct {
	secret string
}

func NewTokenEngine(secret string) TokenEngine {
	return &jwtEngine{secret: secret}
}

func (e *jwtEngine) Generate(expiration time.Duration, obj any) (string, error) {
	object := map[string]any{}
	if err := mapstructure.Decode(obj, &object); err != nil {
		return "", err
	}

	now := time.Now()
	claims := standardClaims{
		Object: object,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.secret))
}

func (e *jwtEngine) Verify(token string, obj any) error {
	var claims standardClaims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)
	if err != nil {
		return err
	}

	return mapstructure.Decode(claims.Object, obj)
}
