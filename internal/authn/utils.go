package authn

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")

type Claims struct {
	jwt.StandardClaims
	Username string `json:"preferred_username"`
}

// ParseClaims decodes a bearer token. When secret is empty the signature
// is not checked, the token is assumed to have been verified upstream.
func ParseClaims(token string, secret []byte) (Claims, error) {
	claims := Claims{}

	if len(secret) == 0 {
		if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
			return claims, ErrInvalidJWT
		}
		if err := claims.Valid(); err != nil {
			return claims, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
		}
	} else {
		_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil {
			return claims, fmt.Errorf("%w: %v", ErrInvalidJWT, err)
		}
	}

	if claims.Username == "" {
		return claims, fmt.Errorf("%w: missing preferred_username", ErrInvalidClaims)
	}
	return claims, nil
}
