package web

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teamawesome/wikistore/internal/common"
)

// sessionCookie is the name of the cookie carrying the signed session token.
const sessionCookie = "wiki_session"

// Claims carries the signed-in username alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Username string
}

func generateSessionToken(username string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func usernameFromSessionToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrorInvalidToken
	}

	return claims.Username, nil
}
