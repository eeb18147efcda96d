package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
)

const (
	TokenExpire = 3 * time.Hour
	CookieName  = "jwt-token"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

func buildJWTString(id string, secret []byte, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpire)),
			},
			UserID: id,
		},
	)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("JWT signing: %w", err)
	}
	return tokenString, nil
}

// Authenticate issues the session cookie for the user id.
func Authenticate(id string, secret []byte) (http.Cookie, error) {
	jwtString, err := buildJWTString(id, secret, time.Now())
	if err != nil {
		return http.Cookie{}, fmt.Errorf("authentication failed: %w", err)
	}
	return http.Cookie{
		Name:     CookieName,
		Value:    jwtString,
		Path:     "/",
		MaxAge:   int(TokenExpire.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func CheckToken(tokenString string, secret []byte) (Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, serviceerrs.ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("failed to parse token %w", err)
	}
	if claims.UserID == "" {
		return Claims{}, errors.New("token carries no user id")
	}

	return *claims, nil
}
