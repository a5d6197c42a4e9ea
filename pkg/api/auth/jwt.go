// Package auth issues and checks the session tokens of the control API.
package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/tauraamui/xerror"
)

const (
	audience    = "offscreend"
	tokenExpiry = 15 * time.Minute
)

var (
	ErrTokenExpired       = errors.New("auth token has expired")
	ErrTokenWrongAudience = errors.New("auth token was not issued for this daemon")
)

type customClaims struct {
	Subject string `json:"subject"`
	jwt.StandardClaims
}

var timeNow = func() time.Time {
	return time.Now()
}

func GenToken(secret, subject string) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("signing secret cannot be blank")
	}

	claims := customClaims{
		Subject: subject,
		StandardClaims: jwt.StandardClaims{
			Audience:  audience,
			IssuedAt:  timeNow().UTC().Unix(),
			ExpiresAt: timeNow().UTC().Add(tokenExpiry).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken checks the signature and claims of tokenString and returns
// the subject it was issued to.
func ValidateToken(secret, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&customClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, xerror.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)

	if err != nil {
		return "", xerror.Errorf("unable to validate token: %w", err)
	}

	return checkClaims(token.Claims)
}

func checkClaims(claims jwt.Claims) (string, error) {
	cc, ok := claims.(*customClaims)
	if !ok {
		return "", errors.New("unable to parse claims")
	}

	if !cc.VerifyAudience(audience, true) {
		return "", ErrTokenWrongAudience
	}

	if cc.ExpiresAt < timeNow().UTC().Unix() {
		return "", ErrTokenExpired
	}

	return cc.Subject, nil
}
