package utils

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the self-contained claim set carried by an access
// token. Subject holds the decimal user ID.
type AccessTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a numeric user ID.
func (c *AccessTokenClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// GenerateAccessJWT signs an access token for the given identity. The
// issued-at timestamp comes from the caller so expiry is testable against an
// injected clock.
func GenerateAccessJWT(userID int64, email, name, secret, issuer string, expiryDuration time.Duration, now time.Time) (string, error) {
	claims := AccessTokenClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessJWT parses an access token string and validates its signature
// and standard claims. Expiry errors surface as jwt.ErrTokenExpired via
// errors.Is. Extra parser options (e.g. jwt.WithTimeFunc) are passed through
// for tests.
func ParseAccessJWT(tokenString string, secret string, opts ...jwt.ParserOption) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, opts...)

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
