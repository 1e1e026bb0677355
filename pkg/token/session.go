package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for any token that fails signature,
	// integrity or format checks. Callers must not distinguish further.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a capability payload has passed
	// its embedded expiry.
	ErrTokenExpired = errors.New("token expired")
)

// SessionCodec mints and validates signed, expiring identity tokens.
// Validity is purely a function of the signature and the embedded expiry;
// nothing is persisted server-side.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionCodec(secret []byte, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secret: secret, ttl: ttl}
}

// Mint produces a signed token whose subject is the user id and whose
// expiry is now plus the codec's TTL.
func (c *SessionCodec) Mint(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Validate verifies the signature and expiry in one step and returns the
// subject user id. Any failure is reported as ErrInvalidToken.
func (c *SessionCodec) Validate(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
