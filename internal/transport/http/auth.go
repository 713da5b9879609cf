package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"exam-portal/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are issued by the identity service; Subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator turns HS256 bearer tokens into a domain.Caller.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Caller reads the token from the Authorization header, or from the token query parameter
// for websocket upgrades where browsers cannot set headers.
func (a *Authenticator) Caller(r *http.Request) (domain.Caller, error) {
	raw := ""
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		raw = strings.TrimPrefix(header, "Bearer ")
	} else if q := r.URL.Query().Get("token"); q != "" {
		raw = q
	}
	if raw == "" {
		return domain.Caller{}, fmt.Errorf("%w, no token", domain.ErrUnauthorized)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w, token failed: %v", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return domain.Caller{}, fmt.Errorf("%w, token has no subject", domain.ErrUnauthorized)
	}

	role := domain.Role(claims.Role)
	if role == "" {
		role = domain.RoleStudent
	}
	return domain.Caller{UserID: claims.Subject, Role: role}, nil
}

// IssueToken signs a token for caller; used by the token command and tests.
func IssueToken(secret string, caller domain.Caller, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}
	now := time.Now()
	claims := Claims{
		Role: string(caller.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
