package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultSessionTTL = 24 * time.Hour

// SessionClaims are embedded into user session tokens.
type SessionClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type serviceClaims struct {
	SecurityToken string `json:"securityToken"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the two independent token namespaces:
// user session tokens and service-to-service tokens. Each namespace has
// its own secret; a token signed with one never validates under the other.
type TokenIssuer struct {
	sessionSecret []byte
	serviceSecret []byte
	securityToken string
	issuer        string
	sessionTTL    time.Duration
	now           func() time.Time
}

// TokenOption configures a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithSessionTTL overrides the session token lifetime.
func WithSessionTTL(ttl time.Duration) TokenOption {
	return func(t *TokenIssuer) {
		if ttl > 0 {
			t.sessionTTL = ttl
		}
	}
}

// WithIssuer sets the issuer claim.
func WithIssuer(issuer string) TokenOption {
	return func(t *TokenIssuer) {
		t.issuer = strings.TrimSpace(issuer)
	}
}

// WithTokenClock overrides the time source (useful for tests).
func WithTokenClock(fn func() time.Time) TokenOption {
	return func(t *TokenIssuer) {
		if fn != nil {
			t.now = fn
		}
	}
}

// NewTokenIssuer constructs a TokenIssuer. All three secrets are required.
func NewTokenIssuer(sessionSecret, serviceSecret, securityToken string, opts ...TokenOption) (*TokenIssuer, error) {
	sessionSecret = strings.TrimSpace(sessionSecret)
	serviceSecret = strings.TrimSpace(serviceSecret)
	securityToken = strings.TrimSpace(securityToken)
	if sessionSecret == "" || serviceSecret == "" || securityToken == "" {
		return nil, errors.New("auth: token secrets are required")
	}
	t := &TokenIssuer{
		sessionSecret: []byte(sessionSecret),
		serviceSecret: []byte(serviceSecret),
		securityToken: securityToken,
		sessionTTL:    defaultSessionTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// MintSession signs a session token carrying the user id and email.
func (t *TokenIssuer) MintSession(user *User) (string, error) {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return "", errors.New("auth: user is required")
	}
	now := t.now().UTC()
	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.sessionTTL)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.sessionSecret)
}

// ParseSession verifies a session token and returns its claims.
func (t *TokenIssuer) ParseSession(token string) (*SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return t.sessionSecret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}
	if t.issuer != "" && claims.Issuer != t.issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// MintServiceToken signs a service token embedding the shared security token.
func (t *TokenIssuer) MintServiceToken(ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	now := t.now().UTC()
	claims := serviceClaims{
		SecurityToken: t.securityToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.serviceSecret)
}

// VerifyServiceToken checks a service token's signature and its embedded
// security token against the server-held constant.
func (t *TokenIssuer) VerifyServiceToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &serviceClaims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return t.serviceSecret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*serviceClaims)
	if !ok || !parsed.Valid {
		return ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(claims.SecurityToken), []byte(t.securityToken)) != 1 {
		return ErrInvalidToken
	}
	return nil
}
