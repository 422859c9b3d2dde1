package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Session/JWT primitives =====

type AuthConfig struct {
	HMACSecret   []byte
	CookieName   string
	SecureCookie bool
	TTL          time.Duration
}

type AuthManager struct{ cfg AuthConfig }

func NewAuthManager(secret string, secure bool, ttl time.Duration) *AuthManager {
	return &AuthManager{cfg: AuthConfig{
		HMACSecret:   []byte(secret),
		CookieName:   "gg_session",
		SecureCookie: secure,
		TTL:          ttl,
	}}
}

// SessionClaims identifies the shopper whose cart and staged intent the
// request operates on.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Mint issues a session token and sets it as a cookie so the gateway's
// return redirect (a bare browser navigation with no Authorization header)
// still carries the session.
func (a *AuthManager) Mint(w http.ResponseWriter, sessionID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
			Subject:   sessionID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.cfg.HMACSecret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(a.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode, // the gateway return trip is a cross-site navigation
	})
	return signed, nil
}

// BearerToken extracts the raw credential from the request, preferring the
// Authorization header over the session cookie.
func (a *AuthManager) BearerToken(r *http.Request) string {
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return strings.TrimSpace(hdr[7:])
		}
	}
	if c, err := r.Cookie(a.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func (a *AuthManager) ParseFromRequest(r *http.Request) (*SessionClaims, error) {
	tok := a.BearerToken(r)
	if tok == "" {
		return nil, errors.New("missing token")
	}
	return a.parse(tok)
}

func (a *AuthManager) parse(tok string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.SessionID == "" {
		claims.SessionID = claims.Subject
	}
	return claims, nil
}
