// Package access tracks whether a browser has paid for repository access.
//
// Two states are kept apart: the trusted state is an HttpOnly cookie holding
// a signed token and is the only thing authorization reads; the UX hint is a
// JS-readable mirror used to drive the UI and is never trusted.
package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arwindpianist/showcase/internal/entity"
)

const (
	TrustedCookieName = "github_access_paid"
	HintCookieName    = "github_access_hint"

	tokenSubject = "github_access"
)

type Config struct {
	Secret []byte
	Secure bool
	MaxAge time.Duration
}

// SessionVerifier asks the payment provider whether a checkout session is paid.
type SessionVerifier interface {
	VerifySession(ctx context.Context, sessionID string) (bool, error)
}

// VerifierFunc adapts a function to SessionVerifier.
type VerifierFunc func(ctx context.Context, sessionID string) (bool, error)

func (f VerifierFunc) VerifySession(ctx context.Context, sessionID string) (bool, error) {
	return f(ctx, sessionID)
}

type claims struct {
	Paid bool `json:"paid"`
	jwt.RegisteredClaims
}

type Gate struct {
	cfg      Config
	verifier SessionVerifier
	now      func() time.Time
}

func NewGate(cfg Config, verifier SessionVerifier) *Gate {
	return &Gate{cfg: cfg, verifier: verifier, now: time.Now}
}

// IsPaid reports whether r carries a valid, unexpired trusted cookie.
func (g *Gate) IsPaid(r *http.Request) bool {
	cookie, err := r.Cookie(TrustedCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	var cl claims
	_, err = jwt.ParseWithClaims(cookie.Value, &cl, func(*jwt.Token) (any, error) {
		return g.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(tokenSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("rejected access cookie")
		return false
	}
	return cl.Paid
}

// SetPaid writes both states. paid=false expires them.
func (g *Gate) SetPaid(c echo.Context, paid bool) (entity.UxHintState, error) {
	now := g.now()
	hint := entity.NewUxHint(paid, now)
	if !paid {
		c.SetCookie(g.cookie(TrustedCookieName, "", -1, true))
		c.SetCookie(g.cookie(HintCookieName, "", -1, false))
		return hint, nil
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Paid: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.cfg.MaxAge)),
		},
	}).SignedString(g.cfg.Secret)
	if err != nil {
		return hint, fmt.Errorf("sign access token: %w", err)
	}
	hintJSON, err := json.Marshal(hint)
	if err != nil {
		return hint, err
	}

	maxAge := int(g.cfg.MaxAge / time.Second)
	c.SetCookie(g.cookie(TrustedCookieName, token, maxAge, true))
	c.SetCookie(g.cookie(HintCookieName, url.QueryEscape(string(hintJSON)), maxAge, false))
	return hint, nil
}

// MarkPaidFromVerifiedSession flips the gate to paid when the provider
// confirms sessionID. An unpaid session leaves the current state untouched.
func (g *Gate) MarkPaidFromVerifiedSession(ctx context.Context, c echo.Context, sessionID string) (bool, entity.UxHintState, error) {
	if g.verifier == nil {
		return false, entity.UxHintState{}, errors.New("no session verifier configured")
	}
	paid, err := g.verifier.VerifySession(ctx, sessionID)
	if err != nil {
		return false, entity.NewUxHint(false, g.now()), err
	}
	if !paid {
		return false, entity.NewUxHint(false, g.now()), nil
	}
	hint, err := g.SetPaid(c, true)
	if err != nil {
		return false, hint, err
	}
	zerolog.Ctx(ctx).Info().Str("session_id", sessionID).Msg("access granted from verified session")
	return true, hint, nil
}

func (g *Gate) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   g.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
