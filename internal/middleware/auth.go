package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
	"github.com/PabloRelojeroo/slinkhard/internal/repository"
	"github.com/PabloRelojeroo/slinkhard/internal/utils"
)

// principalKey is the context key the auth middleware stores the resolved
// caller under. Handlers read it through CurrentPrincipal.
const principalKey = "principal"

// Authenticator validates bearer tokens against both the JWT signature and
// a live session row, then resolves the caller to a Principal. A token
// whose session was replaced by a later login fails here even though its
// signature is still valid.
type Authenticator struct {
	Secret   string
	Sessions *repository.SessionRepo
	Users    *repository.UserRepo
}

func NewAuthenticator(secret string, s *repository.SessionRepo, u *repository.UserRepo) *Authenticator {
	return &Authenticator{Secret: secret, Sessions: s, Users: u}
}

// Require returns middleware that rejects requests without a valid,
// session-backed token. On success the Principal is stored in the context.
func (a *Authenticator) Require() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := a.resolve(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// Optional returns middleware that resolves the caller when a valid token
// is present but lets anonymous requests through with no principal set.
func (a *Authenticator) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p, err := a.resolve(c); err == nil {
				c.Set(principalKey, p)
			}
			return next(c)
		}
	}
}

func (a *Authenticator) resolve(c echo.Context) (model.Principal, error) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return model.Principal{}, errMissingToken
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	ctx := c.Request().Context()

	// Session first: a replaced or expired session invalidates the token
	// regardless of its signature.
	sess, err := a.Sessions.GetByToken(ctx, raw)
	if err != nil {
		return model.Principal{}, errInvalidToken
	}
	claims, err := utils.ParseAccessToken(a.Secret, raw)
	if err != nil {
		return model.Principal{}, errInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" || sub != sess.UserID {
		return model.Principal{}, errInvalidToken
	}
	u, err := a.Users.GetByID(ctx, sub)
	if err != nil {
		// covers both sql.ErrNoRows (subject no longer resolves) and
		// transient DB failures; neither yields a usable principal
		return model.Principal{}, errInvalidToken
	}
	return model.Principal{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

// CurrentPrincipal returns the authenticated caller stored by Require, or
// false when the request is anonymous.
func CurrentPrincipal(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}
