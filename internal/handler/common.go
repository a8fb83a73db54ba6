package handler // handler defines http handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/PabloRelojeroo/slinkhard/internal/middleware"
	"github.com/PabloRelojeroo/slinkhard/internal/model"
)

// errNoPrincipal is returned by currentUser when the auth middleware did
// not store a principal; handlers translate it to 401.
var errNoPrincipal = errors.New("no authenticated principal")

// currentUser returns the principal resolved by the auth middleware.
func currentUser(c echo.Context) (model.Principal, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return model.Principal{}, errNoPrincipal
	}
	return p, nil
}
