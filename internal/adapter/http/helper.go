package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"loantrackr-backend/internal/domain/actor"
	"loantrackr-backend/pkg/apperr"
)

// Identity headers set by the auth proxy in front of the engine.
const (
	HeaderUserID   = "Lt-User-Id"
	HeaderUserRole = "Lt-User-Role"
)

// actorFrom extracts the caller identity from request headers; the
// second return is false when the identity is missing or malformed
// (a 401 has already been written).
func actorFrom(c echo.Context) (actor.Actor, bool) {
	userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
	role := actor.Role(strings.ToUpper(strings.TrimSpace(c.Request().Header.Get(HeaderUserRole))))
	if !reHex32.MatchString(userID) {
		_ = c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid " + HeaderUserID})
		return actor.Actor{}, false
	}
	if !role.Valid() {
		_ = c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid " + HeaderUserRole})
		return actor.Actor{}, false
	}
	return actor.Actor{UserID: userID, Role: role}, true
}

// writeError maps error kinds to HTTP statuses.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status, msg = http.StatusBadRequest, err.Error()
	case apperr.KindUnauthorized:
		status, msg = http.StatusForbidden, err.Error()
	case apperr.KindNotFound:
		status, msg = http.StatusNotFound, err.Error()
	case apperr.KindInvalidState:
		status, msg = http.StatusConflict, err.Error()
	case apperr.KindNotAllowed:
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case apperr.KindGateway:
		status, msg = http.StatusBadGateway, err.Error()
	}
	return c.JSON(status, ErrorResponse{Error: msg})
}
