package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loantrackr-backend/internal/domain/actor"
	ucApplication "loantrackr-backend/internal/usecase/application"
)

type ApplicationHandler struct{ uc *ucApplication.Usecase }

func NewApplicationHandler(uc *ucApplication.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

type applyReq struct {
	LenderID      string  `json:"lender_id"      validate:"required,hex32"`
	Amount        float64 `json:"amount"         validate:"required,gt=0,dec2"`
	TenureMonths  int     `json:"tenure_months"  validate:"required,gt=0"`
	Purpose       string  `json:"purpose"`
	IncomeSource  string  `json:"income_source"`
	MonthlyIncome float64 `json:"monthly_income" validate:"gte=0,dec2"`
}

func (h *ApplicationHandler) Apply(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	var req applyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Apply(c.Request().Context(), act, req.LenderID, ucApplication.ApplyInput{
		Amount:        decimal.NewFromFloat(req.Amount).Round(2),
		TenureMonths:  req.TenureMonths,
		Purpose:       req.Purpose,
		IncomeSource:  req.IncomeSource,
		MonthlyIncome: decimal.NewFromFloat(req.MonthlyIncome).Round(2),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) Withdraw(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), act)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListMine is the borrower's application history, newest first.
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	out, err := h.uc.ListMine(c.Request().Context(), act)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ApplicationHandler) Approve(c echo.Context) error {
	return h.decide(c, h.uc.Approve)
}

func (h *ApplicationHandler) Reject(c echo.Context) error {
	return h.decide(c, h.uc.Reject)
}

func (h *ApplicationHandler) decide(c echo.Context, fn func(ctx context.Context, act actor.Actor, applicationID string) (*ucApplication.ApplicationDTO, error)) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
	}
	dto, err := fn(c.Request().Context(), act, applicationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) Disburse(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
	}
	dto, err := h.uc.Disburse(c.Request().Context(), act, applicationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListForLender returns the lender's incoming applications, optionally
// filtered by ?status=.
func (h *ApplicationHandler) ListForLender(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	out, err := h.uc.ListForLender(c.Request().Context(), act, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
