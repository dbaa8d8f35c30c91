package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	loandomain "loantrackr-backend/internal/domain/loan"
	ucPayment "loantrackr-backend/internal/usecase/payment"
)

type PaymentHandler struct{ uc *ucPayment.Usecase }

func NewPaymentHandler(uc *ucPayment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type makePaymentReq struct {
	Amount        float64 `json:"amount"         validate:"required,gt=0,dec2"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=UPI CARD NETBANKING WALLET"`
}

func (h *PaymentHandler) MakePayment(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req makePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.MakePayment(c.Request().Context(), act, loanID, ucPayment.PaymentInput{
		Amount: decimal.NewFromFloat(req.Amount).Round(2),
		Method: loandomain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		return writeError(c, err)
	}
	// Gateway declines are a domain outcome, not a transport error:
	// the attempt is recorded and returned with a 200.
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) GetLoanDetails(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.GetLoanDetails(c.Request().Context(), act, loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) GetSchedule(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	out, err := h.uc.GetSchedule(c.Request().Context(), act, loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) GetPaymentHistory(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	out, err := h.uc.GetPaymentHistory(c.Request().Context(), act, loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListLenderLoans maps ?state=active|completed to the loan status.
func (h *PaymentHandler) ListLenderLoans(c echo.Context) error {
	act, ok := actorFrom(c)
	if !ok {
		return nil
	}
	var status loandomain.Status
	switch c.QueryParam("state") {
	case "", "active":
		status = loandomain.StatusDisbursed
	case "completed":
		status = loandomain.StatusClosed
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "state must be active or completed"})
	}
	out, err := h.uc.ListLenderLoans(c.Request().Context(), act, status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
