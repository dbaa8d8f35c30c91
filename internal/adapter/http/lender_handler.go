package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	ucApplication "loantrackr-backend/internal/usecase/application"
)

type LenderHandler struct{ uc *ucApplication.Usecase }

func NewLenderHandler(uc *ucApplication.Usecase) *LenderHandler { return &LenderHandler{uc: uc} }

// ListLenders is the public directory of verified, active lenders.
func (h *LenderHandler) ListLenders(c echo.Context) error {
	out, err := h.uc.ListActiveLenders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// EmiPreview computes installment figures for a lender's terms without
// creating anything. Query params: principal, tenure.
func (h *LenderHandler) EmiPreview(c echo.Context) error {
	lenderID := c.Param("lender_id")
	if !reHex32.MatchString(lenderID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lender_id"})
	}

	principal, err := decimal.NewFromString(c.QueryParam("principal"))
	if err != nil || !principal.IsPositive() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "principal must be a positive amount"})
	}
	tenureMonths, err := strconv.Atoi(c.QueryParam("tenure"))
	if err != nil || tenureMonths <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "tenure must be a positive month count"})
	}

	out, err := h.uc.PreviewEmi(c.Request().Context(), lenderID, principal, tenureMonths)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
