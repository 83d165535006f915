package http

import (
	"net/http"

	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/usecase/settlement"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *settlement.Usecase }

func NewPaymentHandler(uc *settlement.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

// ListOutstanding returns the caller's unpaid installments.
func (h *PaymentHandler) ListOutstanding(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		list, err := h.uc.ListOutstanding(c.Request().Context(), actor)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})
}

func (h *PaymentHandler) Pay(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		paymentID := c.Param("payment_id")
		if paymentID == "" {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing payment_id path param"})
		}
		dto, err := h.uc.Pay(c.Request().Context(), actor, paymentID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, dto)
	})
}
