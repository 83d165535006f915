package http

import (
	"net/http"

	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/usecase/loanrequest"

	"github.com/labstack/echo/v4"
)

type LoanRequestHandler struct{ uc *loanrequest.Usecase }

func NewLoanRequestHandler(uc *loanrequest.Usecase) *LoanRequestHandler {
	return &LoanRequestHandler{uc: uc}
}

func (h *LoanRequestHandler) Create(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		var req loanrequest.CreateInput
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
		dto, err := h.uc.Create(c.Request().Context(), actor, req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, dto)
	})
}

func (h *LoanRequestHandler) ListActive(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		list, err := h.uc.ListActive(c.Request().Context(), actor)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})
}

func (h *LoanRequestHandler) Delete(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		requestID := c.Param("request_id")
		if requestID == "" {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
		}
		if err := h.uc.Delete(c.Request().Context(), actor, requestID); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	})
}
