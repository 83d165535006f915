package http

import (
	"context"
	"net/http"

	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/usecase/wallet"

	"github.com/labstack/echo/v4"
)

type WalletHandler struct{ uc *wallet.Usecase }

func NewWalletHandler(uc *wallet.Usecase) *WalletHandler { return &WalletHandler{uc: uc} }

func (h *WalletHandler) Get(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		dto, err := h.uc.Get(c.Request().Context(), actor.UserID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, dto)
	})
}

func (h *WalletHandler) Deposit(c echo.Context) error { return h.move(c, h.uc.Deposit) }

func (h *WalletHandler) Withdraw(c echo.Context) error { return h.move(c, h.uc.Withdraw) }

func (h *WalletHandler) move(c echo.Context, op func(context.Context, string, wallet.MoneyInput) (*wallet.BalanceDTO, error)) error {
	return withActor(c, func(actor user.Identity) error {
		var req wallet.MoneyInput
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
		dto, err := op(c.Request().Context(), actor.UserID, req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, dto)
	})
}

// Transfers lists every movement the caller took part in, newest first.
func (h *WalletHandler) Transfers(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		list, err := h.uc.History(c.Request().Context(), actor.UserID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})
}
