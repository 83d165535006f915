package http

import (
	"net/http"

	ucUser "p2p-lending/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *ucUser.Usecase }

func NewUserHandler(uc *ucUser.Usecase) *UserHandler { return &UserHandler{uc: uc} }

// Register creates a user with an empty wallet and returns a bearer token.
func (h *UserHandler) Register(c echo.Context) error {
	var req ucUser.RegisterInput
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
