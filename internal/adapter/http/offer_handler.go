package http

import (
	"net/http"

	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/usecase/offer"

	"github.com/labstack/echo/v4"
)

type OfferHandler struct{ uc *offer.Usecase }

func NewOfferHandler(uc *offer.Usecase) *OfferHandler { return &OfferHandler{uc: uc} }

func (h *OfferHandler) Create(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		var req offer.CreateInput
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

// List is role scoped: lenders get what they offered, borrowers what they received.
func (h *OfferHandler) List(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		dto, err := h.uc.List(c.Request().Context(), actor)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, dto)
	})
}

// Respond handles POST /loan-offers/:offer_id/:action. An accepted offer
// answers 201 with the funded loan; a rejection answers 200.
func (h *OfferHandler) Respond(c echo.Context) error {
	return withActor(c, func(actor user.Identity) error {
		offerID := c.Param("offer_id")
		if offerID == "" {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing offer_id path param"})
		}
		dto, err := h.uc.Respond(c.Request().Context(), actor, offerID, c.Param("action"))
		if err != nil {
			return writeError(c, err)
		}
		if dto.Loan != nil {
			return c.JSON(http.StatusCreated, dto)
		}
		return c.JSON(http.StatusOK, dto)
	})
}
