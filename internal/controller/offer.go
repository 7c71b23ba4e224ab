package controller

import (
	"net/http"
	"strings"

	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type offerRoutesHandler struct {
	offerService service.Offer
	validate     *validator.Validate
}

func newOfferRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *offerRoutesHandler {
	h := &offerRoutesHandler{offerService: services.Offer, validate: v}
	outer.POST("/offers/new", h.PostOffer)
	outer.GET("/offers/my", h.GetUserOffers)
	outer.GET("/offers/:listingId/list", h.GetListingOffers)
	outer.GET("/offers/:offerId/status", h.GetOfferStatus)

	outer.PUT("/offers/:offerId/accept", h.AcceptOffer)
	outer.PUT("/offers/:offerId/reject", h.RejectOffer)
	outer.PUT("/offers/:offerId/counter", h.CounterOffer)
	outer.PUT("/offers/:offerId/counter_decision", h.RespondToCounter)

	return h
}

type postOfferInput struct {
	Username        string `query:"username" validate:"required"`
	ListingId       string `json:"listingId" validate:"required,max=100"`
	Price           string `json:"price" validate:"required"`
	Quantity        string `json:"quantity" validate:"required"`
	DeliveryType    string `json:"deliveryType" validate:"required,oneof=ex-farm delivered"`
	DeliveryAddress string `json:"deliveryAddress" validate:"max=200"`
	Message         string `json:"message" validate:"max=500"`
	Terms           string `json:"terms" validate:"max=1000"`
	IsNegotiable    bool   `json:"isNegotiable"`
}

// /offers/new
func (h *offerRoutesHandler) PostOffer(c echo.Context) error {
	var input postOfferInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.Username = c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	price, err := parseDecimal(input.Price)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Price is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	quantity, err := parseDecimal(input.Quantity)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Quantity is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateOfferInput{
		ListingId: input.ListingId, BuyerUsername: input.Username, Price: price,
		Quantity: quantity, DeliveryType: input.DeliveryType, DeliveryAddress: input.DeliveryAddress,
		Message: input.Message, Terms: input.Terms, IsNegotiable: input.IsNegotiable,
	}

	offer, err := h.offerService.CreateOffer(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, offer); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrListingNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no listing with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrNotABuyer:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only buyers can create offers"}); e != nil {
			return e
		}
	case service.ErrListingNotActive:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Listing is inactive or expired, so you can't create an offer"}); e != nil {
			return e
		}
	case service.ErrOwnListingOffer:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer can't be made on your own listing"}); e != nil {
			return e
		}
	case service.ErrInsufficientQuantity:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Offered quantity exceeds the listing's available quantity"}); e != nil {
			return e
		}
	case service.ErrDeliveryTypeUnavailable:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Listing doesn't support the requested delivery type"}); e != nil {
			return e
		}
	case service.ErrInvalidPrice:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Price must be greater than zero"}); e != nil {
			return e
		}
	case service.ErrInvalidQuantity:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Quantity must be greater than zero"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getUserOffersInput struct {
	Username   string `query:"username" validate:""`
	ActiveOnly string `query:"activeOnly" validate:"omitempty,oneof=true false"`
	Limit      int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset     int32  `query:"offset" validate:"gte=0"`
}

func newGetUserOffersInput() getUserOffersInput {
	return getUserOffersInput{Limit: defaultLimit, Offset: defaultOffset, Username: defaultUsername}
}

// /offers/my
func (h *offerRoutesHandler) GetUserOffers(c echo.Context) error {
	var input = newGetUserOffersInput()
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	if input.Username == defaultUsername {
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"Please provide your username"}); e != nil {
			return e
		}

		return nil
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	offers, err := h.offerService.GetUserOffers(c.Request().Context(), input.Username, input.ActiveOnly == "true", pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, offers); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getListingOffersInput struct {
	ListingId string `param:"listingId" validate:"required,max=100"`
	Username  string `query:"username" validate:"required"`
	Limit     int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset    int32  `query:"offset" validate:"gte=0"`
}

func newGetListingOffersInput() getListingOffersInput {
	return getListingOffersInput{Limit: defaultLimit, Offset: defaultOffset}
}

// /offers/:listingId/list
func (h *offerRoutesHandler) GetListingOffers(c echo.Context) error {
	var input = newGetListingOffersInput()
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.ListingId = c.Param("listingId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	offers, err := h.offerService.GetListingOffers(c.Request().Context(), input.ListingId, input.Username, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, offers); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrListingNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no listing with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToListing:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the listing owner can see its offers"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getOfferStatusInput struct {
	OfferId  string `param:"offerId" validate:"required,max=100"`
	Username string `query:"username" validate:"required"`
}

// /offers/:offerId/status
func (h *offerRoutesHandler) GetOfferStatus(c echo.Context) error {
	var input getOfferStatusInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.OfferId = c.Param("offerId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	status, err := h.offerService.GetOfferStatusById(c.Request().Context(), input.OfferId, input.Username)
	if err == nil {
		if e := c.JSON(http.StatusOK, status); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrOfferNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no offer with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToOffer:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the buyer and the seller can view offer status"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type offerActionInput struct {
	OfferId  string `param:"offerId" validate:"required,max=100"`
	Username string `query:"username" validate:"required"`
}

// /offers/:offerId/accept
func (h *offerRoutesHandler) AcceptOffer(c echo.Context) error {
	var input offerActionInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.OfferId, input.Username = c.Param("offerId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	deal, err := h.offerService.AcceptOffer(c.Request().Context(), input.OfferId, input.Username)
	if err == nil {
		if e := c.JSON(http.StatusOK, deal); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrOfferNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no offer with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToOffer:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the seller can accept an offer"}); e != nil {
			return e
		}
	case service.ErrOfferNotOpen:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer is in a terminal state and can't be accepted"}); e != nil {
			return e
		}
	case service.ErrOfferExpired:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer has expired and can't be accepted"}); e != nil {
			return e
		}
	case service.ErrInsufficientQuantity:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Listing no longer has enough available quantity"}); e != nil {
			return e
		}
	case service.ErrDealAlreadyExists:
		if e := c.JSON(http.StatusForbidden, errorResponse{"A deal already exists for this offer"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /offers/:offerId/reject
func (h *offerRoutesHandler) RejectOffer(c echo.Context) error {
	var input offerActionInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.OfferId, input.Username = c.Param("offerId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	offer, err := h.offerService.RejectOffer(c.Request().Context(), input.OfferId, input.Username)
	if err == nil {
		if e := c.JSON(http.StatusOK, offer); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrOfferNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no offer with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToOffer:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the seller can reject an offer"}); e != nil {
			return e
		}
	case service.ErrOfferNotOpen:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer is in a terminal state and can't be rejected"}); e != nil {
			return e
		}
	case service.ErrOfferExpired:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer has expired and can't be rejected"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type counterOfferInput struct {
	OfferId  string `param:"offerId" validate:"required,max=100"`
	Username string `query:"username" validate:"required"`
	Price    string `json:"price" validate:"required"`
	Message  string `json:"message" validate:"required,max=500"`
}

// /offers/:offerId/counter
func (h *offerRoutesHandler) CounterOffer(c echo.Context) error {
	var input counterOfferInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.OfferId, input.Username = c.Param("offerId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	price, err := parseDecimal(input.Price)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Price is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}

	offer, err := h.offerService.CounterOffer(c.Request().Context(), input.OfferId, input.Username, price, input.Message)
	if err == nil {
		if e := c.JSON(http.StatusOK, offer); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrOfferNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no offer with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToOffer:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the seller can counter an offer"}); e != nil {
			return e
		}
	case service.ErrOfferNotOpen:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer is in a terminal state and can't be countered"}); e != nil {
			return e
		}
	case service.ErrOfferExpired:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer has expired and can't be countered"}); e != nil {
			return e
		}
	case service.ErrInvalidPrice:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Price must be greater than zero"}); e != nil {
			return e
		}
	case service.ErrCounterMessageRequired:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Counter-offer message can't be empty"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type respondToCounterInput struct {
	OfferId  string `param:"offerId" validate:"required,max=100"`
	Username string `query:"username" validate:"required"`
	Decision string `query:"decision" validate:"required,oneof=accept reject"`
}

type counterDecisionResponse struct {
	Offer *entity.OfferOutputModel `json:"offer"`
	Deal  *entity.DealOutputModel  `json:"deal,omitempty"`
}

// /offers/:offerId/counter_decision
func (h *offerRoutesHandler) RespondToCounter(c echo.Context) error {
	var input respondToCounterInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.OfferId, input.Decision, input.Username = c.Param("offerId"), c.QueryParam("decision"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	offer, deal, err := h.offerService.RespondToCounter(c.Request().Context(), input.OfferId, input.Username, input.Decision)
	if err == nil {
		if e := c.JSON(http.StatusOK, counterDecisionResponse{Offer: offer, Deal: deal}); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrOfferNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no offer with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToOffer:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the buyer can respond to a counter-offer"}); e != nil {
			return e
		}
	case service.ErrNoActiveCounter:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer has no counter-offer to respond to"}); e != nil {
			return e
		}
	case service.ErrOfferNotOpen:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer is in a terminal state"}); e != nil {
			return e
		}
	case service.ErrOfferExpired:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Offer has expired"}); e != nil {
			return e
		}
	case service.ErrDealAlreadyExists:
		if e := c.JSON(http.StatusForbidden, errorResponse{"A deal already exists for this offer"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
