package controller

import (
	"net/http"
	"strings"

	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type listingRoutesHandler struct {
	listingService service.Listing
	validate       *validator.Validate
}

func newListingRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *listingRoutesHandler {
	h := &listingRoutesHandler{listingService: services.Listing, validate: v}
	outer.POST("/listings/new", h.PostListing)
	outer.GET("/listings", h.GetActiveListings)
	outer.GET("/listings/my", h.GetUserListings)

	outer.PATCH("/listings/:listingId/edit", h.EditListing)
	outer.PUT("/listings/:listingId/status", h.UpdateListingActive)

	return h
}

type postListingInput struct {
	Username          string `query:"username" validate:"required"`
	Product           string `json:"product" validate:"required,max=100"`
	Price             string `json:"price" validate:"required"`
	Currency          string `json:"currency" validate:"max=10"`
	Quantity          string `json:"quantity" validate:"required"`
	Location          string `json:"location" validate:"required,max=200"`
	DeliveryExFarm    bool   `json:"deliveryExFarm"`
	DeliveryDelivered bool   `json:"deliveryDelivered"`
	QualityGrade      string `json:"qualityGrade" validate:"max=50"`
	ExpiresAt         string `json:"expiresAt" validate:"required"`
}

// /listings/new
func (h *listingRoutesHandler) PostListing(c echo.Context) error {
	var input postListingInput
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
	expiresAt, err := parseDate(input.ExpiresAt)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"ExpiresAt is not a valid date"}); e != nil {
			return e
		}

		return err
	}

	currency := input.Currency
	if currency == "" {
		currency = "ZAR"
	}

	model := &entity.CreateListingInput{
		SellerUsername: input.Username, Product: input.Product, Price: price,
		Currency: currency, Quantity: quantity, Location: input.Location,
		DeliveryExFarm: input.DeliveryExFarm, DeliveryDelivered: input.DeliveryDelivered,
		QualityGrade: input.QualityGrade, ExpiresAt: expiresAt,
	}

	listing, err := h.listingService.CreateListing(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, listing); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrNotASeller:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only sellers can create listings"}); e != nil {
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

type getActiveListingsInput struct {
	Product string `query:"product" validate:"max=100"`
	Limit   int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset  int32  `query:"offset" validate:"gte=0"`
}

func newGetActiveListingsInput() getActiveListingsInput {
	return getActiveListingsInput{Limit: defaultLimit, Offset: defaultOffset}
}

// /listings
func (h *listingRoutesHandler) GetActiveListings(c echo.Context) error {
	var input = newGetActiveListingsInput()
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

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	listings, err := h.listingService.GetActiveListings(c.Request().Context(), input.Product, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, listings); e != nil {
			return e
		}

		return nil
	}

	if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
		return e
	}

	return err
}

type getUserListingsInput struct {
	Username string `query:"username" validate:""`
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
}

func newGetUserListingsInput() getUserListingsInput {
	return getUserListingsInput{Limit: defaultLimit, Offset: defaultOffset, Username: defaultUsername}
}

// /listings/my
func (h *listingRoutesHandler) GetUserListings(c echo.Context) error {
	var input = newGetUserListingsInput()
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
	listings, err := h.listingService.GetUserListings(c.Request().Context(), input.Username, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, listings); e != nil {
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

type editListingInput struct {
	ListingId    string `param:"listingId" validate:"required,max=100"`
	Username     string `query:"username" validate:"required"`
	Product      string `json:"product" validate:"max=100"`
	Location     string `json:"location" validate:"max=200"`
	QualityGrade string `json:"qualityGrade" validate:"max=50"`
}

// /listings/:listingId/edit
func (h *listingRoutesHandler) EditListing(c echo.Context) error {
	var input editListingInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.Username = c.QueryParam("username")
	input.ListingId = c.Param("listingId")
	if input.Product == "" && input.Location == "" && input.QualityGrade == "" {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Listing updates required, set product, location and/or quality grade"}); e != nil {
			return e
		}

		return nil
	}

	listing, err := h.listingService.EditListingById(c.Request().Context(),
		input.ListingId, input.Username, input.Product, input.Location, input.QualityGrade)
	if err == nil {
		if e := c.JSON(http.StatusOK, listing); e != nil {
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
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the listing owner can edit it"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type updateListingActiveInput struct {
	ListingId string `param:"listingId" validate:"required,max=100"`
	Username  string `query:"username" validate:"required"`
	Active    string `query:"active" validate:"required,oneof=true false"`
}

// /listings/:listingId/status
func (h *listingRoutesHandler) UpdateListingActive(c echo.Context) error {
	var input updateListingActiveInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.ListingId, input.Active, input.Username = c.Param("listingId"), c.QueryParam("active"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	listing, err := h.listingService.UpdateListingActiveById(c.Request().Context(),
		input.ListingId, input.Username, input.Active == "true")
	if err == nil {
		if e := c.JSON(http.StatusOK, listing); e != nil {
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
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the listing owner can change its status"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
