package controller

import (
	"net/http"
	"strings"

	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type transportRoutesHandler struct {
	transportService service.Transport
	validate         *validator.Validate
}

func newTransportRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *transportRoutesHandler {
	h := &transportRoutesHandler{transportService: services.Transport, validate: v}
	outer.POST("/transport/requests/new", h.PostTransportRequest)
	outer.GET("/transport/requests", h.GetOpenTransportRequests)
	outer.GET("/transport/requests/my", h.GetUserTransportRequests)
	outer.GET("/transport/requests/:requestId/quotes", h.GetRequestQuotes)

	outer.POST("/transport/quotes/new", h.PostQuote)
	outer.PUT("/transport/quotes/:quoteId/accept", h.AcceptQuote)
	outer.PUT("/transport/quotes/:quoteId/reject", h.RejectQuote)

	return h
}

type postTransportRequestInput struct {
	Username         string `query:"username" validate:"required"`
	DealId           string `json:"dealId" validate:"max=100"`
	PickupLocation   string `json:"pickupLocation" validate:"required,max=200"`
	DeliveryLocation string `json:"deliveryLocation" validate:"required,max=200"`
	Quantity         string `json:"quantity" validate:"required"`
	Unit             string `json:"unit" validate:"required,max=20"`
	PreferredDate    string `json:"preferredDate" validate:"required"`
	Budget           string `json:"budget"`
	DistanceKm       string `json:"distanceKm" validate:"required"`
	FuelCost         string `json:"fuelCost" validate:"required"`
	LaborCost        string `json:"laborCost" validate:"required"`
	Overhead         string `json:"overhead" validate:"required"`
}

// /transport/requests/new
func (h *transportRoutesHandler) PostTransportRequest(c echo.Context) error {
	var input postTransportRequestInput
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

	quantity, err := parseDecimal(input.Quantity)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Quantity is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	preferredDate, err := parseDate(input.PreferredDate)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"PreferredDate is not a valid date"}); e != nil {
			return e
		}

		return err
	}
	budget, err := parseOptionalDecimal(input.Budget)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Budget is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	distanceKm, err := parseDecimal(input.DistanceKm)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"DistanceKm is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	fuelCost, err := parseDecimal(input.FuelCost)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"FuelCost is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	laborCost, err := parseDecimal(input.LaborCost)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"LaborCost is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	overhead, err := parseDecimal(input.Overhead)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Overhead is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateTransportRequestInput{
		DealId: input.DealId, RequesterUsername: input.Username,
		PickupLocation: input.PickupLocation, DeliveryLocation: input.DeliveryLocation,
		Quantity: quantity, Unit: input.Unit, PreferredDate: preferredDate, Budget: budget,
		DistanceKm: distanceKm, FuelCost: fuelCost, LaborCost: laborCost, Overhead: overhead,
	}

	request, err := h.transportService.CreateTransportRequest(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, request); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrDealNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no deal with given id"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToDeal:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the deal's buyer and seller can request transport for it"}); e != nil {
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

type getOpenTransportRequestsInput struct {
	Username string `query:"username" validate:"required"`
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
}

func newGetOpenTransportRequestsInput() getOpenTransportRequestsInput {
	return getOpenTransportRequestsInput{Limit: defaultLimit, Offset: defaultOffset}
}

// /transport/requests
func (h *transportRoutesHandler) GetOpenTransportRequests(c echo.Context) error {
	var input = newGetOpenTransportRequestsInput()
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
	requests, err := h.transportService.GetOpenTransportRequests(c.Request().Context(), input.Username, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, requests); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrNotATransporter:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only transporters can browse open transport requests"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getUserTransportRequestsInput struct {
	Username string `query:"username" validate:""`
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
}

func newGetUserTransportRequestsInput() getUserTransportRequestsInput {
	return getUserTransportRequestsInput{Limit: defaultLimit, Offset: defaultOffset, Username: defaultUsername}
}

// /transport/requests/my
func (h *transportRoutesHandler) GetUserTransportRequests(c echo.Context) error {
	var input = newGetUserTransportRequestsInput()
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
	requests, err := h.transportService.GetUserTransportRequests(c.Request().Context(), input.Username, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, requests); e != nil {
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

type postQuoteInput struct {
	Username           string `query:"username" validate:"required"`
	TransportRequestId string `json:"transportRequestId" validate:"required,max=100"`
	Price              string `json:"price" validate:"required"`
	EstimatedDays      int    `json:"estimatedDays" validate:"required,min=1"`
	VehicleType        string `json:"vehicleType" validate:"required,max=100"`
	InsuranceIncluded  bool   `json:"insuranceIncluded"`
	BasePrice          string `json:"basePrice" validate:"required"`
	FuelSurcharge      string `json:"fuelSurcharge" validate:"required"`
	TollFees           string `json:"tollFees" validate:"required"`
	InsuranceCost      string `json:"insuranceCost" validate:"required"`
}

// /transport/quotes/new
func (h *transportRoutesHandler) PostQuote(c echo.Context) error {
	var input postQuoteInput
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
	basePrice, err := parseDecimal(input.BasePrice)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"BasePrice is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	fuelSurcharge, err := parseDecimal(input.FuelSurcharge)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"FuelSurcharge is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	tollFees, err := parseDecimal(input.TollFees)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"TollFees is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	insuranceCost, err := parseDecimal(input.InsuranceCost)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"InsuranceCost is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateTransportQuoteInput{
		TransportRequestId: input.TransportRequestId, TransporterUsername: input.Username,
		Price: price, EstimatedDays: input.EstimatedDays, VehicleType: input.VehicleType,
		InsuranceIncluded: input.InsuranceIncluded, BasePrice: basePrice,
		FuelSurcharge: fuelSurcharge, TollFees: tollFees, InsuranceCost: insuranceCost,
	}

	quote, err := h.transportService.CreateQuote(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, quote); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTransportRequestNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no transport request with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrNotATransporter:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only transporters can submit quotes"}); e != nil {
			return e
		}
	case service.ErrRequestNotOpen:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Transport request is no longer taking quotes"}); e != nil {
			return e
		}
	case service.ErrRequesterCanNotQuote:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Quote can't be submitted on your own transport request"}); e != nil {
			return e
		}
	case service.ErrInvalidPrice:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Price must be greater than zero"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getRequestQuotesInput struct {
	RequestId string `param:"requestId" validate:"required,max=100"`
	Username  string `query:"username" validate:"required"`
	Limit     int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset    int32  `query:"offset" validate:"gte=0"`
}

func newGetRequestQuotesInput() getRequestQuotesInput {
	return getRequestQuotesInput{Limit: defaultLimit, Offset: defaultOffset}
}

// /transport/requests/:requestId/quotes
func (h *transportRoutesHandler) GetRequestQuotes(c echo.Context) error {
	var input = newGetRequestQuotesInput()
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.RequestId = c.Param("requestId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	quotes, err := h.transportService.GetRequestQuotes(c.Request().Context(), input.RequestId, input.Username, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, quotes); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrTransportRequestNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no transport request with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToRequest:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the requester can see quotes on the transport request"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type quoteActionInput struct {
	QuoteId  string `param:"quoteId" validate:"required,max=100"`
	Username string `query:"username" validate:"required"`
}

// /transport/quotes/:quoteId/accept
func (h *transportRoutesHandler) AcceptQuote(c echo.Context) error {
	var input quoteActionInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.QuoteId, input.Username = c.Param("quoteId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	quote, err := h.transportService.AcceptQuote(c.Request().Context(), input.QuoteId, input.Username)
	if err == nil {
		if e := c.JSON(http.StatusOK, quote); e != nil {
			return e
		}

		return nil
	}

	return h.writeQuoteError(c, err)
}

// /transport/quotes/:quoteId/reject
func (h *transportRoutesHandler) RejectQuote(c echo.Context) error {
	var input quoteActionInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.QuoteId, input.Username = c.Param("quoteId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	quote, err := h.transportService.RejectQuote(c.Request().Context(), input.QuoteId, input.Username)
	if err == nil {
		if e := c.JSON(http.StatusOK, quote); e != nil {
			return e
		}

		return nil
	}

	return h.writeQuoteError(c, err)
}

func (h *transportRoutesHandler) writeQuoteError(c echo.Context, err error) error {
	switch err {
	case service.ErrQuoteNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no transport quote with given id"}); e != nil {
			return e
		}
	case service.ErrTransportRequestNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no transport request with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToRequest:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the requester can decide on quotes"}); e != nil {
			return e
		}
	case service.ErrRequestAlreadyAccepted:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Transport request already has an accepted quote"}); e != nil {
			return e
		}
	case service.ErrQuoteNotPending:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Transport quote is not pending"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
