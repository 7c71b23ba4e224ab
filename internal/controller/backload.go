package controller

import (
	"net/http"

	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type backloadRoutesHandler struct {
	backloadService service.Backload
	validate        *validator.Validate
}

func newBackloadRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *backloadRoutesHandler {
	h := &backloadRoutesHandler{backloadService: services.Backload, validate: v}
	outer.POST("/backloads/new", h.PostBackload)
	outer.GET("/backloads", h.GetActiveBackloads)

	return h
}

type postBackloadInput struct {
	Username      string `query:"username" validate:"required"`
	FromLocation  string `json:"fromLocation" validate:"required,max=200"`
	ToLocation    string `json:"toLocation" validate:"required,max=200"`
	CapacityTons  string `json:"capacityTons" validate:"required"`
	AvailableDate string `json:"availableDate" validate:"required"`
	PriceEstimate string `json:"priceEstimate"`
}

// /backloads/new
func (h *backloadRoutesHandler) PostBackload(c echo.Context) error {
	var input postBackloadInput
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

	capacity, err := parseDecimal(input.CapacityTons)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"CapacityTons is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}
	availableDate, err := parseDate(input.AvailableDate)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"AvailableDate is not a valid date"}); e != nil {
			return e
		}

		return err
	}
	priceEstimate, err := parseOptionalDecimal(input.PriceEstimate)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"PriceEstimate is not a valid decimal number"}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateBackloadInput{
		TransporterUsername: input.Username, FromLocation: input.FromLocation,
		ToLocation: input.ToLocation, CapacityTons: capacity,
		AvailableDate: availableDate, PriceEstimate: priceEstimate,
	}

	backload, err := h.backloadService.CreateBackload(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, backload); e != nil {
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
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only transporters can advertise backloads"}); e != nil {
			return e
		}
	case service.ErrInvalidQuantity:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"CapacityTons must be greater than zero"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getActiveBackloadsInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

func newGetActiveBackloadsInput() getActiveBackloadsInput {
	return getActiveBackloadsInput{Limit: defaultLimit, Offset: defaultOffset}
}

// /backloads
func (h *backloadRoutesHandler) GetActiveBackloads(c echo.Context) error {
	var input = newGetActiveBackloadsInput()
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
	backloads, err := h.backloadService.GetActiveBackloads(c.Request().Context(), pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, backloads); e != nil {
			return e
		}

		return nil
	}

	if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
		return e
	}

	return err
}
