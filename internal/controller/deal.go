package controller

import (
	"net/http"
	"strings"

	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type dealRoutesHandler struct {
	dealService service.Deal
	validate    *validator.Validate
}

func newDealRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *dealRoutesHandler {
	h := &dealRoutesHandler{dealService: services.Deal, validate: v}
	outer.GET("/deals/my", h.GetUserDeals)
	outer.GET("/deals/:dealId", h.GetDeal)

	outer.PUT("/deals/:dealId/advance", h.AdvanceDeal)
	outer.PUT("/deals/:dealId/cancel", h.CancelDeal)
	outer.PUT("/deals/:dealId/payment_status", h.UpdateDealPaymentStatus)

	return h
}

type getUserDealsInput struct {
	Username string `query:"username" validate:""`
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
}

func newGetUserDealsInput() getUserDealsInput {
	return getUserDealsInput{Limit: defaultLimit, Offset: defaultOffset, Username: defaultUsername}
}

// /deals/my
func (h *dealRoutesHandler) GetUserDeals(c echo.Context) error {
	var input = newGetUserDealsInput()
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
	deals, err := h.dealService.GetUserDeals(c.Request().Context(), input.Username, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, deals); e != nil {
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

type dealActionInput struct {
	DealId   string `param:"dealId" validate:"required,max=100"`
	Username string `query:"username" validate:"required"`
}

// /deals/:dealId
func (h *dealRoutesHandler) GetDeal(c echo.Context) error {
	var input dealActionInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.DealId = c.Param("dealId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	deal, err := h.dealService.GetDealById(c.Request().Context(), input.DealId, input.Username)
	if err == nil {
		if e := c.JSON(http.StatusOK, deal); e != nil {
			return e
		}

		return nil
	}

	return h.writeDealError(c, err)
}

// /deals/:dealId/advance
func (h *dealRoutesHandler) AdvanceDeal(c echo.Context) error {
	var input dealActionInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.DealId, input.Username = c.Param("dealId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	deal, err := h.dealService.AdvanceDeal(c.Request().Context(), input.DealId, input.Username)
	if err == nil {
		if e := c.JSON(http.StatusOK, deal); e != nil {
			return e
		}

		return nil
	}

	return h.writeDealError(c, err)
}

// /deals/:dealId/cancel
func (h *dealRoutesHandler) CancelDeal(c echo.Context) error {
	var input dealActionInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.DealId, input.Username = c.Param("dealId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	deal, err := h.dealService.CancelDeal(c.Request().Context(), input.DealId, input.Username)
	if err == nil {
		if e := c.JSON(http.StatusOK, deal); e != nil {
			return e
		}

		return nil
	}

	return h.writeDealError(c, err)
}

type updateDealPaymentStatusInput struct {
	DealId        string `param:"dealId" validate:"required,max=100"`
	Username      string `query:"username" validate:"required"`
	PaymentStatus string `query:"paymentStatus" validate:"required,oneof=pending partial paid refunded"`
}

// /deals/:dealId/payment_status
func (h *dealRoutesHandler) UpdateDealPaymentStatus(c echo.Context) error {
	var input updateDealPaymentStatusInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.DealId, input.PaymentStatus, input.Username = c.Param("dealId"), c.QueryParam("paymentStatus"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	deal, err := h.dealService.UpdateDealPaymentStatus(c.Request().Context(), input.DealId, input.Username, input.PaymentStatus)
	if err == nil {
		if e := c.JSON(http.StatusOK, deal); e != nil {
			return e
		}

		return nil
	}

	return h.writeDealError(c, err)
}

func (h *dealRoutesHandler) writeDealError(c echo.Context, err error) error {
	switch err {
	case service.ErrDealNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no deal with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given username"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToDeal:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the deal's buyer and seller can access it"}); e != nil {
			return e
		}
	case service.ErrInvalidDealTransition:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Deal can't move to the requested status"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
