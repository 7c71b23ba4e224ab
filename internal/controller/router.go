package controller

import (
	"farmfeed-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newListingRoutesHandler(api, services, validate)
	newOfferRoutesHandler(api, services, validate)
	newDealRoutesHandler(api, services, validate)
	newTransportRoutesHandler(api, services, validate)
	newBackloadRoutesHandler(api, services, validate)
}
