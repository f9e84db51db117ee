package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/tanmaygarg901/FinSight/docs" // generated swagger docs
)

// RegisterSwagger exposes the generated API documentation at /swagger/
func RegisterSwagger(e *echo.Echo) {
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
