package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const greeting = "Hello World!"

// Greeting handles GET /, the string the frontend renders on load.
//
// @Summary      Greeting
// @Tags         app
// @Produce      plain
// @Success      200  {string}  string  "Hello World!"
// @Router       / [get]
func Greeting(c echo.Context) error {
	return c.String(http.StatusOK, greeting)
}
