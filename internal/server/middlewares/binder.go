package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type binder struct {
	echo.DefaultBinder
	methodsWithBody map[string]bool
	mediaTypes      []string
}

// NewBinder returns a wrapp of the default binder implementation with extra checks.
// Request bodies must be non-empty forms or JSON.
func NewBinder() echo.Binder {
	return &binder{
		methodsWithBody: map[string]bool{
			http.MethodPost:  true,
			http.MethodPatch: true,
			http.MethodPut:   true,
		},
		mediaTypes: []string{
			echo.MIMEApplicationForm,
			echo.MIMEMultipartForm,
			echo.MIMEApplicationJSON,
		},
	}
}

// Bind implements the echo.Bind interface.
func (b *binder) Bind(i any, c echo.Context) (err error) {
	if !b.methodsWithBody[c.Request().Method] {
		return b.DefaultBinder.Bind(i, c)
	}

	if c.Request().ContentLength == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Request body can't be empty")
	}

	ctype := c.Request().Header.Get(echo.HeaderContentType)
	for _, mt := range b.mediaTypes {
		if strings.HasPrefix(ctype, mt) {
			return b.DefaultBinder.Bind(i, c)
		}
	}
	return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Request body must be a form")
}
