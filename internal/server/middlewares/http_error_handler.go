package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/notepad/internal/nperror"
	"github.com/sirupsen/logrus"
)

// HTTPErrorHandler returns a middleware that renders errors as plain text.
// Internal errors are logged with an id that is also sent to the client when the error is not typed.
func HTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch err := err.(type) {
		case *echo.HTTPError:
			if err.Internal != nil {
				log.WithError(err.Internal).Warn("echo error")
			}
			_ = c.String(err.Code, fmt.Sprint(err.Message))
		case *nperror.Error:
			if err.HTTPCode < 500 {
				_ = c.String(err.HTTPCode, err.Message)
				return
			}

			id := errorID()
			log.WithFields(logrus.Fields{
				"error_id":  id,
				"operation": err.Operation,
			}).Error(err.Error())
			_ = c.String(err.HTTPCode, err.Message)
		default:
			id := errorID()
			log.WithField("error_id", id).Error(err.Error())
			_ = c.String(http.StatusInternalServerError, fmt.Sprintf("Unexpected error (id: %s)", id))
		}
	}
}

func errorID() string {
	return uuid.Must(uuid.NewV4()).String()
}
