package server

import (
	"errors"
	"net/http"

	app "adminserv/src/app"
	db "adminserv/src/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps the store error taxonomy onto HTTP statuses. Everything
// unclassified is a 500; the message string is the whole error body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, db.ErrNotFound), errors.Is(err, app.ErrObjectMissing):
		status = http.StatusNotFound
	case errors.Is(err, db.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, app.ErrUnsupportedMedia):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, app.ErrPayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
	}
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	countError(c)
	c.JSON(status, gin.H{"error": err.Error()})
}
