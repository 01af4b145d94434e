package server

import (
	"io"
	"net/http"

	app "adminserv/src/app"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const imageFormField = "image"

// PostImage accepts a single multipart file under the "image" field, runs it
// through the upload policy and stores it under a generated name. The
// response carries the generated filename only, never a path.
func (a *AppHandler) PostImage(c *gin.Context) {
	file, header, err := c.Request.FormFile(imageFormField)
	if err != nil {
		countError(c)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if err := a.policy.Check(header.Filename, header.Header.Get("Content-Type"), header.Size); err != nil {
		respondError(c, err)
		return
	}

	name := a.policy.Filename(imageFormField, header.Filename)
	if err := a.media.Save(c.Request.Context(), name, file, header.Size, app.ContentTypeFor(name)); err != nil {
		respondError(c, err)
		return
	}

	logrus.WithField("filename", name).Debug("image stored")
	c.JSON(http.StatusOK, gin.H{"filename": name})
}

// GetImage streams a stored image back by name. There is no access control:
// any caller who knows a filename can fetch it.
func (a *AppHandler) GetImage(c *gin.Context) {
	name := c.Param("filename")
	object, err := a.media.Open(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	defer object.Close()

	c.Header("Content-Type", app.ContentTypeFor(name))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, object); err != nil {
		logrus.WithError(err).WithField("filename", name).Error("image stream aborted")
	}
}
