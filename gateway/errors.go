package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func (g *Gateway) writeError(c *gin.Context, err error) {
	status, message := apperror.Destruct(err)
	if status >= http.StatusInternalServerError {
		g.logger.Error("Request failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}

func (g *Gateway) abortWithError(c *gin.Context, err error) {
	g.writeError(c, err)
	c.Abort()
}

// bindError turns a body decoding failure into a validation error.
// fallback replaces field-level messages when set.
func bindError(err error, fallback string) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return apperror.Validation("Invalid request body")
	}
	if fallback != "" {
		return apperror.Validation("%s", fallback)
	}

	messages := make([]string, len(fields))
	for i, field := range fields {
		messages[i] = fmt.Sprintf("invalid '%s' with value '%v'", field.Field(), field.Value())
	}
	return apperror.Validation("%s", strings.Join(messages, ", "))
}
