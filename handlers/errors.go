package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"elearning_app/apierr"
	"elearning_app/models"
)

var statusLabels = map[int]string{
	http.StatusBadRequest:          "Bad request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusNotFound:            "Not found",
	http.StatusInternalServerError: "Internal server error",
}

// respondError writes {error, message}. Store failures keep their cause out
// of the response and use fallback as the message instead.
func respondError(c *gin.Context, err error, fallback string) {
	status := apierr.StatusOf(err)
	msg := fallback
	if e, ok := apierr.As(err); ok && e.Code != apierr.CodeStore && e.Err != nil {
		msg = e.Err.Error()
	}
	label, ok := statusLabels[status]
	if !ok {
		label = http.StatusText(status)
	}
	c.JSON(status, models.ErrorResponse{Error: label, Message: msg})
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// NotFound handles every unmatched route.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "Not found",
		Message: "The requested resource was not found",
		Path:    c.Request.URL.RequestURI(),
	})
}
