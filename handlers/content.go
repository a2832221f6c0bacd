package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elearning_app/services"
)

type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) GetContent(c *gin.Context) {
	resp, err := h.content.ListContent(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve content")
		return
	}
	c.JSON(http.StatusOK, resp)
}
