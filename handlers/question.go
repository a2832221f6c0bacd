package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elearning_app/apierr"
	"elearning_app/models"
	"elearning_app/services"
)

type QuestionHandler struct {
	content *services.ContentService
}

func NewQuestionHandler(content *services.ContentService) *QuestionHandler {
	return &QuestionHandler{content: content}
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.Validation(questionBindMessage(err)), "")
		return
	}

	q, err := h.content.CreateQuestion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to add question")
		return
	}

	c.JSON(http.StatusCreated, models.QuestionResponse{
		Success:  true,
		Message:  "Question added successfully",
		Question: q,
	})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, apierr.Validation("Invalid question ID"), "")
		return
	}

	q, err := h.content.DeleteQuestion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to delete question")
		return
	}

	c.JSON(http.StatusOK, models.DeleteResponse[models.Question]{
		Success: true,
		Message: "Question deleted successfully",
		Deleted: q,
	})
}
