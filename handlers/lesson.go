package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elearning_app/apierr"
	"elearning_app/models"
	"elearning_app/services"
)

type LessonHandler struct {
	content *services.ContentService
}

func NewLessonHandler(content *services.ContentService) *LessonHandler {
	return &LessonHandler{content: content}
}

func (h *LessonHandler) CreateLesson(c *gin.Context) {
	var req models.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.Validation(msgLessonRequired), "")
		return
	}

	lesson, err := h.content.CreateLesson(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to add lesson")
		return
	}

	c.JSON(http.StatusCreated, models.LessonResponse{
		Success: true,
		Message: "Lesson added successfully",
		Lesson:  lesson,
	})
}

func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		respondError(c, apierr.Validation("Invalid lesson ID"), "")
		return
	}

	lesson, err := h.content.DeleteLesson(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to delete lesson")
		return
	}

	c.JSON(http.StatusOK, models.DeleteResponse[models.Lesson]{
		Success: true,
		Message: "Lesson deleted successfully",
		Deleted: lesson,
	})
}
