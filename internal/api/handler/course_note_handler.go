package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// CourseNoteHandler 課程筆記 HTTP 處理器
type CourseNoteHandler struct {
	noteSvc service.CourseNoteService
}

// NewCourseNoteHandler 建立 CourseNoteHandler
func NewCourseNoteHandler(noteSvc service.CourseNoteService) *CourseNoteHandler {
	return &CourseNoteHandler{noteSvc: noteSvc}
}

// List GET /api/v1/course-notes?courseId=xxx&type=homework
func (h *CourseNoteHandler) List(c *gin.Context) {
	var req dto.CourseNoteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	list, err := h.noteSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseNoteError(c, err)
		return
	}
	response.OK(c, list)
}

// Get GET /api/v1/course-notes/:id
func (h *CourseNoteHandler) Get(c *gin.Context) {
	id, ok := mustParamID(c, "筆記")
	if !ok {
		return
	}
	note, err := h.noteSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleCourseNoteError(c, err)
		return
	}
	response.OK(c, note)
}

// Create POST /api/v1/course-notes
func (h *CourseNoteHandler) Create(c *gin.Context) {
	var req dto.CreateCourseNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	note, err := h.noteSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseNoteError(c, err)
		return
	}
	response.Created(c, note)
}

// Update PUT /api/v1/course-notes/:id
func (h *CourseNoteHandler) Update(c *gin.Context) {
	id, ok := mustParamID(c, "筆記")
	if !ok {
		return
	}
	var req dto.UpdateCourseNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	note, err := h.noteSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCourseNoteError(c, err)
		return
	}
	response.OK(c, note)
}

// Delete DELETE /api/v1/course-notes/:id
func (h *CourseNoteHandler) Delete(c *gin.Context) {
	id, ok := mustParamID(c, "筆記")
	if !ok {
		return
	}
	if err := h.noteSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCourseNoteError(c, err)
		return
	}
	response.OK(c, nil)
}

// ToggleCompleted POST /api/v1/course-notes/:id/toggle
func (h *CourseNoteHandler) ToggleCompleted(c *gin.Context) {
	id, ok := mustParamID(c, "筆記")
	if !ok {
		return
	}
	note, err := h.noteSvc.ToggleCompleted(c.Request.Context(), id)
	if err != nil {
		h.handleCourseNoteError(c, err)
		return
	}
	response.OK(c, note)
}

// Upcoming 七天內到期且未完成的作業與考試
// GET /api/v1/course-notes/upcoming
func (h *CourseNoteHandler) Upcoming(c *gin.Context) {
	list, err := h.noteSvc.Upcoming(c.Request.Context())
	if err != nil {
		h.handleCourseNoteError(c, err)
		return
	}
	response.OK(c, list)
}

func (h *CourseNoteHandler) handleCourseNoteError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCourseNoteNotFound):
		response.NotFound(c, 26001, "筆記不存在")
	default:
		response.InternalError(c)
	}
}
