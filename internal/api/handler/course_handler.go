package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// CourseHandler 課程模組 HTTP 處理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 建立 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// List 課程列表
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	list, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 課程詳情
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := mustParamID(c, "課程")
	if !ok {
		return
	}
	course, err := h.courseSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, course)
}

// Create 新增課程
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.Created(c, course)
}

// Update 更新課程
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := mustParamID(c, "課程")
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	course, err := h.courseSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, course)
}

// Delete 刪除課程
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := mustParamID(c, "課程")
	if !ok {
		return
	}
	if err := h.courseSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, nil)
}

// ImportICS 匯入課表
// POST /api/v1/courses/import?url=...   由網址下載
// POST /api/v1/courses/import           上傳 .ics（multipart 欄位 file 或原始 body）
func (h *CourseHandler) ImportICS(c *gin.Context) {
	var req dto.ImportICSRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}

	var (
		result *dto.ImportCoursesResponse
		err    error
	)
	if req.URL != "" {
		result, err = h.courseSvc.ImportICSFromURL(c.Request.Context(), req.URL)
	} else {
		data, ok := readUpload(c)
		if !ok {
			return
		}
		result, err = h.courseSvc.ImportICS(c.Request.Context(), bytes.NewReader(data))
	}
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 20001, "課程不存在")
	case errors.Is(err, service.ErrICSFetchFailed):
		response.Error(c, http.StatusBadGateway, 20002, "無法下載 ICS 檔案")
	default:
		response.InternalError(c)
	}
}
