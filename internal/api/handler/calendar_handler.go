package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// CalendarHandler 月曆與首頁總覽
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 建立 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// MonthView 月曆格與每日行程
// GET /api/v1/calendar?year=2026&month=1
func (h *CalendarHandler) MonthView(c *gin.Context) {
	var req dto.MonthViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	view, err := h.calendarSvc.MonthView(c.Request.Context(), &req)
	if err != nil {
		if !handleCommonError(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, view)
}

// Dashboard GET /api/v1/dashboard
func (h *CalendarHandler) Dashboard(c *gin.Context) {
	dash, err := h.calendarSvc.Dashboard(c.Request.Context())
	if err != nil {
		if !handleCommonError(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, dash)
}
