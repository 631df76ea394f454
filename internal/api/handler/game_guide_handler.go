package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/service"
	"github.com/BrianLien09/schedule-app/pkg/response"
)

// GameGuideHandler 遊戲攻略 HTTP 處理器
type GameGuideHandler struct {
	guideSvc service.GameGuideService
}

// NewGameGuideHandler 建立 GameGuideHandler
func NewGameGuideHandler(guideSvc service.GameGuideService) *GameGuideHandler {
	return &GameGuideHandler{guideSvc: guideSvc}
}

// List 攻略列表
// GET /api/v1/game-guides?gameId=xxx&version=2.1
func (h *GameGuideHandler) List(c *gin.Context) {
	var req dto.GameGuideListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	list, err := h.guideSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleGameGuideError(c, err)
		return
	}
	response.OK(c, list)
}

// Get GET /api/v1/game-guides/:id
func (h *GameGuideHandler) Get(c *gin.Context) {
	id, ok := mustParamID(c, "攻略")
	if !ok {
		return
	}
	guide, err := h.guideSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleGameGuideError(c, err)
		return
	}
	response.OK(c, guide)
}

// Create POST /api/v1/game-guides
func (h *GameGuideHandler) Create(c *gin.Context) {
	var req dto.CreateGameGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	guide, err := h.guideSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleGameGuideError(c, err)
		return
	}
	response.Created(c, guide)
}

// Update PUT /api/v1/game-guides/:id
func (h *GameGuideHandler) Update(c *gin.Context) {
	id, ok := mustParamID(c, "攻略")
	if !ok {
		return
	}
	var req dto.UpdateGameGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	guide, err := h.guideSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleGameGuideError(c, err)
		return
	}
	response.OK(c, guide)
}

// Delete DELETE /api/v1/game-guides/:id
func (h *GameGuideHandler) Delete(c *gin.Context) {
	id, ok := mustParamID(c, "攻略")
	if !ok {
		return
	}
	if err := h.guideSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleGameGuideError(c, err)
		return
	}
	response.OK(c, nil)
}

// ToggleCompleted 切換完成狀態
// POST /api/v1/game-guides/:id/toggle
func (h *GameGuideHandler) ToggleCompleted(c *gin.Context) {
	id, ok := mustParamID(c, "攻略")
	if !ok {
		return
	}
	guide, err := h.guideSvc.ToggleCompleted(c.Request.Context(), id)
	if err != nil {
		h.handleGameGuideError(c, err)
		return
	}
	response.OK(c, guide)
}

// Progress 完成進度
// GET /api/v1/game-guides/progress?gameId=xxx
func (h *GameGuideHandler) Progress(c *gin.Context) {
	var req dto.GameGuideListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "參數校驗失敗")
		return
	}
	progress, err := h.guideSvc.Progress(c.Request.Context(), &req)
	if err != nil {
		h.handleGameGuideError(c, err)
		return
	}
	response.OK(c, progress)
}

// Versions 某遊戲出現過的版本，新版在前
// GET /api/v1/game-guides/versions?gameId=xxx
func (h *GameGuideHandler) Versions(c *gin.Context) {
	gameID := c.Query("gameId")
	if gameID == "" {
		response.BadRequest(c, 10001, "gameId 不可為空")
		return
	}
	versions, err := h.guideSvc.Versions(c.Request.Context(), gameID)
	if err != nil {
		h.handleGameGuideError(c, err)
		return
	}
	response.OK(c, versions)
}

// GameIDs GET /api/v1/game-guides/games
func (h *GameGuideHandler) GameIDs(c *gin.Context) {
	ids, err := h.guideSvc.GameIDs(c.Request.Context())
	if err != nil {
		h.handleGameGuideError(c, err)
		return
	}
	response.OK(c, ids)
}

func (h *GameGuideHandler) handleGameGuideError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrGameGuideNotFound):
		response.NotFound(c, 25001, "攻略不存在")
	default:
		response.InternalError(c)
	}
}
