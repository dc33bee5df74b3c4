package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KokoBrian/SkillTracker/internal/dto"
	"github.com/KokoBrian/SkillTracker/internal/model"
	"github.com/KokoBrian/SkillTracker/internal/service"
	pkgerrors "github.com/KokoBrian/SkillTracker/pkg/errors"
	"github.com/KokoBrian/SkillTracker/pkg/response"
)

// EndorsementHandler 软技能背书模块 HTTP 处理器
type EndorsementHandler struct {
	endorsementSvc service.EndorsementService
}

// NewEndorsementHandler 创建 EndorsementHandler
func NewEndorsementHandler(endorsementSvc service.EndorsementService) *EndorsementHandler {
	return &EndorsementHandler{endorsementSvc: endorsementSvc}
}

// Create 签发背书
// POST /api/v1/endorsements
func (h *EndorsementHandler) Create(c *gin.Context) {
	var req dto.CreateEndorsementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	issuerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.endorsementSvc.Create(c.Request.Context(), issuerID, &req)
	if err != nil {
		h.handleEndorsementError(c, err)
		return
	}
	response.Created(c, result)
}

// Get 背书详情
// GET /api/v1/endorsements/:id
func (h *EndorsementHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "背书 ID 不能为空")
		return
	}

	result, err := h.endorsementSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEndorsementError(c, err)
		return
	}
	response.OK(c, result)
}

// ListByLearner 学员的背书列表（非本人只见公开背书）
// GET /api/v1/learners/:id/endorsements
// GET /api/v1/endorsements?learner_id=xxx
func (h *EndorsementHandler) ListByLearner(c *gin.Context) {
	learnerID := c.Param("id")
	if learnerID == "" {
		learnerID = c.Query("learner_id")
	}
	if learnerID == "" {
		response.BadRequest(c, 14001, "学员 ID 不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	isOwner := callerID == learnerID || role == model.RoleAdmin

	list, err := h.endorsementSvc.ListByLearner(c.Request.Context(), learnerID, isOwner)
	if err != nil {
		h.handleEndorsementError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// handleEndorsementError 统一处理背书模块业务错误
func (h *EndorsementHandler) handleEndorsementError(c *gin.Context, err error) {
	var valErr *pkgerrors.ValidationError

	switch {
	case errors.As(err, &valErr):
		response.FieldError(c, 14002, valErr.Field, valErr.Message)
	case errors.Is(err, service.ErrEndorsementNotFound):
		response.NotFound(c, 14101, "背书不存在")
	case errors.Is(err, service.ErrEndorseeNotFound):
		response.NotFound(c, 14102, "学员不存在")
	case errors.Is(err, service.ErrEndorseeNotLearner):
		response.BadRequest(c, 14103, "只能为学员签发背书")
	case errors.Is(err, service.ErrNotEndorser):
		response.Forbidden(c, 14104, "仅教师可签发背书")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/endorsement_handler.go
