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

// SPUHandler SPU 模块 HTTP 处理器
type SPUHandler struct {
	spuSvc          service.SPUService
	defaultPageSize int
}

// NewSPUHandler 创建 SPUHandler
func NewSPUHandler(spuSvc service.SPUService, defaultPageSize int) *SPUHandler {
	return &SPUHandler{spuSvc: spuSvc, defaultPageSize: defaultPageSize}
}

// Create 提交 SPU
// POST /api/v1/spus
func (h *SPUHandler) Create(c *gin.Context) {
	var req dto.CreateSPURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
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
	// 学员只能提交自己的 SPU；教师/管理员可代提交
	if role == model.RoleLearner && req.LearnerID != callerID {
		response.Forbidden(c, 12002, "学员只能提交自己的 SPU")
		return
	}

	result, err := h.spuSvc.Submit(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSPUError(c, err)
		return
	}

	response.Created(c, result)
}

// List SPU 列表（搜索/筛选/排序/分页）
// GET /api/v1/spus
func (h *SPUHandler) List(c *gin.Context) {
	var q dto.ListSPUsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	list, total, hasMore, err := h.spuSvc.List(c.Request.Context(), &q)
	if err != nil {
		h.handleSPUError(c, err)
		return
	}

	response.OKPage(c, list, total, h.pageSize(&q), q.Offset, hasMore)
}

// ListAssigned 指派给我的 SPU 列表
// GET /api/v1/spus/assigned
func (h *SPUHandler) ListAssigned(c *gin.Context) {
	var q dto.ListSPUsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, total, hasMore, err := h.spuSvc.ListAssigned(c.Request.Context(), callerID, &q)
	if err != nil {
		h.handleSPUError(c, err)
		return
	}

	response.OKPage(c, list, total, h.pageSize(&q), q.Offset, hasMore)
}

// Get SPU 详情
// GET /api/v1/spus/:id
func (h *SPUHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "SPU ID 不能为空")
		return
	}

	result, err := h.spuSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSPUError(c, err)
		return
	}
	response.OK(c, result)
}

// Assign 指派核证人
// POST /api/v1/spus/:id/assign
func (h *SPUHandler) Assign(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "SPU ID 不能为空")
		return
	}

	var req dto.AssignSPURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.spuSvc.Assign(c.Request.Context(), id, req.VerifierID, callerID)
	if err != nil {
		h.handleSPUError(c, err)
		return
	}
	response.OK(c, result)
}

// Decide 裁定 SPU（认证通过 / 驳回）
// POST /api/v1/spus/:id/decision
func (h *SPUHandler) Decide(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "SPU ID 不能为空")
		return
	}

	var req dto.DecideSPURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.spuSvc.Decide(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleSPUError(c, err)
		return
	}
	response.OK(c, result)
}

// Resubmit 被驳回后重新提交（修订回路）
// POST /api/v1/spus/:id/resubmit
func (h *SPUHandler) Resubmit(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "SPU ID 不能为空")
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

	result, err := h.spuSvc.Resubmit(c.Request.Context(), id, callerID, role)
	if err != nil {
		h.handleSPUError(c, err)
		return
	}
	response.OK(c, result)
}

// pageSize 响应分页元数据中回显的生效页大小
func (h *SPUHandler) pageSize(q *dto.ListSPUsQuery) int {
	if q.PageSize > 0 {
		return q.PageSize
	}
	return h.defaultPageSize
}

// handleSPUError 统一处理 SPU 模块业务错误
func (h *SPUHandler) handleSPUError(c *gin.Context, err error) {
	var rubricErr *pkgerrors.IncompleteRubricError
	var valErr *pkgerrors.ValidationError

	switch {
	case errors.As(err, &rubricErr):
		response.FieldError(c, 12003, "rubric_scores", rubricErr.Error())
	case errors.As(err, &valErr):
		response.FieldError(c, 12004, valErr.Field, valErr.Message)
	case errors.Is(err, pkgerrors.ErrInvalidTransition):
		response.Conflict(c, 12101, "当前状态不允许该操作，请刷新后重试")
	case errors.Is(err, service.ErrSPUNotFound):
		response.NotFound(c, 12102, "SPU 不存在")
	case errors.Is(err, service.ErrSPULearnerNotFound):
		response.NotFound(c, 12103, "学员不存在")
	case errors.Is(err, service.ErrVerifierNotFound):
		response.NotFound(c, 12104, "核证人不存在")
	case errors.Is(err, service.ErrNotAVerifier):
		response.Forbidden(c, 12105, "该用户不具备核证资格")
	case errors.Is(err, service.ErrNotAssignedVerifier):
		response.Forbidden(c, 12106, "只有被指派的核证人可以裁定该 SPU")
	case errors.Is(err, service.ErrNotSPUOwner):
		response.Forbidden(c, 12107, "只有提交该 SPU 的学员可以重新提交")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/spu_handler.go
