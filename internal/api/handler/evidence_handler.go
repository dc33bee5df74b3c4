package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KokoBrian/SkillTracker/internal/service"
	pkgerrors "github.com/KokoBrian/SkillTracker/pkg/errors"
	"github.com/KokoBrian/SkillTracker/pkg/response"
)

// EvidenceHandler 证据文件暂存 HTTP 处理器
type EvidenceHandler struct {
	stage *service.EvidenceStage
}

// NewEvidenceHandler 创建 EvidenceHandler
func NewEvidenceHandler(stage *service.EvidenceStage) *EvidenceHandler {
	return &EvidenceHandler{stage: stage}
}

// Upload 上传证据文件到暂存区
// POST /api/v1/evidence (multipart/form-data, 字段名 file)
func (h *EvidenceHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 19001, "缺少上传文件字段 file")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 19002, "无法读取上传文件")
		return
	}
	defer src.Close()

	id, size, err := h.stage.Stage(fileHeader.Filename, src)
	if err != nil {
		h.handleEvidenceError(c, err)
		return
	}

	response.Created(c, gin.H{
		"stage_id": id,
		"name":     fileHeader.Filename,
		"size":     size,
	})
}

// Discard 丢弃一个未使用的暂存文件
// DELETE /api/v1/evidence/:id
func (h *EvidenceHandler) Discard(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 19001, "暂存 ID 不能为空")
		return
	}

	if err := h.stage.Discard(id); err != nil {
		h.handleEvidenceError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleEvidenceError 统一处理证据暂存业务错误
func (h *EvidenceHandler) handleEvidenceError(c *gin.Context, err error) {
	var valErr *pkgerrors.ValidationError

	switch {
	case errors.As(err, &valErr):
		response.FieldError(c, 19003, valErr.Field, valErr.Message)
	case errors.Is(err, service.ErrEvidenceFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 19101, "证据文件超过大小上限")
	case errors.Is(err, service.ErrStagedNotFound):
		response.NotFound(c, 19102, "暂存文件不存在或已被清理")
	case errors.Is(err, service.ErrStagedAlreadyUsed):
		response.Conflict(c, 19103, "该暂存文件已被使用")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/evidence_handler.go
