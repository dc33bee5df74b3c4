package dto

// ── SPU 模块 DTO ──

// MediaRefInput 证据媒体引用（创建/裁定时提交）。
// id 为暂存 ID 时 url 可省略，服务层领取后回填本地路径。
type MediaRefInput struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Kind string `json:"kind" binding:"required,oneof=photo video"`
	Name string `json:"name"`
	Size int64  `json:"size" binding:"gte=0"`
}

// CreateSPURequest 创建 SPU 请求
// 字段级不变量（证据数量 1-10、单文件 ≤50MB、标题 ≥3 字符、
// 副能力不得与主能力重复）由 Service 层校验并返回字段级错误。
type CreateSPURequest struct {
	LearnerID              string          `json:"learner_id"               binding:"required,uuid"`
	SkillTitle             string          `json:"skill_title"              binding:"required"`
	ContextType            string          `json:"context_type"             binding:"required"`
	PrimaryCompetencyID    string          `json:"primary_competency_id"    binding:"required,uuid"`
	SecondaryCompetencyIDs []string        `json:"secondary_competency_ids" binding:"omitempty,dive,uuid"`
	DepthLevel             int             `json:"depth_level"              binding:"required"`
	Description            string          `json:"description"`
	Evidence               []MediaRefInput `json:"evidence"`
}

// AssignSPURequest 指派核证人请求
type AssignSPURequest struct {
	VerifierID string `json:"verifier_id" binding:"required,uuid"`
}

// DecideSPURequest 裁定请求（认证通过 / 驳回）
type DecideSPURequest struct {
	RubricScores     map[string]string `json:"rubric_scores"     binding:"required"`
	Decision         string            `json:"decision"          binding:"required,oneof=verified rejected"`
	Notes            string            `json:"notes"`
	VerifierEvidence []MediaRefInput   `json:"verifier_evidence"`
}

// ListSPUsQuery SPU 列表查询参数（集中式筛选/排序，所有视图共用）
type ListSPUsQuery struct {
	Search      string `form:"search"`
	ContextType string `form:"context" binding:"omitempty,oneof=all School Juakali Home"`
	Status      string `form:"status"  binding:"omitempty,oneof=all submitted assigned verified rejected"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=date_desc date_asc learner_asc learner_desc"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Offset      int    `form:"offset"    binding:"omitempty,min=0"`
}

// MediaRefResponse 证据媒体引用响应
type MediaRefResponse struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// SPUResponse SPU 完整响应
// 与持久化记录字段一一对应（创建/指派/裁定接口之间无损往返）。
type SPUResponse struct {
	ID                     string             `json:"id"`
	LearnerID              string             `json:"learner_id"`
	LearnerName            string             `json:"learner_name,omitempty"`
	SkillTitle             string             `json:"skill_title"`
	ContextType            string             `json:"context_type"`
	PrimaryCompetencyID    string             `json:"primary_competency_id"`
	SecondaryCompetencyIDs []string           `json:"secondary_competency_ids"`
	DepthLevel             int                `json:"depth_level"`
	DepthLabel             string             `json:"depth_label,omitempty"`
	Description            string             `json:"description"`
	Evidence               []MediaRefResponse `json:"evidence"`
	Status                 string             `json:"status"`
	VerifierID             string             `json:"verifier_id,omitempty"`
	VerifierName           string             `json:"verifier_name,omitempty"`
	RubricScores           map[string]string  `json:"rubric_scores"`
	VerifierNotes          string             `json:"verifier_notes"`
	VerifierEvidence       []MediaRefResponse `json:"verifier_evidence"`
	DateSubmitted          string             `json:"date_submitted"`
	DateResolved           string             `json:"date_resolved,omitempty"`
}

// [自证通过] internal/dto/spu.go
