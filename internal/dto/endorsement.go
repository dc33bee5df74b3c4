package dto

// ── 背书模块 DTO ──

// SkillEntryInput 背书中的一项软技能
type SkillEntryInput struct {
	SkillID       string `json:"skill_id"       binding:"required"`
	StrengthLevel int    `json:"strength_level" binding:"required,min=1,max=4"`
}

// CreateEndorsementRequest 签发背书请求
type CreateEndorsementRequest struct {
	LearnerID string            `json:"learner_id" binding:"required,uuid"`
	Skills    []SkillEntryInput `json:"skills"     binding:"required,min=1,dive"`
	Notes     string            `json:"notes"      binding:"max=500"`
	IsPublic  *bool             `json:"is_public"` // 缺省为公开
}

// SkillEntryResponse 背书技能响应
type SkillEntryResponse struct {
	SkillID       string `json:"skill_id"`
	StrengthLevel int    `json:"strength_level"`
	StrengthLabel string `json:"strength_label"`
}

// EndorsementResponse 背书响应
type EndorsementResponse struct {
	ID         string               `json:"id"`
	LearnerID  string               `json:"learner_id"`
	IssuerID   string               `json:"issuer_id"`
	IssuerName string               `json:"issuer_name,omitempty"`
	Skills     []SkillEntryResponse `json:"skills"`
	Notes      string               `json:"notes"`
	IsPublic   bool                 `json:"is_public"`
	Date       string               `json:"date"`
}

// [自证通过] internal/dto/endorsement.go
