package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ── SPU 状态机 ──

// SPUStatus SPU 生命周期状态（封闭枚举，禁止落入字符串默认分支）
type SPUStatus string

const (
	StatusSubmitted SPUStatus = "submitted" // 初始状态：学员已提交证据
	StatusAssigned  SPUStatus = "assigned"  // 已指派核证人
	StatusVerified  SPUStatus = "verified"  // 终态：认证通过
	StatusRejected  SPUStatus = "rejected"  // 可恢复：学员可修订后重新提交
)

// Valid 状态值是否属于封闭集合
func (s SPUStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusAssigned, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo 状态机合法边：
//
//	submitted → assigned
//	assigned  → verified | rejected
//	rejected  → submitted（修订回路）
func (s SPUStatus) CanTransitionTo(to SPUStatus) bool {
	switch s {
	case StatusSubmitted:
		return to == StatusAssigned
	case StatusAssigned:
		return to == StatusVerified || to == StatusRejected
	case StatusRejected:
		return to == StatusSubmitted
	case StatusVerified:
		return false // 认证通过是凭证意义上的终态
	}
	return false
}

// ── 展示场景类型 ──

const (
	ContextSchool  = "School"
	ContextJuakali = "Juakali" // 非正式作坊/街边工坊
	ContextHome    = "Home"
)

// ValidContextType 场景类型是否合法
func ValidContextType(ct string) bool {
	return ct == ContextSchool || ct == ContextJuakali || ct == ContextHome
}

// 深度等级 1-5（Awareness → Expert）
const (
	DepthMin = 1
	DepthMax = 5
)

// DepthLabels 深度等级展示名称
var DepthLabels = map[int]string{
	1: "Awareness",
	2: "Basic",
	3: "Intermediate",
	4: "Advanced",
	5: "Expert",
}

// ── 证据媒体引用 ──

// 媒体类型
const (
	MediaPhoto = "photo"
	MediaVideo = "video"
)

// MediaRef 一条证据媒体引用（对象存储/暂存区中的文件）
type MediaRef struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Kind string `json:"kind"` // photo | video
	Name string `json:"name"`
	Size int64  `json:"size"` // 字节
}

// MediaRefs JSONB 证据列表
type MediaRefs []MediaRef

func (m *MediaRefs) Scan(src interface{}) error { return scanJSONB(src, m) }

func (m MediaRefs) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

// ── 量规评分 ──

// RubricScores JSONB 量规评分：维度 → 熟练度等级
// 仅在裁定时由量规评估器写入；重新提交时清空。
type RubricScores map[string]string

func (r *RubricScores) Scan(src interface{}) error { return scanJSONB(src, r) }

func (r RubricScores) Value() (driver.Value, error) {
	if r == nil {
		return "{}", nil
	}
	b, err := json.Marshal(r)
	return string(b), err
}

// Clone 返回评分的独立副本
func (r RubricScores) Clone() RubricScores {
	if r == nil {
		return nil
	}
	out := make(RubricScores, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ── SPU 实体 ──

// SPU 技能进度单元表 — 对应 spus
//
// status 与 date_resolved 仅由生命周期引擎（SPUService）写入；
// rubric_scores 仅由量规评估器产生的快照写入。
type SPU struct {
	SPUID                  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"spu_id"`
	LearnerID              string     `gorm:"type:uuid;not null"                             json:"learner_id"`
	SkillTitle             string     `gorm:"type:varchar(200);not null"                     json:"skill_title"`
	ContextType            string     `gorm:"type:varchar(20);not null"                      json:"context_type"`
	PrimaryCompetencyID    string     `gorm:"type:uuid;not null"                             json:"primary_competency_id"`
	SecondaryCompetencyIDs UUIDArray  `gorm:"type:uuid[];not null;default:'{}'"              json:"secondary_competency_ids"`
	DepthLevel             int        `gorm:"not null"                                       json:"depth_level"`
	Description            string     `gorm:"type:text;not null;default:''"                  json:"description"`
	Evidence               MediaRefs  `gorm:"type:jsonb;not null;default:'[]'"               json:"evidence"`
	Status                 SPUStatus  `gorm:"type:varchar(20);not null;default:'submitted'"  json:"status"`
	VerifierID             *string    `gorm:"type:uuid"                                      json:"verifier_id,omitempty"`
	RubricScores           RubricScores `gorm:"type:jsonb;not null;default:'{}'"             json:"rubric_scores"`
	VerifierNotes          string     `gorm:"type:varchar(1000);not null;default:''"         json:"verifier_notes"`
	VerifierEvidence       MediaRefs  `gorm:"type:jsonb;not null;default:'[]'"               json:"verifier_evidence"`
	DateSubmitted          time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"date_submitted"`
	DateResolved           *time.Time `json:"date_resolved,omitempty"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	Learner           *User       `gorm:"foreignKey:LearnerID;references:UserID"            json:"learner,omitempty"`
	Verifier          *User       `gorm:"foreignKey:VerifierID;references:UserID"           json:"verifier,omitempty"`
	PrimaryCompetency *Competency `gorm:"foreignKey:PrimaryCompetencyID;references:CompetencyID" json:"primary_competency,omitempty"`
}

// TableName 指定表名
func (SPU) TableName() string { return "spus" }

// [自证通过] internal/model/spu.go
