package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// 背书强度等级 1-4（Emerging → Exceptional）
const (
	StrengthMin = 1
	StrengthMax = 4
)

// StrengthLabels 强度等级展示名称
var StrengthLabels = map[int]string{
	1: "Emerging",
	2: "Developing",
	3: "Strong",
	4: "Exceptional",
}

// SkillEntry 背书中的一项软技能
type SkillEntry struct {
	SkillID       string `json:"skill_id"` // communication / teamwork / leadership ...
	StrengthLevel int    `json:"strength_level"`
}

// SkillEntries JSONB 软技能列表
type SkillEntries []SkillEntry

func (s *SkillEntries) Scan(src interface{}) error { return scanJSONB(src, s) }

func (s SkillEntries) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

// Endorsement 软技能背书表 — 对应 endorsements
// 独立于 SPU 生命周期，由教师签发；本核心不提供删除。
type Endorsement struct {
	EndorsementID string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"endorsement_id"`
	LearnerID     string       `gorm:"type:uuid;not null"                             json:"learner_id"`
	IssuerID      string       `gorm:"type:uuid;not null"                             json:"issuer_id"`
	Skills        SkillEntries `gorm:"type:jsonb;not null;default:'[]'"               json:"skills"`
	Notes         string       `gorm:"type:varchar(500);not null;default:''"          json:"notes"`
	IsPublic      bool         `gorm:"not null;default:true"                          json:"is_public"`
	Date          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"date"`
	BaseModel

	// 关联
	Learner *User `gorm:"foreignKey:LearnerID;references:UserID" json:"learner,omitempty"`
	Issuer  *User `gorm:"foreignKey:IssuerID;references:UserID"  json:"issuer,omitempty"`
}

// TableName 指定表名
func (Endorsement) TableName() string { return "endorsements" }

// [自证通过] internal/model/endorsement.go
