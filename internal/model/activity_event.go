package model

import "time"

// ActionEndorsed 背书签发的活动流动作；不属于 SPU 状态机，仅出现在事件流中
const ActionEndorsed SPUStatus = "endorsed"

// ActivityEvent 活动流事件表 — 对应 activity_events
//
// 只追加，创建后不可变；由生命周期引擎在每次状态转换时写入。
// seq 为单调递增序列，用于相同 created_at 下的稳定排序（后创建者在前）。
type ActivityEvent struct {
	EventID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Seq           int64     `gorm:"autoIncrement;uniqueIndex"                      json:"seq"`
	SPUID         *string   `gorm:"column:spu_id;type:uuid"                        json:"spu_id,omitempty"`
	EndorsementID *string   `gorm:"type:uuid"                                      json:"endorsement_id,omitempty"`
	Action        SPUStatus `gorm:"type:varchar(20);not null"                      json:"action"`
	ActorName     string    `gorm:"type:varchar(100);not null"                     json:"actor_name"`
	LearnerName   string    `gorm:"type:varchar(100);not null;default:''"          json:"learner_name"`
	SkillTitle    string    `gorm:"type:varchar(200);not null;default:''"          json:"skill_title"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ActivityEvent) TableName() string { return "activity_events" }

// [自证通过] internal/model/activity_event.go
