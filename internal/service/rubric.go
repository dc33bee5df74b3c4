package service

import (
	"github.com/KokoBrian/SkillTracker/internal/model"
	pkgerrors "github.com/KokoBrian/SkillTracker/pkg/errors"
)

// ── 量规评估器 ──────────────────────────────────────────────
//
// 职责：校验并汇总核证人的量规评分，不做任何状态变更。
// 实际的 SPU 状态转换由生命周期引擎（SPUService）执行。
//
// 四个固定维度 × 三档熟练度。熟练度是序数（仅用于展示排名），
// 不参与任何算术运算。
// ─────────────────────────────────────────────────────────────

// 量规维度（固定集合，顺序即展示顺序）
const (
	DimParticipation = "participation"
	DimToolHandling  = "tool_handling"
	DimSafety        = "safety"
	DimOutputQuality = "output_quality"
)

// RubricDimensions 固定维度集合
var RubricDimensions = []string{
	DimParticipation,
	DimToolHandling,
	DimSafety,
	DimOutputQuality,
}

// 熟练度等级（序数：observed_assisted < partially_independent < independent）
const (
	LevelObservedAssisted     = "observed_assisted"
	LevelPartiallyIndependent = "partially_independent"
	LevelIndependent          = "independent"
)

// ProficiencyRank 熟练度序数排名，仅用于展示排序
var ProficiencyRank = map[string]int{
	LevelObservedAssisted:     1,
	LevelPartiallyIndependent: 2,
	LevelIndependent:          3,
}

// ValidProficiency 熟练度取值是否合法
func ValidProficiency(level string) bool {
	_, ok := ProficiencyRank[level]
	return ok
}

// RubricSnapshot 定论后的不可变评分快照
type RubricSnapshot struct {
	Scores   model.RubricScores
	Decision model.SPUStatus // verified | rejected
}

// RubricCompletion 量规完成度百分比 = 已评分维度数 / 4 × 100（取整）。
// 纯函数；未知维度键与非法熟练度不计入。
func RubricCompletion(scores model.RubricScores) int {
	filled := 0
	for _, dim := range RubricDimensions {
		if level, ok := scores[dim]; ok && ValidProficiency(level) {
			filled++
		}
	}
	return filled * 100 / len(RubricDimensions)
}

// FinalizeRubric 校验评分并产出定论快照。
//
// 任一维度缺失或熟练度非法时返回 IncompleteRubricError（无论请求的
// decision 是 verified 还是 rejected）；decision 非法时返回字段级校验错误。
// 成功时返回的快照持有评分的独立副本，调用方后续修改入参不影响快照。
func FinalizeRubric(scores model.RubricScores, decision model.SPUStatus) (*RubricSnapshot, error) {
	if decision != model.StatusVerified && decision != model.StatusRejected {
		return nil, pkgerrors.NewValidation("decision", "裁定结果必须是 verified 或 rejected")
	}

	var missing []string
	for _, dim := range RubricDimensions {
		level, ok := scores[dim]
		if !ok || !ValidProficiency(level) {
			missing = append(missing, dim)
		}
	}
	if len(missing) > 0 {
		return nil, &pkgerrors.IncompleteRubricError{Missing: missing}
	}

	snapshot := make(model.RubricScores, len(RubricDimensions))
	for _, dim := range RubricDimensions {
		snapshot[dim] = scores[dim]
	}
	return &RubricSnapshot{Scores: snapshot, Decision: decision}, nil
}

// [自证通过] internal/service/rubric.go
