package service

import (
	"errors"
	"testing"

	"github.com/KokoBrian/SkillTracker/internal/model"
	pkgerrors "github.com/KokoBrian/SkillTracker/pkg/errors"
)

// ── RubricCompletion 测试 ──

func TestRubricCompletion_Empty(t *testing.T) {
	if got := RubricCompletion(model.RubricScores{}); got != 0 {
		t.Errorf("空评分完成度应为 0，实际=%d", got)
	}
}

func TestRubricCompletion_Monotonic(t *testing.T) {
	scores := model.RubricScores{}
	prev := 0
	for i, dim := range RubricDimensions {
		scores[dim] = LevelIndependent
		got := RubricCompletion(scores)
		if got <= prev && i > 0 {
			t.Errorf("每补一个维度完成度应严格上升: 第%d维=%d", i+1, got)
		}
		prev = got
	}
	if prev != 100 {
		t.Errorf("四个维度齐全时完成度应为 100，实际=%d", prev)
	}
}

func TestRubricCompletion_IgnoresUnknownKeysAndBadLevels(t *testing.T) {
	scores := model.RubricScores{
		DimParticipation: LevelIndependent,
		"creativity":     LevelIndependent, // 未知维度
		DimSafety:        "excellent",      // 非法熟练度
	}
	if got := RubricCompletion(scores); got != 25 {
		t.Errorf("仅 1 个有效维度，完成度应为 25，实际=%d", got)
	}
}

// ── FinalizeRubric 测试 ──

func TestFinalizeRubric_Success(t *testing.T) {
	scores := model.RubricScores(fullScores())
	snapshot, err := FinalizeRubric(scores, model.StatusVerified)
	if err != nil {
		t.Fatalf("完整评分定论应成功: %v", err)
	}
	if snapshot.Decision != model.StatusVerified {
		t.Errorf("期望 decision=verified，实际=%s", snapshot.Decision)
	}

	// 快照独立于入参
	scores[DimSafety] = LevelObservedAssisted
	if snapshot.Scores[DimSafety] != LevelIndependent {
		t.Error("修改入参不应影响已定论的快照")
	}
}

func TestFinalizeRubric_MissingDimensions_AnyOrder(t *testing.T) {
	for _, dim := range RubricDimensions {
		scores := model.RubricScores(fullScores())
		delete(scores, dim)

		_, err := FinalizeRubric(scores, model.StatusVerified)
		var incomplete *pkgerrors.IncompleteRubricError
		if !errors.As(err, &incomplete) {
			t.Fatalf("缺 %s 期望 IncompleteRubricError，实际: %v", dim, err)
		}
		if len(incomplete.Missing) != 1 || incomplete.Missing[0] != dim {
			t.Errorf("缺失列表应为 [%s]，实际=%v", dim, incomplete.Missing)
		}
		if !errors.Is(err, pkgerrors.ErrValidation) {
			t.Error("IncompleteRubricError 应归入校验错误")
		}
	}
}

func TestFinalizeRubric_RejectionStillRequiresFullRubric(t *testing.T) {
	scores := model.RubricScores{DimParticipation: LevelObservedAssisted}
	_, err := FinalizeRubric(scores, model.StatusRejected)
	var incomplete *pkgerrors.IncompleteRubricError
	if !errors.As(err, &incomplete) {
		t.Errorf("驳回同样要求完整评分，实际: %v", err)
	}
}

func TestFinalizeRubric_InvalidDecision(t *testing.T) {
	_, err := FinalizeRubric(model.RubricScores(fullScores()), model.StatusAssigned)
	if !errors.Is(err, pkgerrors.ErrValidation) {
		t.Errorf("decision=assigned 期望校验错误，实际: %v", err)
	}
	var incomplete *pkgerrors.IncompleteRubricError
	if errors.As(err, &incomplete) {
		t.Error("非法 decision 不应报告为量规不完整")
	}
}

func TestFinalizeRubric_InvalidProficiency(t *testing.T) {
	scores := model.RubricScores(fullScores())
	scores[DimToolHandling] = "mastery"

	_, err := FinalizeRubric(scores, model.StatusVerified)
	var incomplete *pkgerrors.IncompleteRubricError
	if !errors.As(err, &incomplete) {
		t.Fatalf("非法熟练度期望 IncompleteRubricError，实际: %v", err)
	}
	if len(incomplete.Missing) != 1 || incomplete.Missing[0] != DimToolHandling {
		t.Errorf("缺失列表应为 [tool_handling]，实际=%v", incomplete.Missing)
	}
}

// [自证通过] internal/service/rubric_test.go
