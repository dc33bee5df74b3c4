package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KokoBrian/SkillTracker/internal/model"
)

// EndorsementRepository 背书数据访问接口
type EndorsementRepository interface {
	// Create 创建背书并写入活动事件（同一事务）
	Create(ctx context.Context, endorsement *model.Endorsement, event *model.ActivityEvent) error
	GetByID(ctx context.Context, id string) (*model.Endorsement, error)
	ListByLearner(ctx context.Context, learnerID string, publicOnly bool) ([]model.Endorsement, error)
}

type endorsementRepo struct {
	db *gorm.DB
}

// NewEndorsementRepo 创建 EndorsementRepository 实现
func NewEndorsementRepo(db *gorm.DB) EndorsementRepository {
	return &endorsementRepo{db: db}
}

func (r *endorsementRepo) Create(ctx context.Context, endorsement *model.Endorsement, event *model.ActivityEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(endorsement).Error; err != nil {
			return err
		}
		event.EndorsementID = &endorsement.EndorsementID
		return tx.Create(event).Error
	})
}

func (r *endorsementRepo) GetByID(ctx context.Context, id string) (*model.Endorsement, error) {
	var endorsement model.Endorsement
	err := r.db.WithContext(ctx).
		Preload("Issuer").
		Where("endorsement_id = ?", id).
		First(&endorsement).Error
	if err != nil {
		return nil, err
	}
	return &endorsement, nil
}

func (r *endorsementRepo) ListByLearner(ctx context.Context, learnerID string, publicOnly bool) ([]model.Endorsement, error) {
	q := r.db.WithContext(ctx).
		Preload("Issuer").
		Where("learner_id = ?", learnerID)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	var endorsements []model.Endorsement
	err := q.Order("date DESC").Find(&endorsements).Error
	return endorsements, err
}

// [自证通过] internal/repository/endorsement_repo.go
