package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KokoBrian/SkillTracker/internal/model"
	pkgerrors "github.com/KokoBrian/SkillTracker/pkg/errors"
)

// SPURepository SPU 数据访问接口
//
// Create 与 Transition 是复合写入：SPU 行与活动事件（及里程碑）
// 在同一事务内落库，保证状态转换的副作用不会半途丢失。
type SPURepository interface {
	// Create 创建 SPU 并写入 submitted 活动事件（同一事务）
	Create(ctx context.Context, spu *model.SPU, event *model.ActivityEvent) error
	GetByID(ctx context.Context, id string) (*model.SPU, error)
	// List 返回 SPU 快照（按提交时间倒序，带学员/核证人关联）；
	// 视图级筛选/排序由 Service 层的集中查询函数完成
	List(ctx context.Context) ([]model.SPU, error)
	ListByVerifier(ctx context.Context, verifierID string) ([]model.SPU, error)
	ListByLearner(ctx context.Context, learnerID string) ([]model.SPU, error)
	ListResolvedBetween(ctx context.Context, from, to string) ([]model.SPU, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.SPUStatus) (int64, error)
	// Transition 执行状态转换：UPDATE 以 (status=from AND version=旧值) 为
	// 前置条件；命中 0 行返回 ErrOptimisticLock（并发写入者落败，not 半写）。
	// event 必填；milestone 仅 verified 转换时非空。
	Transition(ctx context.Context, spu *model.SPU, from model.SPUStatus, event *model.ActivityEvent, milestone *model.CompetencyMilestone) error
}

type spuRepo struct {
	db *gorm.DB
}

// NewSPURepo 创建 SPURepository 实现
func NewSPURepo(db *gorm.DB) SPURepository {
	return &spuRepo{db: db}
}

func (r *spuRepo) Create(ctx context.Context, spu *model.SPU, event *model.ActivityEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(spu).Error; err != nil {
			return err
		}
		event.SPUID = &spu.SPUID
		return tx.Create(event).Error
	})
}

func (r *spuRepo) GetByID(ctx context.Context, id string) (*model.SPU, error) {
	var spu model.SPU
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Preload("Verifier").
		Preload("PrimaryCompetency").
		Where("spu_id = ?", id).
		First(&spu).Error
	if err != nil {
		return nil, err
	}
	return &spu, nil
}

func (r *spuRepo) List(ctx context.Context) ([]model.SPU, error) {
	var spus []model.SPU
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Preload("Verifier").
		Order("date_submitted DESC").
		Find(&spus).Error
	return spus, err
}

func (r *spuRepo) ListByVerifier(ctx context.Context, verifierID string) ([]model.SPU, error) {
	var spus []model.SPU
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Where("verifier_id = ?", verifierID).
		Order("date_submitted DESC").
		Find(&spus).Error
	return spus, err
}

func (r *spuRepo) ListByLearner(ctx context.Context, learnerID string) ([]model.SPU, error) {
	var spus []model.SPU
	err := r.db.WithContext(ctx).
		Preload("Verifier").
		Where("learner_id = ?", learnerID).
		Order("date_submitted DESC").
		Find(&spus).Error
	return spus, err
}

func (r *spuRepo) ListResolvedBetween(ctx context.Context, from, to string) ([]model.SPU, error) {
	var spus []model.SPU
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Preload("Verifier").
		Preload("PrimaryCompetency").
		Where("date_resolved IS NOT NULL AND date_resolved >= ? AND date_resolved < ?", from, to).
		Order("date_resolved").
		Find(&spus).Error
	return spus, err
}

func (r *spuRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SPU{}).Count(&count).Error
	return count, err
}

func (r *spuRepo) CountByStatus(ctx context.Context, status model.SPUStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SPU{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *spuRepo) Transition(ctx context.Context, spu *model.SPU, from model.SPUStatus, event *model.ActivityEvent, milestone *model.CompetencyMilestone) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oldVersion := spu.Version
		result := tx.Model(&model.SPU{}).
			Where("spu_id = ? AND status = ? AND version = ?", spu.SPUID, from, oldVersion).
			Updates(map[string]interface{}{
				"status":            spu.Status,
				"verifier_id":       spu.VerifierID,
				"rubric_scores":     spu.RubricScores,
				"verifier_notes":    spu.VerifierNotes,
				"verifier_evidence": spu.VerifierEvidence,
				"date_resolved":     spu.DateResolved,
				"updated_by":        spu.UpdatedBy,
				"version":           oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}
		spu.Version = oldVersion + 1

		event.SPUID = &spu.SPUID
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		if milestone != nil {
			milestone.SPUID = &spu.SPUID
			return tx.Create(milestone).Error
		}
		return nil
	})
}

// [自证通过] internal/repository/spu_repo.go
