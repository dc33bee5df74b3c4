package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User        UserRepository
	Competency  CompetencyRepository
	SPU         SPURepository
	Endorsement EndorsementRepository
	Activity    ActivityRepository
	Milestone   MilestoneRepository
	Stats       StatsRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Competency:  NewCompetencyRepo(db),
		SPU:         NewSPURepo(db),
		Endorsement: NewEndorsementRepo(db),
		Activity:    NewActivityRepo(db),
		Milestone:   NewMilestoneRepo(db),
		Stats:       NewStatsRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
