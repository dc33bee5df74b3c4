package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/KokoBrian/SkillTracker/internal/dto"
	"github.com/KokoBrian/SkillTracker/internal/model"
	"github.com/KokoBrian/SkillTracker/internal/repository"
)

// ── ProjectFeed 测试 ──

func eventAt(seq int64, action model.SPUStatus, ts time.Time) model.ActivityEvent {
	return model.ActivityEvent{
		EventID:   "evt",
		Seq:       seq,
		Action:    action,
		ActorName: "actor",
		CreatedAt: ts,
	}
}

func sampleEvents() []model.ActivityEvent {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []model.ActivityEvent{
		eventAt(1, model.StatusSubmitted, base),
		eventAt(2, model.StatusAssigned, base.Add(1*time.Hour)),
		eventAt(3, model.StatusVerified, base.Add(2*time.Hour)),
		eventAt(4, model.StatusSubmitted, base.Add(3*time.Hour)),
		eventAt(5, model.StatusRejected, base.Add(4*time.Hour)),
	}
}

func TestProjectFeed_OrderNewestFirst(t *testing.T) {
	page, hasMore := ProjectFeed(sampleEvents(), FeedFilterAll, 10, 0)
	if len(page) != 5 || hasMore {
		t.Fatalf("期望 5 条且无更多，实际=%d hasMore=%v", len(page), hasMore)
	}
	for i := 1; i < len(page); i++ {
		if page[i].CreatedAt.After(page[i-1].CreatedAt) {
			t.Fatal("事件应按时间倒序")
		}
	}
}

func TestProjectFeed_SameTimestampTieBreak(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []model.ActivityEvent{
		eventAt(1, model.StatusSubmitted, ts),
		eventAt(2, model.StatusAssigned, ts),
	}
	page, _ := ProjectFeed(events, FeedFilterAll, 10, 0)
	if page[0].Seq != 2 || page[1].Seq != 1 {
		t.Errorf("同时间戳应后创建者在前，实际顺序=[%d, %d]", page[0].Seq, page[1].Seq)
	}
}

func TestProjectFeed_FilterIdempotent(t *testing.T) {
	events := sampleEvents()

	once, _ := ProjectFeed(events, string(model.StatusSubmitted), 10, 0)
	if len(once) != 2 {
		t.Fatalf("submitted 筛选应剩 2 条，实际=%d", len(once))
	}
	// 对已筛选结果再筛一次，结果不变
	twice, _ := ProjectFeed(once, string(model.StatusSubmitted), 10, 0)
	if len(twice) != len(once) {
		t.Errorf("重复筛选应幂等: %d != %d", len(twice), len(once))
	}
	for i := range once {
		if once[i].Seq != twice[i].Seq {
			t.Fatal("重复筛选不应改变顺序")
		}
	}
}

func TestProjectFeed_DoesNotMutateInput(t *testing.T) {
	events := sampleEvents()
	ProjectFeed(events, FeedFilterAll, 2, 0)
	for i, e := range events {
		if e.Seq != int64(i+1) {
			t.Fatal("投影不应改动入参切片")
		}
	}
}

func TestProjectFeed_Pagination(t *testing.T) {
	events := sampleEvents()

	page1, hasMore := ProjectFeed(events, FeedFilterAll, 2, 0)
	if len(page1) != 2 || !hasMore {
		t.Fatalf("第一页应 2 条且有更多，实际=%d hasMore=%v", len(page1), hasMore)
	}
	page3, hasMore := ProjectFeed(events, FeedFilterAll, 2, 4)
	if len(page3) != 1 || hasMore {
		t.Errorf("最后一页应 1 条且无更多，实际=%d hasMore=%v", len(page3), hasMore)
	}
	empty, hasMore := ProjectFeed(events, FeedFilterAll, 2, 10)
	if len(empty) != 0 || hasMore {
		t.Error("越界 offset 应返回空页")
	}
}

func TestCountFiltered(t *testing.T) {
	events := sampleEvents()
	if got := CountFiltered(events, FeedFilterAll); got != 5 {
		t.Errorf("all 应计 5，实际=%d", got)
	}
	if got := CountFiltered(events, string(model.StatusVerified)); got != 1 {
		t.Errorf("verified 应计 1，实际=%d", got)
	}
}

// ── RelativeLabel 测试 ──

func TestRelativeLabel(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{59 * time.Minute, "59m ago"},
		{3 * time.Hour, "3h ago"},
		{23 * time.Hour, "23h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{6 * 24 * time.Hour, "6d ago"},
	}
	for _, c := range cases {
		if got := RelativeLabel(now.Add(-c.ago), now); got != c.want {
			t.Errorf("%v 前期望 %q，实际=%q", c.ago, c.want, got)
		}
	}
}

func TestRelativeLabel_CalendarFallback(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sameYear := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if got := RelativeLabel(sameYear, now); got != "Jan 5" {
		t.Errorf("同年期望 Jan 5，实际=%q", got)
	}
	lastYear := time.Date(2025, 12, 20, 8, 0, 0, 0, time.UTC)
	if got := RelativeLabel(lastYear, now); got != "Dec 20, 2025" {
		t.Errorf("跨年期望 Dec 20, 2025，实际=%q", got)
	}
}

// ── ActivityService.Feed 测试 ──

func setupTestActivityService() (ActivityService, *mockActivityRepo) {
	activity := newMockActivityRepo()
	repo := &repository.Repository{
		User:        newMockUserRepo(),
		Competency:  newMockCompetencyRepo(),
		SPU:         newMockSPURepo(),
		Endorsement: newMockEndorsementRepo(),
		Activity:    activity,
		Milestone:   newMockMilestoneRepo(),
		Stats:       newMockStatsRepo(),
	}
	svc := NewActivityService(testConfig(), repo, nil, zap.NewNop())
	return svc, activity
}

func TestActivityService_Feed(t *testing.T) {
	svc, activity := setupTestActivityService()
	activity.events = sampleEvents()

	result, err := svc.Feed(context.Background(), &dto.FeedQuery{Action: "all", PageSize: 3})
	if err != nil {
		t.Fatalf("Feed 应成功: %v", err)
	}
	if len(result.Events) != 3 || !result.HasMore || result.Total != 5 {
		t.Errorf("期望 3 条/hasMore/total=5，实际=%d/%v/%d", len(result.Events), result.HasMore, result.Total)
	}
	if result.Events[0].TimeLabel == "" {
		t.Error("事件应携带相对时间标签")
	}
}

func TestActivityService_Feed_DefaultPageSize(t *testing.T) {
	svc, activity := setupTestActivityService()
	activity.events = sampleEvents()

	result, err := svc.Feed(context.Background(), &dto.FeedQuery{})
	if err != nil {
		t.Fatalf("Feed 应成功: %v", err)
	}
	if result.PageSize != 10 {
		t.Errorf("缺省页大小应回落到配置值 10，实际=%d", result.PageSize)
	}
}

func TestFeedSnapshot_LabelsRenderAtReadTime(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	snap := &feedSnapshot{
		Events:   []model.ActivityEvent{eventAt(1, model.StatusSubmitted, ts)},
		Total:    1,
		PageSize: 10,
	}

	// 同一份快照在不同读取时刻必须给出不同标签
	early := feedFromSnapshot(snap, ts.Add(30*time.Second))
	if early.Events[0].TimeLabel != "just now" {
		t.Errorf("刚发生的事件期望 just now，实际=%q", early.Events[0].TimeLabel)
	}
	late := feedFromSnapshot(snap, ts.Add(3*time.Hour))
	if late.Events[0].TimeLabel != "3h ago" {
		t.Errorf("3 小时后读取期望 3h ago，实际=%q", late.Events[0].TimeLabel)
	}
}

// [自证通过] internal/service/activity_service_test.go
