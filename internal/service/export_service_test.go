package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/KokoBrian/SkillTracker/internal/repository"
)

func setupTestExportService(env *spuTestEnv) ExportService {
	repo := &repository.Repository{
		User:        env.users,
		Competency:  env.comps,
		SPU:         env.spus,
		Endorsement: newMockEndorsementRepo(),
		Activity:    newMockActivityRepo(),
		Milestone:   newMockMilestoneRepo(),
		Stats:       newMockStatsRepo(),
	}
	return NewExportService(repo, zap.NewNop())
}

func TestExportService_EmptyRegister(t *testing.T) {
	env := setupTestSPUService()
	svc := setupTestExportService(env)

	_, _, err := svc.ExportSPURegister(context.Background(), "", "")
	if !errors.Is(err, ErrExportNoSPUs) {
		t.Errorf("期望 ErrExportNoSPUs，实际: %v", err)
	}
}

func TestExportService_RegisterContents(t *testing.T) {
	env := setupTestSPUService()
	svc := setupTestExportService(env)
	env.submitOne(t)

	buf, filename, err := svc.ExportSPURegister(context.Background(), "", "")
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasPrefix(filename, "spu_register_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名格式有误: %s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("SPU 台账")
	if err != nil {
		t.Fatalf("读取 Sheet 失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望表头 + 1 行数据，实际=%d 行", len(rows))
	}
	if rows[0][0] != "提交日期" {
		t.Errorf("表头有误: %v", rows[0])
	}
	dataRow := rows[1]
	if dataRow[1] != "Amina" || dataRow[3] != "制作三腿凳" {
		t.Errorf("数据行有误: %v", dataRow)
	}
	if dataRow[7] != "submitted" {
		t.Errorf("状态列期望 submitted，实际=%s", dataRow[7])
	}
}

// [自证通过] internal/service/export_service_test.go
