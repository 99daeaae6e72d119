package algo

import (
	"context"
	"sort"

	"github.com/rushteam/recsim/core"
)

func init() {
	Register("popular", buildPopular)
}

func buildPopular(_ map[string]any) (core.ModelBuilder, error) {
	return &PopularBuilder{}, nil
}

// PopularBuilder 训练热门度模型：排序按窗口内交互次数，点预测退化为全局均值。
// 非个性化，是排名任务的基线参照。
type PopularBuilder struct{}

func (b *PopularBuilder) Name() string { return "popular" }

func (b *PopularBuilder) Build(_ context.Context, view core.DatasetView) (core.Model, error) {
	ratings := view.Ratings()
	m := &popularModel{counts: make(map[int64]int64)}
	m.n = len(ratings)
	if m.n > 0 {
		var sum float64
		for _, r := range ratings {
			sum += r.Value
			m.counts[r.Item]++
		}
		m.mean = sum / float64(m.n)
	}
	return m, nil
}

type popularModel struct {
	n      int
	mean   float64
	counts map[int64]int64
}

var _ core.Recommender = (*popularModel)(nil)

func (m *popularModel) Name() string { return "popular" }

func (m *popularModel) Predict(_ context.Context, _, _ int64) (float64, bool, error) {
	if m.n == 0 {
		return 0, false, nil
	}
	return m.mean, true, nil
}

func (m *popularModel) Close() error {
	m.counts = nil
	return nil
}

// Recommend 候选按交互次数降序，同次数按物品 ID 升序，截断到 n。
func (m *popularModel) Recommend(_ context.Context, _ int64, n int, candidates []int64) ([]int64, error) {
	out := make([]int64, len(candidates))
	copy(out, candidates)
	sort.Slice(out, func(i, j int) bool {
		ci, cj := m.counts[out[i]], m.counts[out[j]]
		if ci != cj {
			return ci > cj
		}
		return out[i] < out[j]
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
