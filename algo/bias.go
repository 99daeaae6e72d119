package algo

import (
	"context"
	"sort"

	"github.com/rushteam/recsim/core"
	"github.com/rushteam/recsim/pkg/conv"
)

func init() {
	Register("bias", buildBias)
}

func buildBias(config map[string]any) (core.ModelBuilder, error) {
	return &BiasBuilder{
		UserDamping: conv.ConfigGetFloat64(config, "user_damping", 0),
		ItemDamping: conv.ConfigGetFloat64(config, "item_damping", 0),
		Ranking:     conv.ConfigGetBool(config, "ranking", true),
	}, nil
}

// BiasBuilder 训练经典的偏置基线模型：
//
//	score(u, i) = 全局均值 + 用户偏置 + 物品偏置
//
// 偏置用阻尼均值（damped mean）估计，阻尼项把低频用户/物品的偏置拉向 0。
// 这是预测任务最常用的 sanity 基线：任何像样的算法都应赢过它。
type BiasBuilder struct {
	UserDamping float64 // 用户偏置的阻尼项（>=0）
	ItemDamping float64 // 物品偏置的阻尼项（>=0）
	Ranking     bool    // 是否暴露排序能力
}

func (b *BiasBuilder) Name() string { return "bias" }

// Build 从窗口内的全部评分计算偏置。空窗口合法：产出"无预测"模型。
func (b *BiasBuilder) Build(_ context.Context, view core.DatasetView) (core.Model, error) {
	ratings := view.Ratings()

	m := &biasModel{
		users: make(map[int64]float64),
		items: make(map[int64]float64),
	}
	m.n = len(ratings)
	if m.n > 0 {
		var sum float64
		for _, r := range ratings {
			sum += r.Value
		}
		m.mean = sum / float64(m.n)

		itemSum := make(map[int64]float64)
		itemCnt := make(map[int64]float64)
		for _, r := range ratings {
			itemSum[r.Item] += r.Value - m.mean
			itemCnt[r.Item]++
		}
		for item, s := range itemSum {
			m.items[item] = s / (itemCnt[item] + b.ItemDamping)
		}

		// 用户偏置在扣除物品偏置后的残差上估计
		userSum := make(map[int64]float64)
		userCnt := make(map[int64]float64)
		for _, r := range ratings {
			userSum[r.User] += r.Value - m.mean - m.items[r.Item]
			userCnt[r.User]++
		}
		for user, s := range userSum {
			m.users[user] = s / (userCnt[user] + b.UserDamping)
		}
	}

	if b.Ranking {
		return &rankingBiasModel{biasModel: m}, nil
	}
	return m, nil
}

type biasModel struct {
	n     int
	mean  float64
	users map[int64]float64
	items map[int64]float64
}

func (m *biasModel) Name() string { return "bias" }

// Predict 返回 mean + userBias + itemBias。
// 未见过的用户/物品偏置为 0；窗口里一条数据都没有时返回"无预测"。
func (m *biasModel) Predict(_ context.Context, user, item int64) (float64, bool, error) {
	if m.n == 0 {
		return 0, false, nil
	}
	return m.mean + m.users[user] + m.items[item], true, nil
}

func (m *biasModel) Close() error {
	m.users = nil
	m.items = nil
	return nil
}

// rankingBiasModel 在 biasModel 之上暴露排序能力：候选按偏置得分降序，
// 同分按物品 ID 升序保证确定性，截断到 n。
type rankingBiasModel struct {
	*biasModel
}

var _ core.Recommender = (*rankingBiasModel)(nil)

func (m *rankingBiasModel) Recommend(ctx context.Context, user int64, n int, candidates []int64) ([]int64, error) {
	type scored struct {
		item  int64
		score float64
	}
	list := make([]scored, 0, len(candidates))
	for _, item := range candidates {
		score, ok, err := m.Predict(ctx, user, item)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		list = append(list, scored{item: item, score: score})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].item < list[j].item
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	out := make([]int64, len(list))
	for i, s := range list {
		out[i] = s.item
	}
	return out, nil
}
