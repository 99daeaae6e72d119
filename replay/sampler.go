package replay

import (
	"context"
	"math/rand"

	"github.com/rushteam/recsim/core"
)

// Sampler 负责构造排名评测的候选集并定位目标物品的名次。
//
// 候选集 = {目标物品} + 最多 ListSize-1 个陪跑物品（decoy），
// 陪跑从窗口物品全集中去掉用户历史（含目标自身）后无放回均匀抽取。
// 随机源由调用方注入并贯穿整个回放，保证同种子同输入下结果可复现。
type Sampler struct {
	ListSize int
	Rng      *rand.Rand
}

// Candidates 为 (user, target) 构造候选集，目标物品固定在首位。
// 可抽物品不足 ListSize-1 时照常缩小候选集，不算错误。
func (s *Sampler) Candidates(view core.DatasetView, user, target int64) []int64 {
	exclude := map[int64]struct{}{target: {}}
	for _, it := range view.UserItems(user) {
		exclude[it] = struct{}{}
	}

	var pool []int64
	for _, it := range view.ItemIDs() {
		if _, ok := exclude[it]; ok {
			continue
		}
		pool = append(pool, it)
	}

	k := s.ListSize - 1
	if k > len(pool) {
		k = len(pool)
	}
	if k < 0 {
		k = 0
	}
	// 部分 Fisher-Yates：只洗出前 k 个
	for i := 0; i < k; i++ {
		j := i + s.Rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	candidates := make([]int64, 0, k+1)
	candidates = append(candidates, target)
	candidates = append(candidates, pool[:k]...)
	return candidates
}

// Rank 构造候选集、调用模型的排序能力，返回推荐列表与目标的 1-based 名次。
// ok 为 false 表示目标未出现在列表中——"缺席"与"排最后"是两回事，
// 输出时必须按缺席处理，不能折算成任何数字。
func (s *Sampler) Rank(
	ctx context.Context,
	rec core.Recommender,
	view core.DatasetView,
	user, target int64,
) (recs []int64, rank int, ok bool, err error) {
	candidates := s.Candidates(view, user, target)
	recs, err = rec.Recommend(ctx, user, s.ListSize, candidates)
	if err != nil {
		return nil, 0, false, err
	}
	for i, it := range recs {
		if it == target {
			return recs, i + 1, true, nil
		}
	}
	return recs, 0, false, nil
}
