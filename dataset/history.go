package dataset

import (
	"sort"

	"github.com/rushteam/recsim/core"
)

// History 是一次回放的全量事件历史：加载后不可变，视图只共享、不复制。
//
// 内部布局：
//   - ratings: 全量事件，时间未知的排最前，其余按时间戳升序（稳定排序，保持输入相对顺序）
//   - timed:   ratings 中时间有效部分的子切片，视图按上界二分后直接共享
//   - 物品与用户索引只由时间有效事件构建：时间未知的事件不属于任何窗口
type History struct {
	ratings []core.Rating
	timed   []core.Rating

	items     []int64         // 升序去重的物品 ID
	itemFirst map[int64]int64 // item -> 首次出现的时间戳
	users     map[int64][]userEvent
}

type userEvent struct {
	item int64
	ts   int64
}

// New 从事件切片构建 History。输入被复制并稳定排序，调用方可继续持有原切片。
func New(ratings []core.Rating) *History {
	h := &History{
		itemFirst: make(map[int64]int64),
		users:     make(map[int64][]userEvent),
	}
	h.ratings = make([]core.Rating, len(ratings))
	copy(h.ratings, ratings)
	sort.SliceStable(h.ratings, func(i, j int) bool {
		return sortKey(h.ratings[i]) < sortKey(h.ratings[j])
	})

	untimed := 0
	for _, r := range h.ratings {
		if !r.HasTimestamp() {
			untimed++
			continue
		}
		if _, ok := h.itemFirst[r.Item]; !ok {
			h.itemFirst[r.Item] = r.Timestamp
			h.items = append(h.items, r.Item)
		}
		h.users[r.User] = append(h.users[r.User], userEvent{item: r.Item, ts: r.Timestamp})
	}
	h.timed = h.ratings[untimed:]
	sort.Slice(h.items, func(i, j int) bool { return h.items[i] < h.items[j] })
	return h
}

// sortKey 把时间未知归一为最小值，使其稳定排在流的最前面。
func sortKey(r core.Rating) int64 {
	if !r.HasTimestamp() {
		return core.NoTimestamp
	}
	return r.Timestamp
}

// Len 返回事件总数（含时间未知的事件）。
func (h *History) Len() int { return len(h.ratings) }

// Ratings 返回按时间升序的全量事件流，回放驱动按此顺序逐条处理。
func (h *History) Ratings() []core.Rating { return h.ratings }

// ViewAsOf 返回 Timestamp <= limit 的窗口视图。
// 只移动边界，不复制存储；limit 小于全部时间戳时得到合法的空视图。
func (h *History) ViewAsOf(limit int64) *View {
	return &View{h: h, limit: limit}
}

// View 实现 core.DatasetView。
type View struct {
	h     *History
	limit int64
}

var _ core.DatasetView = (*View)(nil)

// LimitTimestamp 返回视图的时间上界（含）。
func (v *View) LimitTimestamp() int64 { return v.limit }

// ItemIDs 返回视图内全部物品 ID，升序。
func (v *View) ItemIDs() []int64 {
	if v.limit < 0 {
		return nil
	}
	out := make([]int64, 0, len(v.h.items))
	for _, id := range v.h.items {
		if v.h.itemFirst[id] <= v.limit {
			out = append(out, id)
		}
	}
	return out
}

// UserItems 返回用户在视图内交互过的物品 ID（按首次交互时间排序、去重）。
func (v *View) UserItems(user int64) []int64 {
	events := v.h.users[user]
	if len(events) == 0 || v.limit < 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(events))
	var out []int64
	for _, e := range events {
		if e.ts > v.limit {
			break
		}
		if _, ok := seen[e.item]; ok {
			continue
		}
		seen[e.item] = struct{}{}
		out = append(out, e.item)
	}
	return out
}

// Ratings 返回视图内全部事件。返回值是底层存储的子切片，调用方不得修改。
func (v *View) Ratings() []core.Rating {
	if v.limit < 0 {
		return nil
	}
	// 二分找第一个 Timestamp > limit 的位置
	n := sort.Search(len(v.h.timed), func(i int) bool {
		return v.h.timed[i].Timestamp > v.limit
	})
	return v.h.timed[:n]
}
