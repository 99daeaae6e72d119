package replay

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/rushteam/recsim/core"
)

// CheckpointState 是断点续跑的快照：已处理事件数 + 指标状态 + 重建计数。
// 模型工件不落盘，续跑后的首个带时间戳事件会重新触发构建。
type CheckpointState struct {
	RunID         string  `json:"run_id"`
	Processed     int     `json:"processed"`
	LastTimestamp int64   `json:"last_timestamp"`
	SSE           float64 `json:"sse"`
	Count         int64   `json:"count"`
	Builds        int     `json:"builds"`
}

// Checkpoint 把回放进度周期性写入 KV 存储（内存/Redis），支持长回放断点续跑。
type Checkpoint struct {
	Store core.Store

	// Key 是存储中的键；为空时用 "recsim:checkpoint:" + RunID
	Key string

	// Interval 每处理 N 条事件保存一次；<=0 时取默认 1000
	Interval int
}

const defaultCheckpointInterval = 1000

// EffectiveInterval 返回实际生效的保存间隔。
func (c *Checkpoint) EffectiveInterval() int {
	if c.Interval <= 0 {
		return defaultCheckpointInterval
	}
	return c.Interval
}

func (c *Checkpoint) key(runID string) string {
	if c.Key != "" {
		return c.Key
	}
	return "recsim:checkpoint:" + runID
}

// Load 读取检查点；不存在时返回 (nil, nil)。
func (c *Checkpoint) Load(ctx context.Context, runID string) (*CheckpointState, error) {
	data, err := c.Store.Get(ctx, c.key(runID))
	if err != nil {
		if core.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var st CheckpointState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Save 写入检查点。
func (c *Checkpoint) Save(ctx context.Context, st *CheckpointState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.Store.Set(ctx, c.key(st.RunID), data)
}

// Clear 删除检查点（正常跑完后调用）。
func (c *Checkpoint) Clear(ctx context.Context, runID string) error {
	return c.Store.Delete(ctx, c.key(runID))
}
