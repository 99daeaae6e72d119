// Package recsim 是推荐算法的时序回放评测工具包（Recommender Simulation）。
//
// 设计要点：
// - Replay-first: 按时间顺序重放历史事件，严格保证时序因果（t 时刻的预测看不到 t 及之后的数据）
// - Model-as-collaborator: 训练引擎是外部协作者，核心只消费 core.ModelBuilder / core.Model 接口
// - Deterministic: 随机源随运行显式传递，同种子同输入必得同结果
package recsim

import "github.com/rushteam/recsim/replay"

// 轻量 facade：便于用户直接 import "recsim" 使用核心抽象。
type Evaluator = replay.Evaluator
type Result = replay.Result

const (
	DefaultRebuildPeriod = replay.DefaultRebuildPeriod
	DefaultListSize      = replay.DefaultListSize
)

var New = replay.New
