package core

import "context"

// Model 是一次训练产出的不透明模型工件。
// 生命周期：由回放驱动器独占持有，重建时先 Close 旧模型再换入新模型，
// 任一时刻最多存在一个存活模型。
type Model interface {
	// Name 返回模型名称（用于日志/输出）
	Name() string

	// Predict 对 (user, item) 做点预测。
	// 第二个返回值为 false 表示"无预测"（冷启动、用户/物品未见过等），
	// 不是错误；error 仅用于模型内部故障，对整个回放是致命的。
	Predict(ctx context.Context, user, item int64) (float64, bool, error)

	// Close 释放模型持有的资源；重建或运行结束时必须调用
	Close() error
}

// Recommender 是模型的可选排序能力。
// 由调用方通过类型断言探测；不支持排序的模型只产出点预测，Rank 列为空。
type Recommender interface {
	// Recommend 在候选集内为用户生成长度 <= n 的有序推荐列表
	Recommend(ctx context.Context, user int64, n int, candidates []int64) ([]int64, error)
}

// ModelBuilder 是外部训练引擎的构建接口：从一份时间受限的数据视图训练出模型。
// 构建失败对整个回放是致命的（已写出的行保持有效，不回滚）。
type ModelBuilder interface {
	// Name 返回算法名称
	Name() string

	// Build 从 view 训练模型。view 只包含触发事件之前的数据（时序因果）。
	Build(ctx context.Context, view DatasetView) (Model, error)
}
