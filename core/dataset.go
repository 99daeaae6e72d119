package core

// DatasetView 是时间受限的数据集视图接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（dataset）实现
//   - 视图是不可变值：同一 limit 的两个视图完全可互换
//   - 构造视图只移动边界，不复制底层事件存储
//
// 约束：视图恰好包含 Timestamp <= LimitTimestamp() 的全部事件；
// 时间未知的事件永远不在任何视图内。空视图合法，所有查询返回空结果。
type DatasetView interface {
	// LimitTimestamp 返回视图的时间上界（含）；无数据时为负
	LimitTimestamp() int64

	// ItemIDs 返回视图内全部已知物品 ID。
	// 顺序确定（升序），保证同一种子下的候选采样可复现。
	ItemIDs() []int64

	// UserItems 返回用户在视图内交互过的物品 ID；未见过的用户返回空
	UserItems(user int64) []int64

	// Ratings 返回视图内全部事件（按时间戳升序）
	Ratings() []Rating
}
