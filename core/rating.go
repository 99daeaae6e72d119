package core

// Rating 是回放流中的最小事件单元：用户在某一时刻对物品的一次打分行为。
// 值语义、不可变；相等性按字段结构比较。
type Rating struct {
	User      int64   // 用户 ID
	Item      int64   // 物品 ID
	Value     float64 // 评分值
	Timestamp int64   // Unix 秒；负数表示时间未知（见 NoTimestamp）
}

// NoTimestamp 是"时间未知"的哨兵值。
// 带此值的事件不推进时间窗口、不触发模型重建，但仍会被打分并写入输出。
const NoTimestamp int64 = -1

// HasTimestamp 判断事件是否携带有效时间戳（非负）。
func (r Rating) HasTimestamp() bool {
	return r.Timestamp >= 0
}
