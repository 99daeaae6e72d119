package store

// 注意：此包只包含实现，接口定义在 core 包（core.Store）。
//
// 示例：
//   var s core.Store = store.NewMemoryStore()
//   cp := &replay.Checkpoint{Store: s}
