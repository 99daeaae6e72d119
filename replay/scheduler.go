package replay

// Scheduler 是模型重建调度器：两态状态机（无模型 / 有模型@buildTime）。
//
// 规则（只对时间有效的事件求值）：
//   - 无模型时：必定重建（首个带时间戳的事件无条件触发首次构建）
//   - 有模型时：t - buildTime >= Period 才重建
//
// 时间未知的事件从不触发迁移，用当前模型（可能没有）打分。
type Scheduler struct {
	Period int64 // 重建周期（秒）

	hasModel  bool
	buildTime int64
	builds    int
}

// ShouldRebuild 判断时间戳为 ts 的事件是否应触发重建。
func (s *Scheduler) ShouldRebuild(ts int64) bool {
	if ts < 0 {
		return false
	}
	return !s.hasModel || ts-s.buildTime >= s.Period
}

// MarkRebuilt 记录一次在 ts 完成的重建。buildTime 与 builds 均单调递增。
func (s *Scheduler) MarkRebuilt(ts int64) {
	s.hasModel = true
	s.buildTime = ts
	s.builds++
}

// HasModel 返回当前是否存在存活模型。
func (s *Scheduler) HasModel() bool { return s.hasModel }

// BuildTime 返回最近一次重建的时间戳；尚未构建过时为 0。
func (s *Scheduler) BuildTime() int64 { return s.buildTime }

// Builds 返回累计重建次数。
func (s *Scheduler) Builds() int { return s.builds }

// Restore 从检查点恢复累计重建次数。
// 模型工件本身不落盘，续跑后的首个带时间戳事件会重新触发构建。
func (s *Scheduler) Restore(builds int) {
	s.builds = builds
}
