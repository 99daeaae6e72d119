package replay

import "math"

// Accumulator 是时间平均 RMSE 的增量累积器。
// 整个回放周期内只增不减、从不重置：指标有意混合各代模型的误差，
// 反映"在线"整体表现，而不是单代模型的窗口表现。
type Accumulator struct {
	sse float64
	n   int64
}

// Observe 喂入一次预测。预测非有限值（无预测/NaN/Inf）时不改变任何状态，
// 直接返回当前 RMSE；否则累积平方误差并返回更新后的 RMSE。
func (a *Accumulator) Observe(prediction, actual float64) float64 {
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return a.RMSE()
	}
	diff := prediction - actual
	a.sse += diff * diff
	a.n++
	return a.RMSE()
}

// RMSE 返回当前累积 RMSE；没有任何有效观测时报告 0。
func (a *Accumulator) RMSE() float64 {
	if a.n == 0 {
		return 0
	}
	return math.Sqrt(a.sse / float64(a.n))
}

// Count 返回有效观测次数。
func (a *Accumulator) Count() int64 { return a.n }

// State 导出内部状态，用于检查点。
func (a *Accumulator) State() (sse float64, n int64) { return a.sse, a.n }

// Restore 从检查点恢复内部状态。
func (a *Accumulator) Restore(sse float64, n int64) {
	a.sse = sse
	a.n = n
}
