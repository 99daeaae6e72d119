// Package replay 实现时序回放评测：按时间顺序重放历史事件，
// 模拟推荐系统"当年上线"会如何表现。
//
// 核心约束是时序因果：对时刻 t 的事件做预测时，模型与候选池
// 都只能看到 t 之前的数据。回放因此必须严格串行，不做任何投机并行。
package replay

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/recsim/core"
	"github.com/rushteam/recsim/dataset"
	"github.com/rushteam/recsim/output"
	"github.com/rushteam/recsim/pkg/metrics"
)

// 默认配置。
const (
	DefaultRebuildPeriod int64 = 86400 // 一天
	DefaultListSize            = 10
)

// EventFilter 是回放输入的可选过滤器，被过滤的事件对回放完全不可见。
type EventFilter interface {
	Match(r core.Rating) (bool, error)
}

// Evaluator 是回放驱动器：推进窗口、调度重建、打分、累积指标、写输出。
// 模型工件由 Evaluator 独占持有：重建时先 Close 旧模型，任一时刻最多一个存活模型。
type Evaluator struct {
	Data    *dataset.History  // 数据源（必填）
	Builder core.ModelBuilder // 算法/训练配置（必填，恰好一个）

	RebuildPeriod int64 // 重建周期（秒）；<=0 取 DefaultRebuildPeriod
	ListSize      int   // 推荐列表长度；<=0 取 DefaultListSize
	Seed          int64 // 候选采样的随机种子

	OutputPath         string // 表格输出路径；为空则不产表格，但指标照常计算
	ExtendedOutputPath string // 扩展（逐行 JSON）输出路径；可选

	Filter     EventFilter         // 可选
	Checkpoint *Checkpoint         // 可选：断点续跑
	Metrics    *metrics.RunMetrics // 可选
	Logger     zerolog.Logger
	RunID      string
}

// Result 是一次回放的汇总。
type Result struct {
	Events       int     // 回放的事件数
	Observations int64   // 有效观测（有预测）数
	RMSE         float64 // 最终时间平均 RMSE
	Builds       int     // 模型重建次数
}

// New 创建带默认配置的 Evaluator。
func New(data *dataset.History, builder core.ModelBuilder) *Evaluator {
	return &Evaluator{
		Data:          data,
		Builder:       builder,
		RebuildPeriod: DefaultRebuildPeriod,
		ListSize:      DefaultListSize,
		Logger:        zerolog.Nop(),
		RunID:         uuid.NewString(),
	}
}

// Run 执行完整回放。
//
// 失败语义：配置错误在循环开始前返回，不产生任何输出；构建/打分错误
// 中止整个回放（部分写出的行保留在盘上，不回滚）；所有退出路径都保证
// 输出资源被关闭刷盘。
func (e *Evaluator) Run(ctx context.Context) (result *Result, err error) {
	if e.Data == nil {
		return nil, core.NewDomainError(core.ModuleReplay, core.ErrorCodeInvalidConfig, "replay: no data source")
	}
	if e.Builder == nil {
		return nil, core.NewDomainError(core.ModuleReplay, core.ErrorCodeInvalidConfig, "replay: no algorithm")
	}

	period := e.RebuildPeriod
	if period <= 0 {
		period = DefaultRebuildPeriod
	}
	listSize := e.ListSize
	if listSize <= 0 {
		listSize = DefaultListSize
	}

	var table *output.TableWriter
	var ext *output.ExtendedWriter
	if e.OutputPath != "" {
		if table, err = output.NewTableWriter(e.OutputPath); err != nil {
			return nil, fmt.Errorf("replay: open output: %w", err)
		}
	}
	if e.ExtendedOutputPath != "" {
		if ext, err = output.NewExtendedWriter(e.ExtendedOutputPath); err != nil {
			if table != nil {
				_ = table.Close()
			}
			return nil, fmt.Errorf("replay: open extended output: %w", err)
		}
	}
	defer func() {
		if table != nil {
			if cerr := table.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		if ext != nil {
			if cerr := ext.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	var model core.Model
	defer func() {
		if model != nil {
			_ = model.Close()
		}
	}()

	sched := &Scheduler{Period: period}
	acc := &Accumulator{}
	sampler := &Sampler{ListSize: listSize, Rng: rand.New(rand.NewSource(e.Seed))}

	resumeFrom := 0
	if e.Checkpoint != nil {
		st, cerr := e.Checkpoint.Load(ctx, e.RunID)
		if cerr != nil {
			return nil, fmt.Errorf("replay: load checkpoint: %w", cerr)
		}
		if st != nil {
			resumeFrom = st.Processed
			acc.Restore(st.SSE, st.Count)
			sched.Restore(st.Builds)
			e.Logger.Info().Int("processed", st.Processed).Int64("last_timestamp", st.LastTimestamp).
				Msg("resuming from checkpoint")
		}
	}

	e.Logger.Info().Str("run_id", e.RunID).Str("algorithm", e.Builder.Name()).
		Int("events", e.Data.Len()).Int64("rebuild_period", period).Int("list_size", listSize).
		Msg("replay started")

	limit := int64(-1)
	window := e.Data.ViewAsOf(limit)
	events := 0

	for i, r := range e.Data.Ratings() {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		if i < resumeFrom {
			continue
		}
		if e.Filter != nil {
			keep, ferr := e.Filter.Match(r)
			if ferr != nil {
				return nil, fmt.Errorf("replay: filter: %w", ferr)
			}
			if !keep {
				continue
			}
		}

		// 窗口推进到 t-1：当前事件（以及同一秒的其它事件）绝不进入
		// 自己的训练窗口或候选池
		if r.HasTimestamp() && r.Timestamp-1 > limit {
			limit = r.Timestamp - 1
			window = e.Data.ViewAsOf(limit)
		}

		if sched.ShouldRebuild(r.Timestamp) {
			newModel, berr := e.Builder.Build(ctx, window)
			if berr != nil {
				return nil, core.NewDomainError(core.ModuleReplay, core.ErrorCodeBuildFailed,
					fmt.Sprintf("replay: build model at t=%d: %v", r.Timestamp, berr))
			}
			if model != nil {
				_ = model.Close()
			}
			model = newModel
			sched.MarkRebuilt(r.Timestamp)
			if e.Metrics != nil {
				e.Metrics.IncRebuilds()
			}
			e.Logger.Debug().Int64("timestamp", r.Timestamp).Int("builds", sched.Builds()).
				Int64("window_limit", limit).Msg("model rebuilt")
		}

		prediction := math.NaN()
		hasPrediction := false
		if model != nil {
			score, ok, perr := model.Predict(ctx, r.User, r.Item)
			if perr != nil {
				return nil, fmt.Errorf("replay: predict user=%d item=%d: %w", r.User, r.Item, perr)
			}
			if ok {
				prediction = score
				hasPrediction = true
			}
		}

		rmse := acc.Observe(prediction, r.Value)

		var recs []int64
		rank := 0
		hasRank := false
		if model != nil {
			if rec, ok := model.(core.Recommender); ok {
				var rerr error
				recs, rank, hasRank, rerr = sampler.Rank(ctx, rec, window, r.User, r.Item)
				if rerr != nil {
					return nil, fmt.Errorf("replay: rank user=%d item=%d: %w", r.User, r.Item, rerr)
				}
				if e.Metrics != nil {
					e.Metrics.IncRanked()
				}
			}
		}

		if table != nil {
			row := output.Row{
				User: r.User, Item: r.Item, Rating: r.Value, Timestamp: r.Timestamp,
				Prediction: prediction, HasPrediction: hasPrediction,
				RunningRMSE: rmse,
				ModelAge:    r.Timestamp - sched.BuildTime(),
				Rank:        rank, HasRank: hasRank,
				Rebuilds: sched.Builds(),
			}
			if werr := table.WriteRow(row); werr != nil {
				return nil, fmt.Errorf("replay: write row: %w", werr)
			}
		}
		if ext != nil {
			rec := output.Record{UserID: r.User, ItemID: r.Item, Timestamp: r.Timestamp, Rating: r.Value}
			if hasPrediction {
				p := prediction
				rec.Prediction = &p
			}
			rec.Recommendations = recs
			if werr := ext.Write(rec); werr != nil {
				return nil, fmt.Errorf("replay: write extended record: %w", werr)
			}
		}

		events++
		if e.Metrics != nil {
			e.Metrics.IncEvents()
			if hasPrediction {
				e.Metrics.IncPredictions()
			}
		}

		if e.Checkpoint != nil && (i+1)%e.Checkpoint.EffectiveInterval() == 0 {
			st := &CheckpointState{
				RunID: e.RunID, Processed: i + 1, LastTimestamp: r.Timestamp,
				SSE: 0, Count: 0, Builds: sched.Builds(),
			}
			st.SSE, st.Count = acc.State()
			if serr := e.Checkpoint.Save(ctx, st); serr != nil {
				// 检查点尽力而为，保存失败不中断回放
				e.Logger.Warn().Err(serr).Msg("checkpoint save failed")
			}
		}
	}

	if e.Checkpoint != nil {
		if cerr := e.Checkpoint.Clear(ctx, e.RunID); cerr != nil {
			e.Logger.Warn().Err(cerr).Msg("checkpoint clear failed")
		}
	}

	result = &Result{
		Events:       events,
		Observations: acc.Count(),
		RMSE:         acc.RMSE(),
		Builds:       sched.Builds(),
	}
	e.Logger.Info().Int("events", result.Events).Int64("observations", result.Observations).
		Float64("rmse", result.RMSE).Int("builds", result.Builds).Msg("replay finished")
	return result, nil
}
