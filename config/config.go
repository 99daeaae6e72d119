// Package config 定义回放运行配置及其加载逻辑。
// 分层覆盖（低 -> 高）：默认值 -> YAML 文件 -> RECSIM_ 前缀环境变量。
package config

import (
	"github.com/rushteam/recsim/algo"
	"github.com/rushteam/recsim/core"
)

// Config 是一次回放运行的完整配置。
type Config struct {
	// Input 是评分输入文件，一个或多个（交叉切分产物的一折可含多个 part）
	Input []string `koanf:"input"`

	// Output 是表格输出路径；为空则不产表格输出，但指标照常计算
	Output string `koanf:"output"`

	// ExtendedOutput 是扩展（逐行 JSON）输出路径；可选
	ExtendedOutput string `koanf:"extended_output"`

	// RebuildPeriod 是模型重建周期（秒）
	RebuildPeriod int64 `koanf:"rebuild_period"`

	// ListSize 是排名评测的推荐列表长度
	ListSize int `koanf:"list_size"`

	// Seed 是候选采样的随机种子
	Seed int64 `koanf:"seed"`

	// Filter 是可选的 CEL 事件过滤表达式
	Filter string `koanf:"filter"`

	// MetricsFile 是运行结束时导出 Prometheus 文本指标的路径；可选
	MetricsFile string `koanf:"metrics_file"`

	// LogLevel 控制日志级别：debug / info / warn / error
	LogLevel string `koanf:"log_level"`

	// Algorithm 是内联算法配置；与 AlgorithmFile 二选一，必须恰好配置一个
	Algorithm algo.Spec `koanf:"algorithm"`

	// AlgorithmFile 是独立的算法 YAML 文件路径
	AlgorithmFile string `koanf:"algorithm_file"`

	// Checkpoint 是断点续跑配置；可选
	Checkpoint CheckpointConfig `koanf:"checkpoint"`
}

// CheckpointConfig 配置检查点存储后端。
type CheckpointConfig struct {
	// Store 为空表示不启用；支持 "memory" / "redis"
	Store string `koanf:"store"`

	RedisAddr string `koanf:"redis_addr"`
	RedisDB   int    `koanf:"redis_db"`

	// Key 覆盖默认的检查点键；可选
	Key string `koanf:"key"`

	// Interval 每处理 N 条事件保存一次
	Interval int `koanf:"interval"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		RebuildPeriod: 86400,
		ListSize:      10,
		LogLevel:      "info",
	}
}

// Validate 校验配置；违反前置条件时返回 INVALID_CONFIG 领域错误。
func (c *Config) Validate() error {
	if len(c.Input) == 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig, "config: no input file")
	}
	inline := c.Algorithm.Type != ""
	if inline && c.AlgorithmFile != "" {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			"config: algorithm and algorithm_file are mutually exclusive")
	}
	if !inline && c.AlgorithmFile == "" {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig, "config: no algorithm")
	}
	if c.RebuildPeriod <= 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig, "config: rebuild_period must be positive")
	}
	if c.ListSize <= 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig, "config: list_size must be positive")
	}
	switch c.Checkpoint.Store {
	case "", "memory", "redis":
	default:
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			"config: checkpoint.store must be memory or redis")
	}
	return nil
}

// AlgorithmSpec 解析最终生效的算法配置（内联或文件）。
func (c *Config) AlgorithmSpec() (*algo.Spec, error) {
	if c.AlgorithmFile != "" {
		return algo.LoadSpec(c.AlgorithmFile)
	}
	spec := c.Algorithm
	return &spec, nil
}
