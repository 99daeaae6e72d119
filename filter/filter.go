// Package filter 提供基于 CEL (Common Expression Language) 的事件过滤器。
// 表达式在回放开始前编译一次，循环内只做求值；被过滤的事件对回放完全不可见。
package filter

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/recsim/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("user", cel.IntType),
			cel.Variable("item", cel.IntType),
			cel.Variable("rating", cel.DoubleType),
			cel.Variable("timestamp", cel.IntType),
		)
	})
	return celEnv, celEnvErr
}

// Filter 是编译好的事件过滤器。
//
// 表达式语法（CEL 标准语法），可用变量 user / item / rating / timestamp：
//   - `rating >= 3.0` → 只回放高分事件
//   - `timestamp >= 978300000 && timestamp < 1009800000` → 限定时间段
//   - `user % 10 == 0` → 用户抽样
type Filter struct {
	expr string
	prg  cel.Program
}

// New 编译表达式。表达式必须产出布尔值。
func New(expr string) (*Filter, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expr, iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program filter %q: %w", expr, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式（用于日志）。
func (f *Filter) Expr() string { return f.expr }

// Match 对单条事件求值；true 表示保留。
func (f *Filter) Match(r core.Rating) (bool, error) {
	out, _, err := f.prg.Eval(map[string]any{
		"user":      r.User,
		"item":      r.Item,
		"rating":    r.Value,
		"timestamp": r.Timestamp,
	})
	if err != nil {
		return false, fmt.Errorf("eval filter %q: %w", f.expr, err)
	}
	keep, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned non-bool %T", f.expr, out.Value())
	}
	return keep, nil
}
