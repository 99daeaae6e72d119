// Package algo 是算法注册表：回放核心不实现任何推荐算法，
// 只通过 core.ModelBuilder 接口消费外部训练引擎。本包提供配置驱动的
// 构建入口，以及让二进制可跑、让测试落地的参考实现（bias / popular）。
package algo

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/recsim/core"
)

// Spec 是算法配置块：类型名 + 算法特定配置。
type Spec struct {
	Type   string         `yaml:"type" json:"type" koanf:"type"`
	Config map[string]any `yaml:"config" json:"config" koanf:"config"`
}

// BuilderFunc 根据配置构建一个 core.ModelBuilder。
// 各算法在 init 中调用 Register(typeName, fn) 即可被配置驱动。
type BuilderFunc func(config map[string]any) (core.ModelBuilder, error)

var (
	registry   = make(map[string]BuilderFunc)
	registryMu sync.RWMutex
)

// Register 注册一种算法的构建逻辑。
func Register(typeName string, fn BuilderFunc) {
	if typeName == "" || fn == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typeName] = fn
}

// Supported 返回当前已注册的算法类型列表（排序），用于错误提示与校验。
func Supported() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Build 根据 Spec 构建算法。未注册的类型返回包含已支持列表的错误。
func Build(spec *Spec) (core.ModelBuilder, error) {
	if spec == nil || spec.Type == "" {
		return nil, core.NewDomainError(core.ModuleAlgo, core.ErrorCodeInvalidConfig, "algo: empty spec")
	}
	registryMu.RLock()
	fn, ok := registry[spec.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported algorithm type %q (supported: %v)", spec.Type, Supported())
	}
	return fn(spec.Config)
}

// LoadSpec 从独立的 YAML 文件加载算法配置。
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &spec, nil
}
