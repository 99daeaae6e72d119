package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load 构建配置：默认值 -> YAML 文件（path 为空则跳过）-> 环境变量。
//
// 环境变量用 RECSIM_ 前缀，双下划线表示嵌套：
//   RECSIM_LIST_SIZE=5
//   RECSIM_CHECKPOINT__REDIS_ADDR=127.0.0.1:6379
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("RECSIM_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "RECSIM_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	return cfg, nil
}
