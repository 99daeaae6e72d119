// Package logging 提供 zerolog 的统一初始化。
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New 创建结构化 logger。level 解析失败或为空时回落到 info。
func New(level string) zerolog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter 创建写到指定 writer 的 logger（测试用）。
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
