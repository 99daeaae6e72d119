package dataset

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/recsim/core"
)

// Load 从一个或多个评分文件构建 History。
// 多文件对应交叉切分产物的"一目录一折"布局：各 part 并发读取，合并后统一排序。
//
// 文件格式：每行 user,item,rating[,timestamp]，逗号或制表符分隔；
// 缺省 timestamp 视为时间未知；以 .gz 结尾的文件自动解压。
func Load(ctx context.Context, paths ...string) (*History, error) {
	if len(paths) == 0 {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidConfig, "dataset: no input file")
	}

	parts := make([][]core.Rating, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rs, err := readFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			parts[i] = rs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []core.Rating
	for _, p := range parts {
		all = append(all, p...)
	}
	return New(all), nil
}

func readFile(path string) ([]core.Rating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	cr := csv.NewReader(r)
	cr.Comma = separatorFor(path)
	cr.FieldsPerRecord = -1 // timestamp 列可选

	var out []core.Rating
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		rating, ok, err := parseRecord(record)
		if err != nil {
			// 首行允许是表头
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if ok {
			out = append(out, rating)
		}
	}
	return out, nil
}

// separatorFor 按扩展名选分隔符：.tsv/.dat 用制表符，其余按 CSV 处理。
func separatorFor(path string) rune {
	switch filepath.Ext(strings.TrimSuffix(path, ".gz")) {
	case ".tsv", ".dat":
		return '\t'
	default:
		return ','
	}
}

func parseRecord(record []string) (core.Rating, bool, error) {
	if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
		return core.Rating{}, false, nil
	}
	if len(record) < 3 {
		return core.Rating{}, false, fmt.Errorf("want at least 3 fields, got %d", len(record))
	}

	user, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return core.Rating{}, false, fmt.Errorf("user: %w", err)
	}
	item, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil {
		return core.Rating{}, false, fmt.Errorf("item: %w", err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return core.Rating{}, false, fmt.Errorf("rating: %w", err)
	}

	ts := core.NoTimestamp
	if len(record) > 3 {
		raw := strings.TrimSpace(record[3])
		if raw != "" {
			ts, err = strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return core.Rating{}, false, fmt.Errorf("timestamp: %w", err)
			}
			if ts < 0 {
				ts = core.NoTimestamp
			}
		}
	}

	return core.Rating{User: user, Item: item, Value: value, Timestamp: ts}, true, nil
}
