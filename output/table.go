// Package output 实现回放结果的两类落盘：固定列的表格输出与逐行 JSON 的扩展输出。
// 两者都是只追加的流式写入，由回放驱动独占持有，运行结束或失败时保证关闭。
package output

import (
	"compress/gzip"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
)

// 表格列，顺序固定。Prediction / Rank 缺席时写空单元格，绝不写 0。
var tableColumns = []string{
	"User", "Item", "Rating", "Timestamp",
	"Prediction", "RunningRMSE", "ModelAge", "Rank", "Rebuilds",
}

// Row 是一条事件对应的输出行。
type Row struct {
	User          int64
	Item          int64
	Rating        float64
	Timestamp     int64
	Prediction    float64
	HasPrediction bool
	RunningRMSE   float64
	ModelAge      int64
	Rank          int
	HasRank       bool
	Rebuilds      int
}

// TableWriter 把输出行写成 CSV；路径以 .gz 结尾时自动压缩。
type TableWriter struct {
	f  *os.File
	gz *gzip.Writer
	w  *csv.Writer
}

// NewTableWriter 创建表格输出并写入表头。
func NewTableWriter(path string) (*TableWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	tw := &TableWriter{f: f}
	var sink io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		tw.gz = gzip.NewWriter(f)
		sink = tw.gz
	}
	tw.w = csv.NewWriter(sink)

	if err := tw.w.Write(tableColumns); err != nil {
		_ = tw.Close()
		return nil, err
	}
	return tw, nil
}

// WriteRow 追加一行。
func (tw *TableWriter) WriteRow(row Row) error {
	record := []string{
		strconv.FormatInt(row.User, 10),
		strconv.FormatInt(row.Item, 10),
		formatFloat(row.Rating),
		strconv.FormatInt(row.Timestamp, 10),
		"",
		formatFloat(row.RunningRMSE),
		strconv.FormatInt(row.ModelAge, 10),
		"",
		strconv.Itoa(row.Rebuilds),
	}
	if row.HasPrediction {
		record[4] = formatFloat(row.Prediction)
	}
	if row.HasRank {
		record[7] = strconv.Itoa(row.Rank)
	}
	return tw.w.Write(record)
}

// Close 刷出缓冲并关闭文件；任何退出路径上都必须调用。
func (tw *TableWriter) Close() error {
	tw.w.Flush()
	err := tw.w.Error()
	if tw.gz != nil {
		if cerr := tw.gz.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := tw.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
