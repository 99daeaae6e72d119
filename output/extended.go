package output

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// Record 是扩展输出中一条事件的诊断记录。
// 固定字段的结构体而不是开放的 map：序列化形状不变，但保住类型安全。
type Record struct {
	UserID    int64   `json:"userId"`
	ItemID    int64   `json:"itemId"`
	Timestamp int64   `json:"timestamp"`
	Rating    float64 `json:"rating"`

	// Prediction 为 nil 表示无预测，序列化为 null
	Prediction *float64 `json:"prediction"`

	// Recommendations 仅在计算过排名时出现：完整的有序推荐列表
	Recommendations []int64 `json:"recommendations,omitempty"`
}

// ExtendedWriter 逐行写 JSON 记录（JSON Lines），流式落盘，
// 不在内存里攒全量结果，任意长度的回放都能用。
type ExtendedWriter struct {
	f   *os.File
	gz  *gzip.Writer
	bw  *bufio.Writer
	enc *json.Encoder
}

// NewExtendedWriter 创建扩展输出；路径以 .gz 结尾时自动压缩。
func NewExtendedWriter(path string) (*ExtendedWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	ew := &ExtendedWriter{f: f}
	var sink io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		ew.gz = gzip.NewWriter(f)
		sink = ew.gz
	}
	ew.bw = bufio.NewWriter(sink)
	ew.enc = json.NewEncoder(ew.bw)
	return ew, nil
}

// Write 追加一条记录（一行一个 JSON 对象）。
func (ew *ExtendedWriter) Write(rec Record) error {
	return ew.enc.Encode(rec)
}

// Close 刷出缓冲并关闭文件。
func (ew *ExtendedWriter) Close() error {
	err := ew.bw.Flush()
	if ew.gz != nil {
		if cerr := ew.gz.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := ew.f.Close(); err == nil {
		err = cerr
	}
	return err
}
