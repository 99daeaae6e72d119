package dataset

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/recsim/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "ratings.csv",
		"user,item,rating,timestamp\n"+
			"1,10,4.0,30\n"+
			"2,20,3.0,10\n"+
			"1,30,5.0\n")

	h, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	// 缺省 timestamp 的行排最前
	first := h.Ratings()[0]
	if first.Item != 30 || first.HasTimestamp() {
		t.Errorf("first rating = %+v, want untimed item 30", first)
	}
	last := h.Ratings()[2]
	if last.Timestamp != 30 {
		t.Errorf("last timestamp = %d, want 30", last.Timestamp)
	}
}

func TestLoad_TSV(t *testing.T) {
	path := writeFile(t, "ratings.tsv", "1\t10\t4.0\t30\n2\t20\t3.5\t10\n")
	h, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
	if h.Ratings()[0].Value != 3.5 {
		t.Errorf("first value = %v, want 3.5", h.Ratings()[0].Value)
	}
}

func TestLoad_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("1,10,4.0,30\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	h, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Len() != 1 || h.Ratings()[0].Item != 10 {
		t.Errorf("ratings = %+v, want one rating of item 10", h.Ratings())
	}
}

func TestLoad_MultipleParts(t *testing.T) {
	// 多 part 并发读取，合并后统一按时间排序
	p1 := writeFile(t, "part-0.csv", "1,10,4.0,300\n1,20,3.0,100\n")
	p2 := writeFile(t, "part-1.csv", "2,30,5.0,200\n")

	h, err := Load(context.Background(), p1, p2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var got []int64
	for _, r := range h.Ratings() {
		got = append(got, r.Timestamp)
	}
	want := []int64{100, 200, 300}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("timestamps = %v, want %v", got, want)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "too few fields", content: "1,10,4.0,30\n1,10\n"},
		{name: "bad user", content: "1,10,4.0,30\nxx,10,4.0,30\n"},
		{name: "bad rating", content: "1,10,4.0,30\n1,10,abc,30\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tt.content)
			if _, err := Load(context.Background(), path); err == nil {
				t.Error("Load should fail on malformed data row")
			}
		})
	}
}

func TestLoad_NoInput(t *testing.T) {
	_, err := Load(context.Background())
	if !core.IsInvalidConfig(err) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_NegativeTimestampIsSentinel(t *testing.T) {
	path := writeFile(t, "ratings.csv", "1,10,4.0,-5\n")
	h, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Ratings()[0].HasTimestamp() {
		t.Error("negative timestamp must map to the sentinel")
	}
}
