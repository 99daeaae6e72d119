package filter

import (
	"testing"

	"github.com/rushteam/recsim/core"
)

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		rating core.Rating
		want   bool
	}{
		{
			name:   "rating threshold keeps",
			expr:   "rating >= 3.0",
			rating: core.Rating{User: 1, Item: 10, Value: 4, Timestamp: 100},
			want:   true,
		},
		{
			name:   "rating threshold drops",
			expr:   "rating >= 3.0",
			rating: core.Rating{User: 1, Item: 10, Value: 2, Timestamp: 100},
			want:   false,
		},
		{
			name:   "time range",
			expr:   "timestamp >= 100 && timestamp < 200",
			rating: core.Rating{User: 1, Item: 10, Value: 4, Timestamp: 150},
			want:   true,
		},
		{
			name:   "user sampling",
			expr:   "user % 10 == 0",
			rating: core.Rating{User: 30, Item: 10, Value: 4, Timestamp: 100},
			want:   true,
		},
		{
			name:   "item match",
			expr:   "item == 10",
			rating: core.Rating{User: 1, Item: 11, Value: 4, Timestamp: 100},
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.expr)
			if err != nil {
				t.Fatalf("New(%q): %v", tt.expr, err)
			}
			got, err := f.Match(tt.rating)
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "syntax error", expr: "rating >="},
		{name: "unknown variable", expr: "score > 3.0"},
		{name: "non-bool result", expr: "rating + 1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.expr); err == nil {
				t.Errorf("New(%q) should fail", tt.expr)
			}
		})
	}
}

func TestFilter_Expr(t *testing.T) {
	f, err := New("rating >= 3.0")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.Expr() != "rating >= 3.0" {
		t.Errorf("Expr = %q", f.Expr())
	}
}
