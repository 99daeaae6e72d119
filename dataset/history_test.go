package dataset

import (
	"reflect"
	"testing"

	"github.com/rushteam/recsim/core"
)

func sampleHistory() *History {
	return New([]core.Rating{
		{User: 1, Item: 10, Value: 4.0, Timestamp: 30},
		{User: 2, Item: 20, Value: 3.0, Timestamp: 10},
		{User: 1, Item: 30, Value: 5.0, Timestamp: 50},
		{User: 1, Item: 10, Value: 2.0, Timestamp: 70}, // 重复交互同一物品
		{User: 3, Item: 40, Value: 1.0, Timestamp: core.NoTimestamp},
	})
}

func TestHistory_Ordering(t *testing.T) {
	h := sampleHistory()
	if h.Len() != 5 {
		t.Fatalf("Len = %d, want 5", h.Len())
	}
	// 时间未知的排最前，其余按时间升序
	var got []int64
	for _, r := range h.Ratings() {
		got = append(got, r.Timestamp)
	}
	want := []int64{core.NoTimestamp, 10, 30, 50, 70}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("timestamps = %v, want %v", got, want)
	}
}

func TestView_Bounds(t *testing.T) {
	h := sampleHistory()
	tests := []struct {
		name      string
		limit     int64
		wantCount int
		wantItems []int64
	}{
		{name: "empty view", limit: -1, wantCount: 0, wantItems: nil},
		{name: "below all", limit: 5, wantCount: 0, wantItems: []int64{}},
		{name: "mid window", limit: 30, wantCount: 2, wantItems: []int64{10, 20}},
		{name: "inclusive bound", limit: 50, wantCount: 3, wantItems: []int64{10, 20, 30}},
		{name: "full window excludes untimed", limit: 1000, wantCount: 4, wantItems: []int64{10, 20, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := h.ViewAsOf(tt.limit)
			if got := len(v.Ratings()); got != tt.wantCount {
				t.Errorf("len(Ratings) = %d, want %d", got, tt.wantCount)
			}
			for _, r := range v.Ratings() {
				if r.Timestamp > tt.limit {
					t.Errorf("rating at %d leaked past limit %d", r.Timestamp, tt.limit)
				}
			}
			got := v.ItemIDs()
			if len(got) == 0 && len(tt.wantItems) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.wantItems) {
				t.Errorf("ItemIDs = %v, want %v", got, tt.wantItems)
			}
		})
	}
}

func TestView_UserItems(t *testing.T) {
	h := sampleHistory()
	tests := []struct {
		name  string
		limit int64
		user  int64
		want  []int64
	}{
		{name: "unseen user", limit: 100, user: 99, want: nil},
		{name: "untimed-only user invisible", limit: 100, user: 3, want: nil},
		{name: "window cuts history", limit: 30, user: 1, want: []int64{10}},
		{name: "dedup repeated item", limit: 100, user: 1, want: []int64{10, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.ViewAsOf(tt.limit).UserItems(tt.user)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UserItems = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestView_Interchangeable(t *testing.T) {
	h := sampleHistory()
	a := h.ViewAsOf(30)
	b := h.ViewAsOf(30)
	if !reflect.DeepEqual(a.Ratings(), b.Ratings()) || !reflect.DeepEqual(a.ItemIDs(), b.ItemIDs()) {
		t.Error("views with equal limits must be interchangeable")
	}
}

func TestHistory_DoesNotAliasInput(t *testing.T) {
	in := []core.Rating{{User: 1, Item: 1, Value: 1, Timestamp: 1}}
	h := New(in)
	in[0].Item = 999
	if h.Ratings()[0].Item != 1 {
		t.Error("History must copy the input slice")
	}
}
