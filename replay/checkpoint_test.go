package replay

import (
	"context"
	"testing"

	"github.com/rushteam/recsim/store"
)

func TestCheckpoint_SaveLoadClear(t *testing.T) {
	cp := &Checkpoint{Store: store.NewMemoryStore()}
	ctx := context.Background()

	if st, err := cp.Load(ctx, "missing"); err != nil || st != nil {
		t.Fatalf("Load missing = (%v, %v), want (nil, nil)", st, err)
	}

	want := &CheckpointState{RunID: "r1", Processed: 42, LastTimestamp: 1000, SSE: 2.5, Count: 40, Builds: 3}
	if err := cp.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := cp.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || *got != *want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}

	if err := cp.Clear(ctx, "r1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if st, _ := cp.Load(ctx, "r1"); st != nil {
		t.Errorf("Load after clear = %+v, want nil", st)
	}
}

func TestCheckpoint_CustomKeyAndInterval(t *testing.T) {
	cp := &Checkpoint{Store: store.NewMemoryStore(), Key: "my-key", Interval: 50}
	ctx := context.Background()

	if err := cp.Save(ctx, &CheckpointState{RunID: "whatever", Processed: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Key 固定时，任意 runID 都读同一个键
	if st, err := cp.Load(ctx, "other-run"); err != nil || st == nil {
		t.Errorf("Load with custom key = (%v, %v), want state", st, err)
	}
	if cp.EffectiveInterval() != 50 {
		t.Errorf("EffectiveInterval = %d, want 50", cp.EffectiveInterval())
	}
	if (&Checkpoint{}).EffectiveInterval() != defaultCheckpointInterval {
		t.Errorf("default interval = %d, want %d", (&Checkpoint{}).EffectiveInterval(), defaultCheckpointInterval)
	}
}
