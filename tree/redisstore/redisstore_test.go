package redisstore

import (
	"context"
	"testing"
)

func TestKeyFor(t *testing.T) {
	rs := &redisStore{prefix: "sapling:models"}
	if got := rs.keyFor("weather"); got != "sapling:models:weather" {
		t.Errorf("keyFor() = %q, want sapling:models:weather", got)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rs := New(nil, "p", nil)
	if err := rs.Save(ctx, "m", nil); err != context.Canceled {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
	if _, err := rs.Load(ctx, "m"); err != context.Canceled {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
	if err := rs.Delete(ctx, "m"); err != context.Canceled {
		t.Errorf("Delete() error = %v, want context.Canceled", err)
	}
	if err := rs.Close(ctx); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
