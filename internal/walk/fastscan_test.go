package treescan

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestQuickStatsMatchesEngine checks that the parallel collector arrives at
// the same totals as the deterministic engine.
func TestQuickStatsMatchesEngine(t *testing.T) {
	root := buildFixture(t)

	_, engineStats, _ := collectEvents(t, root, Options{})

	quick, err := QuickStats(context.Background(), root)
	if err != nil {
		t.Fatalf("QuickStats failed: %v", err)
	}

	if quick != engineStats {
		t.Errorf("QuickStats %+v does not match engine stats %+v", quick, engineStats)
	}
}

// TestQuickStatsEmptyDirectory checks the zero-contribution case.
func TestQuickStatsEmptyDirectory(t *testing.T) {
	stats, err := QuickStats(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("QuickStats failed: %v", err)
	}
	if stats != (Stats{}) {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

// TestQuickStatsCanceledContext checks that cancellation aborts the walk.
func TestQuickStatsCanceledContext(t *testing.T) {
	root := buildFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := QuickStats(ctx, root); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestQuickStatsExpiredDeadline checks that a deadline-expired context is
// reported as such, not as a cancellation.
func TestQuickStatsExpiredDeadline(t *testing.T) {
	root := buildFixture(t)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	if _, err := QuickStats(ctx, root); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
}
