package application

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/maskworks/strata/internal/ports/output"
)

func TestSyncService_RateLimiting(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	registry := &LayoutRegistry{
		layouts:   make(map[string]*layoutEntry),
		logger:    logger,
		localPath: "/tmp",
		storage:   &mockStorage{},
		metrics:   &output.NoOpMetrics{},
	}

	service := NewSyncService(registry, time.Hour, logger)

	ctx := context.Background()

	// First call should succeed (sync will return 0 added since storage is empty)
	result, err := service.TriggerSync(ctx)
	if err != nil {
		t.Errorf("first sync should succeed, got error: %v", err)
	}
	if result.LayoutsAdded != 0 {
		t.Errorf("expected 0 layouts added with empty storage, got %d", result.LayoutsAdded)
	}

	// Immediate second call should be rate limited
	_, err = service.TriggerSync(ctx)
	if err != ErrRateLimited {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestSyncService_StartStop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	registry := &LayoutRegistry{
		layouts:   make(map[string]*layoutEntry),
		logger:    logger,
		localPath: "/tmp",
		storage:   &mockStorage{},
		metrics:   &output.NoOpMetrics{},
	}

	// Use a short interval for testing
	service := NewSyncService(registry, 100*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the service
	service.Start(ctx)

	// Give it a moment to start
	time.Sleep(50 * time.Millisecond)

	// Stop the service
	service.Stop()

	// Should complete without hanging
}

func TestSyncService_Interval(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	registry := &LayoutRegistry{
		layouts:   make(map[string]*layoutEntry),
		logger:    logger,
		localPath: "/tmp",
		storage:   &mockStorage{},
		metrics:   &output.NoOpMetrics{},
	}

	interval := 2 * time.Hour
	service := NewSyncService(registry, interval, logger)

	if service.Interval() != interval {
		t.Errorf("expected interval %v, got %v", interval, service.Interval())
	}
}

func TestSyncService_SyncAddsNewLayouts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create storage with some mock objects
	storage := &mockStorage{
		objects: []output.StorageObject{
			{Key: "chip1.gds"},
			{Key: "chip2.gds"},
		},
	}

	registry := &LayoutRegistry{
		layouts:   make(map[string]*layoutEntry),
		repo:      &mockRepository{},
		logger:    logger,
		localPath: "/tmp",
		storage:   storage,
		metrics:   &output.NoOpMetrics{},
	}

	service := NewSyncService(registry, time.Hour, logger)

	ctx := context.Background()

	// First sync should add layouts
	result, err := service.TriggerSync(ctx)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.LayoutsAdded != 2 {
		t.Errorf("expected 2 layouts added, got %d", result.LayoutsAdded)
	}
	if result.LayoutsTotal != 2 {
		t.Errorf("expected 2 total layouts, got %d", result.LayoutsTotal)
	}
}

func TestRegistry_IsLoaded(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	registry := &LayoutRegistry{
		layouts:   make(map[string]*layoutEntry),
		logger:    logger,
		localPath: "/tmp",
		storage:   &mockStorage{},
		metrics:   &output.NoOpMetrics{},
	}

	// Initially not loaded
	if registry.IsLoaded("chip") {
		t.Error("expected layout to not be loaded initially")
	}

	// Add a layout manually
	registry.layouts["chip"] = &layoutEntry{}

	// Now it should be loaded
	if !registry.IsLoaded("chip") {
		t.Error("expected layout to be loaded after adding")
	}
}

func TestRegistry_LayoutCount(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	registry := &LayoutRegistry{
		layouts:   make(map[string]*layoutEntry),
		logger:    logger,
		localPath: "/tmp",
		storage:   &mockStorage{},
		metrics:   &output.NoOpMetrics{},
	}

	if registry.LayoutCount() != 0 {
		t.Errorf("expected 0 layouts, got %d", registry.LayoutCount())
	}

	registry.layouts["chip1"] = &layoutEntry{}
	registry.layouts["chip2"] = &layoutEntry{}

	if registry.LayoutCount() != 2 {
		t.Errorf("expected 2 layouts, got %d", registry.LayoutCount())
	}
}

func TestRegistry_SyncRemovesDeletedLayouts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create storage with two layouts initially
	storage := &mockStorage{
		objects: []output.StorageObject{
			{Key: "chip1.gds"},
			{Key: "chip2.gds"},
		},
	}

	registry := &LayoutRegistry{
		layouts:   make(map[string]*layoutEntry),
		repo:      &mockRepository{},
		logger:    logger,
		localPath: "/tmp",
		storage:   storage,
		metrics:   &output.NoOpMetrics{},
	}

	ctx := context.Background()

	// First sync should add both layouts
	stats, err := registry.Sync(ctx)
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	if stats.Added != 2 {
		t.Errorf("expected 2 layouts added, got %d", stats.Added)
	}
	if stats.Removed != 0 {
		t.Errorf("expected 0 layouts removed, got %d", stats.Removed)
	}

	// Remove one layout from storage
	storage.objects = []output.StorageObject{
		{Key: "chip1.gds"},
	}

	// Second sync should remove the deleted layout
	stats, err = registry.Sync(ctx)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if stats.Added != 0 {
		t.Errorf("expected 0 layouts added, got %d", stats.Added)
	}
	if stats.Removed != 1 {
		t.Errorf("expected 1 layout removed, got %d", stats.Removed)
	}
	if registry.LayoutCount() != 1 {
		t.Errorf("expected 1 total layout, got %d", registry.LayoutCount())
	}
}

func TestRegistry_FindLayoutsToRemove(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	registry := &LayoutRegistry{
		layouts:   make(map[string]*layoutEntry),
		logger:    logger,
		localPath: "/tmp",
		storage:   &mockStorage{},
		metrics:   &output.NoOpMetrics{},
	}

	// Add some layouts locally
	registry.layouts["chip1"] = &layoutEntry{}
	registry.layouts["chip2"] = &layoutEntry{}
	registry.layouts["chip3"] = &layoutEntry{}

	// Only chip1 and chip3 are in remote
	remoteLayouts := map[string]string{
		"chip1": "chip1.gds",
		"chip3": "chip3.gds",
	}

	toRemove := registry.findLayoutsToRemove(remoteLayouts)

	if len(toRemove) != 1 {
		t.Errorf("expected 1 layout to remove, got %d", len(toRemove))
	}
	if len(toRemove) > 0 && toRemove[0] != "chip2" {
		t.Errorf("expected chip2 to be removed, got %s", toRemove[0])
	}
}
