// Package application contains the application services.
package application

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maskworks/strata/internal/domain"
	"github.com/maskworks/strata/internal/ports/output"
)

// LayoutRegistry manages loaded GDS layouts.
type LayoutRegistry struct {
	mu        sync.RWMutex
	layouts   map[string]*layoutEntry
	repo      output.LayoutRepository
	storage   output.ObjectStorage
	index     output.LayoutIndex
	metrics   output.MetricsCollector
	logger    *slog.Logger
	localPath string
}

type layoutEntry struct {
	Layout *domain.Layout
	Status domain.LayoutStatus
	Error  error
}

// NewLayoutRegistry creates a new layout registry. The index may be nil
// when persistence is disabled.
func NewLayoutRegistry(
	repo output.LayoutRepository,
	storage output.ObjectStorage,
	index output.LayoutIndex,
	metrics output.MetricsCollector,
	logger *slog.Logger,
	localPath string,
) *LayoutRegistry {
	return &LayoutRegistry{
		layouts:   make(map[string]*layoutEntry),
		repo:      repo,
		storage:   storage,
		index:     index,
		metrics:   metrics,
		logger:    logger,
		localPath: localPath,
	}
}

// LoadLayout decodes a GDS file from the given path and registers it.
func (r *LayoutRegistry) LoadLayout(ctx context.Context, path string) error {
	r.logger.Info("loading layout", "path", path)
	start := time.Now()

	l, err := r.repo.Open(ctx, path)
	if err != nil {
		r.logger.Error("failed to decode layout", "path", path, "error", err)
		r.metrics.IncDecodeCount(deriveLayoutID(path), false)
		return err
	}

	r.metrics.IncDecodeCount(l.ID, true)
	r.metrics.ObserveDecodeDuration(l.ID, time.Since(start))

	r.mu.Lock()
	r.layouts[l.ID] = &layoutEntry{
		Layout: l,
		Status: domain.StatusReady,
	}
	r.mu.Unlock()

	if r.index != nil {
		if err := r.index.Put(ctx, l); err != nil {
			r.logger.Warn("failed to index layout", "id", l.ID, "error", err)
		}
	}

	r.updateMetrics()
	r.logger.Info("layout loaded",
		"id", l.ID,
		"library", l.LibraryName(),
		"cells", l.CellCount(),
		"shapes", l.TotalShapes(),
	)

	return nil
}

// UnloadLayout unloads a layout and drops it from the index.
func (r *LayoutRegistry) UnloadLayout(ctx context.Context, layoutID string) error {
	r.logger.Info("unloading layout", "id", layoutID)

	r.mu.Lock()
	if entry, ok := r.layouts[layoutID]; ok {
		entry.Status = domain.StatusUnloading
	}
	r.mu.Unlock()

	if err := r.repo.Close(ctx, layoutID); err != nil {
		r.logger.Error("failed to close layout", "id", layoutID, "error", err)
		return err
	}

	r.mu.Lock()
	delete(r.layouts, layoutID)
	r.mu.Unlock()

	if r.index != nil {
		if err := r.index.Delete(ctx, layoutID); err != nil {
			r.logger.Warn("failed to remove layout from index", "id", layoutID, "error", err)
		}
	}

	r.updateMetrics()
	return nil
}

// ListLayouts returns all registered layouts.
func (r *LayoutRegistry) ListLayouts(_ context.Context) ([]domain.Layout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	layouts := make([]domain.Layout, 0, len(r.layouts))
	for _, entry := range r.layouts {
		layouts = append(layouts, *entry.Layout)
	}

	return layouts, nil
}

// GetLayout returns a specific layout by ID.
func (r *LayoutRegistry) GetLayout(_ context.Context, id string) (*domain.Layout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.layouts[id]
	if !ok {
		return nil, domain.ErrLayoutNotFound
	}

	return entry.Layout, nil
}

// GetLayoutStatus returns the status of a layout.
func (r *LayoutRegistry) GetLayoutStatus(_ context.Context, id string) (domain.LayoutStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.layouts[id]
	if !ok {
		return "", domain.ErrLayoutNotFound
	}

	return entry.Status, nil
}

// IsReady returns true if a layout is ready for queries.
func (r *LayoutRegistry) IsReady(layoutID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.layouts[layoutID]
	if !ok {
		return false
	}

	return entry.Status == domain.StatusReady
}

// ReadyLayoutIDs returns IDs of all ready layouts.
func (r *LayoutRegistry) ReadyLayoutIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, entry := range r.layouts {
		if entry.Status == domain.StatusReady {
			ids = append(ids, id)
		}
	}
	return ids
}

// updateMetrics updates the metrics collector with current layout counts.
func (r *LayoutRegistry) updateMetrics() {
	r.mu.RLock()
	total := len(r.layouts)
	ready := 0
	for _, entry := range r.layouts {
		if entry.Status == domain.StatusReady {
			ready++
		}
	}
	r.mu.RUnlock()

	r.metrics.SetLayoutsLoaded(total)
	r.metrics.SetLayoutsReady(ready)
}

// LoadAll downloads and decodes all GDS files from storage.
func (r *LayoutRegistry) LoadAll(ctx context.Context) error {
	r.logger.Info("loading all layouts from storage")

	objects, err := r.storage.List(ctx)
	if err != nil {
		return err
	}

	for _, obj := range objects {
		localPath := filepath.Join(r.localPath, obj.Key)
		if err := r.storage.Download(ctx, obj.Key, localPath); err != nil {
			r.logger.Error("failed to download layout", "key", obj.Key, "error", err)
			continue
		}

		if err := r.LoadLayout(ctx, localPath); err != nil {
			r.logger.Error("failed to load layout", "path", localPath, "error", err)
		}
	}

	return nil
}

// WarmStart registers summaries from the persistent index so the catalog
// can answer before the GDS files are re-decoded. Indexed layouts whose
// file still exists locally are fully reloaded; the rest are dropped from
// the index.
func (r *LayoutRegistry) WarmStart(ctx context.Context) error {
	if r.index == nil {
		return nil
	}

	indexed, err := r.index.List(ctx)
	if err != nil {
		return err
	}

	for i := range indexed {
		l := &indexed[i]

		if _, err := os.Stat(l.Path); err != nil {
			r.logger.Info("indexed layout file missing, dropping", "id", l.ID, "path", l.Path)
			if err := r.index.Delete(ctx, l.ID); err != nil {
				r.logger.Warn("failed to drop stale index entry", "id", l.ID, "error", err)
			}
			continue
		}

		if err := r.LoadLayout(ctx, l.Path); err != nil {
			r.logger.Error("failed to reload indexed layout", "id", l.ID, "error", err)
		}
	}

	r.logger.Info("warm start completed", "indexed", len(indexed), "loaded", r.LayoutCount())
	return nil
}

// IsLoaded returns true if a layout with the given ID is already loaded.
func (r *LayoutRegistry) IsLoaded(layoutID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.layouts[layoutID]
	return ok
}

// LayoutCount returns the number of loaded layouts.
func (r *LayoutRegistry) LayoutCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.layouts)
}

// SyncStats contains statistics from a sync operation.
type SyncStats struct {
	Added   int
	Removed int
}

// Sync synchronizes with remote storage, downloading new layouts and
// removing layouts that no longer exist in remote storage.
func (r *LayoutRegistry) Sync(ctx context.Context) (SyncStats, error) {
	r.logger.Info("syncing layouts from storage")

	objects, err := r.storage.List(ctx)
	if err != nil {
		return SyncStats{}, err
	}

	// Build set of remote layout IDs
	remoteLayouts := make(map[string]string) // layoutID -> objectKey
	for _, obj := range objects {
		remoteLayouts[deriveLayoutID(obj.Key)] = obj.Key
	}

	stats := SyncStats{}

	// Add new layouts
	for layoutID, objectKey := range remoteLayouts {
		if r.IsLoaded(layoutID) {
			r.logger.Debug("layout already loaded, skipping", "id", layoutID)
			continue
		}

		localPath := filepath.Join(r.localPath, objectKey)
		if err := r.storage.Download(ctx, objectKey, localPath); err != nil {
			r.logger.Error("failed to download layout", "key", objectKey, "error", err)
			continue
		}

		if err := r.LoadLayout(ctx, localPath); err != nil {
			r.logger.Error("failed to load layout", "path", localPath, "error", err)
			continue
		}

		stats.Added++
		r.logger.Info("new layout synced", "id", layoutID)
	}

	// Remove layouts that no longer exist in remote storage
	for _, layoutID := range r.findLayoutsToRemove(remoteLayouts) {
		r.logger.Info("removing layout not in remote storage", "id", layoutID)

		localPath := r.getLayoutPath(layoutID)

		if err := r.UnloadLayout(ctx, layoutID); err != nil {
			r.logger.Error("failed to unload removed layout", "id", layoutID, "error", err)
			continue
		}

		if localPath != "" {
			if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
				r.logger.Warn("failed to delete local cache file", "path", localPath, "error", err)
			} else {
				r.logger.Debug("deleted local cache file", "path", localPath)
			}
		}

		stats.Removed++
	}

	r.logger.Info("sync completed", "added", stats.Added, "removed", stats.Removed, "total", r.LayoutCount())
	return stats, nil
}

// findLayoutsToRemove returns layout IDs that are loaded but not in remote storage.
func (r *LayoutRegistry) findLayoutsToRemove(remoteLayouts map[string]string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var toRemove []string
	for layoutID := range r.layouts {
		if _, exists := remoteLayouts[layoutID]; !exists {
			toRemove = append(toRemove, layoutID)
		}
	}
	return toRemove
}

// getLayoutPath returns the local file path for a loaded layout.
func (r *LayoutRegistry) getLayoutPath(layoutID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.layouts[layoutID]; ok && entry.Layout != nil {
		return entry.Layout.Path
	}
	return ""
}

// deriveLayoutID extracts a layout ID from a file path or object key.
func deriveLayoutID(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
