package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/maskworks/strata/internal/application"
	"github.com/maskworks/strata/internal/domain"
)

// handleHealth returns detailed health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	details := s.health.GetHealthDetails(r.Context())

	status := http.StatusOK
	if !details.Healthy {
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, map[string]interface{}{
		"status":         boolToStatus(details.Healthy),
		"ready":          details.Ready,
		"layouts_loaded": details.LayoutsLoaded,
		"layouts_ready":  details.LayoutsReady,
		"components":     details.Components,
	})
}

// handleLiveness returns liveness status.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if s.health.IsHealthy(r.Context()) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	} else {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
}

// handleReadiness returns readiness status.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.health.IsReady(r.Context()) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	} else {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
}

// handleListLayouts returns all registered layouts.
func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	layouts, err := s.registry.ListLayouts(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to list layouts")
		return
	}

	response := make([]map[string]interface{}, len(layouts))
	for i := range layouts {
		response[i] = s.formatLayout(&layouts[i])
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"layouts": response,
		"count":   len(layouts),
	})
}

// handleGetLayout returns a specific layout.
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	layoutID := vars["layoutId"]

	l, err := s.registry.GetLayout(r.Context(), layoutID)
	if err != nil {
		s.handleLookupError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.formatLayout(l))
}

// handleListCells returns the cell names of a layout in stream order.
func (s *Server) handleListCells(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	layoutID := vars["layoutId"]

	names, err := s.cellService.ListCells(r.Context(), layoutID)
	if err != nil {
		s.handleLookupError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"layout_id": layoutID,
		"cells":     names,
		"count":     len(names),
	})
}

// handleGetCell returns the summary of a single cell.
func (s *Server) handleGetCell(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	layoutID := vars["layoutId"]
	cellName := vars["cellName"]

	cell, err := s.cellService.GetCell(r.Context(), layoutID, cellName)
	if err != nil {
		s.handleLookupError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.formatCell(layoutID, cell))
}

// handleGetCellPolygons returns the full polygon geometry of a single cell.
func (s *Server) handleGetCellPolygons(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	layoutID := vars["layoutId"]
	cellName := vars["cellName"]

	polys, err := s.cellService.GetCellPolygons(r.Context(), layoutID, cellName)
	if err != nil {
		s.handleLookupError(w, err)
		return
	}

	formatted := make([]map[string]interface{}, len(polys.Polys))
	for i := range polys.Polys {
		p := &polys.Polys[i]
		xy := make([][2]int32, len(p.XY))
		for j, pt := range p.XY {
			xy[j] = [2]int32{pt.X, pt.Y}
		}
		formatted[i] = map[string]interface{}{
			"layer":    p.Layer,
			"datatype": p.Datatype,
			"xy":       xy,
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"layout_id": layoutID,
		"cell":      polys.Name,
		"polygons":  formatted,
		"count":     len(formatted),
	})
}

// handleOpenAPI returns the OpenAPI specification.
func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	spec, err := getOpenAPIJSON()
	if err != nil {
		s.logger.Error("failed to get OpenAPI spec", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to load OpenAPI specification")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(spec)
}

// handleSync handles the sync trigger endpoint.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.syncService == nil {
		s.writeError(w, http.StatusNotFound, "Sync service not available")
		return
	}

	result, err := s.syncService.TriggerSync(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrRateLimited) {
			w.Header().Set("Retry-After", "30")
			s.writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again in 30 seconds.")
			return
		}
		s.logger.Error("sync failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Sync failed")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// formatLayout formats a layout for JSON output.
func (s *Server) formatLayout(l *domain.Layout) map[string]interface{} {
	out := map[string]interface{}{
		"id":           l.ID,
		"name":         l.Name,
		"path":         l.Path,
		"size":         l.Size,
		"library":      l.LibraryName(),
		"cell_count":   l.CellCount(),
		"total_shapes": l.TotalShapes(),
		"ready":        s.registry.IsReady(l.ID),
		"loaded_at":    l.LoadedAt,
	}
	if bb := l.BBox(); bb.IsValid() {
		out["bbox"] = formatBBox(&bb)
	}
	return out
}

// formatCell formats a cell summary for JSON output. Layer counts are
// emitted sorted by layer then datatype so responses are deterministic.
func (s *Server) formatCell(layoutID string, cell *domain.CellSummary) map[string]interface{} {
	keys := make([]domain.LayerKey, 0, len(cell.LayerCounts))
	for key := range cell.LayerCounts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Layer != keys[j].Layer {
			return keys[i].Layer < keys[j].Layer
		}
		return keys[i].Datatype < keys[j].Datatype
	})

	counts := make([]map[string]interface{}, len(keys))
	for i, key := range keys {
		counts[i] = map[string]interface{}{
			"layer":    key.Layer,
			"datatype": key.Datatype,
			"count":    cell.LayerCounts[key],
		}
	}

	out := map[string]interface{}{
		"layout_id":    layoutID,
		"name":         cell.Name,
		"total_shapes": cell.TotalShapes,
		"layer_counts": counts,
	}
	if cell.BBox != nil {
		out["bbox"] = formatBBox(cell.BBox)
	}
	return out
}

func formatBBox(bb *domain.BoundingBox) map[string]interface{} {
	return map[string]interface{}{
		"xmin": bb.XMin,
		"ymin": bb.YMin,
		"xmax": bb.XMax,
		"ymax": bb.YMax,
	}
}

// handleLookupError maps lookup errors to HTTP statuses.
func (s *Server) handleLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrLayoutNotFound):
		s.writeError(w, http.StatusNotFound, "Layout not found")
	case errors.Is(err, domain.ErrCellNotFound):
		s.writeError(w, http.StatusNotFound, "Cell not found")
	case errors.Is(err, domain.ErrNotReady):
		s.writeError(w, http.StatusServiceUnavailable, "Layout not ready")
	default:
		s.logger.Error("lookup error", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Lookup failed")
	}
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func boolToStatus(b bool) string {
	if b {
		return "ok"
	}
	return "unhealthy"
}
