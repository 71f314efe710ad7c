package handler

import (
	"bufio"
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"semicloud-gen-bot/internal/store"
	"semicloud-gen-bot/pkg/apierror"
	"semicloud-gen-bot/pkg/response"

	"github.com/go-chi/chi/v5"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	inventory store.InventoryStore
	genLogs   *store.MySQLGenLog // nil when MySQL is not wired
	storeType string
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(inventory store.InventoryStore, genLogs *store.MySQLGenLog, storeType string) *AdminHandler {
	return &AdminHandler{
		inventory: inventory,
		genLogs:   genLogs,
		storeType: storeType,
		startTime: time.Now(),
	}
}

// CreateServiceRequest represents the request body for service creation.
type CreateServiceRequest struct {
	Service string `json:"service"`
}

// CreateService handles POST /api/v1/admin/services
func (h *AdminHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Service == "" {
		response.Error(w, apierror.BadRequest("service is required"))
		return
	}

	if err := h.inventory.Create(r.Context(), req.Service); err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, map[string]string{
		"service": store.NormalizeService(req.Service),
		"status":  "created",
	})
}

// UploadStock handles POST /api/v1/admin/services/{service}/stock with a
// text/plain body, one account per line. The service is created implicitly.
func (h *AdminHandler) UploadStock(w http.ResponseWriter, r *http.Request) {
	svc := chi.URLParam(r, "service")
	if svc == "" {
		response.Error(w, apierror.BadRequest("service is required"))
		return
	}

	var items []string
	scanner := bufio.NewScanner(r.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		items = append(items, scanner.Text())
	}
	defer r.Body.Close()
	if err := scanner.Err(); err != nil {
		response.Error(w, apierror.BadRequest("failed to read request body"))
		return
	}

	total, err := h.inventory.Append(r.Context(), svc, items)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"service": store.NormalizeService(svc),
		"added":   len(items),
		"total":   total,
	})
}

// ClearStock handles DELETE /api/v1/admin/services/{service}/stock
func (h *AdminHandler) ClearStock(w http.ResponseWriter, r *http.Request) {
	svc := chi.URLParam(r, "service")
	if svc == "" {
		response.Error(w, apierror.BadRequest("service is required"))
		return
	}

	removed, err := h.inventory.Clear(r.Context(), svc)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"service": store.NormalizeService(svc),
		"removed": removed,
	})
}

// DropStock handles GET /api/v1/admin/services/{service}/drop?count=N, a
// non-consuming preview of the first N accounts.
func (h *AdminHandler) DropStock(w http.ResponseWriter, r *http.Request) {
	svc := chi.URLParam(r, "service")
	if svc == "" {
		response.Error(w, apierror.BadRequest("service is required"))
		return
	}

	count := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(w, apierror.BadRequest("count must be a positive number"))
			return
		}
		count = n
	}

	accounts, err := h.inventory.PeekMany(r.Context(), svc, count)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"service":  store.NormalizeService(svc),
		"accounts": accounts,
	})
}

// GetLogs handles GET /api/v1/admin/logs, paginated audit read-back from
// the MySQL mirror.
func (h *AdminHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	if h.genLogs == nil {
		response.Error(w, apierror.ServiceUnavailable("audit mirror not configured"))
		return
	}

	page := 1
	limit := 50
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	records, total, err := h.genLogs.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, records, page, limit, total)
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["store_type"] = h.storeType

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":   float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":     float64(memStats.Sys) / 1024 / 1024,
		"num_gc":     memStats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}

	if h.inventory != nil {
		storeStats, err := h.inventory.Stats(ctx)
		if err == nil {
			stats["inventory"] = storeStats
		} else {
			stats["inventory"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		}
	}

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}
