package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lawnchairsociety/spelunkicons/internal/logger"
)

// requireAdmin guards a handler with the configured bearer token. Without a
// token hash or a cache the admin routes do not exist.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.config.Admin.Enabled() || s.cache == nil {
			http.NotFound(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || bcrypt.CompareHashAndPassword([]byte(s.config.Admin.TokenHash), []byte(token)) != nil {
			logger.Warning("Admin request rejected - bad token",
				"path", r.URL.Path,
				"client_ip", getRealIP(r))
			w.Header().Set("WWW-Authenticate", `Bearer realm="spelunkicons"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	n, err := s.cache.PurgeRenders()
	if err != nil {
		logger.Error("Cache purge failed", "error", err)
		http.Error(w, renderFailed, http.StatusInternalServerError)
		return
	}
	logger.Info("Render cache purged", "entries", n, "client_ip", getRealIP(r))
	writeJSON(w, map[string]int64{"purged": n})
}

// statsResponse is the body of GET /admin/stats.
type statsResponse struct {
	Entries       int64   `json:"entries"`
	Hits          int64   `json:"hits"`
	Bytes         int64   `json:"bytes"`
	Previews      int     `json:"previews"`
	PreviewIPs    int     `json:"preview_ips"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cache.Stats()
	if err != nil {
		logger.Error("Cache stats failed", "error", err)
		http.Error(w, renderFailed, http.StatusInternalServerError)
		return
	}
	slots := s.slots.Stats()
	writeJSON(w, statsResponse{
		Entries:       stats.Entries,
		Hits:          stats.Hits,
		Bytes:         stats.Bytes,
		Previews:      slots.Total,
		PreviewIPs:    slots.IPs,
		UptimeSeconds: s.GetUptime().Seconds(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warning("Failed to write JSON response", "error", err)
	}
}
