// Package server serves generated icons over HTTP with a WebSocket live preview.
package server

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/spelunkicons/internal/config"
	"github.com/lawnchairsociety/spelunkicons/internal/database"
	"github.com/lawnchairsociety/spelunkicons/internal/generator"
	"github.com/lawnchairsociety/spelunkicons/internal/logger"
	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

const (
	cacheControl = "public, max-age=31536000, immutable"
	renderFailed = "Something went wrong..."
)

// RenderCache stores encoded icons. *database.Database implements it.
type RenderCache interface {
	GetRender(key database.RenderKey) ([]byte, error)
	PutRender(key database.RenderKey, png []byte) error
	PurgeRenders() (int64, error)
	Stats() (database.RenderStats, error)
}

type Server struct {
	config       *config.ServerConfig
	generator    *generator.Generator
	atlasID      string
	cache        RenderCache
	rateLimiter  *RateLimiter
	slots        *PreviewSlots
	httpServer   *http.Server
	ctx          context.Context // ends at Shutdown; previews run under it
	cancel       context.CancelFunc
	previews     map[*PreviewClient]struct{}
	mu           sync.Mutex
	shutdownOnce sync.Once
	StartTime    time.Time
}

// NewServer creates a server rendering with gen. The cache is off until SetCache.
func NewServer(cfg *config.ServerConfig, gen *generator.Generator) *Server {
	s := &Server{
		config:      cfg,
		generator:   gen,
		atlasID:     gen.AtlasID(),
		rateLimiter: NewRateLimiter(cfg.RateLimit),
		slots:       NewPreviewSlots(cfg.Connections),
		previews:    make(map[*PreviewClient]struct{}),
		StartTime:   time.Now(),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.httpServer = &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout(),
		WriteTimeout: cfg.HTTP.WriteTimeout(),
	}
	return s
}

// SetCache sets the render cache used for icon requests.
func (s *Server) SetCache(c RenderCache) {
	s.cache = c
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /ws", s.limited(http.HandlerFunc(s.handleWebSocketUpgrade)))
	mux.HandleFunc("DELETE /admin/cache", s.requireAdmin(s.handlePurge))
	mux.HandleFunc("GET /admin/stats", s.requireAdmin(s.handleStats))
	mux.Handle("/", s.limited(http.HandlerFunc(s.handleIcon)))
	return logRequests(mux)
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	logger.Info("HTTP server listening", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, closes live previews and waits for
// in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.cancel()

		s.mu.Lock()
		for client := range s.previews {
			client.Close()
		}
		s.mu.Unlock()

		err = s.httpServer.Shutdown(ctx)
		logger.Info("Server shutdown complete")
	})
	return err
}

// GetUptime returns how long the server has been running.
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.StartTime)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleIcon serves GET /{input}.png. Everything else under / is a 404.
func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	req, rerr := parseIconPath(r.URL.Path, r.URL.Query(), s.config.Icons)
	if rerr != nil {
		http.Error(w, rerr.msg, rerr.status)
		return
	}

	png, err := s.renderIcon(req)
	if err != nil {
		logger.Error("Icon render failed", "input", req.input, "error", err)
		http.Error(w, renderFailed, http.StatusInternalServerError)
		return
	}

	etag := fmt.Sprintf(`"%08x"`, crc32.ChecksumIEEE(png))
	h := w.Header()
	h.Set("Cache-Control", cacheControl)
	h.Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.Set("Content-Type", "image/png")
	h.Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}

// renderIcon returns the PNG for req, through the cache when one is set.
// Cache failures are logged and never fail the render.
func (s *Server) renderIcon(req iconRequest) ([]byte, error) {
	key := req.key(s.atlasID)
	if s.cache != nil {
		png, err := s.cache.GetRender(key)
		if err == nil {
			return png, nil
		}
		if png != nil && errors.Is(err, database.ErrHitNotRecorded) {
			logger.Warning("Render cache hit not recorded", "input", req.input, "error", err)
			return png, nil
		}
		if !errors.Is(err, database.ErrCacheMiss) {
			logger.Warning("Render cache read failed", "input", req.input, "error", err)
		}
	}

	icon, err := spelunkicon.FromInput(req.input, req.egg, req.size, req.misc)
	if err != nil {
		return nil, err
	}
	png, err := s.generator.MakePNG(icon, req.px)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.PutRender(key, png); err != nil {
			logger.Warning("Render cache write failed", "input", req.input, "error", err)
		}
	}
	return png, nil
}

// limited applies the per-IP request rate limit.
func (s *Server) limited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getRealIP(r)
		if ok, retry := s.rateLimiter.Allow(clientIP); !ok {
			logger.Warning("Request rejected - rate limit exceeded",
				"client_ip", clientIP,
				"retry_after", retry)
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(retry)))
			http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retrySeconds rounds a lockout up to whole seconds.
func retrySeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

// handleWebSocketUpgrade upgrades an HTTP connection to a live preview.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	// Get the real client IP (supports X-Forwarded-For from reverse proxies)
	clientIP := getRealIP(r)

	// Check connection limits before upgrading
	ctx, cancel := context.WithCancel(s.ctx)
	release, err := s.slots.Hold(ctx, clientIP)
	if err != nil {
		cancel()
		logger.Warning("WebSocket connection rejected",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP,
			"reason", err)
		if errors.Is(err, context.Canceled) {
			http.Error(w, "Server is shutting down.", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.config.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		release()
		cancel()
		return
	}

	go s.handlePreviewConnection(wsConn, clientIP, func() {
		release()
		cancel()
	})
}

// handlePreviewConnection answers preview requests until the client leaves.
func (s *Server) handlePreviewConnection(wsConn *websocket.Conn, clientIP string, release func()) {
	client := NewPreviewClient(wsConn)
	if limit := s.config.WebSocket.MaxMessageSize; limit > 0 {
		wsConn.SetReadLimit(limit)
	}

	s.mu.Lock()
	s.previews[client] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.previews, client)
		s.mu.Unlock()
		release()
		client.Close()
	}()

	logger.Debug("Preview connected", "client_ip", clientIP)
	for {
		line, err := client.ReadRequest()
		if err != nil {
			logger.Debug("Preview disconnected", "client_ip", clientIP, "reason", err)
			return
		}

		if ok, retry := s.rateLimiter.Allow(clientIP); !ok {
			if client.WriteError(fmt.Sprintf("rate limited, retry in %ds", retrySeconds(retry))) != nil {
				return
			}
			continue
		}

		req, rerr := parsePreviewLine(line, s.config.Icons)
		if rerr != nil {
			if client.WriteError(rerr.msg) != nil {
				return
			}
			continue
		}

		start := time.Now()
		png, err := s.renderIcon(req)
		if err != nil {
			logger.Error("Preview render failed", "input", req.input, "error", err)
			if client.WriteError(renderFailed) != nil {
				return
			}
			continue
		}
		logger.Access("preview",
			"client_ip", clientIP,
			"input", req.input,
			"size", req.size,
			"bytes", len(png),
			"duration", time.Since(start))
		if err := client.WriteImage(png); err != nil {
			return
		}
	}
}

// getRealIP extracts the real client IP from an HTTP request.
// It checks X-Forwarded-For header first (for reverse proxy setups),
// then falls back to the direct remote address.
func getRealIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs: "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if clientIP := strings.TrimSpace(first); clientIP != "" {
			return clientIP
		}
	}

	// Check X-Real-IP header (alternative header used by some proxies)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return extractIP(r.RemoteAddr)
}

// extractIP extracts the IP address from a remote address string (ip:port format).
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr // Return as-is if can't split
	}
	return host
}
