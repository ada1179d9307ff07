package server

import (
	"context"
	"errors"
	"sync"

	"github.com/lawnchairsociety/spelunkicons/internal/config"
)

var (
	ErrPreviewsPerIP = errors.New("too many live previews from this address")
	ErrPreviewsTotal = errors.New("too many live previews")
)

// PreviewSlots caps live previews per client IP and in total. A slot lives
// until its release func runs or the context it was taken under ends.
type PreviewSlots struct {
	mu       sync.Mutex
	held     map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

// SlotStats is a snapshot of held slots.
type SlotStats struct {
	Total int
	IPs   int
}

// NewPreviewSlots creates the limiter. Zero limits mean unlimited.
func NewPreviewSlots(cfg config.ConnectionsConfig) *PreviewSlots {
	return &PreviewSlots{
		held:     make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// Hold takes a slot for ip tied to ctx. release frees it at once and is safe
// to call repeatedly; a done ctx frees it too. On error nothing is held.
func (p *PreviewSlots) Hold(ctx context.Context, ip string) (release func(), err error) {
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	p.mu.Lock()
	switch {
	case p.maxTotal > 0 && p.total >= p.maxTotal:
		err = ErrPreviewsTotal
	case p.maxPerIP > 0 && p.held[ip] >= p.maxPerIP:
		err = ErrPreviewsPerIP
	default:
		p.held[ip]++
		p.total++
	}
	p.mu.Unlock()
	if err != nil {
		return func() {}, err
	}

	var once sync.Once
	free := func() { once.Do(func() { p.free(ip) }) }
	stop := context.AfterFunc(ctx, free)
	return func() {
		stop()
		free()
	}, nil
}

func (p *PreviewSlots) free(ip string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.held[ip] == 0 {
		return
	}
	p.held[ip]--
	if p.held[ip] == 0 {
		delete(p.held, ip)
	}
	p.total--
}

// Stats returns how many slots are held and by how many addresses.
func (p *PreviewSlots) Stats() SlotStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return SlotStats{Total: p.total, IPs: len(p.held)}
}

// Held returns the slots ip currently holds.
func (p *PreviewSlots) Held(ip string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.held[ip]
}
