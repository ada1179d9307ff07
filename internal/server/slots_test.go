package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lawnchairsociety/spelunkicons/internal/config"
)

func hold(t *testing.T, p *PreviewSlots, ip string) func() {
	t.Helper()
	release, err := p.Hold(context.Background(), ip)
	if err != nil {
		t.Fatalf("Hold(%s): %v", ip, err)
	}
	return release
}

// waitHeld polls until ip holds want slots; context frees run on their own goroutine.
func waitHeld(t *testing.T, p *PreviewSlots, ip string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for p.Held(ip) != want {
		if time.Now().After(deadline) {
			t.Fatalf("Held(%s) = %d, want %d", ip, p.Held(ip), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPreviewSlotsLimits(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ConnectionsConfig
		ips     []string
		wantErr []error
	}{
		{
			name:    "per ip",
			cfg:     config.ConnectionsConfig{MaxPerIP: 2, MaxTotal: 100},
			ips:     []string{"10.0.0.1", "10.0.0.1", "10.0.0.1", "10.0.0.2"},
			wantErr: []error{nil, nil, ErrPreviewsPerIP, nil},
		},
		{
			name:    "total",
			cfg:     config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 3},
			ips:     []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"},
			wantErr: []error{nil, nil, nil, ErrPreviewsTotal},
		},
		{
			name:    "total checked before per ip",
			cfg:     config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 1},
			ips:     []string{"10.0.0.1", "10.0.0.1"},
			wantErr: []error{nil, ErrPreviewsTotal},
		},
		{
			name:    "unlimited",
			cfg:     config.ConnectionsConfig{},
			ips:     []string{"10.0.0.1", "10.0.0.1", "10.0.0.1", "10.0.0.1"},
			wantErr: []error{nil, nil, nil, nil},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPreviewSlots(tt.cfg)
			for i, ip := range tt.ips {
				_, err := p.Hold(context.Background(), ip)
				if !errors.Is(err, tt.wantErr[i]) {
					t.Errorf("hold %d (%s): err = %v, want %v", i, ip, err, tt.wantErr[i])
				}
			}
		})
	}
}

func TestPreviewSlotsReleaseOnce(t *testing.T) {
	p := NewPreviewSlots(config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 10})
	release := hold(t, p, "10.0.0.1")
	hold(t, p, "10.0.0.2")

	release()
	release()
	if got := p.Stats(); got != (SlotStats{Total: 1, IPs: 1}) {
		t.Errorf("Stats after double release = %+v, want 1 slot on 1 address", got)
	}
	hold(t, p, "10.0.0.1")
}

func TestPreviewSlotsFreedWithContext(t *testing.T) {
	p := NewPreviewSlots(config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 10})
	ctx, cancel := context.WithCancel(context.Background())

	release, err := p.Hold(ctx, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Hold(ctx, "10.0.0.1"); !errors.Is(err, ErrPreviewsPerIP) {
		t.Fatalf("second hold: err = %v, want ErrPreviewsPerIP", err)
	}

	cancel()
	waitHeld(t, p, "10.0.0.1", 0)

	// A late release must not free someone else's slot.
	hold(t, p, "10.0.0.1")
	release()
	if got := p.Held("10.0.0.1"); got != 1 {
		t.Errorf("Held after late release = %d, want 1", got)
	}
}

func TestPreviewSlotsDoneContext(t *testing.T) {
	p := NewPreviewSlots(config.ConnectionsConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Hold(ctx, "10.0.0.1"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if got := p.Stats(); got != (SlotStats{}) {
		t.Errorf("Stats = %+v, want nothing held", got)
	}
}
