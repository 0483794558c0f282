// Package connectivity derives the device's online/offline state and feeds
// it to a listener. Sync outcomes never influence this state: only the
// probe (or the host platform's explicit signal) does.
package connectivity

import (
	"context"
	"log"
	"net/http"
	"time"
)

type Listener interface {
	SetOnline(ctx context.Context, online bool)
}

// Monitor probes the sync endpoint on an interval. Any HTTP response, even
// an error status, proves reachability; only transport failures count as
// offline.
type Monitor struct {
	url      string
	interval time.Duration
	client   *http.Client
	listener Listener
}

func NewMonitor(url string, interval time.Duration, listener Listener) *Monitor {
	return &Monitor{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 5 * time.Second},
		listener: listener,
	}
}

// Run probes immediately and then on every tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.listener.SetOnline(ctx, m.Probe(ctx))
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.listener.SetOnline(ctx, m.Probe(ctx))
		}
	}
}

func (m *Monitor) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.url, nil)
	if err != nil {
		log.Printf("connectivity: bad probe url %q: %v", m.url, err)
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}
