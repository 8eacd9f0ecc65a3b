package metrics

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Memory tracks admission statistics in process memory and backs the
// /metrics endpoint.
type Memory struct {
	totalRequests   atomic.Int64
	allowedRequests atomic.Int64
	blockedRequests atomic.Int64

	mu          sync.RWMutex
	clientStats map[string]*ClientStats
	startTime   time.Time
}

// ClientStats tracks statistics for a specific client identifier.
type ClientStats struct {
	ClientID        string    `json:"client_id"`
	TotalRequests   int64     `json:"total_requests"`
	AllowedRequests int64     `json:"allowed_requests"`
	BlockedRequests int64     `json:"blocked_requests"`
	FirstRequestAt  time.Time `json:"first_request_at"`
	LastRequestAt   time.Time `json:"last_request_at"`
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	TotalRequests   int64          `json:"total_requests"`
	AllowedRequests int64          `json:"allowed_requests"`
	BlockedRequests int64          `json:"blocked_requests"`
	UniqueClients   int64          `json:"unique_clients"`
	TopClients      []*ClientStats `json:"top_clients"`
	UptimeSeconds   int64          `json:"uptime_seconds"`
	StartTime       time.Time      `json:"start_time"`
}

func NewMemory() *Memory {
	return &Memory{
		clientStats: make(map[string]*ClientStats),
		startTime:   time.Now(),
	}
}

// Record implements Recorder. It never fails.
func (m *Memory) Record(_ context.Context, ev Event) error {
	m.totalRequests.Add(1)
	if ev.Allowed {
		m.allowedRequests.Add(1)
	} else {
		m.blockedRequests.Add(1)
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stats, exists := m.clientStats[ev.Key]
	if !exists {
		stats = &ClientStats{
			ClientID:       ev.Key,
			FirstRequestAt: at,
		}
		m.clientStats[ev.Key] = stats
	}
	stats.TotalRequests++
	if ev.Allowed {
		stats.AllowedRequests++
	} else {
		stats.BlockedRequests++
	}
	stats.LastRequestAt = at
	return nil
}

// GetSnapshot returns current totals plus the ten busiest clients.
func (m *Memory) GetSnapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	topClients := make([]*ClientStats, 0, len(m.clientStats))
	for _, stats := range m.clientStats {
		clone := *stats
		topClients = append(topClients, &clone)
	}

	sort.Slice(topClients, func(i, j int) bool {
		return topClients[i].TotalRequests > topClients[j].TotalRequests
	})
	if len(topClients) > 10 {
		topClients = topClients[:10]
	}

	return &Snapshot{
		TotalRequests:   m.totalRequests.Load(),
		AllowedRequests: m.allowedRequests.Load(),
		BlockedRequests: m.blockedRequests.Load(),
		UniqueClients:   int64(len(m.clientStats)),
		TopClients:      topClients,
		UptimeSeconds:   int64(time.Since(m.startTime).Seconds()),
		StartTime:       m.startTime,
	}
}
