// Package adminserver exposes the optional HTTP admin surface
// SPEC_FULL.md §6.5 describes: /metrics (Prometheus) and /stats (a
// JSON Stats dump), built on the teacher's webserver package rather
// than bare net/http, generalized from a general-purpose HTTP-API
// library into this single-purpose, read-only admin surface.
package adminserver

import (
	"context"
	"net/http"

	"github.com/gnsim/tiercache/internal/hierarchy"
	"github.com/gnsim/tiercache/internal/metrics"
	"github.com/gnsim/tiercache/internal/obslog"
	"github.com/gnsim/tiercache/webserver"
)

// Server is the admin HTTP surface for one simulation run.
type Server struct {
	ws *webserver.WebServer
}

// New builds a Server bound to addr, serving reg's Prometheus registry
// at /metrics and a live dump of stats() at /stats.
func New(addr string, reg *metrics.Registry, stats func() *hierarchy.Stats, log obslog.Logger) *Server {
	ws := webserver.New(
		webserver.WithAddress(addr),
		webserver.WithRecovery(),
		webserver.WithLogger(log),
	)

	ws.GET("/metrics", func(c webserver.Context) error {
		reg.Handler().ServeHTTP(c.Response(), c.Request())
		return nil
	})

	ws.GET("/stats", func(c webserver.Context) error {
		return c.JSON(http.StatusOK, statsView(stats()))
	})

	return &Server{ws: ws}
}

// Start runs the admin server, blocking until Shutdown is called or the
// listener fails. Intended to be run in its own goroutine by the
// caller for the duration of a simulation run.
func (s *Server) Start() error {
	//nolint:wrapcheck // surfacing the underlying listener error directly
	return s.ws.StartHTTP()
}

// Shutdown gracefully stops the admin server.
func (s *Server) Shutdown(ctx context.Context) error {
	//nolint:wrapcheck // surfacing the underlying shutdown error directly
	return s.ws.Shutdown(ctx)
}

type statsJSON struct {
	ReadOps           map[string]int64            `json:"read_ops"`
	WriteOps          map[string]int64            `json:"write_ops"`
	FlushOps          map[string]int64             `json:"flush_ops"`
	SyncOps           map[string]int64             `json:"sync_ops"`
	MovementOps       map[string]map[string]int64 `json:"movement_ops"`
	InvalidTraceLines int64                        `json:"invalid_trace_lines"`
	TotalOps          int64                        `json:"total_ops"`
}

func statsView(s *hierarchy.Stats) statsJSON {
	view := statsJSON{
		ReadOps:     stringify(s.ReadOps),
		WriteOps:    stringify(s.WriteOps),
		FlushOps:    stringify(s.FlushOps),
		SyncOps:     stringify(s.SyncOps),
		MovementOps: make(map[string]map[string]int64, len(s.MovementOps)),

		InvalidTraceLines: s.InvalidTraceLines,
		TotalOps:          s.TotalOps(),
	}
	for src, row := range s.MovementOps {
		view.MovementOps[src.String()] = stringify(row)
	}
	return view
}

func stringify(m map[hierarchy.TierKind]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k.String()] = v
	}
	return out
}
