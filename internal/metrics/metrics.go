package metrics

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pingmon/internal/stats"
)

// Server exposes Prometheus-style text metrics from the live accumulator.
type Server struct {
	targets []string
	acc     *stats.Accumulator
}

// NewServer constructs a metrics server over a fixed target list.
func NewServer(targets []string, acc *stats.Accumulator) *Server {
	return &Server{targets: targets, acc: acc}
}

// Handler returns an http handler that serves the current counters.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		bw := bufio.NewWriter(w)
		defer bw.Flush()
		s.write(bw)
	})
}

func (s *Server) write(w *bufio.Writer) {
	snap := s.acc.Snapshot()
	fmt.Fprintf(w, "pingmon_targets_total %d\n", len(s.targets))
	for _, name := range s.targets {
		st := snap[name]
		labels := fmt.Sprintf("target=\"%s\"", escapeLabel(name))
		fmt.Fprintf(w, "pingmon_probes_total{%s} %d\n", labels, st.Total)
		fmt.Fprintf(w, "pingmon_probes_success{%s} %d\n", labels, st.Success)
		if st.Samples == 0 {
			continue
		}
		avg, _ := st.AvgMS()
		fmt.Fprintf(w, "pingmon_rtt_min_ms{%s} %.3f\n", labels, st.MinMS)
		fmt.Fprintf(w, "pingmon_rtt_avg_ms{%s} %.3f\n", labels, avg)
		fmt.Fprintf(w, "pingmon_rtt_max_ms{%s} %.3f\n", labels, st.MaxMS)
	}
}

func escapeLabel(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// Serve starts an HTTP server on addr and blocks until context cancellation.
func Serve(ctx context.Context, addr string, targets []string, acc *stats.Accumulator) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", NewServer(targets, acc).Handler())
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return context.Canceled
		}
		return err
	}
}
