package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pricefeed/internal/obs"
	"pricefeed/pkg/websocket"
)

type feedStatus interface {
	IsConnected() bool
	Status() websocket.Status
	CachedSymbols() int
	Metrics() *obs.Metrics
}

func newMux(feed feedStatus) *http.ServeMux {
	reg := obs.NewRegistry(feed.Metrics(), obs.Gauges{
		CachedSymbols: feed.CachedSymbols,
		Connected:     feed.IsConnected,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		status := feed.Status()
		if !feed.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		fmt.Fprintf(w, "state=%s attempt=%d symbols=%d\n", status.State, status.Attempt, feed.CachedSymbols())
	})
	return mux
}
