package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"pricefeed/internal/command"
	"pricefeed/internal/config"
	"pricefeed/internal/ingest"
	"pricefeed/internal/obs"
	"pricefeed/pkg/websocket"
)

const (
	connectTimeout  = 15 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		logs.Errorf("pricefeed: %+v", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "config file path (optional)")
	stdinFlag := flag.Bool("stdin", true, "answer !price commands read from stdin")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}

	if len(cfg.Profile.Server) != 0 {
		profiler, err := startProfiler(cfg.Profile)
		if err != nil {
			return err
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	dialer, err := websocket.NewDialer(cfg.Stream.URL, cfg.Stream.DialerOption())
	if err != nil {
		return errors.Wrap(err, "new dialer")
	}

	feed, err := ingest.New(dialer, ingest.Option{
		Backoff:      cfg.Backoff.Backoff(),
		DialTimeout:  cfg.Stream.DialTimeout,
		QuoteAssets:  cfg.Symbol.QuoteAssets,
		DefaultQuote: cfg.Symbol.DefaultQuote,
		Metrics:      obs.NewMetrics(),
	})
	if err != nil {
		return errors.Wrap(err, "new ingester")
	}
	defer feed.Disconnect()

	server := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           newMux(feed),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logs.Infof("metrics listening: %s", cfg.Metrics.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	if err := feed.Connect(ctx); err != nil {
		logs.Errorf("connect %s, retrying in background, err: %+v", cfg.Stream.URL, err)
	}
	cancel()

	if *stdinFlag {
		go serveCommands(os.Stdin, os.Stdout, command.NewPriceHandler(feed))
	}

	select {
	case <-sys.Shutdown():
		logs.Info("shutdown signal received")
	case err := <-serverErr:
		return errors.Wrap(err, "metrics server")
	}

	return nil
}

// serveCommands answers every price command line of r on w until r ends.
func serveCommands(r io.Reader, w io.Writer, h *command.PriceHandler) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !command.IsPriceCommand(line) {
			continue
		}
		fmt.Fprintln(w, h.Handle(line))
	}
	if err := scanner.Err(); err != nil {
		logs.Errorf("read commands, err: %+v", err)
	}
}

func startProfiler(cfg config.ProfileConfig) (*pyroscope.Profiler, error) {
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.App,
		ServerAddress:   cfg.Server,
		Tags: map[string]string{
			"service": "pricefeed",
		},
		Logger: profileLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "start pyroscope")
	}
	return profiler, nil
}

type profileLogger struct{}

func (profileLogger) Infof(format string, args ...interface{})  { logs.Infof(format, args...) }
func (profileLogger) Debugf(_ string, _ ...interface{})         {}
func (profileLogger) Errorf(format string, args ...interface{}) { logs.Errorf(format, args...) }
