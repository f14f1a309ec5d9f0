package server

import (
	"flag"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/callora/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

type startOptions struct {
	addr    string
	metrics string
	debug   bool
}

func parseFlags(args []string) (startOptions, error) {
	var opts startOptions
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&opts.addr, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.StringVar(&opts.metrics, flagMetrics, "", "address serving prometheus metrics on /metrics, disabled when empty")
	startFlags.BoolVar(&opts.debug, flagDebug, false, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return opts, errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	return opts, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags.
// The returned closer releases the files the application opened.
type AppGenerator func(string, log.Logger, bool) (abci.Application, io.Closer, error)

// StartCmd initializes the application and serves it over the abci socket
// until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, closer, err := gen(home, logger, opts.debug)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error("Closing app", "err", err)
		}
	}()

	if opts.metrics != "" {
		metrics, addr, err := ServeMetrics(opts.metrics, prometheus.DefaultGatherer, logger)
		if err != nil {
			return err
		}
		defer metrics.Close()
		logger.Info("Serving metrics", "addr", addr.String())
	}

	logger.Info("Starting ABCI app", "bind", opts.addr)

	svr, err := server.NewServer(opts.addr, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Stopping ABCI app", "signal", s.String())
	return svr.Stop()
}

// ServeMetrics exposes the metrics gathered by g on addr under /metrics.
// The returned address is the one actually bound, which differs from addr
// when it asks for port 0.
func ServeMetrics(addr string, g prometheus.Gatherer, logger log.Logger) (*http.Server, net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrInvalidArgument, "metrics listener: %s", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server", "err", err)
		}
	}()
	return srv, ln.Addr(), nil
}
