package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/engine"
)

var (
	appName = "mtgen"
	appSha  = "populated-at-link-time"
	logger  *logrus.Entry
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(new(logrus.JSONFormatter))
	logger = rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := makeApp().Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		_ = os.Stderr.Sync()
		os.Exit(1)
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Version = appSha
	app.Usage = "generate multi-thread C sources and support files from a dataflow design manifest"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "design",
			EnvVar: "MTGEN_DESIGN",
			Usage:  "path to the design manifest JSON file",
		},
		cli.StringFlag{
			Name:   "out-dir",
			Value:  ".",
			EnvVar: "MTGEN_OUT_DIR",
			Usage:  "directory to write generated artifacts into",
		},
		cli.StringFlag{
			Name:   "telem-level",
			Value:  "none",
			EnvVar: "MTGEN_TELEM_LEVEL",
			Usage:  "one of: none, rate, rate_breakdown, papi_compute, papi_full",
		},
		cli.BoolFlag{
			Name:   "sched-fifo",
			EnvVar: "MTGEN_SCHED_FIFO",
			Usage:  "request the SCHED_FIFO scheduling policy for worker threads",
		},
		cli.IntFlag{
			Name:   "metrics-port",
			EnvVar: "MTGEN_METRICS_PORT",
			Usage:  "if set, serve Prometheus metrics on this port while generating",
		},
	}
	app.Action = runMain
	return app
}

var telemLevels = map[string]config.TelemLevel{
	"none":           config.TelemNone,
	"rate":           config.TelemRateOnly,
	"rate_breakdown": config.TelemRateAndBreakdown,
	"papi_compute":   config.TelemPAPIComputeOnly,
	"papi_full":      config.TelemPAPIFull,
}

// generationsTotal counts successful engine.Generate invocations, exported
// the way Chapter13/prom_http exports its ping counter.
var generationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "mtgen_generations_total",
	Help: "The total number of successful design-to-source generations",
})

func runMain(appCtx *cli.Context) error {
	if port := appCtx.Int("metrics-port"); port != 0 {
		stopMetrics := serveMetrics(port)
		defer stopMetrics()
	}

	telem, ok := telemLevels[appCtx.String("telem-level")]
	if !ok {
		return xerrors.Errorf("unrecognized --telem-level %q", appCtx.String("telem-level"))
	}

	designPath := appCtx.String("design")
	if designPath == "" {
		return xerrors.New("design manifest must be specified with --design")
	}

	m, err := loadManifest(designPath)
	if err != nil {
		return err
	}

	cfg := config.Config{
		TelemLevel:   telem,
		UseSCHEDFIFO: appCtx.Bool("sched-fifo"),
	}
	in, err := toEngineInput(m, cfg)
	if err != nil {
		return err
	}

	fs, err := engine.Generate(context.Background(), in)
	if err != nil {
		return xerrors.Errorf("generating design %q: %w", m.DesignName, err)
	}
	generationsTotal.Inc()

	outDir := appCtx.String("out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return xerrors.Errorf("creating output directory %q: %w", outDir, err)
	}
	for _, a := range fs {
		path := filepath.Join(outDir, a.Name)
		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			return xerrors.Errorf("writing artifact %q: %w", path, err)
		}
		logger.WithFields(logrus.Fields{"artifact": a.Name, "kind": a.Kind}).Info("wrote artifact")
	}

	logger.WithField("count", len(fs)).Info("generation complete")
	return nil
}

// serveMetrics starts a background Prometheus endpoint, mirroring
// Chapter13/prom_http's promhttp.Handler wiring. It returns a function that
// shuts the listener down.
func serveMetrics(port int) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		logger.WithField("port", port).Info("serving prometheus metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithField("err", err).Error("metrics server exited with error")
		}
	}()
	return func() { _ = srv.Close() }
}
