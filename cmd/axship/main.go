package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/axship/internal/cliconfig"
	"github.com/bft-labs/axship/internal/follow"
	"github.com/bft-labs/axship/pkg/axship"
	"github.com/bft-labs/axship/pkg/log"
)

const longHelp = `Ship newline-delimited events to an Axiom dataset.

Each line of the given files (or stdin) is one event: a JSON object for the
json and ndjson formats, a CSV row for csv. Events are batched in memory and
sent every flush interval, and once more on exit.

Configure via $HOME/.axship/config.toml, AXSHIP_* environment variables or
flags; flags win over the environment, which wins over the file.`

var exampleUsage = strings.TrimSpace(`
  tail -F app.log | axship --dataset app --format ndjson
  axship --dataset jobs --format csv --header job,result results.csv
  axship --config $HOME/.axship/config.toml --follow /var/log/app/*.json
`)

const shutdownTimeout = 30 * time.Second

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// shipper injests one line into the configured pool.
type shipper interface {
	Ship(line string) error
	Shutdown(ctx context.Context) error
}

type jsonShipper struct {
	*axship.JSONPool[json.RawMessage]
}

func (s jsonShipper) Ship(line string) error {
	raw := json.RawMessage(line)
	if !json.Valid(raw) {
		return errors.New("invalid JSON")
	}
	return s.Injest(raw)
}

type csvShipper struct {
	*axship.CSVPool
}

func (s csvShipper) Ship(line string) error {
	return s.InjestLines(line)
}

func newShipper(cfg cliconfig.Config, opts ...axship.Option) (shipper, error) {
	base := axship.Config{
		Token:         cfg.Token,
		Dataset:       cfg.Dataset,
		Encoding:      cfg.ContentEncoding(),
		AutoFlush:     cfg.FlushInterval,
		UseRemoteTime: cfg.UseRemoteTime,
		ServiceURL:    cfg.ServiceURL,
		HTTPTimeout:   cfg.HTTPTimeout,
	}

	switch ct := cfg.ContentType(); ct {
	case axship.ContentTypeCSV:
		p, err := axship.NewCSVPool(axship.CSVConfig{Config: base, Header: cfg.Header}, opts...)
		if err != nil {
			return nil, err
		}
		return csvShipper{p}, nil
	default:
		format := axship.FormatJSON
		if ct == axship.ContentTypeNDJSON {
			format = axship.FormatNDJSON
		}
		p, err := axship.NewJSONPool[json.RawMessage](axship.JSONConfig{Config: base, Format: format}, opts...)
		if err != nil {
			return nil, err
		}
		return jsonShipper{p}, nil
	}
}

// flushLogger reports background flush outcomes on the CLI logger.
type flushLogger struct {
	axship.BaseEventHandler
	log zerolog.Logger
}

func (h flushLogger) OnFlushError(e axship.FlushErrorEvent) {
	h.log.Error().Err(e.Error).Int("dropped", e.Items).Str("dataset", e.Dataset).Msg("flush failed")
}

func serveMetrics(addr string, reg *prometheus.Registry, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server")
		}
	}()
	logger.Info().Str("addr", addr).Msg("serving metrics")
	return srv
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "axship [file...]",
		Short:   "Ship newline-delimited events to an Axiom dataset",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides the file; explicit flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Follow && len(args) == 0 {
				return fmt.Errorf("--follow needs at least one file")
			}

			level, _ := cfg.Level()
			logger = logger.Level(level)
			logger.Info().Interface("config", cfg.Masked()).Msg("configuration")

			libLogger := log.NewZerologAdapterWithLogger(logger)
			opts := []axship.Option{
				axship.WithLogger(libLogger),
				axship.WithEventHandler(flushLogger{log: logger}),
			}
			if cfg.MetricsAddr != "" {
				reg := prometheus.NewRegistry()
				opts = append(opts, axship.WithMetrics(reg))
				srv := serveMetrics(cfg.MetricsAddr, reg, logger)
				defer srv.Close()
			}

			s, err := newShipper(cfg, opts...)
			if err != nil {
				return fmt.Errorf("create pool: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handle := func(line string) error {
				if err := s.Ship(line); err != nil {
					logger.Warn().Err(err).Msg("skipping line")
				}
				return nil
			}

			readErr := readInputs(ctx, cfg.Follow, args, handle, libLogger)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := s.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			logger.Info().Msg("shut down")
			return readErr
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.axship/config.toml)")
	root.Flags().StringVar(&cfg.Token, "token", cfg.Token, "API token (default: $AXIOM_TOKEN)")
	root.Flags().StringVar(&cfg.Dataset, "dataset", cfg.Dataset, "dataset to ingest into")
	root.Flags().StringVar(&cfg.Format, "format", cfg.Format, "payload format: json, ndjson or csv")
	root.Flags().StringVar(&cfg.Header, "header", cfg.Header, "CSV header line (required for csv)")
	root.Flags().StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "request body encoding: gzip or identity")
	root.Flags().DurationVar(&cfg.FlushInterval, "flush-interval", cfg.FlushInterval, "pause between background flushes (0 flushes only on exit)")
	root.Flags().BoolVar(&cfg.UseRemoteTime, "use-remote-time", cfg.UseRemoteTime, "let the server assign _time instead of stamping events locally")

	root.Flags().StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, fmt.Sprintf("base service URL (defaults to %s; override only for testing)", cliconfig.DefaultServiceURL))
	if err := root.Flags().MarkHidden("service-url"); err != nil {
		logger.Info().Err(err).Msg("failed to hide service-url flag")
	}
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	root.Flags().BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep shipping lines appended to the files until interrupted")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve prometheus metrics on this address (e.g. :2112)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("axship")
		os.Exit(1)
	}
}

// readInputs feeds lines to handle from stdin, from each file once, or by
// following the files until ctx ends.
func readInputs(ctx context.Context, followFiles bool, paths []string, handle follow.LineHandler, logger log.Logger) error {
	if followFiles {
		f, err := follow.NewFollower(paths, handle, logger)
		if err != nil {
			return err
		}
		return f.Run(ctx)
	}

	if len(paths) == 0 {
		// A blocked stdin read must not hold up shutdown on a signal.
		done := make(chan error, 1)
		go func() { done <- follow.Lines(os.Stdin, handle, logger) }()
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return nil
		}
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := readFile(p, handle, logger); err != nil {
			return err
		}
	}
	return nil
}

func readFile(path string, handle follow.LineHandler, logger log.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()
	return follow.Lines(file, handle, logger)
}
