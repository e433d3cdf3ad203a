package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codebridge/pkg/config"
	"github.com/Sumatoshi-tech/codebridge/pkg/engine"
	"github.com/Sumatoshi-tech/codebridge/pkg/node"
	"github.com/Sumatoshi-tech/codebridge/pkg/observability"
	"github.com/Sumatoshi-tech/codebridge/pkg/plugin"
	"github.com/Sumatoshi-tech/codebridge/pkg/scan"
	"github.com/Sumatoshi-tech/codebridge/pkg/version"
)

// ErrNoInput is returned when generate has neither files nor --dir.
var ErrNoInput = errors.New("no input: pass files or --dir")

// ErrUnknownKind is returned for a --kind value that names no node kind.
var ErrUnknownKind = errors.New("unknown node kind")

type generateOptions struct {
	dir        string
	workers    int
	plugins    []string
	typeMap    string
	metricsOut string
	kinds      []string
	noColor    bool
}

func newGenerateCommand(global *globalOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Scan sources and run the plugin pipeline",
		Long: `Scan Java and Go sources, create one node per class, method, field,
parameter and declared type, run the configured plugins over them and
print the resulting targets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "scan every supported file under this directory")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent workers (0 = config, then one per CPU)")
	cmd.Flags().StringSliceVar(&opts.plugins, "plugins", nil, "plugins to run, in order (default: all built-ins)")
	cmd.Flags().StringVar(&opts.typeMap, "typemap", "", "YAML type-map override file")
	cmd.Flags().StringVar(&opts.metricsOut, "metrics-out", "", "write Prometheus metrics to this file")
	cmd.Flags().StringSliceVar(&opts.kinds, "kind", nil, "only print nodes of these kinds (class, method, field, parameter, type)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

func runGenerate(cmd *cobra.Command, global *globalOptions, opts *generateOptions, args []string) error {
	if opts.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(global.configPath)
	if err != nil {
		return err
	}

	applyFlagOverrides(cfg, opts)

	kinds, err := parseKinds(opts.kinds)
	if err != nil {
		return err
	}

	providers, err := observability.Init(observabilityConfig(cfg, global, opts))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := generate(ctx, cfg, providers, opts.dir, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if !global.quiet {
		fmt.Fprintln(out, renderNodes(result.store.Nodes(), kinds))
		printSummary(out, result)
	}

	if opts.metricsOut != "" {
		err = providers.WriteMetrics(opts.metricsOut)
		if err != nil {
			return err
		}

		providers.Logger.InfoContext(ctx, "metrics written", "path", opts.metricsOut)
	}

	return nil
}

func applyFlagOverrides(cfg *config.Config, opts *generateOptions) {
	if opts.workers > 0 {
		cfg.Engine.Workers = opts.workers
	}

	if len(opts.plugins) > 0 {
		cfg.Engine.Plugins = opts.plugins
	}

	if opts.typeMap != "" {
		cfg.TypeMap.File = opts.typeMap
	}

	if opts.metricsOut != "" {
		cfg.Telemetry.Prometheus = true
	}
}

func observabilityConfig(cfg *config.Config, global *globalOptions, opts *generateOptions) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Get().Version
	obsCfg.LogLevel = cfg.Logging.SlogLevel()
	obsCfg.LogJSON = cfg.Logging.Format == config.FormatJSON
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.Insecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.Prometheus = cfg.Telemetry.Prometheus || opts.metricsOut != ""

	switch {
	case global.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case global.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	return obsCfg
}

type generateResult struct {
	store   *engine.Store
	files   int
	bytes   uint64
	classes int
	elapsed time.Duration
}

func generate(
	ctx context.Context, cfg *config.Config, providers observability.Providers, dir string, files []string,
) (*generateResult, error) {
	start := time.Now()
	logger := providers.Logger

	plugins, err := buildPlugins(cfg)
	if err != nil {
		return nil, err
	}

	scanner := scan.NewScanner(scan.WithLogger(logger))

	if dir != "" {
		collected, collectErr := scanner.Collect(dir)
		if collectErr != nil {
			return nil, collectErr
		}

		files = append(files, collected...)
	}

	if len(files) == 0 {
		return nil, ErrNoInput
	}

	size, err := totalSize(files)
	if err != nil {
		return nil, err
	}

	classes, err := scanner.ScanFiles(ctx, files, cfg.Engine.Workers)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "sources scanned", "files", len(files), "classes", len(classes))

	metrics, err := observability.NewEngineMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	eng := engine.New(
		engine.WithWorkers(cfg.Engine.Workers),
		engine.WithLogger(logger),
		engine.WithTracer(providers.Tracer),
		engine.WithMetrics(metrics),
	)

	err = eng.Register(plugins...)
	if err != nil {
		return nil, err
	}

	store, err := eng.Run(ctx, classes)
	if err != nil {
		return nil, err
	}

	return &generateResult{
		store:   store,
		files:   len(files),
		bytes:   size,
		classes: len(classes),
		elapsed: time.Since(start),
	}, nil
}

func buildPlugins(cfg *config.Config) ([]plugin.Plugin, error) {
	opts := plugin.Options{EndpointAnnotations: cfg.Engine.EndpointAnnotations}

	if cfg.TypeMap.File != "" {
		overrides, err := plugin.LoadTypeMap(cfg.TypeMap.File)
		if err != nil {
			return nil, err
		}

		opts.TypeMap = overrides
	}

	return plugin.ByName(plugin.Defaults(opts), cfg.Engine.Plugins)
}

func totalSize(files []string) (uint64, error) {
	var total uint64

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return 0, fmt.Errorf("stat %s: %w", path, err)
		}

		total += uint64(info.Size()) //nolint:gosec // file sizes are non-negative
	}

	return total, nil
}

func parseKinds(names []string) (map[node.Kind]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}

	known := map[string]node.Kind{
		"class":     node.KindClass,
		"method":    node.KindMethod,
		"field":     node.KindField,
		"parameter": node.KindParameter,
		"type":      node.KindType,
	}

	kinds := make(map[node.Kind]bool, len(names))

	for _, name := range names {
		kind, ok := known[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKind, name)
		}

		kinds[kind] = true
	}

	return kinds, nil
}

func printSummary(w io.Writer, result *generateResult) {
	color.New(color.FgGreen).Fprintf(w, "Generated %s nodes from %s classes in %s files (%s) in %s\n",
		humanize.Comma(int64(result.store.Len())),
		humanize.Comma(int64(result.classes)),
		humanize.Comma(int64(result.files)),
		humanize.Bytes(result.bytes),
		result.elapsed.Round(time.Millisecond),
	)
}
