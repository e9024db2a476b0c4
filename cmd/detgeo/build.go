package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"detgeo/internal/core"
)

type buildFlags struct {
	store           string
	metricsFile     string
	traceFile       string
	checkOverlaps   bool
	defaultMaterial string
	catch           string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.store, "store", "", "volume store driver (memory, sqlite, postgres, text)")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write build metrics in Prometheus text format")
	cmd.Flags().StringVar(&f.traceFile, "trace-file", "", "write pass spans as JSON lines")
	cmd.Flags().BoolVar(&f.checkOverlaps, "check-overlaps", false, "check every placement for overlaps")
	cmd.Flags().StringVar(&f.defaultMaterial, "default-material", "", "material used when a material cannot be resolved")
	cmd.Flags().StringVar(&f.catch, "catch", "", "trace volumes whose name contains this text")
}

// geometryArgs returns system and variation from the arguments or the configuration.
func (a *app) geometryArgs(args []string) (string, string, error) {
	system, variation := a.cfg.Geometry.System, a.cfg.Geometry.Variation
	if len(args) > 0 {
		system = args[0]
	}
	if len(args) > 1 {
		variation = args[1]
	}
	if system == "" {
		return "", "", fmt.Errorf("no geometry system given")
	}
	return system, variation, nil
}

// build loads and builds one geometry. The returned builder is usable even when err is set.
func (a *app) build(ctx context.Context, cmd *cobra.Command, f *buildFlags, system, variation string) (*core.Builder, core.Report, error) {
	sc := a.cfg.StoreConfig()
	if f.store != "" {
		sc.Driver = core.StorageDriver(f.store)
	}
	store, err := core.OpenVolumeStore(ctx, sc)
	if err != nil {
		return nil, core.Report{}, err
	}
	defer func() { _ = store.Close() }()

	reg, mats, err := core.LoadRegistry(ctx, store, system, variation)
	if err != nil {
		return nil, core.Report{}, err
	}

	settings := a.cfg.Settings()
	if cmd.Flags().Changed("check-overlaps") {
		settings.CheckOverlaps = f.checkOverlaps
	}
	if f.defaultMaterial != "" {
		settings.DefaultMaterial = f.defaultMaterial
	}
	if f.catch != "" {
		settings.Catch = f.catch
	}

	promReg := prometheus.NewRegistry()
	metrics, err := core.NewPrometheusRecorder(promReg)
	if err != nil {
		return nil, core.Report{}, err
	}
	opts := []core.Option{
		core.WithSettings(settings),
		core.WithLogger(a.logger.With(zap.String("system", system), zap.String("variation", variation))),
		core.WithMetrics(metrics),
	}
	if f.traceFile != "" {
		tf, err := os.Create(f.traceFile)
		if err != nil {
			return nil, core.Report{}, fmt.Errorf("create trace file: %w", err)
		}
		defer func() { _ = tf.Close() }()
		opts = append(opts, core.WithTracer(core.NewJSONTracer(tf)))
	}

	b := core.NewBuilder(reg, opts...)
	b.Materials().AddRecords(mats)
	report, buildErr := b.Build(ctx)

	if f.metricsFile != "" {
		if err := prometheus.WriteToTextfile(f.metricsFile, promReg); err != nil {
			a.logger.Warn("metrics not written", zap.String("path", f.metricsFile), zap.Error(err))
		}
	}
	return b, report, buildErr
}

func newBuildCmd(a *app) *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build [system] [variation]",
		Short: "Build a geometry and report per-pass outcomes",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			system, variation, err := a.geometryArgs(args)
			if err != nil {
				return err
			}
			_, report, err := a.build(cmd.Context(), cmd, &f, system, variation)
			if err != nil {
				a.logger.Error("geometry build failed", zap.String("system", system), zap.Error(err))
				return err
			}
			fmt.Fprintf(a.stdout, "%s/%s: %d volumes (run %s)\n", system, variation, len(report.Order), report.RunID)
			for _, p := range []struct {
				name  string
				stats core.PassStats
			}{{core.PassSolid, report.Solid}, {core.PassLogical, report.Logical}, {core.PassPhysical, report.Physical}} {
				fmt.Fprintf(a.stdout, "  %-8s built %d, skipped %d\n", p.name, p.stats.Built, p.stats.Skipped)
			}
			for _, v := range report.Violations {
				fmt.Fprintf(a.stdout, "  %s %s: %s\n", v.Severity, v.Rule, v.Message)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "show system variation [volume...]",
		Short: "Build a geometry and describe its volumes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			system, variation := args[0], args[1]
			b, _, err := a.build(cmd.Context(), cmd, &f, system, variation)
			if err != nil {
				return err
			}
			names := args[2:]
			if len(names) == 0 {
				names = b.Registry().Names()
			}
			for _, name := range names {
				v, ok := b.Registry().Get(name)
				if !ok {
					return fmt.Errorf("volume %s not found in %s/%s", name, system, variation)
				}
				if err := core.Describe(a.stdout, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
