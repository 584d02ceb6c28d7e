package main

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"linkmap/internal/config"
	"linkmap/internal/geom"
	"linkmap/internal/loader"
	"linkmap/internal/scale"
	"linkmap/internal/tui"
)

var v = config.New()

var (
	cfg     *config.Config
	cfgFile string
)

var flushLogs = func() {}

var rootCmd = &cobra.Command{
	Use:   "linkmap",
	Short: "Linked choropleth and scatterplot in the terminal",
	Long:  "Loads a tabular dataset and a region feature collection, then shows a choropleth and a scatterplot whose brush cross-filters both panels.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(v, cfgFile)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		flush, err := config.InitLogger(cfg.Log)
		if err != nil {
			return eris.Wrap(err, "init logger")
		}
		flushLogs = flush
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushLogs()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := sessionOptions(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		m := tui.New(opts)
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
			return eris.Wrap(err, "run ui")
		}
		return nil
	},
}

func init() {
	rootCmd.SilenceUsage = true
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./linkmap.yaml if present)")
	pf.String("records", "", "records CSV path or URL")
	pf.String("features", "", "features GeoJSON/shapefile path or URL")
	pf.String("projection", "", "map projection: albers-usa or equirectangular")
	pf.String("log-file", "", "write logs to this file")
	pf.String("log-level", "", "log level")
	bindFlags(v, map[string]string{
		"data.records":   "records",
		"data.features":  "features",
		"map.projection": "projection",
		"log.file":       "log-file",
		"log.level":      "log-level",
	}, rootCmd)
}

// bindFlags binds config keys to flags so set flags override file and env.
func bindFlags(v *viper.Viper, keys map[string]string, cmd *cobra.Command) {
	for key, name := range keys {
		f := cmd.PersistentFlags().Lookup(name)
		if f == nil {
			f = cmd.Flags().Lookup(name)
		}
		if f == nil {
			continue
		}
		_ = v.BindPFlag(key, f)
	}
}

// sessionOptions loads both collections and builds the shared scale and
// projection. A failure of either load aborts before anything is drawn.
func sessionOptions(ctx context.Context, cfg *config.Config) (tui.Options, error) {
	th, err := scale.NewThreshold(cfg.Scale.Breakpoints, cfg.Scale.Palette)
	if err != nil {
		return tui.Options{}, eris.Wrap(err, "build color scale")
	}
	proj, err := geom.NewProjection(cfg.Map.Projection)
	if err != nil {
		return tui.Options{}, eris.Wrap(err, "build projection")
	}

	res, err := loader.Load(ctx, loader.Options{
		Records:  cfg.Data.Records,
		Features: cfg.Data.Features,
		Timeout:  time.Duration(cfg.Data.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return tui.Options{}, eris.Wrap(err, "load data")
	}
	zap.L().Info("session ready",
		zap.String("records", cfg.Data.Records),
		zap.String("features", cfg.Data.Features),
		zap.String("projection", cfg.Map.Projection),
	)

	return tui.Options{
		Records:      res.Records,
		Features:     res.Features,
		Threshold:    th,
		Cleared:      cfg.Scale.Cleared,
		Projection:   proj,
		ExportDir:    cfg.Export.Dir,
		ExportFormat: cfg.Export.Format,
		ExportWidth:  cfg.Export.Width,
		ExportHeight: cfg.Export.Height,
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
