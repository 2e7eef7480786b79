package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/matst80/escape-finder/pkg/common"
	"github.com/matst80/escape-finder/pkg/index"
	"github.com/matst80/escape-finder/pkg/storage"
	"github.com/matst80/escape-finder/pkg/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type filterFlags struct {
	query   string
	tags    string
	year    string
	status  string
	win     string
	country string
	player  string
	sort    string
	dir     string
}

func (f *filterFlags) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("q", f.query)
	set("tag", f.tags)
	set("year", f.year)
	set("status", f.status)
	set("win", f.win)
	set("country", f.country)
	set("player", f.player)
	set("sort", f.sort)
	set("dir", f.dir)
	return v
}

type app struct {
	datasetPath string
	datasetUrl  string
	output      string
	verbose     bool
	debounce    time.Duration
	filters     filterFlags
	logger      *zap.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := common.LoadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("dataset") {
		a.datasetPath = cfg.DatasetPath
	}
	if !cmd.Flags().Changed("url") {
		a.datasetUrl = cfg.DatasetUrl
	}
	if a.logger != nil {
		return nil
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	a.logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (a *app) source() storage.Source {
	if a.datasetUrl != "" {
		return storage.NewHttpSource(a.datasetUrl)
	}
	return storage.NewDiskSource(filepath.Dir(a.datasetPath), filepath.Base(a.datasetPath))
}

func (a *app) load(ctx context.Context) (*index.RoomIndex, error) {
	rooms, err := storage.NewLoader(a.source(), a.logger).Load(ctx)
	if err != nil {
		return nil, err
	}
	return index.NewRoomIndex(rooms), nil
}

func (a *app) request() (*types.SearchRequest, error) {
	return types.SearchRequestFromValues(a.filters.values())
}

func (a *app) write(w io.Writer, v any) error {
	switch a.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q, expected json or yaml", a.output)
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "free text query")
	cmd.Flags().StringVar(&f.tags, "tag", "", "comma separated tags, all must match")
	cmd.Flags().StringVar(&f.year, "year", "", "four digit year")
	cmd.Flags().StringVar(&f.status, "status", "", "all, completed or planned")
	cmd.Flags().StringVar(&f.win, "win", "", "all, wins or losses")
	cmd.Flags().StringVar(&f.country, "country", "", "exact country")
	cmd.Flags().StringVar(&f.player, "player", "", "exact player name")
	cmd.Flags().StringVar(&f.sort, "sort", "", "date, game, company or city")
	cmd.Flags().StringVar(&f.dir, "dir", "", "asc or desc")
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "finder",
		Short:         "Browse and search the escape room log",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.datasetPath, "dataset", "", "dataset file, .gz is gunzipped (default $DATASET_PATH)")
	root.PersistentFlags().StringVar(&a.datasetUrl, "url", "", "dataset url, takes precedence over --dataset (default $DATASET_URL)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "json", "output format, json or yaml")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRoomsCmd(a),
		newFacetsCmd(a),
		newStatsCmd(a),
		newMarkersCmd(a),
		newTagsCmd(a),
		newSearchCmd(a),
		newExportCmd(a),
		newEventsCmd(a),
	)
	return root
}
