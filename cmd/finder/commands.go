package main

import (
	"fmt"
	"strings"

	"github.com/matst80/escape-finder/pkg/format"
	"github.com/matst80/escape-finder/pkg/geo"
	"github.com/matst80/escape-finder/pkg/sorting"
	"github.com/matst80/escape-finder/pkg/stats"
	"github.com/matst80/escape-finder/pkg/storage"
	"github.com/matst80/escape-finder/pkg/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type roomsOutput struct {
	Summary string            `json:"summary" yaml:"summary"`
	Pills   []string          `json:"pills" yaml:"pills"`
	Rooms   []format.RoomView `json:"rooms" yaml:"rooms"`
}

type markersOutput struct {
	Markers []geo.Marker `json:"markers" yaml:"markers"`
	Bounds  *geo.Bounds  `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

func newRoomsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List the rooms matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sr, err := a.request()
			if err != nil {
				return err
			}
			idx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			rooms := sorting.Sort(idx.Filter(&sr.Criteria), sr.SortKey)
			return a.write(cmd.OutOrStdout(), roomsOutput{
				Summary: format.ResultSummary(len(rooms), idx.Len()),
				Pills:   sr.Criteria.Pills(),
				Rooms:   format.RoomViews(rooms),
			})
		},
	}
	addFilterFlags(cmd, &a.filters)
	return cmd
}

func newFacetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Print the distinct tags, years, countries and players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), idx.Facets())
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics over completed rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), stats.Compute(idx.All()))
		},
	}
}

func newMarkersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "markers",
		Short: "Print map markers for the rooms matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sr, err := a.request()
			if err != nil {
				return err
			}
			idx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			out := markersOutput{Markers: geo.Markers(idx.Filter(&sr.Criteria))}
			if bounds, ok := geo.GetBounds(out.Markers); ok {
				out.Bounds = &bounds
			}
			return a.write(cmd.OutOrStdout(), out)
		},
	}
	addFilterFlags(cmd, &a.filters)
	return cmd
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <tag>...",
		Short: "Classify and label tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.write(cmd.OutOrStdout(), format.Tags(args))
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var out, name string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the rooms matching the filters as a dataset, plain and gzipped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sr, err := a.request()
			if err != nil {
				return err
			}
			idx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			ds := &types.Dataset{Rooms: sorting.Sort(idx.Filter(&sr.Criteria), sr.SortKey)}
			disk := storage.NewDiskStorage(out)
			name = strings.TrimSuffix(name, ".json")

			var g errgroup.Group
			g.Go(func() error {
				return disk.SaveJson(ds, name+".json")
			})
			g.Go(func() error {
				return disk.SaveGzippedJson(ds, name+".json.gz")
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("export rooms: %w", err)
			}
			a.logger.Info("exported rooms", zap.Int("rooms", len(ds.Rooms)), zap.String("dir", out))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d rooms to %s\n", len(ds.Rooms), out)
			return err
		},
	}
	addFilterFlags(cmd, &a.filters)
	cmd.Flags().StringVar(&out, "out", ".", "output directory")
	cmd.Flags().StringVar(&name, "name", "rooms", "base file name")
	return cmd
}
