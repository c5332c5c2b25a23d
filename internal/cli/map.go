package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/geomap"
	"github.com/rshade/emissionmission/internal/logging"
	"github.com/rshade/emissionmission/internal/refdata"
)

// Map output formats.
const (
	mapFormatGeoJSON = "geojson"
	mapFormatLayer   = "layer"
	mapFormatTable   = "table"
)

// ErrUnknownMapFormat is returned for a --format value map does not support.
var ErrUnknownMapFormat = errors.New("unknown map format")

type mapParams struct {
	format    string
	highlight string
	input     string
	out       string
}

func newMapCmd() *cobra.Command {
	var params mapParams

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Export state averages as map data",
		Long: `Exports one point per state that has both an average and a map coordinate.
geojson writes a FeatureCollection; layer writes a scatterplot layer
description with its initial view and tooltip; table lists the points.
--input re-renders a GeoJSON file written by an earlier export.`,
		Example: `  emissionmission map > states.geojson
  emissionmission map --format layer --highlight texas
  emissionmission map --format table
  emissionmission map --input states.geojson --format layer --highlight ohio`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMap(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.format, "format", mapFormatGeoJSON, "output format: geojson, layer, or table")
	cmd.Flags().StringVar(&params.highlight, "highlight", "", "state to highlight")
	cmd.Flags().StringVar(&params.input, "input", "", "read points from an exported GeoJSON file")
	cmd.Flags().StringVar(&params.out, "out", "", "write to this file instead of stdout")

	return cmd
}

func runMap(cmd *cobra.Command, params mapParams) (err error) {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format := strings.ToLower(strings.TrimSpace(params.format))
	switch format {
	case mapFormatGeoJSON, mapFormatLayer, mapFormatTable:
	default:
		return fmt.Errorf("%w: %q (want geojson, layer or table)", ErrUnknownMapFormat, params.format)
	}

	points, err := loadMapPoints(params)
	if err != nil {
		return err
	}
	if params.highlight != "" && !anyHighlighted(points) {
		log.Warn().Ctx(ctx).Str("state", params.highlight).Msg("highlighted state is not on the map")
	}
	log.Debug().Ctx(ctx).Int("points", len(points)).Str("format", format).Msg("map data built")

	w := cmd.OutOrStdout()
	if params.out != "" {
		f, createErr := os.Create(params.out)
		if createErr != nil {
			return fmt.Errorf("creating %s: %w", params.out, createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("closing %s: %w", params.out, closeErr)
			}
		}()
		w = f
	}

	if err = renderMap(w, format, points); err != nil {
		return err
	}
	if params.out != "" {
		cmd.Printf("Map data written to %s\n", params.out)
	}
	return nil
}

// loadMapPoints builds points from the reference data, or from --input when
// set. A --highlight given with --input replaces the file's highlight.
func loadMapPoints(params mapParams) ([]geomap.Point, error) {
	if params.input == "" {
		return geomap.Points(refdata.Default(), params.highlight), nil
	}

	data, err := os.ReadFile(params.input)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", params.input, err)
	}
	points, err := geomap.PointsFromGeoJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.input, err)
	}
	if params.highlight != "" {
		want := refdata.NormalizeStateName(params.highlight)
		for i := range points {
			points[i].Highlight = points[i].State == want
		}
	}
	return points, nil
}

func anyHighlighted(points []geomap.Point) bool {
	for _, p := range points {
		if p.Highlight {
			return true
		}
	}
	return false
}

func renderMap(w io.Writer, format string, points []geomap.Point) error {
	switch format {
	case mapFormatLayer:
		return writeJSON(w, geomap.NewDeck(points))
	case mapFormatTable:
		tw := newTabWriter(w)
		fmt.Fprintln(tw, "STATE\tLAT\tLON\tLBS CO2\tTOOLTIP")
		for _, p := range points {
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%s\t%s\n", p.State, p.Lat, p.Lon, formatLbs(p.Emissions), geomap.Tooltip(p))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flushing table: %w", err)
		}
		return nil
	default:
		data, err := geomap.MarshalGeoJSON(points)
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing geojson: %w", err)
		}
		return nil
	}
}
