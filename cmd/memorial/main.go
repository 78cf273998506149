package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	bindmemorials "github.com/opst/orcaobra/pkg/api-types-binding/memorials"
	"github.com/opst/orcaobra/pkg/document"
	kio "github.com/opst/orcaobra/pkg/io"
	"github.com/opst/orcaobra/pkg/topography"
	"github.com/opst/orcaobra/pkg/utils/try"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Format      string `flag:"format" alias:"f" help:"Output format. text|json|html"`
	Output      string `flag:"output" alias:"o" help:"File to write into. Stdout when empty."`
	Polygon     string `flag:"polygon" help:"Name of the polygon to describe. The first one when empty."`
	Orientation string `flag:"orientation" help:"Winding of vertices. clockwise|counterclockwise"`
	Prefix      string `flag:"prefix" help:"Prefix of vertex labels."`
	Zone        int    `flag:"zone" help:"UTM zone to project into. 0 means the zone of the first vertex."`
	Neighbors   string `flag:"neighbors" help:"Neighbors of segments in order, separated by ';'."`

	Property     string `flag:"property" help:"Name of the property."`
	Owner        string `flag:"owner" help:"Owner of the property."`
	Municipality string `flag:"municipality" help:"Municipality of the property."`
	Registration string `flag:"registration" help:"Registry number of the property."`
}

const ARG_PARCEL = "KMZ_OR_KML"

var ErrUnknownFormat = errors.New("unknown format")

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := try.To(flarc.NewCommand(
		"Write the memorial descritivo of a parcel in a KMZ or KML file.",
		Flag{Format: "text", Orientation: "clockwise", Prefix: "P"},
		flarc.Args{
			{Name: ARG_PARCEL, Help: "KMZ or KML file of the parcel.", Required: true},
		},
		func(ctx context.Context, c flarc.Commandline[Flag], a []any) error {
			flags := c.Flags()
			switch flags.Format {
			case "text", "json", "html":
			default:
				return fmt.Errorf("%w: %s", ErrUnknownFormat, flags.Format)
			}

			path := c.Args()[ARG_PARCEL][0]
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			name, m, err := compute(content, flags)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			h := topography.Header{
				Property:     flags.Property,
				Owner:        flags.Owner,
				Municipality: flags.Municipality,
				Registration: flags.Registration,
			}

			var w io.Writer = c.Stdout()
			if flags.Output != "" {
				f, err := kio.CreateAll(flags.Output, 0o644, 0o755)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return write(w, flags.Format, name, m, h)
		},
	)).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd, flarc.WithHelp(true)))
}

func compute(content []byte, flags Flag) (string, *topography.Memorial, error) {
	polygons, err := topography.Parse(content)
	if err != nil {
		return "", nil, err
	}
	polygon := polygons[0]
	if flags.Polygon != "" {
		found := false
		for _, p := range polygons {
			if p.Name == flags.Polygon {
				polygon, found = p, true
				break
			}
		}
		if !found {
			return "", nil, fmt.Errorf("%w: %q", topography.ErrNoPolygon, flags.Polygon)
		}
	}

	orientation, err := topography.ParseOrientation(flags.Orientation)
	if err != nil {
		return "", nil, err
	}
	neighbors := []string{}
	if flags.Neighbors != "" {
		neighbors = strings.Split(flags.Neighbors, ";")
	}
	m, err := topography.Compute(polygon.Coordinates, topography.Options{
		Orientation: orientation,
		Prefix:      flags.Prefix,
		Zone:        flags.Zone,
		Neighbors:   neighbors,
	})
	if err != nil {
		return "", nil, err
	}
	return polygon.Name, m, nil
}

func write(w io.Writer, format string, name string, m *topography.Memorial, h topography.Header) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(bindmemorials.Compose(name, m, topography.Describe(m, h)))
	case "html":
		return document.Memorial(w, name, m, h)
	default:
		_, err := io.WriteString(w, topography.Describe(m, h))
		return err
	}
}
