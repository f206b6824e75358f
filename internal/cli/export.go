package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/artboard/pkg/cache"
	"github.com/matzehuels/artboard/pkg/export"
	"github.com/matzehuels/artboard/pkg/scene"
)

// exportCacheTTL bounds how long rendered exports are reused.
const exportCacheTTL = 24 * time.Hour

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formats    string
		output     string
		scale      float64
		padding    float64
		background string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "export <canvas.json>",
		Short: "Render a canvas to SVG, PNG, PDF, JSON or a scene tree",
		Long: `Render a canvas document to one or more formats.

The input is a stored canvas document or a JSON export. Formats:
  svg   vector drawing (transparent background)
  png   raster drawing, --scale multiplies the resolution
  pdf   single-page PDF sized to the content
  json  JSON export envelope
  dot   scene tree as Graphviz DOT
  tree  scene tree rendered to SVG`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := parseFormats(formats)
			if err != nil {
				return err
			}
			s, err := readScene(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rc, keyer, err := openCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer rc.Close()
			r := &renderer{cache: rc, keyer: keyer, scene: s, padding: padding, background: background}

			prog := newProgress(c.Logger)
			opts := []export.Option{export.WithScale(scale), export.WithPadding(padding)}
			if background != "" {
				opts = append(opts, export.WithBackground(background))
			}

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d objects...", s.Count()))
			spinner.Start()
			var written []string
			for _, f := range fs {
				spinner.SetMessage(fmt.Sprintf("Rendering %d objects to %s...", s.Count(), f))
				data, err := r.render(ctx, f, scale, opts)
				if err != nil {
					spinner.StopWithError("Render failed")
					return err
				}
				path := output + f.Ext()
				if filepath.Clean(path) == filepath.Clean(args[0]) {
					spinner.Stop()
					return fmt.Errorf("refusing to overwrite %s; pass --output", path)
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					spinner.StopWithError("Write failed")
					return fmt.Errorf("write %s: %w", path, err)
				}
				written = append(written, path)
			}
			spinner.StopWithSuccess(fmt.Sprintf("Exported %d objects", s.Count()))
			for _, p := range written {
				printFile(p)
			}
			if r.hits > 0 {
				printDetail("%d of %d formats from cache", r.hits, len(fs))
			}
			prog.done(fmt.Sprintf("Rendered %d formats", len(fs)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "svg", "comma-separated formats: svg,png,pdf,json,dot,tree")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path without extension (default: input name)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "PNG resolution multiplier")
	cmd.Flags().Float64Var(&padding, "padding", export.DefaultPadding, "margin around the content")
	cmd.Flags().StringVar(&background, "background", "", "background color (#rrggbb)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always render, bypassing the export cache")
	return cmd
}

// renderer renders one scene to several formats, reusing cached output for
// identical content and options.
type renderer struct {
	cache      cache.Cache
	keyer      cache.Keyer
	scene      *scene.Scene
	padding    float64
	background string

	docHash string
	hits    int
}

func (r *renderer) render(ctx context.Context, f export.Format, scale float64, opts []export.Option) ([]byte, error) {
	if r.docHash == "" {
		doc, err := json.Marshal(scene.Encode(r.scene.Snapshot()))
		if err != nil {
			return nil, err
		}
		r.docHash = cache.Hash(doc)
	}
	key := r.keyer.ExportKey(r.docHash, cache.ExportKeyOpts{
		Format:     string(f),
		Scale:      scale,
		Padding:    r.padding,
		Background: r.background,
	})

	var data []byte
	if err := cache.GetJSON(ctx, r.cache, key, &data); err == nil && len(data) > 0 {
		r.hits++
		return data, nil
	}
	data, err := export.Render(ctx, r.scene, f, opts...)
	if err != nil {
		return nil, err
	}
	_ = cache.SetJSON(ctx, r.cache, key, data, exportCacheTTL)
	return data, nil
}

// parseFormats parses a comma-separated format string into formats.
func parseFormats(s string) ([]export.Format, error) {
	if s == "" {
		return []export.Format{export.FormatSVG}, nil
	}
	var out []export.Format
	for _, part := range strings.Split(s, ",") {
		f, err := export.ParseFormat(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
