package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/artboard/pkg/asset"
	"github.com/matzehuels/artboard/pkg/editor"
	"github.com/matzehuels/artboard/pkg/persist"
)

// addImageCommand creates the add-image command.
func (c *CLI) addImageCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "add-image <canvas> <url>",
		Short: "Add an image to a stored canvas",
		Long: `Fetch an image, add it to a stored canvas scaled to fit the editor view and
centered in it, and save the canvas. Image dimensions are cached.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvasID, url := args[0], args[1]
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := openCanvasStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			assetCache, keyer, err := openCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer assetCache.Close()

			e := editor.New(editor.Options{
				CanvasID:        canvasID,
				Width:           cfg.Editor.Width,
				Height:          cfg.Editor.Height,
				Snap:            cfg.Snap(),
				HistoryCapacity: cfg.Editor.HistoryCapacity,
				Store:           store,
				Autosave:        persist.AutosaveOptions{Debounce: cfg.Autosave.Debounce.Duration, Logger: c.Logger},
				Assets: asset.NewLoader(asset.Options{
					Cache:    assetCache,
					Keyer:    keyer,
					CacheTTL: cfg.Assets.CacheTTL.Duration,
					Attempts: cfg.Assets.Attempts,
					Delay:    cfg.Assets.Delay.Duration,
					Origin:   cfg.Assets.Origin,
					Logger:   c.Logger,
				}),
				Logger: c.Logger,
			})
			defer e.Close()
			if err := e.Load(ctx); err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Loading image...")
			spinner.Start()
			id, err := e.AddImage(ctx, url)
			if err != nil {
				if le, ok := asset.AsLoadError(err); ok {
					spinner.StopWithError(le.Message())
				} else {
					spinner.Stop()
				}
				return err
			}
			if err := e.Flush(ctx); err != nil {
				spinner.StopWithError("Save failed")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Added image to %s", canvasID))

			o, _ := e.Scene().Get(id)
			printKeyValue("Object", id)
			printKeyValue("Scale", fmt.Sprintf("%.2f", o.ScaleX))
			printKeyValue("Objects", fmt.Sprintf("%d", e.Scene().Len()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the asset cache")
	return cmd
}
