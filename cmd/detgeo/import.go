package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"detgeo/internal/blob"
	"detgeo/internal/core"
	"detgeo/internal/textdb"
)

func newImportCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "import [system] [variation]",
		Short: "Copy gemc text tables from the blob store into the volume store",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sc := a.cfg.StoreConfig()
			if sc.Driver == core.StorageText {
				return fmt.Errorf("import needs a writable storage driver, not %s", sc.Driver)
			}
			blobs, err := blob.Open(ctx, sc.Blob)
			if err != nil {
				return err
			}
			source := textdb.NewStore(blobs)
			dest, err := core.OpenVolumeStore(ctx, sc)
			if err != nil {
				return err
			}
			defer func() { _ = dest.Close() }()

			var geometries []textdb.Geometry
			if all {
				if geometries, err = source.Geometries(ctx); err != nil {
					return err
				}
			} else {
				system, variation, err := a.geometryArgs(args)
				if err != nil {
					return err
				}
				geometries = []textdb.Geometry{{System: system, Variation: textdb.Variation(variation)}}
			}

			for _, g := range geometries {
				volumes, err := source.LoadVolumes(ctx, g.System, g.Variation)
				if err != nil {
					return err
				}
				mats, err := source.LoadMaterials(ctx, g.System, g.Variation)
				if err != nil {
					return err
				}
				if err := dest.SaveVolumes(ctx, g.System, g.Variation, volumes); err != nil {
					return err
				}
				if err := dest.SaveMaterials(ctx, g.System, g.Variation, mats); err != nil {
					return err
				}
				a.logger.Info("geometry imported", zap.String("system", g.System), zap.String("variation", g.Variation),
					zap.Int("volumes", len(volumes)), zap.Int("materials", len(mats)))
				fmt.Fprintf(a.stdout, "%s/%s: %d volumes, %d materials\n", g.System, g.Variation, len(volumes), len(mats))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "import every geometry found in the blob store")
	return cmd
}
