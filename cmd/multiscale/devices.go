package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/phambaophuc/multiscale/internal/services/processor"
	"github.com/spf13/cobra"
)

func newDevicesCmd() *cobra.Command {
	var scale int

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List the supported device profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			density := models.Density(scale)
			if !density.Valid() {
				return processor.ErrInvalidDensity
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "DEVICE\tLOGICAL\tOUTPUT (%s)\n", density)
			for _, d := range processor.DefaultCatalog.Devices(density) {
				fmt.Fprintf(tw, "%s\t%dx%d\t%dx%d\n", d.ID, d.Base.Width, d.Base.Height, d.Scaled.Width, d.Scaled.Height)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&scale, "scale", "s", 1, "density multiplier (1, 2 or 3)")
	return cmd
}
