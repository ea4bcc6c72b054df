package main

import (
	"fmt"
	"text/tabwriter"

	"farmq-backend/internal/catalog"

	"github.com/spf13/cobra"
)

func newCropsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crops",
		Short: "Print the crop catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := catalog.DefaultCropEncoding()
			prices := catalog.DefaultPriceTable()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tCROP\tPRICE/KG")
			for _, name := range enc.Names() {
				code, err := enc.Encode(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%d\t%s\t%.2f\n", code, name, prices.Price(name))
			}
			return w.Flush()
		},
	}
}
