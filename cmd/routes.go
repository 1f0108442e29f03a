package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Prints every generated route with its page kind and output file",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, _ := siteSource()
		res, err := newBuilder(src).Build(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROUTE\tKIND\tFILE")
		for _, p := range res.Pages {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Route, p.Kind, p.File(res.Site.BaseURL))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
