package cmd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/xmtp/xmtp-dot-org/internal/linkcheck"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Renders the site in memory and reports broken internal links",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, _ := siteSource()
		res, err := newBuilder(src).Build(cmd.Context())
		// In throw mode the result is still returned alongside the error.
		if err != nil && (res == nil || !isBrokenLinkErr(err)) {
			return err
		}
		broken := slices.Concat(res.BrokenMarkdown, res.Broken)
		for _, b := range broken {
			fmt.Fprintln(cmd.OutOrStdout(), b)
		}
		if len(broken) > 0 {
			return fmt.Errorf("%d broken links", len(broken))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d pages, no broken links\n", len(res.Pages))
		return nil
	},
}

func isBrokenLinkErr(err error) bool {
	return errors.Is(err, linkcheck.ErrBrokenLinks) || errors.Is(err, linkcheck.ErrBrokenMarkdownLinks)
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
