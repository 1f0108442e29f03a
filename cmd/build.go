package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xmtp/xmtp-dot-org/internal/build"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the site into the output directory",
	Long: `The build command loads the site descriptor and the docs, community and
blog Markdown, renders every route, checks internal links and writes the
result, static assets, sitemap.xml and 404.html to the output directory
(default './build/').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd)
	},
}

func runBuild(cmd *cobra.Command) error {
	src, _ := siteSource()
	res, err := newBuilder(src).Build(cmd.Context())
	if err != nil {
		return err
	}
	if err := build.Write(res, src, appConfig.OutputDir, logger); err != nil {
		return err
	}
	logger.Info("Build finished", zap.String("out", appConfig.OutputDir), zap.Int("pages", len(res.Pages)))
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
