package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xmtp/xmtp-dot-org/internal/build"
	"github.com/xmtp/xmtp-dot-org/internal/config"
	"github.com/xmtp/xmtp-dot-org/internal/logging"
	"github.com/xmtp/xmtp-dot-org/site"
)

var (
	cfgFile   string
	appConfig config.Config
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "xmtp-site",
	Short: "Builds the xmtp.org website",
	Long: `xmtp-site renders the xmtp.org documentation, community pages, blog
and landing pages from Markdown and a site descriptor into static HTML.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./xmtp-site.yaml)")
	flags.StringP("source", "s", config.DefaultSourceDir, "site source directory; the embedded site is used when it does not exist")
	flags.StringP("out", "o", config.DefaultOutputDir, "output directory")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Int("workers", 0, "number of pages rendered in parallel (default is the number of CPUs)")
}

func initializeConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, used, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	appConfig = cfg

	l, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = l
	if used != "" {
		logger.Info("Using config file", zap.String("file", used))
	}
	return nil
}

// siteSource returns the site tree to build and, when it lives on disk, its
// directory.
func siteSource() (fs.FS, string) {
	if fi, err := os.Stat(appConfig.SourceDir); err == nil && fi.IsDir() {
		return os.DirFS(appConfig.SourceDir), appConfig.SourceDir
	}
	logger.Info("Source directory not found, using the embedded site", zap.String("dir", appConfig.SourceDir))
	return site.FS, ""
}

func newBuilder(src fs.FS) *build.Builder {
	return &build.Builder{
		Source:   src,
		SiteFile: appConfig.SiteFile,
		Workers:  appConfig.Workers,
		Log:      logger,
	}
}
