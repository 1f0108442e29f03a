package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xmtp/xmtp-dot-org/internal/build"
	"github.com/xmtp/xmtp-dot-org/internal/server"
)

const debounceDuration = 500 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build of the site, then starts a local
web server for the output directory. It also watches the source directory for
changes and rebuilds the site automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		src, dir := siteSource()
		b := newBuilder(src)

		var (
			mu       sync.Mutex
			live     *server.Live
			basePath = "/"
		)
		handlerFor := func(base string) http.Handler {
			return server.Handler(server.Config{Dir: appConfig.OutputDir, BasePath: base, Log: logger})
		}
		rebuild := func() error {
			mu.Lock()
			defer mu.Unlock()
			res, err := b.Build(ctx)
			if err != nil {
				return err
			}
			if err := build.Write(res, src, appConfig.OutputDir, logger); err != nil {
				return err
			}
			if res.Site.BaseURL != basePath {
				basePath = res.Site.BaseURL
				if live != nil {
					live.Set(handlerFor(basePath))
					logger.Info("Base path changed, routes remounted", zap.String("basePath", basePath))
				}
			}
			return nil
		}

		logger.Info("Performing initial build")
		if err := rebuild(); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}
		mu.Lock()
		live = server.NewLive(handlerFor(basePath))
		startBase := basePath
		mu.Unlock()

		if dir != "" {
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create file watcher: %w", err)
			}
			defer watcher.Close()
			if err := watchTree(watcher, dir); err != nil {
				return err
			}
			go watch(ctx, watcher, rebuild)
		} else {
			logger.Info("Serving the embedded site, file watching disabled")
		}

		srv := server.New(fmt.Sprintf(":%d", appConfig.Port), live)
		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()
		logger.Info("Serving site", zap.String("dir", appConfig.OutputDir), zap.String("url", fmt.Sprintf("http://localhost:%d%s", appConfig.Port, startBase)))
		logger.Info("Press Ctrl+C to stop the server")

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to start HTTP server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	},
}

// watch rebuilds the site after changes settle for debounceDuration.
func watch(ctx context.Context, watcher *fsnotify.Watcher, rebuild func() error) {
	var buildTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if buildTimer != nil {
				buildTimer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			logger.Debug("Change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))

			// New subdirectories are not watched automatically.
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watchTree(watcher, event.Name); err != nil {
					logger.Warn("Failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
				}
			}

			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(debounceDuration, func() {
				logger.Info("Rebuilding site due to changes")
				if err := rebuild(); err != nil {
					logger.Error("Error during rebuild", zap.Error(err))
					return
				}
				logger.Info("Site rebuilt successfully")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// watchTree adds root and every directory below it to the watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error walking directory", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if watchErr := watcher.Add(path); watchErr != nil {
				logger.Warn("Failed to watch directory", zap.String("dir", path), zap.Error(watchErr))
			}
		}
		return nil
	})
}

func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	serveCmd.Flags().IntP("port", "p", 3000, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
