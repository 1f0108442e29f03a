package build

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Write replaces outputDir with the static assets of source and the rendered
// files of res.
func Write(res *Result, source fs.FS, outputDir string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("Cleaning output directory", zap.String("dir", outputDir))
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}

	if _, err := fs.Stat(source, staticDir); err == nil {
		if err := copyDirContents(source, staticDir, outputDir); err != nil {
			return fmt.Errorf("failed to copy static assets: %w", err)
		}
		log.Debug("Static assets copied", zap.String("dir", staticDir))
	} else {
		log.Info("Static assets directory not found, skipping copy", zap.String("dir", staticDir))
	}

	names := make([]string, 0, len(res.Files))
	for name := range res.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dst := filepath.Join(outputDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directory for '%s': %w", name, err)
		}
		if err := os.WriteFile(dst, res.Files[name], 0o644); err != nil {
			return fmt.Errorf("failed to write '%s': %w", dst, err)
		}
	}
	log.Info("Output written", zap.String("dir", outputDir), zap.Int("files", len(names)))
	return nil
}

// copyDirContents copies the tree rooted at src in fsys into dst.
func copyDirContents(fsys fs.FS, src, dst string) error {
	return fs.WalkDir(fsys, src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, filepath.FromSlash(p))
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", p, err)
		}
		dstPath := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(fsys, p, dstPath); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", p, dstPath, err)
		}
		return nil
	})
}

// copyFile copies a single file from fsys to dstFile on disk.
func copyFile(fsys fs.FS, srcFile, dstFile string) error {
	srcF, err := fsys.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer srcF.Close()

	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy data from %s to %s: %w", srcFile, dstFile, err)
	}
	return nil
}
