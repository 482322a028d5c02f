package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gsivak487/emrgent-labs/internal/config"
	"github.com/gsivak487/emrgent-labs/internal/content"
	"github.com/gsivak487/emrgent-labs/internal/render"
	"github.com/gsivak487/emrgent-labs/internal/view"
)

const staticOutDir = "static"

var outputDir string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the portfolio page as a static site",
	Long: `The build command loads the portfolio content once, renders the page to
index.html in the output directory (default './public/') and copies the
static assets next to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newBackend(appConfig)
		if err != nil {
			return err
		}
		src, err := newSource(client)
		if err != nil {
			return err
		}
		out := appConfig.Site.OutputDir
		if outputDir != "" {
			out = outputDir
		}
		return runBuild(cmd, appConfig, src, out)
	},
}

func runBuild(cmd *cobra.Command, cfg *config.Config, src content.Source, out string) error {
	r, err := render.New(cfg.Site.LayoutsDir)
	if err != nil {
		return err
	}

	loader := view.NewLoader(src, logger)
	defer loader.Dispose()
	snap := loader.Load(cmd.Context())
	if snap.State != view.Ready {
		logger.Warn("portfolio content unavailable, writing placeholder page", "error", snap.Err)
	}

	logger.Info("cleaning output directory", "dir", out)
	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", out, err)
	}
	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", out, err)
	}

	staticDst := filepath.Join(out, staticOutDir)
	if err := copyFS(render.Static(), staticDst); err != nil {
		return fmt.Errorf("failed to copy static assets: %w", err)
	}
	if dir := cfg.Site.StaticDir; dir != "" {
		if _, err := os.Stat(dir); err == nil {
			if err := copyFS(os.DirFS(dir), staticDst); err != nil {
				return fmt.Errorf("failed to copy static assets from '%s': %w", dir, err)
			}
		} else {
			logger.Warn("static directory not found, skipping copy", "dir", dir)
		}
	}

	page := render.Page{
		Site: cfg.Site.Data(),
		Load: snap,
		Nav:  view.NewNav().Snapshot(),
	}
	indexPath := filepath.Join(out, "index.html")
	f, err := os.Create(indexPath)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", indexPath, err)
	}
	defer f.Close()
	if err := r.Render(f, page); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write '%s': %w", indexPath, err)
	}

	logger.Info("build completed", "output", indexPath, "state", snap.State.String())
	return nil
}

// copyFS recursively copies the contents of fsys into dst, creating
// directories as needed and overwriting existing files.
func copyFS(fsys fs.FS, dst string) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(fsys, path, dstPath); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", path, dstPath, err)
		}
		return nil
	})
}

// copyFile copies a single file out of fsys.
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
	return dstF.Close()
}

func init() {
	buildCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides site.output_dir)")
	rootCmd.AddCommand(buildCmd)
}
