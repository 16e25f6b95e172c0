package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfetch/pkg/cache"
	"github.com/matzehuels/stackfetch/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached metadata and downloaded artifacts",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var artifactsToo bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached POM metadata (and optionally downloaded artifacts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cfg.Cache.ResolveDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			if cfg.Cache.Backend != config.BackendFile {
				printWarning("Backend %s is not cleared by this command; only local files are removed", cfg.Cache.Backend)
			}

			count, err := clearMetadata(filepath.Join(dir, "metadata"))
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)

			if artifactsToo {
				if err := os.RemoveAll(filepath.Join(dir, "artifacts")); err != nil {
					return err
				}
				printSuccess("Removed downloaded artifacts")
			}
			printDetail("Directory: %s", dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&artifactsToo, "artifacts", false, "also remove downloaded artifacts")
	return cmd
}

// clearMetadata empties the file metadata cache in dir and returns the
// number of entries removed.
func clearMetadata(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	count := 0
	_ = filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return nil
	})

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, err
	}
	if err := fc.Clear(); err != nil {
		return 0, err
	}
	return count, nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cfg.Cache.ResolveDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
