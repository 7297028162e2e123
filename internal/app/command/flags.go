package command

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/acronis/go-ftl/internal/config"
	"github.com/acronis/go-ftl/pkg/bundle"
	"github.com/acronis/go-ftl/pkg/catalog"
)

const (
	workingDirFlag    = "working-dir"
	localesDirFlag    = "locales-dir"
	defaultLocaleFlag = "default-locale"
	isolatingFlag     = "isolating"
	strictFlag        = "strict"
)

func AddWorkDirFlag(cmd *cobra.Command) {
	cwd, _ := os.Getwd()

	cmd.PersistentFlags().StringP(workingDirFlag, "w", cwd, "define working directory")
}

// AddLocaleFlags adds the flags shared by commands working on a locale directory.
// Their defaults come from the environment.
func AddLocaleFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.PersistentFlags().StringP(localesDirFlag, "d", cfg.LocalesDir, "locale directory, relative to the working directory")
	cmd.PersistentFlags().String(defaultLocaleFlag, cfg.DefaultLocale, "reference locale")
	cmd.PersistentFlags().Bool(isolatingFlag, cfg.UseIsolating, "wrap placeables in Unicode isolation marks")
	cmd.PersistentFlags().Bool(strictFlag, cfg.Strict, "treat warnings as errors")
}

// DotEnvPath returns the .env file of the working directory named by args, which
// are parsed before cobra so that flag defaults can come from that file.
func DotEnvPath(args []string) string {
	dir := ""
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		switch {
		case arg == "--"+workingDirFlag || arg == "-w":
			if i+1 < len(args) {
				dir = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--"+workingDirFlag+"="):
			dir = strings.TrimPrefix(arg, "--"+workingDirFlag+"=")
		case strings.HasPrefix(arg, "-w="):
			dir = strings.TrimPrefix(arg, "-w=")
		case strings.HasPrefix(arg, "-w") && !strings.HasPrefix(arg, "--"):
			dir = strings.TrimPrefix(arg, "-w")
		}
	}
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return filepath.Join(dir, ".env")
}

func GetWorkingDir(cmd *cobra.Command) (string, error) {
	baseDir, err := cmd.Flags().GetString(workingDirFlag)
	if err != nil {
		return "", fmt.Errorf("get base-dir flag: %w", err)
	}
	return baseDir, nil
}

// GetLocalesDir returns the locale directory resolved against the working directory.
func GetLocalesDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString(localesDirFlag)
	if err != nil {
		return "", fmt.Errorf("get locales-dir flag: %w", err)
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	baseDir, err := GetWorkingDir(cmd)
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, dir), nil
}

func GetDefaultLocale(cmd *cobra.Command) (language.Tag, error) {
	s, err := cmd.Flags().GetString(defaultLocaleFlag)
	if err != nil {
		return language.Und, fmt.Errorf("get default-locale flag: %w", err)
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("parse default locale %q: %w", s, err)
	}
	return tag, nil
}

func GetStrict(cmd *cobra.Command) (bool, error) {
	strict, err := cmd.Flags().GetBool(strictFlag)
	if err != nil {
		return false, fmt.Errorf("get strict flag: %w", err)
	}
	return strict, nil
}

func GetIsolating(cmd *cobra.Command) (bool, error) {
	isolating, err := cmd.Flags().GetBool(isolatingFlag)
	if err != nil {
		return false, fmt.Errorf("get isolating flag: %w", err)
	}
	return isolating, nil
}

// LoadCatalog loads the locale directory selected by the flags. Malformed entries
// are logged and skipped.
func LoadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	dir, err := GetLocalesDir(cmd)
	if err != nil {
		return nil, err
	}
	tag, err := GetDefaultLocale(cmd)
	if err != nil {
		return nil, err
	}
	isolating, err := GetIsolating(cmd)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loading locales", slog.String("path", dir), slog.String("default", tag.String()))
	c := catalog.New(tag, catalog.WithBundleOptions(bundle.WithUseIsolating(isolating)))
	if _, err := c.LoadDir(dir); err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	return c, nil
}
