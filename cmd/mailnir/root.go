package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m-tem/mailnir/pkg/loader"
	"github.com/m-tem/mailnir/pkg/logger"
	"github.com/m-tem/mailnir/pkg/template"
)

var (
	templatePath string
	sourceFlags  []string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:          "mailnir",
	Short:        "Mail merge: join datasets, render templates, validate, send",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&templatePath, "template", "t", "", "Path to template YAML file")
	rootCmd.PersistentFlags().StringArrayVarP(&sourceFlags, "source", "s", nil, "Dataset as ns=path (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = rootCmd.MarkPersistentFlagRequired("template")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logger.New(level)
}

// loadInputs parses the template and loads every --source dataset. The
// returned directory anchors relative stylesheet and attachment paths.
func loadInputs() (*template.Template, map[string]any, string, error) {
	tpl, err := template.ParseFile(templatePath)
	if err != nil {
		return nil, nil, "", err
	}

	paths := make(map[string]string, len(sourceFlags))
	for _, flag := range sourceFlags {
		ns, path, ok := strings.Cut(flag, "=")
		if !ok || ns == "" || path == "" {
			return nil, nil, "", fmt.Errorf("invalid --source %q: want ns=path", flag)
		}
		paths[ns] = path
	}
	sources, err := loader.LoadSources(paths)
	if err != nil {
		return nil, nil, "", err
	}

	return tpl, sources, filepath.Dir(templatePath), nil
}
