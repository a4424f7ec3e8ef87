package version

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/revio/internal/runner"
	"github.com/scan-io-git/revio/pkg/shared/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// Versions holds build information of the binary and the external analyzers it drives.
type Versions struct {
	Version       string
	GolangVersion string
	BuildTime     string
	Analyzers     []AnalyzerMeta
}

// AnalyzerMeta is the version reported by an external analyzer.
type AnalyzerMeta struct {
	Name    string
	Version string
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version of revio and of the analyzers it runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := AppConfig
			if cfg == nil {
				cfg = &config.Config{}
			}
			versions := Versions{
				Version:       CoreVersion,
				GolangVersion: GolangVersion,
				BuildTime:     BuildTime,
				Analyzers:     analyzerVersions(cmd.Context(), runner.New(hclog.NewNullLogger()), cfg.Analyzers),
			}
			printVersionInfo(cmd.OutOrStdout(), &versions)
			return nil
		},
	}
}

// analyzerVersions asks every analyzer for "--version". Tools that cannot run are reported as "not installed".
func analyzerVersions(ctx context.Context, executor runner.Executor, cfg config.Analyzers) []AnalyzerMeta {
	if ctx == nil {
		ctx = context.Background()
	}
	python := config.SetThen(cfg.Python, config.DefaultPython)
	tools := []struct {
		name string
		tool config.Tool
	}{
		{"ruff", cfg.Ruff},
		{"radon", cfg.Radon},
	}

	metas := make([]AnalyzerMeta, 0, len(tools))
	for _, t := range tools {
		res, err := executor.Run(ctx, runner.Command{
			Binary: config.SetThen(t.tool.Binary, t.name),
			Python: python,
			Module: t.name,
			Args:   []string{"--version"},
		})
		version := strings.TrimSpace(string(res.Stdout))
		if err != nil || res.ExitCode != 0 || version == "" {
			version = "not installed"
		}
		metas = append(metas, AnalyzerMeta{Name: t.name, Version: version})
	}
	return metas
}

// printVersionInfo prints the version information for the core application and analyzers.
func printVersionInfo(w io.Writer, versions *Versions) {
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Version)
	fmt.Fprintln(w, "Analyzer Versions:")
	for _, a := range versions.Analyzers {
		fmt.Fprintf(w, "  %s: %s\n", a.Name, a.Version)
	}
	fmt.Fprintf(w, "Go Version: %s\n", versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.BuildTime)
}
