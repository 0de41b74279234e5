// Package main provides the CLI entrypoint for typetest.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/statsui"
	"github.com/verte-zerg/typetest/internal/store"
	"github.com/verte-zerg/typetest/internal/tui"
	"github.com/verte-zerg/typetest/internal/wordsource"
)

const defaultCurveWindow = 10

var (
	practiceMode      string
	practiceWords     int
	practiceTime      int
	practiceWordSet   string
	practiceWordsFile string
	practiceSave      bool

	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Defaults()
	rootCmd := &cobra.Command{
		Use:           "typetest",
		Short:         "Terminal typing test",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", string(defaults.Mode), "test mode: words or time")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaults.Words, "words per test in words mode")
	rootCmd.Flags().IntVar(&practiceTime, "time", defaults.Time, "seconds per test in time mode")
	rootCmd.Flags().StringVar(&practiceWordSet, "word-set", defaults.WordSet, "word set id (see: typetest sets)")
	rootCmd.Flags().StringVar(&practiceWordsFile, "words-file", "", "custom word list, registered as the \"file\" set")
	rootCmd.Flags().BoolVar(&practiceSave, "save", defaults.Save, "save finished tests")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSetsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolvePracticeConfig(cmd)
	if err != nil {
		return err
	}
	gen, err := loadWordSource(cfg)
	if err != nil {
		return err
	}
	if !gen.Has(cfg.WordSet) {
		return fmt.Errorf("unknown word set %q (available: %s)", cfg.WordSet, strings.Join(gen.IDs(), ", "))
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m := tui.NewModel(cfg, st, gen, gen.IDs())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePracticeConfig layers defaults, the config file, TYPETEST_* variables
// and explicitly set flags, in that order.
func resolvePracticeConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load environment: %w", err)
	}
	cfg := config.Defaults()
	cfg = config.Merge(cfg, fileCfg.Practice)
	cfg = config.Merge(cfg, envCfg)
	cfg = config.Merge(cfg, flagLayer(cmd))
	cfg.Mode = model.Mode(strings.ToLower(string(cfg.Mode)))
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func flagLayer(cmd *cobra.Command) config.PracticeConfig {
	return config.PracticeConfig{
		Mode:      changedValue(cmd, "mode", practiceMode),
		Words:     changedValue(cmd, "words", practiceWords),
		Time:      changedValue(cmd, "time", practiceTime),
		WordSet:   changedValue(cmd, "word-set", practiceWordSet),
		WordsFile: changedValue(cmd, "words-file", practiceWordsFile),
		Save:      changedValue(cmd, "save", practiceSave),
	}
}

func changedValue[T any](cmd *cobra.Command, name string, value T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func loadWordSource(cfg model.Config) (*wordsource.Generator, error) {
	sets, err := wordsource.Builtin()
	if err != nil {
		return nil, fmt.Errorf("failed to load word sets: %w", err)
	}
	if cfg.WordsFile != "" {
		fileSet, err := wordsource.FileSet(config.ResolveWordsFile(cfg.WordsFile))
		if err != nil {
			return nil, err
		}
		sets = append(sets, fileSet)
	}
	gen, err := wordsource.New(nil, sets...)
	if err != nil {
		return nil, fmt.Errorf("failed to build word source: %w", err)
	}
	return gen, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List available word sets",
		Args:  cobra.NoArgs,
		RunE:  runSetsCmd,
	}
}

func runSetsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolvePracticeConfig(cmd)
	if err != nil {
		return err
	}
	gen, err := loadWordSource(cfg)
	if err != nil {
		return err
	}
	for _, id := range gen.IDs() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show saved results",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter: words or time")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text report instead of the browser")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig(statsMode, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return printReport(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(mode, since string, last, window int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Mode:        model.Mode(strings.ToLower(strings.TrimSpace(mode))),
		Last:        last,
		CurveWindow: window,
	}
	if cfg.Mode != "" && !cfg.Mode.Valid() {
		return model.StatsConfig{}, fmt.Errorf("--mode must be %q or %q", model.ModeWords, model.ModeTime)
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func printReport(ctx context.Context, w io.Writer, src stats.ResultSource, cfg model.StatsConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, src, cfg)
	if err != nil {
		return err
	}
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(stats.TerminalWidth())}
	if err := stats.RenderReport(w, report, cfg.CurveWindow, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	defaults := config.Defaults()
	return fmt.Sprintf(`# typetest configuration
# Uncomment a value to enable it. TYPETEST_* variables and CLI flags override it.

[practice]
# mode = %q            # words or time
# words = %d              # Words per test in words mode
# time = %d               # Seconds per test in time mode
# word-set = %q    # common200, oxford3000 or file
# words-file = "words.txt"  # Custom list; bare names resolve to %s
# save = %t             # Save finished tests
`,
		defaults.Mode,
		defaults.Words,
		defaults.Time,
		defaults.WordSet,
		config.DefaultWordListDir(),
		defaults.Save,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
