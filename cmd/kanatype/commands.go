package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/kanatype/internal/config"
	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/statsui"
	"github.com/verte-zerg/kanatype/internal/store"
)

var (
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsChars       string
	statsPlain       bool
)

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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsChars, "char", "", "characters for per-char curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive viewer")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig()
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
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return renderPlainReport(cmd.OutOrStdout(), report, cfg.CurveWindow, plainCurveWidth())
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Chars:       statsChars,
	}, nil
}

func renderPlainReport(w io.Writer, report stats.Report, window, width int) error {
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Sessions, window, width); err != nil {
		return err
	}
	if err := stats.RenderCharTable(w, report.CharAggsWindow); err != nil {
		return err
	}
	return stats.RenderCharCurves(w, report.Sessions, report.PerSession, report.CurveChars, window, width)
}

// plainCurveWidth sizes sparklines to the terminal, leaving room for labels.
func plainCurveWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 40
	}
	if width-40 < 10 {
		return 10
	}
	return width - 40
}

func applyPracticeConfig(cmd *cobra.Command, p config.PracticeConfig) {
	applyBoolConfig(cmd, "upper", &practiceUpper, p.Upper)
	applyBoolConfig(cmd, "middle", &practiceMiddle, p.Middle)
	applyBoolConfig(cmd, "lower", &practiceLower, p.Lower)
	applyStringConfig(cmd, "hands", &practiceHands, p.Hands)
	applyBoolConfig(cmd, "enable-normal-shift", &practiceNormalShift, p.NormalShift)
	applyBoolConfig(cmd, "disable-no-shift", &practiceDisableNoShift, p.DisableNoShift)
	applyBoolConfig(cmd, "enable-cross-shift", &practiceCrossShift, p.CrossShift)
	applyBoolConfig(cmd, "all-chars", &practiceAllChars, p.AllChars)
	applyIntConfig(cmd, "length", &practiceLength, p.Length)
	applyBoolConfig(cmd, "word-mode", &practiceWordMode, p.WordMode)
	applyStringConfig(cmd, "word-file", &practiceWordFile, p.WordFile)
	applyBoolConfig(cmd, "blind", &practiceBlind, p.Blind)
	applyBoolConfig(cmd, "highlight", &practiceHighlight, p.Highlight)
	applyStringConfig(cmd, "output-dir", &practiceOutputDir, p.OutputDir)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, p.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, p.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, p.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, p.WeakWindow)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kanatype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# upper = false             # Practice the upper row
# middle = true             # Practice the middle row
# lower = false             # Practice the lower row
# hands = %q             # left, right or both
# normal-shift = false      # Include normal shift characters
# disable-no-shift = false  # Exclude unshifted characters
# cross-shift = false       # Include cross shift characters
# all-chars = false         # Every key on every shift level
# length = 0                # Random question length (0: fit the terminal)
# word-mode = false         # Practice words instead of random characters
# word-file = %q
# blind = false             # Hide key labels
# highlight = false         # Highlight the key of the current character
# output-dir = %q
# focus-weak = false        # Bias practice toward weak characters
# weak-top = %d              # Number of weak characters to focus on
# weak-factor = %.1f        # Extra weight for weak characters
# weak-window = %d          # Number of recent sessions to compute weak chars

[log]
# level = %q            # debug, info, warn or error
# file = %q
`,
		defaultHands,
		config.DefaultWordListPath(),
		config.DefaultResultDir(),
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}
