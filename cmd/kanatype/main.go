// Package main provides the CLI entrypoint for kanatype.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/kanatype/internal/charset"
	"github.com/verte-zerg/kanatype/internal/config"
	"github.com/verte-zerg/kanatype/internal/generator"
	"github.com/verte-zerg/kanatype/internal/layout"
	"github.com/verte-zerg/kanatype/internal/logging"
	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/session"
	"github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/store"
	"github.com/verte-zerg/kanatype/internal/tui"
	"github.com/verte-zerg/kanatype/internal/wordlist"
)

const (
	defaultHands       = "both"
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultLogLevel    = "info"
)

var (
	practiceUpper          bool
	practiceMiddle         bool
	practiceLower          bool
	practiceHands          string
	practiceNormalShift    bool
	practiceDisableNoShift bool
	practiceCrossShift     bool
	practiceAllChars       bool
	practiceLength         int
	practiceWordMode       bool
	practiceWordFile       string
	practiceBlind          bool
	practiceHighlight      bool
	practiceOutputDir      string
	practiceFocusWeak      bool
	practiceWeakTop        int
	practiceWeakFactor     float64
	practiceWeakWindow     int
	practiceSeed           int64
	practiceLogLevel       string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kanatype",
		Short: "Terminal trainer for a segmented kana keyboard layout",
		Long: `Practice the kana layout one row, hand and shift level at a time.
Select at least one row (-u, -m, -l) or every key with -A. Type the question
shown on screen; Ctrl-G ends the session and prints the result as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&practiceUpper, "upper", "u", false, "practice the upper row")
	flags.BoolVarP(&practiceMiddle, "middle", "m", false, "practice the middle row")
	flags.BoolVarP(&practiceLower, "lower", "l", false, "practice the lower row")
	flags.StringVarP(&practiceHands, "hands", "H", defaultHands, "hands to practice: left, right or both")
	flags.BoolVarP(&practiceNormalShift, "enable-normal-shift", "N", false, "include normal shift characters")
	flags.BoolVarP(&practiceDisableNoShift, "disable-no-shift", "D", false, "exclude unshifted characters")
	flags.BoolVarP(&practiceCrossShift, "enable-cross-shift", "X", false, "include cross shift characters")
	flags.BoolVarP(&practiceAllChars, "all-chars", "A", false, "practice every key on every shift level")
	flags.IntVarP(&practiceLength, "length", "n", 0, "random question length (0: fit the terminal width)")
	flags.BoolVarP(&practiceWordMode, "word-mode", "w", false, "practice words instead of random characters")
	flags.StringVarP(&practiceWordFile, "word-file", "f", "", "word list for word mode (default: "+config.DefaultWordListPath()+")")
	flags.BoolVarP(&practiceBlind, "blind", "b", false, "hide the key labels")
	flags.BoolVar(&practiceHighlight, "highlight", false, "highlight the key of the current character")
	flags.StringVarP(&practiceOutputDir, "output-dir", "o", "", "directory for JSON results (default: "+config.DefaultResultDir()+")")
	flags.BoolVar(&practiceFocusWeak, "focus-weak", false, "bias random questions toward weak characters")
	flags.IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	flags.Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "extra weight for weak characters")
	flags.IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak chars")
	flags.Int64Var(&practiceSeed, "seed", 0, "random seed (0: seed from the clock)")
	flags.StringVar(&practiceLogLevel, "log-level", defaultLogLevel, "log level: debug, info, warn or error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyPracticeConfig(cmd, fileCfg.Practice)
	applyStringConfig(cmd, "log-level", &practiceLogLevel, fileCfg.Log.Level)

	logPath := config.DefaultLogPath()
	if fileCfg.Log.File != nil && *fileCfg.Log.File != "" {
		logPath = *fileCfg.Log.File
	}
	logger, logCloser, err := logging.OpenFile(logPath, practiceLogLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if !cfg.Selection.AllChars && !cfg.Selection.Upper && !cfg.Selection.Middle && !cfg.Selection.Lower {
		if herr := cmd.Help(); herr != nil {
			logger.Warn("failed to print help", "err", herr)
		}
		return fmt.Errorf("select at least one row (-u, -m, -l) or all characters (-A)")
	}

	width, _, err := tui.TerminalSize(int(os.Stdout.Fd()))
	if err != nil {
		return err
	}
	if cfg.Length == 0 {
		cfg.Length = tui.DefaultLength(width)
	}

	kbd := layout.Default()
	set, err := charset.Build(kbd, cfg.Selection)
	if err != nil {
		if errors.Is(err, charset.ErrEmpty) {
			return fmt.Errorf("no characters match the selection; enable another row, hand or shift level: %w", err)
		}
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	gen, err := buildGenerator(ctx, cfg, set, st, logger)
	if err != nil {
		return err
	}

	screen := tui.NewModel(tui.Options{
		Layout:  kbd,
		Diagram: tui.DiagramOptions{Blind: cfg.Blind, Highlight: cfg.Highlight},
		Logger:  logger,
	})
	ctrl, err := session.NewController(session.Options{
		Layout:     kbd,
		Generator:  gen,
		Renderer:   screen,
		ID:         uuid.NewString(),
		Conditions: model.ConditionsFor(cfg),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	screen.Attach(ctrl)
	logger.Info("session ready", "chars", set.String(), "word_mode", cfg.WordMode, "length", cfg.Length)

	program := tea.NewProgram(screen, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if ctrl.State() == session.StateInit {
		if err := screen.Err(); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	}
	if ctrl.State() == session.StateAwaitingInput {
		if _, err := ctrl.Handle(session.Terminate()); err != nil {
			logger.Warn("failed to terminate session", "err", err)
		}
	}

	res := ctrl.Result()
	saveResult(ctx, res, []store.Sink{st, store.JSONDir{Dir: cfg.OutputDir}}, logger)
	if err := store.WriteJSON(cmd.OutOrStdout(), res); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return screen.Err()
}

func buildConfig() (model.Config, error) {
	hands, err := charset.ParseHands(practiceHands)
	if err != nil {
		return model.Config{}, err
	}
	cfg := model.Config{
		Selection: charset.Selection{
			Upper:          practiceUpper,
			Middle:         practiceMiddle,
			Lower:          practiceLower,
			Hands:          hands,
			DisableNoShift: practiceDisableNoShift,
			NormalShift:    practiceNormalShift,
			CrossShift:     practiceCrossShift,
			AllChars:       practiceAllChars,
		},
		WordMode:   practiceWordMode,
		WordFile:   practiceWordFile,
		Length:     practiceLength,
		Seed:       practiceSeed,
		Blind:      practiceBlind,
		Highlight:  practiceHighlight,
		OutputDir:  practiceOutputDir,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if cfg.WordFile == "" {
		cfg.WordFile = config.DefaultWordListPath()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = config.DefaultResultDir()
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Length < 0 {
		return fmt.Errorf("--length must be >= 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

// weakSource is the part of the store used for weak-character focus.
type weakSource interface {
	GetWeakChars(ctx context.Context, window int) ([]model.CharAggregate, error)
}

func buildGenerator(ctx context.Context, cfg model.Config, set charset.Set, st weakSource, logger *slog.Logger) (session.QuestionGenerator, error) {
	rnd := generator.NewSource(cfg.Seed)
	if cfg.WordMode {
		words, err := wordlist.LoadWords(cfg.WordFile)
		if err != nil {
			return nil, wordListLoadError(cfg.WordFile, err)
		}
		gen, err := generator.NewWords(words, set, rnd)
		if err != nil {
			if errors.Is(err, generator.ErrNoEligibleWords) {
				return nil, fmt.Errorf("no word in %s uses only %s: %w", cfg.WordFile, set.String(), err)
			}
			return nil, err
		}
		logger.Debug("word mode", "file", cfg.WordFile, "eligible", gen.Len())
		return gen, nil
	}

	gen, err := generator.NewRandom(set, cfg.Length, rnd)
	if err != nil {
		return nil, err
	}
	if cfg.FocusWeak {
		aggs, err := st.GetWeakChars(ctx, cfg.WeakWindow)
		if err != nil {
			logger.Warn("failed to load weak chars", "err", err)
			logErrf("failed to load weak chars: %v\n", err)
			return gen, nil
		}
		weak := stats.SelectWeakChars(aggs, cfg.WeakTop)
		if len(weak) == 0 {
			logErrln("no stats available for weak-char focus yet; using normal generator")
			return gen, nil
		}
		gen.SetWeakChars(weak, cfg.WeakFactor)
		logger.Debug("weak-char focus", "chars", len(weak), "factor", cfg.WeakFactor)
	}
	return gen, nil
}

// saveResult hands res to every sink. Failures are reported but do not
// discard the result already printed to stdout.
func saveResult(ctx context.Context, res model.SessionResult, sinks []store.Sink, logger *slog.Logger) {
	for _, sink := range sinks {
		if err := sink.Save(ctx, res); err != nil {
			logger.Error("failed to save result", "sink", fmt.Sprintf("%T", sink), "id", res.ID, "err", err)
			logErrf("failed to save result: %v\n", err)
		}
	}
}

func wordListLoadError(path string, err error) error {
	hint := strings.Join([]string{
		fmt.Sprintf("expected word list at: %s", path),
		"Put one kana word per line in that file or pass --word-file.",
	}, "\n")
	return fmt.Errorf("failed to load word list: %w\n%s", err, hint)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
