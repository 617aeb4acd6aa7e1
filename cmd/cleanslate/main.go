package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/localmind/cleanslate/internal/config"
	"github.com/localmind/cleanslate/internal/progress"
	"github.com/localmind/cleanslate/internal/reporter"
	"github.com/localmind/cleanslate/internal/scanner"
	"github.com/localmind/cleanslate/internal/scoring"
	"github.com/localmind/cleanslate/pkg/utils"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	strictHash bool
	outputFmt  string
	outputFile string
	storePath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cleanslate",
	Short: "File cleanup analyzer",
	Long: `CleanSlate scans directories for exact duplicates, near-duplicate images,
blurry photos, and large, old, or empty files, and scores every file as a
deletion candidate. It never deletes anything itself.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan directories and report findings",
	Long: `Scans the given paths (or the configured root paths) and prints a report.
Ctrl-C produces a partial report from the files analyzed so far.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			cfg.RootPaths = args
		}
		if cmd.Flags().Changed("strict-hash") {
			cfg.StrictHash = strictHash
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := runScan(cmd.Context(), cfg, store)
		if err != nil {
			return err
		}

		format, err := reporter.ParseFormat(outputFmt)
		if err != nil {
			return err
		}
		rptr := reporter.New(format)

		if outputFile != "" {
			if err := rptr.SaveToFile(result, outputFile); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("Report saved to: %s\n", outputFile)
			return nil
		}

		out, err := rptr.Generate(result)
		if err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		fmt.Print(out)

		if format == reporter.FormatSummary {
			printHighlights(result)
		}
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <keep|delete> <path>",
	Short: "Record a keep/delete decision for a file",
	Long: `Records a user decision in the decision store. Future scans bias the
retention score of the file's extension toward the recorded verdicts.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := scoring.Action(args[0])
		if !action.Valid() {
			return fmt.Errorf("unknown action %q (want %q or %q)", args[0], scoring.ActionKeep, scoring.ActionDelete)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Record(args[1], action); err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}

		ext := scoring.ExtensionOf(args[1])
		stat, err := store.Get(ext)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %s for %s\n", action, args[1])
		fmt.Printf("Extension %q history: %d kept, %d deleted (bias %+.1f)\n",
			ext, stat.Kept, stat.Deleted, stat.Bias())
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [paths...]",
	Short: "Scan and save a detailed report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			cfg.RootPaths = args
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := runScan(cmd.Context(), cfg, store)
		if err != nil {
			return err
		}

		format, err := reporter.ParseFormat(outputFmt)
		if err != nil {
			return err
		}
		rptr := reporter.New(format)

		if outputFile == "" {
			out, err := rptr.Generate(result)
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}
			fmt.Print(out)
			return nil
		}

		if err := rptr.SaveToFile(result, outputFile); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Printf("Report saved to: %s\n", outputFile)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
			fmt.Println("\nTo create one with the defaults:")
			fmt.Println("  cleanslate config init")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("\nroot paths:            %v\n", cfg.RootPaths)
		fmt.Printf("excluded folders:      %v\n", cfg.ExcludedFolders)
		fmt.Printf("excluded extensions:   %v\n", cfg.ExcludedExtensions)
		fmt.Printf("large file threshold:  %s\n", utils.FormatBytes(cfg.LargeFileThresholdBytes))
		fmt.Printf("old file threshold:    %d days\n", cfg.OldFileThresholdDays)
		fmt.Printf("similarity threshold:  %d bits\n", cfg.SimilarityThreshold)
		fmt.Printf("blur threshold:        %g\n", cfg.BlurThreshold)
		fmt.Printf("strict hash:           %v\n", cfg.StrictHash)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.EnsureConfigExists()
		if err != nil {
			return err
		}
		fmt.Printf("Config file: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "decision store path")

	scanCmd.Flags().StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")
	scanCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")
	scanCmd.Flags().BoolVar(&strictHash, "strict-hash", false, "hash full file content for duplicate detection")

	reportCmd.Flags().StringVar(&outputFmt, "output", "json", "output format (summary, table, json, yaml)")
	reportCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")

	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
}

// runScan wires progress output and signal handling around one scan.
func runScan(parent context.Context, cfg *config.Config, store scoring.Store) (*scanner.ScanResult, error) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scanner.New(cfg, store, newLogger())

	rep := progress.NewReporter()
	s.SetProgressReporter(rep)
	updates := rep.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		drawProgress(updates)
	}()

	result, err := s.Scan(ctx)
	rep.Unsubscribe(updates)
	<-done
	if err != nil {
		return nil, err
	}
	if result.Incomplete {
		color.Yellow("scan cancelled, report covers files analyzed so far")
	}
	return result, nil
}

// drawProgress renders progress updates on one bar until the channel closes.
func drawProgress(updates <-chan progress.Update) {
	var bar *progressbar.ProgressBar

	for u := range updates {
		switch u.Phase {
		case progress.PhaseWalking:
			fmt.Fprintf(os.Stderr, "\r%s", progress.Format(u))
		case progress.PhaseAnalyzing:
			if bar == nil {
				fmt.Fprintln(os.Stderr)
				bar = progressbar.NewOptions(u.Total,
					progressbar.OptionSetDescription("analyzing"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Set(u.Processed)
		case progress.PhaseComplete, progress.PhaseCancelled:
			if bar != nil {
				bar.Finish()
			}
			fmt.Fprintf(os.Stderr, "\r%s\n", progress.Format(u))
		}
	}
}

func printHighlights(result *scanner.ScanResult) {
	fmt.Println()
	if wasted := result.WastedBytes(); wasted > 0 {
		color.Green("%s reclaimable across %d duplicate groups",
			utils.FormatBytes(wasted), len(result.DuplicateGroups))
	}
	if n := len(result.BlurryFiles); n > 0 {
		color.Cyan("%d blurry images flagged for review", n)
	}
	if n := len(result.Errors); n > 0 {
		color.Yellow("%d entries skipped (run with --verbose for details)", n)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}

func openStore() (*scoring.SQLiteStore, error) {
	path := storePath
	if path == "" {
		var err error
		path, err = scoring.DefaultStorePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve store path: %w", err)
		}
	}
	store, err := scoring.OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open decision store: %w", err)
	}
	return store, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
