package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/config"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/download"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/journal"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/logging"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/manifest"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/media/ffmpeg"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/pipeline"
)

func newRunCommand(configFlag *string) *cobra.Command {
	var manifestFlag string
	var outputFlag string
	var concurrencyFlag int
	var ffmpegFlag string
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download every item in the memories export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			applyRunFlags(cfg, cmd, manifestFlag, outputFlag, concurrencyFlag, ffmpegFlag, noJournal)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			return runDownload(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&manifestFlag, "manifest", "m", "", "Path to memories_history.json")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory for downloaded media")
	cmd.Flags().IntVarP(&concurrencyFlag, "concurrency", "n", 0, "Number of concurrent downloads")
	cmd.Flags().StringVar(&ffmpegFlag, "ffmpeg", "", "Path to the ffmpeg binary")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Disable the per-run journal database")

	return cmd
}

func applyRunFlags(cfg *config.Config, cmd *cobra.Command, manifestPath, outputDir string, concurrency int, ffmpegBinary string, noJournal bool) {
	if cmd.Flags().Changed("manifest") {
		cfg.Paths.Manifest = manifestPath
	}
	if cmd.Flags().Changed("output") {
		cfg.Paths.OutputDir = outputDir
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Download.Concurrency = concurrency
	}
	if cmd.Flags().Changed("ffmpeg") {
		cfg.FFmpeg.Binary = ffmpegBinary
	}
	if noJournal {
		cfg.Journal.Enabled = false
	}
}

func runDownload(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := newRunLogger(cfg)
	if err != nil {
		return err
	}

	items, skipped, err := manifest.Load(cfg.Paths.Manifest)
	if err != nil {
		return err
	}
	if skipped > 0 {
		logger.Warn("manifest entries without a download URL were skipped",
			logging.Int("skipped", skipped))
	}
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Manifest contains no downloadable items")
		return nil
	}

	lock, err := pipeline.AcquireRunLock(cfg.Paths.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Unlock()
	}()

	var store *journal.Store
	if path := cfg.JournalPath(); path != "" {
		store, err = journal.Open(path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
	}

	connectTimeout := time.Duration(cfg.Download.ConnectTimeout) * time.Second
	readTimeout := time.Duration(cfg.Download.ReadTimeout) * time.Second
	client := download.NewClient(connectTimeout, readTimeout, cfg.Download.Concurrency)
	downloader := download.New(client, readTimeout, logger)

	runner := ffmpeg.NewRunner(cfg.FFmpegBinary())
	if !runner.Available() {
		logger.Warn("remux binary not found; videos will be saved without embedded metadata",
			logging.String("binary", runner.Binary()))
	}

	itemPipeline := pipeline.NewItemPipeline(cfg.Paths.OutputDir, downloader, runner, store, logger)

	var sink pipeline.Sink
	if isatty.IsTerminal(os.Stdout.Fd()) {
		sink = pipeline.NewBarSink(os.Stdout)
	} else {
		sink = pipeline.NewLogSink(logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orchestrator := pipeline.NewOrchestrator(itemPipeline, cfg.Download.Concurrency, sink, logger)
	summary := orchestrator.Run(ctx, items)

	printSummary(cmd, cfg, summary)

	if store != nil && summary.Failed > 0 {
		printFailures(cmd, ctx, store)
	}
	return nil
}

func printFailures(cmd *cobra.Command, ctx context.Context, store *journal.Store) {
	failures, err := store.Failures(ctx)
	if err != nil || len(failures) == 0 {
		return
	}
	rows := make([][]string, 0, len(failures))
	for _, item := range failures {
		rows = append(rows, []string{item.URL, item.FailureReason})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Failed items:")
	fmt.Fprintln(out, renderTable([]string{"URL", "Reason"}, rows, nil))
}

func newRunLogger(cfg *config.Config) (*slog.Logger, error) {
	var outputs []string
	if cfg.Paths.LogDir != "" {
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "memories.log"))
	} else {
		outputs = append(outputs, "stderr")
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

func printSummary(cmd *cobra.Command, cfg *config.Config, summary pipeline.Summary) {
	rows := [][]string{
		{"Items", strconv.Itoa(summary.Total)},
		{"Completed", strconv.Itoa(summary.Completed)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Elapsed", summary.Elapsed.Round(time.Second).String()},
		{"Output", cfg.Paths.OutputDir},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Run", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}
