package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/classify"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/download"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/embed"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/fileutil"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/journal"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/logging"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/manifest"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/media/ffmpeg"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/metadata"
)

// ItemPipeline processes one manifest item end to end: download, classify,
// embed, finalize. It is safe for concurrent use; all per-item state is
// local to Process.
type ItemPipeline struct {
	outputDir  string
	downloader *download.Downloader
	runner     ffmpeg.Runner
	store      *journal.Store
	logger     *slog.Logger
	names      nameClaims
}

// NewItemPipeline wires the pipeline's collaborators. store may be nil when
// the journal is disabled.
func NewItemPipeline(outputDir string, downloader *download.Downloader, runner ffmpeg.Runner, store *journal.Store, logger *slog.Logger) *ItemPipeline {
	return &ItemPipeline{
		outputDir:  outputDir,
		downloader: downloader,
		runner:     runner,
		store:      store,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Outcome is the reported result of one item.
type Outcome struct {
	URL        string
	OutputPath string
	Err        error
}

// Name returns a short identifier for progress display: the output filename
// when one exists, the URL otherwise.
func (o Outcome) Name() string {
	if o.OutputPath != "" {
		return filepath.Base(o.OutputPath)
	}
	return o.URL
}

// Process runs one item through the full pipeline. It never panics or
// propagates an error; every failure becomes part of the returned Outcome.
func (p *ItemPipeline) Process(ctx context.Context, item manifest.Item) Outcome {
	url := item.MediaDownloadURL
	rec := p.journalAdd(ctx, item)

	captureTime, err := metadata.ParseCaptureTime(item.DateText())
	if err != nil {
		// Malformed date disables time metadata but not the download.
		p.logger.Warn("unparseable capture date",
			logging.String(logging.FieldURL, url),
			logging.Error(err),
		)
	}
	coordinate := metadata.ParseCoordinate(item.LocationText())

	p.journalStatus(ctx, rec, journal.StatusDownloading)
	result, err := p.downloader.Fetch(ctx, url)
	if err != nil {
		return p.fail(ctx, rec, Outcome{URL: url, Err: fmt.Errorf("%w: %v", ErrTransfer, err)})
	}
	p.journalStatus(ctx, rec, journal.StatusDownloaded)

	file := classify.Detect(result.ContentType, result.Body)
	path := p.names.claim(filepath.Join(p.outputDir, baseName(item.DateText())+"."+file.Extension))
	if err := fileutil.WriteFileAtomic(path, result.Body, 0o644); err != nil {
		return p.fail(ctx, rec, Outcome{URL: url, Err: fmt.Errorf("write output: %w", err)})
	}
	p.journalStatus(ctx, rec, journal.StatusClassified)
	p.journalOutput(ctx, rec, string(file.Category), path)

	outcome := Outcome{URL: url, OutputPath: path}

	if embedder := embed.ForCategory(file.Category, p.runner, p.logger); embedder != nil {
		p.journalStatus(ctx, rec, journal.StatusEmbedding)
		req := embed.Request{
			Path:         path,
			DateText:     item.DateText(),
			LocationText: item.LocationText(),
			Time:         captureTime,
			Location:     coordinate,
		}
		if err := embedder.Embed(ctx, req); err != nil {
			// The downloaded file stays; only the enrichment failed.
			outcome.Err = fmt.Errorf("%w: %v", ErrEmbedding, err)
			return p.fail(ctx, rec, outcome)
		}
	}

	if captureTime != nil {
		if err := fileutil.TouchTimes(path, captureTime.UTC); err != nil {
			// Never fatal; content is already correct.
			p.logger.Warn("failed to align file times",
				logging.String(logging.FieldFile, path),
				logging.Error(err),
			)
		}
	}

	p.journalCompleted(ctx, rec)
	return outcome
}

func (p *ItemPipeline) fail(ctx context.Context, rec *journal.Item, outcome Outcome) Outcome {
	if rec != nil && p.store != nil {
		if err := p.store.MarkFailed(ctx, rec.ID, outcome.Err.Error()); err != nil {
			p.logger.Warn("journal update failed", logging.Error(err))
		}
	}
	return outcome
}

func (p *ItemPipeline) journalAdd(ctx context.Context, item manifest.Item) *journal.Item {
	if p.store == nil {
		return nil
	}
	rec, err := p.store.Add(ctx, item.MediaDownloadURL, item.DateText(), item.LocationText())
	if err != nil {
		p.logger.Warn("journal insert failed", logging.Error(err))
		return nil
	}
	return rec
}

func (p *ItemPipeline) journalStatus(ctx context.Context, rec *journal.Item, status journal.Status) {
	if rec == nil {
		return
	}
	if err := p.store.SetStatus(ctx, rec.ID, status); err != nil {
		p.logger.Warn("journal update failed", logging.Error(err))
	}
}

func (p *ItemPipeline) journalOutput(ctx context.Context, rec *journal.Item, category, path string) {
	if rec == nil {
		return
	}
	if err := p.store.SetOutput(ctx, rec.ID, category, path); err != nil {
		p.logger.Warn("journal update failed", logging.Error(err))
	}
}

func (p *ItemPipeline) journalCompleted(ctx context.Context, rec *journal.Item) {
	if rec == nil {
		return
	}
	if err := p.store.MarkCompleted(ctx, rec.ID); err != nil {
		p.logger.Warn("journal update failed", logging.Error(err))
	}
}

// baseName derives the output filename stem from the capture date text.
func baseName(dateText string) string {
	if dateText == "" {
		return "file"
	}
	replacer := strings.NewReplacer(":", "-", " ", "_")
	return replacer.Replace(dateText)
}

// nameClaims hands out collision-free output paths across concurrent items.
// Checking the filesystem alone would race between claim and write.
type nameClaims struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

func (c *nameClaims) claim(path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claimed == nil {
		c.claimed = make(map[string]struct{})
	}
	for n := 0; ; n++ {
		candidate := fileutil.NumberedVariant(path, n)
		if _, taken := c.claimed[candidate]; taken {
			continue
		}
		if fileutil.Exists(candidate) {
			continue
		}
		c.claimed[candidate] = struct{}{}
		return candidate
	}
}
