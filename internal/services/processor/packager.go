package processor

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

// EventSink receives usage events. Implementations must not block and must
// swallow their own failures.
type EventSink interface {
	Emit(ctx context.Context, event models.Event)
}

// ArchiveCache stores completed batch results by fingerprint.
// Get returns nil, nil on a miss.
type ArchiveCache interface {
	Get(ctx context.Context, key string) (*models.BatchResult, error)
	Set(ctx context.Context, key string, result *models.BatchResult) error
}

type Options struct {
	Workers    int
	Duplicates DuplicatePolicy
	Catalog    Catalog
	Sink       EventSink
	Cache      ArchiveCache
	Metrics    *Metrics
	Logger     *zap.Logger
}

// Packager runs a batch job end to end and produces the zip archive.
type Packager struct {
	rasterizer *Rasterizer
	workers    int
	duplicates DuplicatePolicy
	catalog    Catalog
	sink       EventSink
	cache      ArchiveCache
	metrics    *Metrics
	logger     *zap.Logger
}

func NewPackager(rasterizer *Rasterizer, opts Options) *Packager {
	p := &Packager{
		rasterizer: rasterizer,
		workers:    opts.Workers,
		duplicates: opts.Duplicates,
		catalog:    opts.Catalog,
		sink:       opts.Sink,
		cache:      opts.Cache,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
	if p.workers <= 0 {
		p.workers = DefaultWorkers
	}
	if p.duplicates == "" {
		p.duplicates = DuplicateSuffix
	}
	if p.catalog == nil {
		p.catalog = DefaultCatalog
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

func (p *Packager) Catalog() Catalog {
	return p.catalog
}

// WithDuplicates returns a copy of p using a different duplicate policy.
func (p *Packager) WithDuplicates(policy DuplicatePolicy) *Packager {
	clone := *p
	clone.duplicates = policy
	return &clone
}

type rendered struct {
	data []byte
	err  error
}

// Process resizes every image of job and packages the results.
// Per-image failures are reported in the result; only batch-level problems
// (empty batch, bad selection, archive errors, cancellation) return an error.
func (p *Packager) Process(ctx context.Context, job models.BatchJob) (*models.BatchResult, error) {
	if len(job.Images) == 0 {
		return nil, ErrEmptyBatch
	}

	resolved, err := ResolveSize(p.catalog, job.Profile, job.Density)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	batchID := uuid.New().String()
	log := p.logger.With(zap.String("batch_id", batchID))

	for _, w := range resolved.Warnings {
		log.Warn("Custom size fallback", zap.String("warning", w))
	}

	key := Fingerprint(job, resolved.Size, p.duplicates)
	if cached := p.lookupCache(ctx, key, log); cached != nil {
		cached.Warnings = resolved.Warnings
		p.metrics.RecordBatch(ctx, cached.Status, time.Since(start))
		p.emitComplete(ctx, job, cached)
		return cached, nil
	}

	p.emit(ctx, models.Event{
		Action:  models.EventStartProcessing,
		BatchID: batchID,
		Details: map[string]interface{}{
			"imageCount": len(job.Images),
			"profile":    job.Profile.String(),
			"scale":      int(job.Density),
		},
	})

	results := p.rasterizeAll(ctx, job.Images, resolved.Size)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.pack(ctx, batchID, job, resolved.Size, results, start)
	if err != nil {
		log.Error("Batch failed", zap.Error(err))
		p.metrics.RecordBatch(ctx, models.StatusFailed, time.Since(start))
		return nil, err
	}
	result.Warnings = resolved.Warnings

	p.metrics.RecordBatch(ctx, result.Status, time.Since(start))
	p.emitComplete(ctx, job, result)

	log.Info("Batch processed",
		zap.String("status", result.Status),
		zap.Int("entries", len(result.Entries)),
		zap.Int("failures", len(result.Failures)),
		zap.Duration("duration", time.Since(start)))

	if result.Status == models.StatusCompleted {
		p.storeCache(ctx, key, result, log)
	}

	return result, nil
}

// rasterizeAll renders every image with bounded concurrency. Each task writes
// only its own slot so the original order survives.
func (p *Packager) rasterizeAll(ctx context.Context, images []models.SourceImage, size models.Size) []rendered {
	results := make([]rendered, len(images))

	g := new(errgroup.Group)
	g.SetLimit(p.workers)

	for i, img := range images {
		g.Go(func() error {
			data, err := p.rasterizer.Rasterize(ctx, img, size)
			results[i] = rendered{data: data, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Packager) pack(ctx context.Context, batchID string, job models.BatchJob, size models.Size, results []rendered, modified time.Time) (*models.BatchResult, error) {
	result := &models.BatchResult{ID: batchID, Size: size}
	names := newNameSet(p.duplicates)
	dropped := make(map[int]bool)
	var planned []models.OutputEntry

	for i, r := range results {
		filename := job.Images[i].Filename

		if r.err != nil {
			result.Failures = append(result.Failures, models.ImageFailure{Index: i, Filename: filename, Error: r.err.Error()})
			p.metrics.RecordImage(ctx, "failed")
			p.emit(ctx, models.Event{
				Action:  models.EventImageFailed,
				BatchID: batchID,
				Details: map[string]interface{}{"fileName": filename, "index": i, "error": r.err.Error()},
			})
			continue
		}

		name, prev := names.claim(AssignName(job.Profile, size.Width, size.Height, job.Density, filename), i)
		if prev >= 0 {
			dropped[prev] = true
			p.logger.Warn("Archive entry overwritten",
				zap.String("batch_id", batchID),
				zap.String("name", name),
				zap.Int("replaced_index", prev))
		}

		planned = append(planned, models.OutputEntry{Index: i, Name: name, Source: filename, Bytes: len(r.data)})
		p.metrics.RecordImage(ctx, "ok")
		p.emit(ctx, models.Event{
			Action:  models.EventImageProcessed,
			BatchID: batchID,
			Details: map[string]interface{}{"fileName": filename, "index": i, "name": name},
		})
	}

	result.Entries = lo.Filter(planned, func(e models.OutputEntry, _ int) bool {
		return !dropped[e.Index]
	})

	switch {
	case len(result.Entries) == 0:
		result.Status = models.StatusFailed
		return result, nil
	case len(result.Failures) > 0:
		result.Status = models.StatusPartial
	default:
		result.Status = models.StatusCompleted
	}

	archive, err := writeArchive(result.Entries, results, modified)
	if err != nil {
		return nil, err
	}
	result.Archive = archive

	return result, nil
}

func writeArchive(entries []models.OutputEntry, results []rendered, modified time.Time) ([]byte, error) {
	buffer := &bytes.Buffer{}
	zw := zip.NewWriter(buffer)

	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Store, // PNG data is already compressed
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArchiveFinalize, err)
		}
		if _, err := w.Write(results[e.Index].data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArchiveFinalize, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveFinalize, err)
	}

	return buffer.Bytes(), nil
}

func (p *Packager) emit(ctx context.Context, event models.Event) {
	if p.sink == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	p.sink.Emit(ctx, event)
}

func (p *Packager) emitComplete(ctx context.Context, job models.BatchJob, result *models.BatchResult) {
	p.emit(ctx, models.Event{
		Action:  models.EventCompleteDownload,
		BatchID: result.ID,
		Details: map[string]interface{}{
			"imageCount": len(result.Entries),
			"failed":     len(result.Failures),
			"status":     result.Status,
			"profile":    job.Profile.String(),
			"scale":      int(job.Density),
			"cached":     result.Cached,
		},
	})
}

func (p *Packager) lookupCache(ctx context.Context, key string, log *zap.Logger) *models.BatchResult {
	if p.cache == nil {
		return nil
	}

	cached, err := p.cache.Get(ctx, key)
	if err != nil {
		log.Warn("Failed to read archive cache", zap.Error(err))
		return nil
	}
	if cached == nil {
		return nil
	}

	log.Info("Cache hit", zap.String("cache_key", key))
	cached.Cached = true
	return cached
}

func (p *Packager) storeCache(ctx context.Context, key string, result *models.BatchResult, log *zap.Logger) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, key, result); err != nil {
		log.Warn("Failed to cache archive", zap.String("cache_key", key), zap.Error(err))
	}
}
