package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Harjeet1309/pdfmerge/internal/extract"
	"github.com/Harjeet1309/pdfmerge/internal/logging"
)

// ServiceConfig sizes a Service. Zero sizes and durations select the
// defaults; see Options for how its fields default.
type ServiceConfig struct {
	Options       Options
	MaxConcurrent int
	MaxWait       time.Duration
	ResultTTL     time.Duration
}

// Service is the entry point for frontends. It bounds concurrent
// comparisons, inspects the inputs and keeps results for later download.
type Service struct {
	comparer *Comparer
	limiter  *ComparisonLimiter
	results  *ResultStore
	inspect  func(*extract.Document) (extract.Info, error)
}

// NewService creates a Service comparing with the PDF extractors.
func NewService(cfg ServiceConfig) *Service {
	return NewServiceWithComparer(cfg, NewComparer(cfg.Options))
}

// NewServiceWithComparer creates a Service around an existing Comparer.
func NewServiceWithComparer(cfg ServiceConfig, c *Comparer) *Service {
	return &Service{
		comparer: c,
		limiter:  NewComparisonLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		results:  NewResultStore(cfg.ResultTTL),
		inspect:  extract.Inspect,
	}
}

// Compare runs one comparison under the concurrency limit and stores the
// result. The returned error is ErrTooManyComparisons or a context error;
// every other problem is reported through Result.Outcome.
func (s *Service) Compare(ctx context.Context, docA, docB *extract.Document) (*Result, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	id := uuid.NewString()
	logger := logging.WithFields(ctx, "compare_id", id)
	if client, ok := ClientFromContext(ctx); ok {
		logger = logger.With(client.logArgs()...)
	}
	logger.Info("comparison started", "doc_a", docName(docA), "doc_b", docName(docB))

	infos := s.inspectAll(logger, docA, docB)

	res, err := s.comparer.Compare(ctx, docA, docB)
	if err != nil {
		logger.Warn("comparison aborted", "error", err)
		return nil, err
	}

	res.ID = id
	res.Documents = infos
	s.results.Put(res)

	return res, nil
}

func (s *Service) inspectAll(logger *slog.Logger, docs ...*extract.Document) []extract.Info {
	var infos []extract.Info
	for _, doc := range docs {
		if doc.Empty() {
			continue
		}
		info, err := s.inspect(doc)
		if err != nil {
			logger.Warn("pdf validation failed", "document", doc.Name, "error", err)
		} else {
			logger.Debug("pdf inspected", "document", doc.Name, "pages", info.Pages, "bytes", info.Size)
		}
		infos = append(infos, info)
	}
	return infos
}

func docName(d *extract.Document) string {
	if d == nil {
		return ""
	}
	return d.Name
}

// Result returns a stored result by ID.
func (s *Service) Result(id string) (*Result, error) {
	return s.results.Get(id)
}

// Options returns the comparison options in effect.
func (s *Service) Options() Options {
	return s.comparer.Options.withDefaults()
}

// ServiceStatus is a monitoring snapshot.
type ServiceStatus struct {
	Comparisons LimiterStatus `json:"comparisons"`
	Results     int           `json:"stored_results"`
}

// Status returns the limiter counters and the number of stored results.
func (s *Service) Status() ServiceStatus {
	return ServiceStatus{
		Comparisons: s.limiter.Status(),
		Results:     s.results.Len(),
	}
}

// WaitForDrain blocks until running comparisons finish or ctx ends.
func (s *Service) WaitForDrain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
