// Package app provides the core assessment service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/asahcalc/asahcalc/internal/domain/model"
	"github.com/asahcalc/asahcalc/internal/domain/scoring"
	"github.com/asahcalc/asahcalc/internal/domain/validate"
	"github.com/asahcalc/asahcalc/pkg/logger"
	"github.com/asahcalc/asahcalc/pkg/metrics"

	"github.com/google/uuid"
)

const defaultMaxBatchSize = 500

// ErrBatchTooLarge is returned when a batch exceeds the configured cap.
var ErrBatchTooLarge = errors.New("batch too large")

// Assessment is one computed result with the input it was derived from.
// It is request-scoped; nothing is persisted.
type Assessment struct {
	ID     string // unique id assigned per calculation request
	Input  model.PatientInput
	Result model.ScoreResult
}

// Service validates inputs and drives the scoring engine. It holds no
// per-patient state; the counters below exist only for /stats and metrics.
type Service struct {
	mu sync.RWMutex

	engine       scoring.Engine
	maxBatchSize int
	logger       logger.Logger

	// Monotonic counters for operational visibility.
	assessments int64
	severe      int64
	rejected    int64
	batchRows   int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEngine sets a custom scoring engine.
func WithEngine(engine scoring.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithMaxBatchSize caps batch assessment size.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:       scoring.NewLinearEngine(),
		maxBatchSize: defaultMaxBatchSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	return s
}

// Assess validates one patient input and computes its risk scores.
// Validation failures wrap validate.ErrOutOfDomain.
func (s *Service) Assess(ctx context.Context, in model.PatientInput) (Assessment, error) {
	if err := validate.PatientInput(in); err != nil {
		s.mu.Lock()
		s.rejected++
		s.mu.Unlock()
		metrics.RecordValidationFailure()
		s.logger.Warn(ctx, "rejected out-of-domain input",
			logger.Int("wfns", in.WFNS),
			logger.Int("mfisher", in.ModifiedFisher),
			logger.Error(err),
		)
		return Assessment{}, err
	}

	start := time.Now()
	result, err := s.engine.Evaluate(ctx, in)
	if err != nil {
		return Assessment{}, fmt.Errorf("evaluate patient input: %w", err)
	}
	metrics.RecordScoringDuration(float64(time.Since(start).Nanoseconds()) / 1e6)

	s.mu.Lock()
	s.assessments++
	if in.Severe() {
		s.severe++
	}
	s.mu.Unlock()
	metrics.RecordAssessment(in.Severe())

	a := Assessment{
		ID:     uuid.NewString(),
		Input:  in,
		Result: result,
	}
	s.logger.Debug(ctx, "assessment computed",
		logger.String("assessmentID", a.ID),
		logger.Int("wfns", in.WFNS),
		logger.Bool("severe", in.Severe()),
		logger.Float64("model1", result.Model1EarlyGeneral.Value),
		logger.Float64("model2", result.Model2LateGeneral.Value),
	)
	return a, nil
}

// AssessBatch validates and scores a slice of inputs, preserving order.
// The whole batch is rejected if any input is out of domain, so callers
// never receive a partially scored document.
func (s *Service) AssessBatch(ctx context.Context, ins []model.PatientInput) ([]Assessment, error) {
	if len(ins) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d inputs exceed cap of %d", ErrBatchTooLarge, len(ins), s.maxBatchSize)
	}

	for i, in := range ins {
		if err := validate.PatientInput(in); err != nil {
			s.mu.Lock()
			s.rejected++
			s.mu.Unlock()
			metrics.RecordValidationFailure()
			return nil, fmt.Errorf("patient %d: %w", i, err)
		}
	}

	out := make([]Assessment, 0, len(ins))
	for _, in := range ins {
		a, err := s.Assess(ctx, in)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	s.mu.Lock()
	s.batchRows += int64(len(ins))
	s.mu.Unlock()
	metrics.RecordBatchRows(len(ins))

	return out, nil
}

// MaxBatchSize exposes the configured batch cap.
func (s *Service) MaxBatchSize() int {
	return s.maxBatchSize
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"assessments":       s.assessments,
		"severeAssessments": s.severe,
		"rejectedInputs":    s.rejected,
		"batchRows":         s.batchRows,
		"maxBatchSize":      s.maxBatchSize,
	}
}
