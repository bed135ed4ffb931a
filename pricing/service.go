package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service computes quotes and records them in the history store.
type Service struct {
	engine *Engine
	store  Store
	logger *zap.Logger

	// now is swapped in tests.
	now func() time.Time
}

func NewService(engine *Engine, store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, store: store, logger: logger, now: time.Now}
}

// Quote computes a quote and records it. Invalid requests are not recorded.
func (s *Service) Quote(ctx context.Context, req Request) (*Record, error) {
	result, err := s.engine.Compute(req)
	if err != nil {
		return nil, err
	}

	rec := Record{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Request:   req,
		Result:    *result,
	}
	if err := s.store.SaveQuote(ctx, rec); err != nil {
		return nil, fmt.Errorf("record quote: %w", err)
	}

	s.logger.Info("quote computed",
		zap.String("quote_id", rec.ID),
		zap.Int("lines", len(result.Lines)),
		zap.String("total", result.Total.StringFixed(2)),
		zap.String("flags", result.Flags))
	return &rec, nil
}

// Get returns a recorded quote.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	return s.store.GetQuote(ctx, id)
}

// List returns recent quotes, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Record, error) {
	return s.store.ListQuotes(ctx, limit)
}
