package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/upstream"
)

type TransactionService struct {
	upstream Upstream
	cache    *PayloadCache
	logger   *log.Logger
}

func NewTransactionService(up Upstream, c *PayloadCache, logger *log.Logger) *TransactionService {
	if logger == nil {
		logger = log.Discard()
	}
	return &TransactionService{
		upstream: up,
		cache:    c,
		logger:   logger.WithComponent(log.ComponentLedger),
	}
}

// List asks the upstream for the filtered list and applies the same filter
// locally, so an upstream that ignores a parameter still yields the right
// rows.
func (s *TransactionService) List(ctx context.Context, auth string, f core.TransactionFilter) ([]core.Transaction, error) {
	if !validTypeFilter(f.Type) {
		return nil, invalid(ErrInvalidFilter)
	}
	q := upstream.TransactionQuery{Type: f.Type, CategoryID: f.CategoryID, Search: f.Search}

	txs, err := fetchCached(ctx, s.cache, auth, "transactions/?"+queryKey(q), func(ctx context.Context) ([]core.Transaction, error) {
		return s.upstream.Transactions(ctx, auth, q)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return core.FilterTransactions(txs, f), nil
}

func queryKey(q upstream.TransactionQuery) string {
	v := url.Values{}
	v.Set("type", q.Type)
	v.Set("search", q.Search)
	if q.CategoryID != nil {
		v.Set("category", strconv.FormatInt(*q.CategoryID, 10))
	}
	return v.Encode()
}

func (s *TransactionService) Create(ctx context.Context, auth string, in core.TransactionInput) (*core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	created, err := s.upstream.CreateTransaction(ctx, auth, in)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	s.cache.Invalidate(ctx, auth)
	s.logger.DebugContext(ctx, "Transaction created", log.FieldCount, 1)
	return created, nil
}

func (s *TransactionService) Update(ctx context.Context, auth string, id int64, in core.TransactionInput) (*core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	updated, err := s.upstream.UpdateTransaction(ctx, auth, id, in)
	if err != nil {
		return nil, fmt.Errorf("update transaction %d: %w", id, err)
	}
	s.cache.Invalidate(ctx, auth)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, auth string, id int64) error {
	if err := s.upstream.DeleteTransaction(ctx, auth, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	s.cache.Invalidate(ctx, auth)
	return nil
}
