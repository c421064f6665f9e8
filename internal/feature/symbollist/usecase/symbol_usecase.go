// Package usecase implements the business logic for the evaluation watchlist.
package usecase

import (
	"context"
	"strings"

	"stock_evaluator/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for watchlist symbols.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// SymbolUsecase provides business logic for watchlist operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// IngestUniverse returns the stored active codes followed by extra, upper-cased,
// with blanks and duplicates removed. Stored order is kept.
func (u *SymbolUsecase) IngestUniverse(ctx context.Context, extra ...string) ([]string, error) {
	stored, err := u.repo.ListActiveCodes(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(append(stored, extra...)), nil
}

// Normalize upper-cases and trims codes, dropping blanks and duplicates.
func Normalize(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
