// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"stock_evaluator/internal/feature/symbollist/domain/entity"
	"stock_evaluator/internal/feature/symbollist/usecase"
)

// symbolRepository はSymbolRepositoryインターフェースのgorm実装です。
type symbolRepository struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolRepository)(nil)

// NewSymbolRepository は指定されたDB接続でリポジトリを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolRepository {
	return &symbolRepository{db: db}
}

// ListActive はsort_key順にすべてのアクティブな銘柄を返します。
func (r *symbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order("code ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes はsort_key順にアクティブな銘柄のコードのみを返します。
func (r *symbolRepository) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order("code ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
