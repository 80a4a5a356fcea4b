package payment

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/pkg/types"
)

// ScanFields are the payment_transaction columns admins may filter and sort on.
var ScanFields = map[string]bool{
	"id":               true,
	"order_id":         true,
	"payment_order_id": true,
	"transaction_id":   true,
	"amount":           true,
	"status":           true,
	"created_at":       true,
	"updated_at":       true,
}

// ScanTransactions implements paginated admin listing with filters.
func (e *Engine) ScanTransactions(ctx context.Context, req *ScanTransactionsRequest) (*ScanTransactionsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", types.ErrValidation)
	}
	if req.Size <= 0 || req.Size > 200 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}
	for _, f := range req.Filters {
		if err := f.Validate(ScanFields); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrValidation, err)
		}
	}
	if req.SortBy != "" && !ScanFields[req.SortBy] {
		return nil, fmt.Errorf("%w: cannot sort by %s", types.ErrValidation, req.SortBy)
	}

	tx := e.db.WithContext(ctx).Model(&models.PaymentTransaction{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payment transactions: %w", err)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	var rows []*models.PaymentTransaction
	q := tx.Limit(req.Size).Offset(req.From).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment transactions: %w", err)
	}

	return &ScanTransactionsResponse{Items: rows, Total: total}, nil
}
