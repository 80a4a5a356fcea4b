package statistics

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/pkg/types"
)

type StatisticType string

const (
	// Per day, per payment status.
	StatisticTypeDailyTransactionCount StatisticType = "daily_transaction_count"
	StatisticTypeDailyAmount           StatisticType = "daily_amount"
	// Running total of collected money, one point per day with payments.
	StatisticTypeAccumulatedPaidAmount StatisticType = "accumulated_paid_amount"
)

var statisticTypes = []StatisticType{
	StatisticTypeDailyTransactionCount,
	StatisticTypeDailyAmount,
	StatisticTypeAccumulatedPaidAmount,
}

// FilterFields are the payment_transaction columns statistics may be filtered on.
var FilterFields = map[string]bool{
	"status":            true,
	"amount":            true,
	"created_at":        true,
	"payment_method_id": true,
}

type PaymentStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type PaymentStatisticRequest struct {
	Filters   []*types.CommonFilter       `json:"filters"`
	DataItems []*PaymentStatisticDataItem `json:"data_items"`
}

func (r *PaymentStatisticRequest) Validate() error {
	if r == nil || len(r.DataItems) == 0 {
		return fmt.Errorf("%w: data_items is required", types.ErrValidation)
	}
	for _, di := range r.DataItems {
		if di == nil || !lo.Contains(statisticTypes, di.ID) {
			return fmt.Errorf("%w: invalid data item", types.ErrValidation)
		}
	}
	for _, f := range r.Filters {
		if err := f.Validate(FilterFields); err != nil {
			return fmt.Errorf("%w: %v", types.ErrValidation, err)
		}
	}
	return nil
}

type PaymentStatisticResponseDataItem struct {
	Date  string `json:"date"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type PaymentStatisticResponse struct {
	DataItems map[StatisticType][]PaymentStatisticResponseDataItem `json:"data_items"`
}

// Service provides statistics operations
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

// dayExpr renders created_at as YYYY-MM-DD in the connected dialect.
func (s *Service) dayExpr() string {
	if s.db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m-%d', created_at)"
	}
	return "TO_CHAR(created_at, 'YYYY-MM-DD')"
}

func (s *Service) base(ctx context.Context, filters []*types.CommonFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.PaymentTransaction{})
	if len(filters) > 0 {
		q = q.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(filters)}})
	}
	return q
}

func (s *Service) getDailyTransactionCount(ctx context.Context, request *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	day := s.dayExpr()
	q := s.base(ctx, request.Filters).
		Select(day + " as date, status as label, count(*) as value").
		Group(day).
		Group("status").
		Order("date DESC, label ASC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyAmount(ctx context.Context, request *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	day := s.dayExpr()
	q := s.base(ctx, request.Filters).
		Select(day + " as date, status as label, COALESCE(sum(amount), 0) as value").
		Group(day).
		Group("status").
		Order("date DESC, label ASC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getAccumulatedPaidAmount(ctx context.Context, request *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var daily []PaymentStatisticResponseDataItem
	day := s.dayExpr()
	q := s.base(ctx, request.Filters).
		Select(day+" as date, COALESCE(sum(amount), 0) as value").
		Where("status = ?", types.PaymentStatusPaid).
		Group(day).
		Order("date ASC")
	if err := q.Find(&daily).Error; err != nil {
		return nil, err
	}
	var running int64
	for i := range daily {
		running += daily[i].Value
		daily[i].Value = running
	}
	sort.SliceStable(daily, func(i, j int) bool { return daily[i].Date > daily[j].Date })
	return daily, nil
}

func (s *Service) getPaymentStatistic(ctx context.Context, request *PaymentStatisticRequest, dataItem *PaymentStatisticDataItem) ([]PaymentStatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyTransactionCount:
		return s.getDailyTransactionCount(ctx, request)
	case StatisticTypeDailyAmount:
		return s.getDailyAmount(ctx, request)
	case StatisticTypeAccumulatedPaidAmount:
		return s.getAccumulatedPaidAmount(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// GetPaymentStatistic computes every requested data item concurrently.
func (s *Service) GetPaymentStatistic(ctx context.Context, request *PaymentStatisticRequest) (*PaymentStatisticResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make(map[StatisticType][]PaymentStatisticResponseDataItem, len(request.DataItems))
	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *PaymentStatisticDataItem) {
			defer wg.Done()
			res, err := s.getPaymentStatistic(ctx, request, di)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("statistic %s: %w", di.ID, err)
				}
				return
			}
			results[di.ID] = lo.Ternary(res == nil, []PaymentStatisticResponseDataItem{}, res)
		}(item)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &PaymentStatisticResponse{DataItems: results}, nil
}
