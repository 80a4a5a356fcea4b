package notification_log

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a payment notification log. Nil input is ignored.
func (s *Service) Save(ctx context.Context, log *models.PaymentNotificationLog) {
	if log == nil {
		return
	}
	if log.ID == "" {
		log.ID = tool.GenerateUUIDV7()
	}
	// The request context is cancelled once the handler returns.
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorw("failed to save notification log", "order_code", log.PaymentOrderID, "status", log.Status, "err", err)
		}
	}()
}

// ListByOrderCode returns the deliveries recorded for one order code, newest first.
func (s *Service) ListByOrderCode(ctx context.Context, orderCode int64, limit int) ([]*models.PaymentNotificationLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []*models.PaymentNotificationLog
	err := s.db.WithContext(ctx).
		Where("payment_order_id = ?", orderCode).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}
	return rows, nil
}
