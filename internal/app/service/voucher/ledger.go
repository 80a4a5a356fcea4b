package voucher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/checkout/internal/models"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/types"
)

// Ledger redeems customer voucher grants. It never opens its own transaction:
// redemption must commit or roll back together with the payment intent.
type Ledger struct {
	log *zap.SugaredLogger
}

func NewLedger(log *zap.SugaredLogger) *Ledger { return &Ledger{log: log} }

// Redemption is a set of locked, validated grants waiting to be marked used.
type Redemption struct {
	customerID string
	grants     []*models.UserVoucher
}

// Empty reports whether there is nothing to mark.
func (r *Redemption) Empty() bool { return r == nil || len(r.grants) == 0 }

// Redeem marks every voucher in voucherIDs as used by customerID and bumps each
// voucher's global uses counter once. Duplicate and empty ids are ignored.
func (l *Ledger) Redeem(ctx context.Context, tx *gorm.DB, customerID string, voucherIDs []string, now time.Time) error {
	r, err := l.Reserve(ctx, tx, customerID, voucherIDs, now)
	if err != nil {
		return err
	}
	return l.Commit(ctx, tx, r, now)
}

// Reserve locks the customer's grants and vouchers FOR UPDATE and checks that
// every id is owned, unused and redeemable at now. Nothing is written, so it
// can run before side effects outside the database.
func (l *Ledger) Reserve(ctx context.Context, tx *gorm.DB, customerID string, voucherIDs []string, now time.Time) (*Redemption, error) {
	ids := lo.Uniq(lo.Compact(voucherIDs))
	r := &Redemption{customerID: customerID}
	if len(ids) == 0 {
		return r, nil
	}
	tx = tx.WithContext(ctx)

	var grants []*models.UserVoucher
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND voucher_id IN ?", customerID, ids).
		Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("failed to load voucher grants: %w", err)
	}
	owned := lo.Map(grants, func(g *models.UserVoucher, _ int) string { return g.VoucherID })
	if missing := lo.Without(ids, owned...); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrVoucherNotOwned, strings.Join(missing, ","))
	}

	var vouchers []*models.Voucher
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&vouchers).Error; err != nil {
		return nil, fmt.Errorf("failed to load vouchers: %w", err)
	}
	byID := lo.KeyBy(vouchers, func(v *models.Voucher) string { return v.ID })

	for _, g := range grants {
		if g.IsUsed {
			return nil, fmt.Errorf("%w: %s already used", types.ErrVoucherInvalid, g.VoucherID)
		}
		if v := byID[g.VoucherID]; !v.Redeemable(now) {
			return nil, fmt.Errorf("%w: %s is not redeemable", types.ErrVoucherInvalid, g.VoucherID)
		}
	}
	r.grants = grants
	return r, nil
}

// Commit marks the reserved grants used and counts each voucher once. It must
// run in the transaction that called Reserve.
func (l *Ledger) Commit(ctx context.Context, tx *gorm.DB, r *Redemption, now time.Time) error {
	if r.Empty() {
		return nil
	}
	tx = tx.WithContext(ctx)
	for _, g := range r.grants {
		res := tx.Model(&models.UserVoucher{}).
			Where("id = ? AND is_used = ?", g.ID, false).
			Updates(map[string]any{"is_used": true, "used_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to mark voucher %s used: %w", g.VoucherID, res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: %s already used", types.ErrVoucherInvalid, g.VoucherID)
		}

		res = tx.Model(&models.Voucher{}).
			Where("id = ? AND (usage_limit = 0 OR uses < usage_limit)", g.VoucherID).
			Update("uses", gorm.Expr("uses + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to count voucher %s use: %w", g.VoucherID, res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: %s usage limit reached", types.ErrVoucherInvalid, g.VoucherID)
		}
	}

	ids := lo.Map(r.grants, func(g *models.UserVoucher, _ int) string { return g.VoucherID })
	logctx.FromCtx(ctx, l.log).Infow("vouchers redeemed", "customer_id", r.customerID, "voucher_ids", ids)
	return nil
}
