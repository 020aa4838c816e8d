package repository

import (
	"context"
	"time"

	"checkout-funnel/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	Upsert(ctx context.Context, purchase *model.Purchase) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Purchase, error)
	SetUpsell(ctx context.Context, orderID string) error
	SetDownsell(ctx context.Context, orderID string) error
}

type purchaseRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepoImpl{db: db}
}

// Upsert keys on the processor order id so a repeated capture of the same
// order refreshes the row instead of creating a second record.
func (r *purchaseRepoImpl) Upsert(ctx context.Context, purchase *model.Purchase) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"verified":   true,
			"updated_at": time.Now(),
		}),
	}).Create(purchase).Error
}

func (r *purchaseRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&purchase).Error

	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

// SetUpsell flips the upsell flag to true. There is no operation that flips
// it back.
func (r *purchaseRepoImpl) SetUpsell(ctx context.Context, orderID string) error {
	return r.setFlag(ctx, orderID, "upsell")
}

func (r *purchaseRepoImpl) SetDownsell(ctx context.Context, orderID string) error {
	return r.setFlag(ctx, orderID, "downsell")
}

func (r *purchaseRepoImpl) setFlag(ctx context.Context, orderID, column string) error {
	result := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			column:       true,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
