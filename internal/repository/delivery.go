package repository

import (
	"context"
	"time"

	"checkout-funnel/internal/model"

	"gorm.io/gorm"
)

type DeliveryRepository interface {
	Exists(ctx context.Context, orderID string) (bool, error)
	MarkNotified(ctx context.Context, delivery *model.Delivery) error
}

type deliveryRepoImpl struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepoImpl{db: db}
}

func (r *deliveryRepoImpl) Exists(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Delivery{}).
		Where("order_id = ?", orderID).
		Count(&count).Error

	return count > 0, err
}

func (r *deliveryRepoImpl) MarkNotified(ctx context.Context, delivery *model.Delivery) error {
	delivery.NotifiedAt = time.Now()
	return r.db.WithContext(ctx).Create(delivery).Error
}
