package repository

import (
	"context"

	"checkout-funnel/internal/model"

	"gorm.io/gorm"
)

// LeadRepository is append-and-list: the funnel never updates or dedupes
// captured leads.
type LeadRepository interface {
	Append(ctx context.Context, lead *model.Lead) error
	List(ctx context.Context) ([]*model.Lead, error)
}

type leadRepoImpl struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepoImpl{db: db}
}

func (r *leadRepoImpl) Append(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *leadRepoImpl) List(ctx context.Context) ([]*model.Lead, error) {
	var leads []*model.Lead
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&leads).Error

	if err != nil {
		return nil, err
	}

	return leads, nil
}
