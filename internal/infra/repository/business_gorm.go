package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/models"
	"github.com/BruksfildServices01/residate/internal/realtime"
)

type BusinessGormRepository struct {
	db  *gorm.DB
	pub realtime.Publisher
}

func NewBusinessGormRepository(db *gorm.DB, pub realtime.Publisher) *BusinessGormRepository {
	return &BusinessGormRepository{db: db, pub: pub}
}

func (r *BusinessGormRepository) List(ctx context.Context) ([]business.Business, error) {
	var rows []models.Business
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]business.Business, 0, len(rows))
	for _, row := range rows {
		out = append(out, business.FromModel(row))
	}
	return out, nil
}

func (r *BusinessGormRepository) Get(ctx context.Context, id string) (*business.Business, error) {
	var row models.Business
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	b := business.FromModel(row)
	return &b, nil
}

func (r *BusinessGormRepository) ListByEmail(ctx context.Context, email string) ([]business.Business, error) {
	var rows []models.Business
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]business.Business, 0, len(rows))
	for _, row := range rows {
		out = append(out, business.FromModel(row))
	}
	return out, nil
}

func (r *BusinessGormRepository) Create(ctx context.Context, b *business.Business) error {
	row := business.ToModel(*b)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	b.CreatedAt = row.CreatedAt

	r.pub.Publish(ctx, realtime.NewChange(realtime.TableBusinesses, realtime.OpInsert, b.ID))
	return nil
}

func (r *BusinessGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Business{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.pub.Publish(ctx, realtime.NewChange(realtime.TableBusinesses, realtime.OpDelete, id))
	}
	return nil
}

// Compile-time check
var _ business.Repository = (*BusinessGormRepository)(nil)
