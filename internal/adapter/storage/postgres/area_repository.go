package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

type AreaRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAreaRepository(db *gorm.DB, log *zap.Logger) ports.AreaRepository {
	return &AreaRepository{db: db, log: log}
}

func (r *AreaRepository) Save(ctx context.Context, area *domain.Area) error {
	if err := r.db.WithContext(ctx).Save(area).Error; err != nil {
		r.log.Error("Failed to save area", zap.String("area_id", area.AreaID), zap.Error(err))
		return err
	}
	return nil
}

func (r *AreaRepository) FindByID(ctx context.Context, id string) (*domain.Area, error) {
	var area domain.Area
	err := r.db.WithContext(ctx).First(&area, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *AreaRepository) FindByAreaID(ctx context.Context, areaID string) (*domain.Area, error) {
	var area domain.Area
	err := r.db.WithContext(ctx).First(&area, "area_id = ?", areaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *AreaRepository) FindByName(ctx context.Context, name string) ([]domain.Area, error) {
	var areas []domain.Area
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).Find(&areas).Error
	return areas, err
}

func (r *AreaRepository) FindAll(ctx context.Context) ([]domain.Area, error) {
	var areas []domain.Area
	err := r.db.WithContext(ctx).Order("name asc").Find(&areas).Error
	return areas, err
}

func (r *AreaRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Area{}, "id = ?", id).Error
}
