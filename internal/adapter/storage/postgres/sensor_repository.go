package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

type SensorRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSensorRepository(db *gorm.DB, log *zap.Logger) ports.SensorRepository {
	return &SensorRepository{db: db, log: log}
}

func (r *SensorRepository) Save(ctx context.Context, sensor *domain.Sensor) error {
	if err := r.db.WithContext(ctx).Save(sensor).Error; err != nil {
		r.log.Error("Failed to save sensor", zap.String("sensor_id", sensor.SensorID), zap.Error(err))
		return err
	}
	return nil
}

func (r *SensorRepository) FindByID(ctx context.Context, id string) (*domain.Sensor, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *SensorRepository) FindBySensorID(ctx context.Context, sensorID string) (*domain.Sensor, error) {
	return r.first(ctx, "sensor_id = ?", sensorID)
}

func (r *SensorRepository) first(ctx context.Context, query string, arg interface{}) (*domain.Sensor, error) {
	var sensor domain.Sensor
	err := r.db.WithContext(ctx).First(&sensor, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sensor, nil
}

func (r *SensorRepository) FindByName(ctx context.Context, name string) ([]domain.Sensor, error) {
	var sensors []domain.Sensor
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).Find(&sensors).Error
	return sensors, err
}

func (r *SensorRepository) FindByArea(ctx context.Context, areaID string) ([]domain.Sensor, error) {
	var sensors []domain.Sensor
	err := r.db.WithContext(ctx).Where("area_id = ?", areaID).Order("name asc").Find(&sensors).Error
	return sensors, err
}

func (r *SensorRepository) FindAll(ctx context.Context) ([]domain.Sensor, error) {
	var sensors []domain.Sensor
	err := r.db.WithContext(ctx).Order("name asc").Find(&sensors).Error
	return sensors, err
}

func (r *SensorRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Sensor{}, "id = ?", id).Error
}
