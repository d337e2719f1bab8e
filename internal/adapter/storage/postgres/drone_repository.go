package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

type DroneRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDroneRepository(db *gorm.DB, log *zap.Logger) ports.DroneRepository {
	return &DroneRepository{
		db:  db,
		log: log,
	}
}

func (r *DroneRepository) Save(ctx context.Context, drone *domain.Drone) error {
	result := r.db.WithContext(ctx).Omit("Area").Save(drone)
	if result.Error != nil {
		r.log.Error("Failed to save drone", zap.String("drone_id", drone.DroneID), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *DroneRepository) FindByID(ctx context.Context, id string) (*domain.Drone, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *DroneRepository) FindByDroneID(ctx context.Context, droneID string) (*domain.Drone, error) {
	return r.first(ctx, "drone_id = ?", droneID)
}

func (r *DroneRepository) first(ctx context.Context, query string, arg interface{}) (*domain.Drone, error) {
	var drone domain.Drone
	err := r.db.WithContext(ctx).Preload("Area").First(&drone, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &drone, nil
}

// FindByName matches names case-insensitively.
func (r *DroneRepository) FindByName(ctx context.Context, name string) ([]domain.Drone, error) {
	var drones []domain.Drone
	err := r.db.WithContext(ctx).Preload("Area").
		Where("LOWER(name) = LOWER(?)", name).
		Order("created_at asc").
		Find(&drones).Error
	return drones, err
}

func (r *DroneRepository) FindAll(ctx context.Context) ([]domain.Drone, error) {
	var drones []domain.Drone
	err := r.db.WithContext(ctx).Preload("Area").Order("name asc").Find(&drones).Error
	return drones, err
}

func (r *DroneRepository) UpdateStatus(ctx context.Context, droneID string, status domain.DroneStatus, seen time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Drone{}).
		Where("drone_id = ?", droneID).
		Updates(map[string]interface{}{"status": status, "last_seen": seen}).Error
}

func (r *DroneRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Drone{}, "id = ?", id).Error
}
