package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

type CommandLogRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCommandLogRepository(db *gorm.DB, log *zap.Logger) ports.CommandLogRepository {
	return &CommandLogRepository{db: db, log: log}
}

func (r *CommandLogRepository) Save(ctx context.Context, record *domain.CommandRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *CommandLogRepository) FindRecent(ctx context.Context, limit int) ([]domain.CommandRecord, error) {
	var records []domain.CommandRecord
	err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&records).Error
	return records, err
}

type groupCount struct {
	Bucket string
	Count  int64
}

func (r *CommandLogRepository) countBy(ctx context.Context, column string) ([]groupCount, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&domain.CommandRecord{}).
		Select(column + " AS bucket, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	return rows, err
}

func (r *CommandLogRepository) CountByIntent(ctx context.Context) (map[domain.Intent]int64, error) {
	rows, err := r.countBy(ctx, "intent")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Intent]int64, len(rows))
	for _, row := range rows {
		out[domain.Intent(row.Bucket)] = row.Count
	}
	return out, nil
}

func (r *CommandLogRepository) CountByStatus(ctx context.Context) (map[domain.CommandStatus]int64, error) {
	rows, err := r.countBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.CommandStatus]int64, len(rows))
	for _, row := range rows {
		out[domain.CommandStatus(row.Bucket)] = row.Count
	}
	return out, nil
}
