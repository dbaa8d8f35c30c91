package mysql

import (
	"context"

	"gorm.io/gorm"

	configDomain "loantrackr-backend/internal/domain/loanconfig"
)

type ConfigRepository struct{ db *gorm.DB }

func NewConfigRepository(db *gorm.DB) *ConfigRepository { return &ConfigRepository{db: db} }

func (r *ConfigRepository) GetActive(ctx context.Context) (*configDomain.Config, error) {
	var out configDomain.Config
	res := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("updated_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}
