package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateMessage(ctx context.Context, m *models.Message) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) GetMessages(ctx context.Context, offset, limit int) (int64, []models.Message, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Message{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Message
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// CountMessages counts all messages, or only those with status when it is set.
func (r *GormRepo) CountMessages(ctx context.Context, status models.MessageStatus) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Message{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *GormRepo) SetMessageStatus(ctx context.Context, id uuid.UUID, status models.MessageStatus) (*models.Message, error) {
	res := r.DB.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var m models.Message
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormRepo) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
