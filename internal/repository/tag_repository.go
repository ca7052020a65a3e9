package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todo-planner/internal/model"
)

// TagRepository manages task tags.
type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) GetOrCreate(ctx context.Context, userID uint, name string) (*model.Tag, error) {
	if name == "" {
		return nil, nil
	}

	var tag model.Tag
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
	switch {
	case err == nil:
		return &tag, nil
	case err == gorm.ErrRecordNotFound:
		tag = model.Tag{UserID: userID, Name: name}
		if err := db.Create(&tag).Error; err != nil {
			return nil, fmt.Errorf("create tag: %w", err)
		}
		return &tag, nil
	default:
		return nil, fmt.Errorf("find tag: %w", err)
	}
}