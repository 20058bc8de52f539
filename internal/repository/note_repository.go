package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"notekeeper/internal/model"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create note failed: %w", err)
	}
	return nil
}

// ListByUserID returns one page of the user's notes, newest first. Notes
// created in the same instant come back newest insert first.
func (r *NoteRepository) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]model.Note, error) {
	notes := make([]model.Note, 0, limit)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes failed: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Note{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count notes failed: %w", err)
	}
	return total, nil
}

func (r *NoteRepository) GetByIDAndUserID(ctx context.Context, id, userID uint) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get note failed: %w", err)
	}
	return &note, nil
}

// Update writes title, content and updated_at, including empty strings.
func (r *NoteRepository) Update(ctx context.Context, note *model.Note) error {
	if err := r.db.WithContext(ctx).
		Model(note).
		Select("title", "content", "updated_at").
		Updates(note).Error; err != nil {
		return fmt.Errorf("update note failed: %w", err)
	}
	return nil
}

// DeleteByIDAndUserID reports whether a note owned by userID was removed.
func (r *NoteRepository) DeleteByIDAndUserID(ctx context.Context, id, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Note{})
	if result.Error != nil {
		return false, fmt.Errorf("delete note failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
