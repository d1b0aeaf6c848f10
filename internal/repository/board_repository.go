package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"karrah/internal/model"
)

// BoardRepository handles boards and their lists.
type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) CreateBoard(ctx context.Context, board *model.Board) error {
	if err := r.db.WithContext(ctx).Create(board).Error; err != nil {
		return fmt.Errorf("create board: %w", err)
	}
	return nil
}

func (r *BoardRepository) CreateList(ctx context.Context, list *model.List) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return fmt.Errorf("create list: %w", err)
	}
	return nil
}

// FirstByTeam returns the team's default board (the oldest one).
func (r *BoardRepository) FirstByTeam(ctx context.Context, teamID uint) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("id ASC").
		First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindListByNameEn looks up a board column by its canonical english name.
func (r *BoardRepository) FindListByNameEn(ctx context.Context, boardID uint, nameEn string) (*model.List, error) {
	var list model.List
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND name_en = ?", boardID, nameEn).
		First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}
