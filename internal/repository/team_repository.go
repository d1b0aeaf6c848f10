package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"karrah/internal/model"
)

// TeamRepository handles teams and memberships.
type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, fmt.Errorf("find team %d: %w", id, err)
	}
	return &team, nil
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID uint) error {
	m := model.TeamMember{TeamID: teamID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("add team member: %w", err)
	}
	return nil
}

// ListMemberIDs returns the user ids of all members of a team.
func (r *TeamRepository) ListMemberIDs(ctx context.Context, teamID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.TeamMember{}).
		Where("team_id = ?", teamID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return ids, nil
}
