package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"karrah/internal/model"
	"karrah/internal/repository"
)

// SpawnNotifier covers the notifications the spawner emits. Delivery
// failures never roll back a spawn; the spawner logs and moves on.
type SpawnNotifier interface {
	NotifyTaskAssigned(ctx context.Context, task *model.Task, assigneeID, assignedBy uint) error
	NotifyRecurringTasksGenerated(ctx context.Context, teamID uint, tasksCount, templatesUsed int) error
}

// SpawnerService turns recurring task templates into task instances.
// Each run spawns at most one occurrence per template; missed cycles
// are never backfilled.
type SpawnerService struct {
	templateRepo *repository.TemplateRepository
	taskRepo     *repository.TaskRepository
	boardRepo    *repository.BoardRepository
	teamRepo     *repository.TeamRepository
	notifier     SpawnNotifier
	log          zerolog.Logger
	clock        func() time.Time
}

func NewSpawnerService(
	templateRepo *repository.TemplateRepository,
	taskRepo *repository.TaskRepository,
	boardRepo *repository.BoardRepository,
	teamRepo *repository.TeamRepository,
	notifier SpawnNotifier,
	log zerolog.Logger,
) *SpawnerService {
	return &SpawnerService{
		templateRepo: templateRepo,
		taskRepo:     taskRepo,
		boardRepo:    boardRepo,
		teamRepo:     teamRepo,
		notifier:     notifier,
		log:          log,
		clock:        time.Now,
	}
}

// GenerateDueTasks evaluates the team's active templates and creates a
// task for every due occurrence. It returns the number of tasks created.
//
// A team without a default board or a "To Do" list yields a
// *ConfigurationError and no tasks at all for that team.
func (s *SpawnerService) GenerateDueTasks(ctx context.Context, teamID uint) (int, error) {
	now := s.clock()

	board, err := s.boardRepo.FirstByTeam(ctx, teamID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, &ConfigurationError{TeamID: teamID, Reason: "team has no boards"}
	}
	if err != nil {
		return 0, fmt.Errorf("resolve default board: %w", err)
	}

	todoList, err := s.boardRepo.FindListByNameEn(ctx, board.ID, model.TodoListName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, &ConfigurationError{TeamID: teamID, Reason: `default board has no "To Do" list`}
	}
	if err != nil {
		return 0, fmt.Errorf("resolve todo list: %w", err)
	}

	templates, err := s.templateRepo.ListActiveByTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}

	today := StartOfDay(now)
	created := 0

	for i := range templates {
		tpl := &templates[i]

		next := NextOccurrence(tpl.Recurrence, tpl.LastSpawnedAt, today)
		if !Due(next, today) {
			continue
		}

		due := now
		task := model.Task{
			BoardID:        board.ID,
			ListID:         todoList.ID,
			Title:          tpl.Title,
			Description:    tpl.Description,
			Priority:       tpl.Priority,
			Status:         model.StatusTodo,
			AssigneeID:     tpl.DefaultAssigneeID,
			DueAt:          &due,
			TemplateID:     &tpl.ID,
			EstimatedHours: tpl.EstimatedHours,
		}
		if err := s.taskRepo.Create(ctx, &task); err != nil {
			return created, fmt.Errorf("spawn from template %d: %w", tpl.ID, err)
		}

		// The task exists before the anchor moves. A crash between the
		// two writes makes the next run spawn this occurrence again.
		if err := s.templateRepo.AdvanceLastSpawned(ctx, tpl.ID, now); err != nil {
			return created, err
		}
		created++

		if tpl.DefaultAssigneeID != nil {
			if err := s.notifier.NotifyTaskAssigned(ctx, &task, *tpl.DefaultAssigneeID, 0); err != nil {
				s.log.Warn().Err(err).Uint("template_id", tpl.ID).Msg("assignment notification failed, continuing")
			}
		}
	}

	if created > 0 {
		if err := s.notifier.NotifyRecurringTasksGenerated(ctx, teamID, created, len(templates)); err != nil {
			s.log.Warn().Err(err).Uint("team_id", teamID).Msg("team notification failed")
		}
	}

	return created, nil
}

// GenerateForAllTeams runs the spawner for every team. A misconfigured
// team is logged and skipped; it never blocks the other teams.
func (s *SpawnerService) GenerateForAllTeams(ctx context.Context) error {
	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, team := range teams {
		count, err := s.GenerateDueTasks(ctx, team.ID)
		var cfgErr *ConfigurationError
		switch {
		case errors.As(err, &cfgErr):
			s.log.Warn().Uint("team_id", team.ID).Str("reason", cfgErr.Reason).Msg("skipping misconfigured team")
		case err != nil:
			s.log.Error().Err(err).Uint("team_id", team.ID).Msg("spawner run failed")
		case count > 0:
			s.log.Info().Uint("team_id", team.ID).Int("created", count).Msg("spawned recurring tasks")
		}
	}
	return nil
}
