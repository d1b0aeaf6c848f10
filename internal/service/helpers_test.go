package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"karrah/internal/model"
	"karrah/internal/repository"
)

var testDBSeq atomic.Uint64

// newTestDB opens an isolated named in-memory database. The shared
// cache keeps every pooled connection on the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:karrah_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := repository.NewDB(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

type testEnv struct {
	db        *gorm.DB
	users     *repository.UserRepository
	teams     *repository.TeamRepository
	boards    *repository.BoardRepository
	tasks     *repository.TaskRepository
	templates *repository.TemplateRepository
	forms     *repository.FormRepository
	notices   *repository.NotificationRepository
	notifier  *NotificationService
	spawner   *SpawnerService
	reminders *ReminderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := zerolog.Nop()

	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		teams:     repository.NewTeamRepository(db),
		boards:    repository.NewBoardRepository(db),
		tasks:     repository.NewTaskRepository(db),
		templates: repository.NewTemplateRepository(db),
		forms:     repository.NewFormRepository(db),
		notices:   repository.NewNotificationRepository(db),
	}
	env.notifier = NewNotificationService(env.notices, env.users, env.teams, nil, nil, "https://karrah.example", log)
	env.spawner = NewSpawnerService(env.templates, env.tasks, env.boards, env.teams, env.notifier, log)
	env.reminders = NewReminderService(env.tasks, env.forms, env.notices, env.notifier, log)
	return env
}

func (env *testEnv) setClock(now time.Time) {
	clock := func() time.Time { return now }
	env.spawner.clock = clock
	env.reminders.clock = clock
	env.notifier.clock = clock
}

// seedTeamWithBoard creates a team, its default board and a "To Do" list.
func (env *testEnv) seedTeamWithBoard(t *testing.T) (teamID, boardID, listID uint) {
	t.Helper()
	ctx := context.Background()

	team := model.Team{Name: "ops"}
	if err := env.teams.Create(ctx, &team); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	board := model.Board{TeamID: team.ID, Name: "اصلی"}
	if err := env.boards.CreateBoard(ctx, &board); err != nil {
		t.Fatalf("seed board: %v", err)
	}
	list := model.List{BoardID: board.ID, Name: "انجام شود", NameEn: model.TodoListName}
	if err := env.boards.CreateList(ctx, &list); err != nil {
		t.Fatalf("seed list: %v", err)
	}
	return team.ID, board.ID, list.ID
}

func (env *testEnv) seedUser(t *testing.T, email string) uint {
	t.Helper()
	user := model.User{Email: email, FullName: "Test User", EmailEnabled: true}
	if err := env.users.Create(context.Background(), &user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func (env *testEnv) countNotices(t *testing.T, noticeType string) int64 {
	t.Helper()
	var count int64
	if err := env.db.Model(&model.Notification{}).Where("type = ?", noticeType).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return count
}
