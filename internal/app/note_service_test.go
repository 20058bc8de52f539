package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/config"
	"notekeeper/internal/model"
	"notekeeper/internal/platform/database"
	"notekeeper/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.NoteEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.NoteEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []model.NoteEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.NoteEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type noteFixture struct {
	svc    *NoteService
	events *recordingPublisher
	alice  *model.User
	bob    *model.User
	clock  time.Time
}

func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()
	db, err := database.New(context.Background(), config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	}, "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	users := repository.NewUserRepository(db)
	alice := &model.User{Username: "alice", PasswordHash: "h"}
	bob := &model.User{Username: "bob", PasswordHash: "h"}
	require.NoError(t, users.Create(context.Background(), alice))
	require.NoError(t, users.Create(context.Background(), bob))

	f := &noteFixture{
		events: &recordingPublisher{},
		alice:  alice,
		bob:    bob,
		clock:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewNoteService(repository.NewNoteRepository(db), f.events, nil)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *noteFixture) tick() {
	f.clock = f.clock.Add(time.Minute)
}

func (f *noteFixture) create(t *testing.T, owner *model.User, title string) *model.Note {
	t.Helper()
	note, err := f.svc.Create(context.Background(), owner.ID, CreateNoteInput{Title: title, Content: "body of " + title})
	require.NoError(t, err)
	return note
}

func TestNoteService_Create(t *testing.T) {
	f := newNoteFixture(t)

	note, err := f.svc.Create(context.Background(), f.alice.ID, CreateNoteInput{Title: "  Groceries ", Content: "\tmilk\n"})
	require.NoError(t, err)
	assert.NotZero(t, note.ID)
	assert.Equal(t, "Groceries", note.Title)
	assert.Equal(t, "milk", note.Content)
	assert.Equal(t, f.alice.ID, note.UserID)
	assert.Equal(t, f.clock, note.CreatedAt)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, model.NoteEvent{
		Type:       model.NoteCreated,
		NoteID:     note.ID,
		UserID:     f.alice.ID,
		OccurredAt: f.clock,
	}, f.events.events[0])
}

func TestNoteService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateNoteInput
		want  []string
	}{
		{"both missing", CreateNoteInput{}, []string{MsgTitleRequired, MsgContentRequired}},
		{"blank title", CreateNoteInput{Title: "   ", Content: "x"}, []string{MsgTitleRequired}},
		{"blank content", CreateNoteInput{Title: "x", Content: "\n"}, []string{MsgContentRequired}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newNoteFixture(t)
			note, err := f.svc.Create(context.Background(), f.alice.ID, tt.input)
			assert.Nil(t, note)
			assert.Equal(t, tt.want, validationMessages(t, err))
			assert.Empty(t, f.events.events)
		})
	}
}

func TestNoteService_ListPaginatesNewestFirst(t *testing.T) {
	f := newNoteFixture(t)
	for i := 1; i <= 12; i++ {
		f.create(t, f.alice, fmt.Sprintf("note %d", i))
		f.tick()
	}
	f.create(t, f.bob, "bob's")

	first, err := f.svc.List(context.Background(), f.alice.ID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(12), first.Total)
	assert.Equal(t, 3, first.Pages)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 5, first.PerPage)
	require.Len(t, first.Items, 5)
	assert.Equal(t, "note 12", first.Items[0].Title)
	assert.Equal(t, "note 8", first.Items[4].Title)

	last, err := f.svc.List(context.Background(), f.alice.ID, 3, 5)
	require.NoError(t, err)
	require.Len(t, last.Items, 2)
	assert.Equal(t, "note 1", last.Items[1].Title)

	beyond, err := f.svc.List(context.Background(), f.alice.ID, 4, 5)
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(12), beyond.Total)
}

func TestNoteService_ListHugePageIsEmpty(t *testing.T) {
	f := newNoteFixture(t)
	for i := 0; i < 3; i++ {
		f.create(t, f.alice, fmt.Sprintf("note %d", i))
	}

	tests := []struct {
		page, perPage int
	}{
		{math.MaxInt, 50},
		{math.MaxInt/2 + 2, 2},
		{math.MaxInt / 50, 50},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d per %d", tt.page, tt.perPage), func(t *testing.T) {
			page, err := f.svc.List(context.Background(), f.alice.ID, tt.page, tt.perPage)
			require.NoError(t, err)
			assert.Equal(t, tt.page, page.Page)
			assert.NotNil(t, page.Items)
			assert.Empty(t, page.Items)
			assert.Equal(t, int64(3), page.Total)
		})
	}
}

func TestNoteService_ListClampsParameters(t *testing.T) {
	f := newNoteFixture(t)
	f.create(t, f.alice, "only")

	tests := []struct {
		name             string
		page, perPage    int
		wantPage, wantPP int
	}{
		{"zero values", 0, 0, 1, 10},
		{"negative", -3, -1, 1, 10},
		{"too large per page", 2, 500, 2, 50},
		{"exact maximum", 1, 50, 1, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.List(context.Background(), f.alice.ID, tt.page, tt.perPage)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantPP, page.PerPage)
			assert.Equal(t, 1, page.Pages)
		})
	}
}

func TestNoteService_ListEmpty(t *testing.T) {
	f := newNoteFixture(t)

	page, err := f.svc.List(context.Background(), f.alice.ID, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.Pages)
}

func TestNoteService_Update(t *testing.T) {
	f := newNoteFixture(t)
	note := f.create(t, f.alice, "draft")
	created := note.CreatedAt
	f.tick()

	title := "  final "
	updated, err := f.svc.Update(context.Background(), f.alice.ID, note.ID, UpdateNoteInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "body of draft", updated.Content)
	assert.True(t, created.Equal(updated.CreatedAt))
	assert.Equal(t, f.clock, updated.UpdatedAt)

	f.tick()
	empty := ""
	updated, err = f.svc.Update(context.Background(), f.alice.ID, note.ID, UpdateNoteInput{Content: &empty})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "", updated.Content)

	f.tick()
	touched, err := f.svc.Update(context.Background(), f.alice.ID, note.ID, UpdateNoteInput{})
	require.NoError(t, err)
	assert.Equal(t, f.clock, touched.UpdatedAt)

	page, err := f.svc.List(context.Background(), f.alice.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "final", page.Items[0].Title)
	assert.Equal(t, "", page.Items[0].Content)
	assert.True(t, created.Equal(page.Items[0].CreatedAt))
	assert.True(t, f.clock.Equal(page.Items[0].UpdatedAt))

	assert.Equal(t, []model.NoteEventType{model.NoteCreated, model.NoteUpdated, model.NoteUpdated, model.NoteUpdated}, f.events.types())
}

func TestNoteService_UpdateAndDeleteAreOwnerScoped(t *testing.T) {
	f := newNoteFixture(t)
	note := f.create(t, f.alice, "private")
	title := "hijacked"

	_, err := f.svc.Update(context.Background(), f.bob.ID, note.ID, UpdateNoteInput{Title: &title})
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = f.svc.Update(context.Background(), f.alice.ID, note.ID+100, UpdateNoteInput{Title: &title})
	assert.ErrorIs(t, err, ErrNoteNotFound)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.bob.ID, note.ID), ErrNoteNotFound)

	page, err := f.svc.List(context.Background(), f.alice.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "private", page.Items[0].Title)
	assert.Equal(t, []model.NoteEventType{model.NoteCreated}, f.events.types())
}

func TestNoteService_Delete(t *testing.T) {
	f := newNoteFixture(t)
	note := f.create(t, f.alice, "temp")

	require.NoError(t, f.svc.Delete(context.Background(), f.alice.ID, note.ID))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.alice.ID, note.ID), ErrNoteNotFound)

	page, err := f.svc.List(context.Background(), f.alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, []model.NoteEventType{model.NoteCreated, model.NoteDeleted}, f.events.types())
}

func TestNoteService_PublishFailureDoesNotFailWrite(t *testing.T) {
	f := newNoteFixture(t)
	f.events.err = errors.New("broker down")

	note, err := f.svc.Create(context.Background(), f.alice.ID, CreateNoteInput{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.NotZero(t, note.ID)
}
