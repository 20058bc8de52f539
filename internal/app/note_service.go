package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"notekeeper/internal/model"
)

const (
	MsgTitleRequired   = "Title is required."
	MsgContentRequired = "Content is required."

	defaultPerPage = 10
	maxPerPage     = 50
)

type NoteStore interface {
	Create(ctx context.Context, note *model.Note) error
	ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]model.Note, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	GetByIDAndUserID(ctx context.Context, id, userID uint) (*model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	DeleteByIDAndUserID(ctx context.Context, id, userID uint) (bool, error)
}

// EventPublisher receives a NoteEvent after each committed note mutation.
type EventPublisher interface {
	Publish(ctx context.Context, event model.NoteEvent) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.NoteEvent) error { return nil }

type NotePage struct {
	Items   []model.Note
	Page    int
	PerPage int
	Total   int64
	Pages   int
}

type CreateNoteInput struct {
	Title   string
	Content string
}

// UpdateNoteInput leaves a field untouched when it is nil.
type UpdateNoteInput struct {
	Title   *string
	Content *string
}

type NoteService struct {
	notes  NoteStore
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewNoteService(notes NoteStore, events EventPublisher, logger *slog.Logger) *NoteService {
	if events == nil {
		events = NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteService{
		notes:  notes,
		events: events,
		logger: logger,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
}

func (s *NoteService) List(ctx context.Context, ownerID uint, page, perPage int) (*NotePage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	total, err := s.notes.CountByUserID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	pages := (total + int64(perPage) - 1) / int64(perPage)

	// Compare page numbers before computing the offset; a huge page would
	// overflow (page-1)*perPage.
	items := []model.Note{}
	if int64(page-1) < pages {
		items, err = s.notes.ListByUserID(ctx, ownerID, (page-1)*perPage, perPage)
		if err != nil {
			return nil, err
		}
	}

	return &NotePage{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   int(pages),
	}, nil
}

func (s *NoteService) Create(ctx context.Context, ownerID uint, input CreateNoteInput) (*model.Note, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)

	verr := &ValidationError{}
	if title == "" {
		verr.add(MsgTitleRequired)
	}
	if content == "" {
		verr.add(MsgContentRequired)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	now := s.now()
	note := &model.Note{
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	s.publish(ctx, model.NoteCreated, note.ID, ownerID, now)
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, ownerID, noteID uint, input UpdateNoteInput) (*model.Note, error) {
	note, err := s.notes.GetByIDAndUserID(ctx, noteID, ownerID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	if input.Title != nil {
		note.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		note.Content = strings.TrimSpace(*input.Content)
	}
	note.UpdatedAt = s.now()

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}

	s.publish(ctx, model.NoteUpdated, note.ID, ownerID, note.UpdatedAt)
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, ownerID, noteID uint) error {
	deleted, err := s.notes.DeleteByIDAndUserID(ctx, noteID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNoteNotFound
	}

	s.publish(ctx, model.NoteDeleted, noteID, ownerID, s.now())
	return nil
}

// publish runs after the write is committed, so a broker failure is only
// logged.
func (s *NoteService) publish(ctx context.Context, eventType model.NoteEventType, noteID, userID uint, at time.Time) {
	event := model.NoteEvent{
		Type:       eventType,
		NoteID:     noteID,
		UserID:     userID,
		OccurredAt: at,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish note event failed",
			"type", eventType,
			"note_id", noteID,
			"error", err,
		)
	}
}
