package model

import "time"

type NoteEventType string

const (
	NoteCreated NoteEventType = "note.created"
	NoteUpdated NoteEventType = "note.updated"
	NoteDeleted NoteEventType = "note.deleted"
)

// NoteEvent describes a committed note mutation. It carries ids only so
// note contents never leave the database through the event stream.
type NoteEvent struct {
	Type       NoteEventType `json:"type"`
	NoteID     uint          `json:"note_id"`
	UserID     uint          `json:"user_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}
