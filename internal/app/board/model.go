package board

import (
	"time"

	"github.com/google/uuid"

	"atomflow/internal/app/user"
)

// Storage keys for the two snapshot blobs. Each blob always holds a complete
// collection, replaced wholesale on every mutation.
const (
	CardsKey   = "atomflow_cards"
	ColumnsKey = "atomflow_columns"
)

// Event names shared by the in-process bus, the websocket push and the Redis
// sync channel.
const (
	EventCardsUpdated   = "UPDATE_CARDS"
	EventColumnsUpdated = "UPDATE_COLUMNS"
)

// DoneColumnID marks the column whose cards are never counted as overdue.
const DoneColumnID = "done"

// Priority is an urgency/impact pair, each in [1,5].
type Priority struct {
	Urgency int `json:"urgency"`
	Impact  int `json:"impact"`
}

func (p Priority) Score() int {
	return p.Urgency * p.Impact
}

// Severity bands the score: >=16 critical, >=9 high, >=4 medium, else low.
func (p Priority) Severity() string {
	score := p.Score()
	switch {
	case score >= 16:
		return "critical"
	case score >= 9:
		return "high"
	case score >= 4:
		return "medium"
	default:
		return "low"
	}
}

type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Comment struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Card is a unit of work. Its column membership is the ColumnID field; its
// position inside that column is its relative position among same-column
// cards in the single global card sequence.
type Card struct {
	ID          string     `json:"id"`
	ColumnID    string     `json:"columnId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	Subtasks    []*Subtask `json:"subtasks"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	DueDate     int64      `json:"dueDate,omitempty"` // epoch ms, normalized to noon UTC
	Comments    []*Comment `json:"comments"`
	CreatedAt   int64      `json:"createdAt"` // epoch ms
}

// Column is a named, ordered bucket. Order values form a dense 0-based
// sequence across all columns.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

func NewCard(columnID, title string) *Card {
	return &Card{
		ID:        uuid.NewString(),
		ColumnID:  columnID,
		Title:     title,
		Priority:  Priority{Urgency: 1, Impact: 1},
		Tags:      []string{},
		Subtasks:  []*Subtask{},
		Comments:  []*Comment{},
		CreatedAt: time.Now().UnixMilli(),
	}
}

func NewSubtask(title string) *Subtask {
	return &Subtask{
		ID:    uuid.NewString(),
		Title: title,
	}
}

func NewComment(userID, text string) *Comment {
	return &Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

// DefaultColumns is the built-in column set used when no snapshot has been
// persisted yet.
func DefaultColumns() []*Column {
	return []*Column{
		{ID: "todo", Title: "A Fazer", Order: 0},
		{ID: "progress", Title: "Em Progresso", Order: 1},
		{ID: "review", Title: "Em Revisão", Order: 2},
		{ID: DoneColumnID, Title: "Concluído", Order: 3},
	}
}

// NormalizeDueDate snaps a due timestamp to noon UTC of its calendar day, so
// timezone offsets cannot shift the date across a midnight boundary.
func NormalizeDueDate(ts int64) int64 {
	if ts == 0 {
		return 0
	}
	t := time.UnixMilli(ts).UTC()
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	return noon.UnixMilli()
}

type CardOptions struct {
	Description string    `json:"description"`
	Priority    *Priority `json:"priority"`
	AssigneeID  string    `json:"assigneeId"`
	DueDate     int64     `json:"dueDate"`
	Subtasks    []string  `json:"subtasks"`
	Tags        []string  `json:"tags"`
}

type CreateCardRequest struct {
	ColumnID string `json:"columnId" binding:"required"`
	Title    string `json:"title" binding:"required"`
	CardOptions
}

type MoveCardRequest struct {
	ColumnID string `json:"columnId" binding:"required"`
	Index    *int   `json:"index"`
}

type MoveColumnRequest struct {
	TargetID string `json:"targetId" binding:"required"`
}

type ColumnRequest struct {
	Title string `json:"title" binding:"required"`
}

type BoardStateResponse struct {
	Columns      []*Column    `json:"columns"`
	Cards        []*Card      `json:"cards"`
	Users        []*user.User `json:"users"`
	OverdueCount int          `json:"overdueCount"`
}

type FilteredCardsResponse struct {
	Cards    []*Card            `json:"cards"`
	ByColumn map[string][]*Card `json:"byColumn"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
