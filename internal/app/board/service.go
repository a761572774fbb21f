package board

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"atomflow/internal/utils"

	"go.uber.org/zap"
)

var (
	hashtagRe    = regexp.MustCompile(`#(\w+)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SyncPublisher pushes a snapshot onto the cross-instance sync channel.
// Injected so the controller can be tested against a fake bus.
type SyncPublisher interface {
	PublishCards(cards []*Card)
	PublishColumns(columns []*Column)
}

type Service interface {
	State() ([]*Column, []*Card)
	OverdueCount() int

	CreateCard(columnID, rawTitle string, opts CardOptions) *Card
	UpdateCard(card *Card)
	DeleteCard(cardID string)
	ReorderCard(cardID, targetColumnID string, targetIndex *int)

	AddColumn(title string) *Column
	RenameColumn(columnID, title string)
	DeleteColumn(columnID string)
	MoveColumnPosition(draggedID, targetID string)

	FilterCards(query, assigneeID string) []*Card
	GroupByColumn(cards []*Card) map[string][]*Card

	ApplyCards(cards []*Card)
	ApplyColumns(columns []*Column)
}

// service owns the authoritative in-memory snapshot. Every mutation runs
// under one mutex and follows the same protocol: pure transform, swap the
// snapshot, persist, then notify. Persist always precedes notify so a peer
// woken by the notification never reads storage older than the message.
type service struct {
	mu      sync.Mutex
	cards   []*Card
	columns []*Column

	repo    Repository
	bus     *utils.EventBus
	syncPub SyncPublisher
	logger  *zap.SugaredLogger
}

func NewService(repo Repository, bus *utils.EventBus, syncPub SyncPublisher, logger *zap.Logger) Service {
	s := &service{
		repo:    repo,
		bus:     bus,
		syncPub: syncPub,
		logger:  logger.Sugar(),
	}

	ctx := context.Background()
	s.columns = repo.LoadColumns(ctx)
	s.cards = repo.LoadCards(ctx)
	s.logger.Infow("Board state loaded",
		"columns", len(s.columns),
		"cards", len(s.cards),
	)
	return s
}

func (s *service) State() ([]*Column, []*Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	columns := make([]*Column, len(s.columns))
	copy(columns, s.columns)
	cards := make([]*Card, len(s.cards))
	copy(cards, s.cards)
	return columns, cards
}

func (s *service) OverdueCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CountOverdue(s.cards)
}

// CountOverdue counts cards past their due date outside the done column.
// It runs over a caller-held snapshot so the count always agrees with the
// cards it was derived from.
func CountOverdue(cards []*Card) int {
	now := time.Now().UnixMilli()
	count := 0
	for _, c := range cards {
		if c.DueDate != 0 && c.DueDate < now && c.ColumnID != DoneColumnID {
			count++
		}
	}
	return count
}

// persistCards commits a new card snapshot: swap in memory, write, notify.
// Called with the mutex held.
func (s *service) persistCards(cards []*Card) {
	s.cards = cards
	if err := s.repo.SaveCards(context.Background(), cards); err != nil {
		s.logger.Warnw("Failed to persist cards snapshot", "error", err)
	}
	s.bus.Publish(EventCardsUpdated, cards)
	if s.syncPub != nil {
		s.syncPub.PublishCards(cards)
	}
}

func (s *service) persistColumns(columns []*Column) {
	s.columns = columns
	if err := s.repo.SaveColumns(context.Background(), columns); err != nil {
		s.logger.Warnw("Failed to persist columns snapshot", "error", err)
	}
	s.bus.Publish(EventColumnsUpdated, columns)
	if s.syncPub != nil {
		s.syncPub.PublishColumns(columns)
	}
}

func (s *service) CreateCard(columnID, rawTitle string, opts CardOptions) *Card {
	extracted := []string{}
	for _, m := range hashtagRe.FindAllStringSubmatch(rawTitle, -1) {
		extracted = append(extracted, m[1])
	}
	title := strings.TrimSpace(hashtagRe.ReplaceAllString(rawTitle, ""))
	if title == "" {
		title = rawTitle
	}

	card := NewCard(columnID, title)
	card.Description = opts.Description
	if opts.Priority != nil {
		card.Priority = *opts.Priority
	}
	card.AssigneeID = opts.AssigneeID
	card.DueDate = NormalizeDueDate(opts.DueDate)
	card.Tags = unionTags(extracted, opts.Tags)
	for _, t := range opts.Subtasks {
		card.Subtasks = append(card.Subtasks, NewSubtask(t))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]*Card, 0, len(s.cards)+1)
	next = append(next, s.cards...)
	next = append(next, card)
	s.persistCards(next)

	s.logger.Infow("Card created",
		"card_id", card.ID,
		"column_id", columnID,
		"tags", card.Tags,
	)
	return card
}

// UpdateCard replaces the stored card wholesale. Callers merge first; this
// is not a field patch. Unknown ids are ignored.
func (s *service) UpdateCard(card *Card) {
	card.DueDate = NormalizeDueDate(card.DueDate)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOfCard(s.cards, card.ID)
	if idx == -1 {
		return
	}
	next := make([]*Card, len(s.cards))
	copy(next, s.cards)
	next[idx] = card
	s.persistCards(next)
}

func (s *service) DeleteCard(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOfCard(s.cards, cardID) == -1 {
		return
	}
	next := make([]*Card, 0, len(s.cards)-1)
	for _, c := range s.cards {
		if c.ID != cardID {
			next = append(next, c)
		}
	}
	s.persistCards(next)
	s.logger.Infow("Card deleted", "card_id", cardID)
}

func (s *service) ReorderCard(cardID, targetColumnID string, targetIndex *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOfCard(s.cards, cardID) == -1 {
		return
	}
	s.persistCards(MoveCard(s.cards, cardID, targetColumnID, targetIndex))
}

// AddColumn appends a column. Blank titles are silently ignored. The id is
// the slugified title; identical titles get a numeric suffix so two columns
// can never collide on id.
func (s *service) AddColumn(title string) *Column {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base := whitespaceRe.ReplaceAllString(strings.ToLower(title), "-")
	id := base
	for n := 2; indexOfColumn(s.columns, id) != -1; n++ {
		id = base + "-" + strconv.Itoa(n)
	}

	col := &Column{ID: id, Title: title, Order: len(s.columns)}
	next := make([]*Column, 0, len(s.columns)+1)
	next = append(next, s.columns...)
	next = append(next, col)
	s.persistColumns(next)

	s.logger.Infow("Column added", "column_id", col.ID, "order", col.Order)
	return col
}

func (s *service) RenameColumn(columnID, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOfColumn(s.columns, columnID)
	if idx == -1 {
		return
	}
	next := make([]*Column, len(s.columns))
	copy(next, s.columns)
	cp := *next[idx]
	cp.Title = title
	next[idx] = &cp
	s.persistColumns(next)
}

// DeleteColumn cascades: the column and its cards are computed together and
// persisted together, so no written state ever references the dead column.
func (s *service) DeleteColumn(columnID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOfColumn(s.columns, columnID) == -1 {
		return
	}

	newColumns, newCards := CascadeDeleteColumn(s.columns, s.cards, columnID)
	removed := len(s.cards) - len(newCards)
	s.persistColumns(newColumns)
	s.persistCards(newCards)

	s.logger.Infow("Column deleted",
		"column_id", columnID,
		"cascaded_cards", removed,
	)
}

func (s *service) MoveColumnPosition(draggedID, targetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draggedID == targetID ||
		indexOfColumn(s.columns, draggedID) == -1 ||
		indexOfColumn(s.columns, targetID) == -1 {
		return
	}
	s.persistColumns(MoveColumn(s.columns, draggedID, targetID))
}

// FilterCards returns the cards matching the text query (title or any tag,
// case-insensitive) AND the assignee filter. Empty filters match everything.
// Read-only: the returned slice shares card pointers with the snapshot but
// never mutates them.
func (s *service) FilterCards(query, assigneeID string) []*Card {
	s.mu.Lock()
	cards := make([]*Card, len(s.cards))
	copy(cards, s.cards)
	s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	result := make([]*Card, 0, len(cards))
	for _, c := range cards {
		if q != "" && !matchesQuery(c, q) {
			continue
		}
		if assigneeID != "" && c.AssigneeID != assigneeID {
			continue
		}
		result = append(result, c)
	}
	return result
}

// GroupByColumn partitions cards by column id, preserving the global
// sequence's relative order within each group.
func (s *service) GroupByColumn(cards []*Card) map[string][]*Card {
	groups := make(map[string][]*Card)
	for _, c := range cards {
		groups[c.ColumnID] = append(groups[c.ColumnID], c)
	}
	return groups
}

// ApplyCards is the sync reducer: a snapshot observed on the sync channel
// replaces the in-memory one wholesale and is forwarded to local websocket
// clients. It is never re-persisted or re-published, which is what keeps the
// two instances from echoing snapshots back and forth.
func (s *service) ApplyCards(cards []*Card) {
	s.mu.Lock()
	s.cards = cards
	s.mu.Unlock()
	s.bus.Publish(EventCardsUpdated, cards)
}

func (s *service) ApplyColumns(columns []*Column) {
	s.mu.Lock()
	s.columns = columns
	s.mu.Unlock()
	s.bus.Publish(EventColumnsUpdated, columns)
}

func matchesQuery(c *Card, q string) bool {
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func unionTags(extracted, explicit []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, t := range append(append([]string{}, extracted...), explicit...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
