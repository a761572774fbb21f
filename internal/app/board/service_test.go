package board

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"atomflow/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memRepository round-trips snapshots through JSON like the Redis-backed one,
// and records the order of operations so tests can check write-then-notify.
type memRepository struct {
	blobs map[string][]byte
	ops   *[]string
}

func newMemRepository(ops *[]string) *memRepository {
	return &memRepository{blobs: make(map[string][]byte), ops: ops}
}

func (m *memRepository) LoadCards(ctx context.Context) []*Card {
	cards := []*Card{}
	if data, ok := m.blobs[CardsKey]; ok {
		if err := json.Unmarshal(data, &cards); err != nil {
			return []*Card{}
		}
	}
	return cards
}

func (m *memRepository) SaveCards(ctx context.Context, cards []*Card) error {
	data, err := json.Marshal(cards)
	if err != nil {
		return err
	}
	m.blobs[CardsKey] = data
	*m.ops = append(*m.ops, "save:cards")
	return nil
}

func (m *memRepository) LoadColumns(ctx context.Context) []*Column {
	var columns []*Column
	if data, ok := m.blobs[ColumnsKey]; ok {
		if json.Unmarshal(data, &columns) == nil && len(columns) > 0 {
			return columns
		}
	}
	return DefaultColumns()
}

func (m *memRepository) SaveColumns(ctx context.Context, columns []*Column) error {
	data, err := json.Marshal(columns)
	if err != nil {
		return err
	}
	m.blobs[ColumnsKey] = data
	*m.ops = append(*m.ops, "save:columns")
	return nil
}

type fakeSyncPublisher struct {
	ops         *[]string
	cardsPubs   int
	columnsPubs int
	lastCards   []*Card
	lastColumns []*Column
}

func (f *fakeSyncPublisher) PublishCards(cards []*Card) {
	f.cardsPubs++
	f.lastCards = cards
	*f.ops = append(*f.ops, "sync:cards")
}

func (f *fakeSyncPublisher) PublishColumns(columns []*Column) {
	f.columnsPubs++
	f.lastColumns = columns
	*f.ops = append(*f.ops, "sync:columns")
}

type fixture struct {
	svc  Service
	repo *memRepository
	pub  *fakeSyncPublisher
	bus  *utils.EventBus
	ops  *[]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ops := &[]string{}
	repo := newMemRepository(ops)
	pub := &fakeSyncPublisher{ops: ops}
	bus := utils.NewEventBus()
	svc := NewService(repo, bus, pub, zap.NewNop())
	return &fixture{svc: svc, repo: repo, pub: pub, bus: bus, ops: ops}
}

func TestServiceSeedsDefaultsFromEmptyStore(t *testing.T) {
	f := newFixture(t)

	columns, cards := f.svc.State()

	assert.Equal(t, []string{"todo", "progress", "review", "done"}, columnIDs(columns))
	assert.Empty(t, cards)
}

func TestCreateCardExtractsHashtags(t *testing.T) {
	f := newFixture(t)

	card := f.svc.CreateCard("todo", "Ship release #urgent #infra", CardOptions{})

	require.NotNil(t, card)
	assert.Equal(t, "Ship release", card.Title)
	assert.Equal(t, []string{"urgent", "infra"}, card.Tags)
	assert.Equal(t, Priority{Urgency: 1, Impact: 1}, card.Priority)
	assert.NotEmpty(t, card.ID)
}

func TestCreateCardTitleFallsBackWhenStrippingEmptiesIt(t *testing.T) {
	f := newFixture(t)

	card := f.svc.CreateCard("todo", "#urgent", CardOptions{})

	assert.Equal(t, "#urgent", card.Title)
	assert.Equal(t, []string{"urgent"}, card.Tags)
}

func TestCreateCardUnionsExplicitTags(t *testing.T) {
	f := newFixture(t)

	card := f.svc.CreateCard("todo", "Fix login #auth", CardOptions{
		Tags: []string{"auth", "backend"},
	})

	assert.Equal(t, []string{"auth", "backend"}, card.Tags)
}

func TestCreateCardBuildsSubtasksAndNormalizesDueDate(t *testing.T) {
	f := newFixture(t)

	// 23:30 UTC on 2026-03-10
	due := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC).UnixMilli()
	card := f.svc.CreateCard("todo", "Prepare report", CardOptions{
		Subtasks: []string{"collect data", "draft slides"},
		DueDate:  due,
	})

	require.Len(t, card.Subtasks, 2)
	assert.Equal(t, "collect data", card.Subtasks[0].Title)
	assert.False(t, card.Subtasks[0].Completed)
	assert.NotEmpty(t, card.Subtasks[0].ID)

	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, noon, card.DueDate)
}

func TestCreateCardAppendsToGlobalSequence(t *testing.T) {
	f := newFixture(t)

	a := f.svc.CreateCard("todo", "first", CardOptions{})
	b := f.svc.CreateCard("done", "second", CardOptions{})

	_, cards := f.svc.State()
	require.Equal(t, []string{a.ID, b.ID}, ids(cards))
}

func TestMutationsPersistBeforeBroadcast(t *testing.T) {
	f := newFixture(t)

	f.svc.CreateCard("todo", "a card", CardOptions{})

	require.Equal(t, []string{"save:cards", "sync:cards"}, *f.ops)
	assert.Equal(t, 1, f.pub.cardsPubs)
	require.Len(t, f.pub.lastCards, 1)
}

func TestPersistedSnapshotRoundTrips(t *testing.T) {
	f := newFixture(t)

	created := f.svc.CreateCard("todo", "Round trip #check", CardOptions{
		Description: "body",
		Priority:    &Priority{Urgency: 4, Impact: 4},
		Subtasks:    []string{"one"},
	})

	loaded := f.repo.LoadCards(context.Background())
	require.Len(t, loaded, 1)
	assert.Equal(t, created, loaded[0])
}

func TestUpdateCardReplacesWholesale(t *testing.T) {
	f := newFixture(t)

	created := f.svc.CreateCard("todo", "original", CardOptions{})

	updated := *created
	updated.Title = "renamed"
	updated.Description = "now with details"
	updated.Comments = []*Comment{NewComment("arta", "looks good")}
	f.svc.UpdateCard(&updated)

	_, cards := f.svc.State()
	require.Len(t, cards, 1)
	assert.Equal(t, "renamed", cards[0].Title)
	require.Len(t, cards[0].Comments, 1)
	assert.Equal(t, "arta", cards[0].Comments[0].UserID)
}

func TestUpdateCardUnknownIDIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.svc.CreateCard("todo", "keep me", CardOptions{})
	before := len(*f.ops)

	ghost := NewCard("todo", "ghost")
	f.svc.UpdateCard(ghost)

	_, cards := f.svc.State()
	assert.Len(t, cards, 1)
	assert.Equal(t, "keep me", cards[0].Title)
	assert.Len(t, *f.ops, before, "no persist or broadcast for unknown id")
}

func TestDeleteCard(t *testing.T) {
	f := newFixture(t)
	a := f.svc.CreateCard("todo", "a", CardOptions{})
	b := f.svc.CreateCard("todo", "b", CardOptions{})

	f.svc.DeleteCard(a.ID)

	_, cards := f.svc.State()
	assert.Equal(t, []string{b.ID}, ids(cards))
}

func TestReorderCardUnknownIDDoesNotBroadcast(t *testing.T) {
	f := newFixture(t)
	before := len(*f.ops)

	f.svc.ReorderCard("ghost", "done", nil)

	assert.Len(t, *f.ops, before)
}

func TestAddColumnBlankTitleIsNoOp(t *testing.T) {
	f := newFixture(t)

	assert.Nil(t, f.svc.AddColumn("   "))

	columns, _ := f.svc.State()
	assert.Len(t, columns, 4)
	assert.Equal(t, 0, f.pub.columnsPubs)
}

func TestAddColumnSlugifiesTitle(t *testing.T) {
	f := newFixture(t)

	col := f.svc.AddColumn("Em Espera  Externa")

	require.NotNil(t, col)
	assert.Equal(t, "em-espera-externa", col.ID)
	assert.Equal(t, "Em Espera  Externa", col.Title)
	assert.Equal(t, 4, col.Order)
}

func TestAddColumnDisambiguatesDuplicateSlugs(t *testing.T) {
	f := newFixture(t)

	first := f.svc.AddColumn("Backlog")
	second := f.svc.AddColumn("backlog")
	third := f.svc.AddColumn("Backlog")

	assert.Equal(t, "backlog", first.ID)
	assert.Equal(t, "backlog-2", second.ID)
	assert.Equal(t, "backlog-3", third.ID)
}

func TestRenameColumn(t *testing.T) {
	f := newFixture(t)

	f.svc.RenameColumn("todo", "Fila")

	columns, _ := f.svc.State()
	assert.Equal(t, "Fila", columns[0].Title)

	f.svc.RenameColumn("nope", "Ghost")
	f.svc.RenameColumn("todo", "  ")
	columns, _ = f.svc.State()
	assert.Equal(t, "Fila", columns[0].Title)
}

func TestDeleteColumnCascades(t *testing.T) {
	f := newFixture(t)
	f.svc.CreateCard("progress", "in flight", CardOptions{})
	f.svc.CreateCard("progress", "also in flight", CardOptions{})
	keep := f.svc.CreateCard("todo", "safe", CardOptions{})
	*f.ops = (*f.ops)[:0]

	f.svc.DeleteColumn("progress")

	columns, cards := f.svc.State()
	assert.Equal(t, []string{"todo", "review", "done"}, columnIDs(columns))
	assert.Equal(t, []string{keep.ID}, ids(cards))

	// Both collections are persisted in the same transaction, columns first.
	assert.Equal(t, []string{"save:columns", "sync:columns", "save:cards", "sync:cards"}, *f.ops)

	// The persisted card blob must hold no orphan either.
	loaded := f.repo.LoadCards(context.Background())
	for _, c := range loaded {
		assert.NotEqual(t, "progress", c.ColumnID)
	}
}

func TestMoveColumnPositionPersists(t *testing.T) {
	f := newFixture(t)

	f.svc.MoveColumnPosition("done", "todo")

	columns, _ := f.svc.State()
	assert.Equal(t, []string{"done", "todo", "progress", "review"}, columnIDs(columns))

	loaded := f.repo.LoadColumns(context.Background())
	assert.Equal(t, []string{"done", "todo", "progress", "review"}, columnIDs(loaded))
	assert.Equal(t, columnIDs(columns), columnIDs(f.pub.lastColumns))
}

func TestMoveColumnPositionSelfIsNoOp(t *testing.T) {
	f := newFixture(t)
	before := len(*f.ops)

	f.svc.MoveColumnPosition("todo", "todo")

	assert.Len(t, *f.ops, before)
}

func TestFilterCardsMatchesTitleOrTagCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	a := f.svc.CreateCard("todo", "Ship Release", CardOptions{})
	b := f.svc.CreateCard("todo", "Fix bug #release", CardOptions{})
	f.svc.CreateCard("todo", "Unrelated", CardOptions{})

	got := f.svc.FilterCards("RELEASE", "")

	assert.Equal(t, []string{a.ID, b.ID}, ids(got))
}

func TestFilterCardsComposesQueryAndAssignee(t *testing.T) {
	f := newFixture(t)
	match := f.svc.CreateCard("todo", "Deploy api", CardOptions{AssigneeID: "arta"})
	f.svc.CreateCard("todo", "Deploy web", CardOptions{AssigneeID: "tomaz"})
	f.svc.CreateCard("todo", "Write docs", CardOptions{AssigneeID: "arta"})

	got := f.svc.FilterCards("deploy", "arta")

	assert.Equal(t, []string{match.ID}, ids(got))
}

func TestGroupByColumnPreservesGlobalOrder(t *testing.T) {
	f := newFixture(t)
	a := f.svc.CreateCard("todo", "a", CardOptions{})
	b := f.svc.CreateCard("done", "b", CardOptions{})
	c := f.svc.CreateCard("todo", "c", CardOptions{})

	_, cards := f.svc.State()
	groups := f.svc.GroupByColumn(cards)

	assert.Equal(t, []string{a.ID, c.ID}, ids(groups["todo"]))
	assert.Equal(t, []string{b.ID}, ids(groups["done"]))
}

func TestOverdueCountIgnoresDoneColumn(t *testing.T) {
	f := newFixture(t)
	past := time.Now().AddDate(0, 0, -3).UnixMilli()
	future := time.Now().AddDate(0, 0, 3).UnixMilli()

	f.svc.CreateCard("todo", "late", CardOptions{DueDate: past})
	f.svc.CreateCard("done", "late but done", CardOptions{DueDate: past})
	f.svc.CreateCard("todo", "on time", CardOptions{DueDate: future})
	f.svc.CreateCard("todo", "no due date", CardOptions{})

	assert.Equal(t, 1, f.svc.OverdueCount())
}

func TestCountOverdueIsDerivedFromGivenSnapshot(t *testing.T) {
	f := newFixture(t)
	past := time.Now().AddDate(0, 0, -1).UnixMilli()

	f.svc.CreateCard("todo", "late", CardOptions{DueDate: past})
	_, snapshot := f.svc.State()

	// Mutations after the snapshot was taken must not change the count
	// computed from it.
	f.svc.CreateCard("todo", "also late", CardOptions{DueDate: past})

	assert.Equal(t, 1, CountOverdue(snapshot))
	assert.Equal(t, 2, f.svc.OverdueCount())
}

func TestApplyCardsReplacesWithoutRePersisting(t *testing.T) {
	f := newFixture(t)
	f.svc.CreateCard("todo", "local", CardOptions{})
	*f.ops = (*f.ops)[:0]

	foreign := []*Card{card("remote", "done")}
	f.svc.ApplyCards(foreign)

	_, cards := f.svc.State()
	assert.Equal(t, []string{"remote"}, ids(cards))
	assert.Empty(t, *f.ops, "a foreign snapshot must not be echoed back")
}

func TestApplyCardsForwardsToLocalBus(t *testing.T) {
	f := newFixture(t)

	var seen []utils.Event
	f.bus.Subscribe(EventCardsUpdated, func(e utils.Event) {
		seen = append(seen, e)
	})

	f.svc.ApplyCards([]*Card{card("remote", "todo")})

	require.Len(t, seen, 1)
	assert.Equal(t, EventCardsUpdated, seen[0].Event)
}

func TestApplyColumnsIsIdempotent(t *testing.T) {
	f := newFixture(t)

	foreign := DefaultColumns()[:2]
	f.svc.ApplyColumns(foreign)
	f.svc.ApplyColumns(foreign)

	columns, _ := f.svc.State()
	assert.Equal(t, []string{"todo", "progress"}, columnIDs(columns))
}

func TestServiceReloadsPersistedState(t *testing.T) {
	f := newFixture(t)
	f.svc.AddColumn("Backlog")
	created := f.svc.CreateCard("backlog", "persisted", CardOptions{})

	// A second controller over the same store must see the same snapshot.
	svc2 := NewService(f.repo, utils.NewEventBus(), nil, zap.NewNop())
	columns, cards := svc2.State()

	assert.Len(t, columns, 5)
	require.Len(t, cards, 1)
	assert.Equal(t, created, cards[0])
}
