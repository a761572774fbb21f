package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCardsRejectsCorruptBlobWholesale(t *testing.T) {
	// The second element fails to decode after the first one succeeded;
	// the snapshot is discarded wholesale, never returned half filled.
	blob := `[{"id":"a","columnId":"todo","title":"ok"},{"id":7,"columnId":"todo"}]`

	cards, ok := decodeCards(blob)

	assert.False(t, ok)
	assert.Nil(t, cards)
}

func TestDecodeCardsMalformedBlob(t *testing.T) {
	cards, ok := decodeCards(`{not json`)

	assert.False(t, ok)
	assert.Nil(t, cards)
}

func TestDecodeCardsValidBlob(t *testing.T) {
	cards, ok := decodeCards(`[{"id":"a","columnId":"todo","title":"ok"}]`)

	require.True(t, ok)
	require.Len(t, cards, 1)
	assert.Equal(t, "a", cards[0].ID)
	assert.Equal(t, "todo", cards[0].ColumnID)
}

func TestDecodeCardsNullBlobYieldsEmptySlice(t *testing.T) {
	cards, ok := decodeCards(`null`)

	require.True(t, ok)
	require.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestDecodeColumnsRejectsCorruptBlob(t *testing.T) {
	columns, ok := decodeColumns(`[{"id":"todo","title":"A Fazer","order":"first"}]`)

	assert.False(t, ok)
	assert.Nil(t, columns)
}

func TestDecodeColumnsValidBlob(t *testing.T) {
	columns, ok := decodeColumns(`[{"id":"todo","title":"A Fazer","order":0}]`)

	require.True(t, ok)
	require.Len(t, columns, 1)
	assert.Equal(t, "todo", columns[0].ID)
}
