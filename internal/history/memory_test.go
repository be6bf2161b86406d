package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanloop/hitl-mcp/internal/config"
	"github.com/humanloop/hitl-mcp/internal/prompt"
)

func record(t *testing.T, b Backend, i int) {
	t.Helper()
	err := b.Record(&Interaction{
		ID:        fmt.Sprintf("in-%d", i),
		Tool:      "get_user_input",
		Kind:      prompt.KindText,
		Prompt:    "question",
		Channel:   "native",
		Raw:       "answer",
		Outcome:   "accepted",
		CreatedAt: time.Now().Add(time.Duration(i) * time.Millisecond),
	})
	require.NoError(t, err)
}

func TestMemoryBackendRecordAndRecent(t *testing.T) {
	b := NewMemoryBackend()
	for i := 0; i < 5; i++ {
		record(t, b, i)
	}

	count, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	// Newest first, limited.
	recent, err := b.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "in-4", recent[0].ID)
	assert.Equal(t, "in-3", recent[1].ID)

	// Zero limit returns everything.
	all, err := b.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestMemoryBackendClear(t *testing.T) {
	b := NewMemoryBackend()
	record(t, b, 0)
	require.NoError(t, b.Clear())

	count, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestOpenSelectsBackend(t *testing.T) {
	b, err := Open(&config.HistoryConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)
	b.Close()

	_, err = Open(&config.HistoryConfig{Type: "flatfile"})
	assert.Error(t, err)
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	path := t.TempDir() + "/history.db"
	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer b.Close()

	for i := 0; i < 3; i++ {
		record(t, b, i)
	}

	count, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	recent, err := b.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "in-2", recent[0].ID)
	assert.Equal(t, prompt.KindText, recent[0].Kind)
	assert.Equal(t, "accepted", recent[0].Outcome)

	require.NoError(t, b.Clear())
	count, err = b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
