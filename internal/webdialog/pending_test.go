package webdialog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanloop/hitl-mcp/internal/prompt"
)

func TestResolveDeliversResponse(t *testing.T) {
	p := NewPendingInteractions()
	inter := p.Add(&prompt.Request{ID: "a", Kind: prompt.KindText, Prompt: "name?"})

	ok := p.Resolve("a", &prompt.Response{Raw: "Alice", Action: prompt.ActionAccepted})
	require.True(t, ok)

	resp := inter.Await(context.Background())
	assert.Equal(t, "Alice", resp.Raw)
	assert.Equal(t, prompt.ActionAccepted, resp.Action)
	assert.Equal(t, 0, p.Len())
}

func TestResolveOnlyOnce(t *testing.T) {
	p := NewPendingInteractions()
	p.Add(&prompt.Request{ID: "a", Kind: prompt.KindText})

	assert.True(t, p.Resolve("a", &prompt.Response{Raw: "first", Action: prompt.ActionAccepted}))
	// A duplicate response from another tab is dropped.
	assert.False(t, p.Resolve("a", &prompt.Response{Raw: "second", Action: prompt.ActionAccepted}))
}

func TestResolveUnknownID(t *testing.T) {
	p := NewPendingInteractions()
	assert.False(t, p.Resolve("ghost", &prompt.Response{Action: prompt.ActionAccepted}))
}

func TestAwaitTimesOut(t *testing.T) {
	p := NewPendingInteractions()
	inter := p.Add(&prompt.Request{ID: "a", Kind: prompt.KindText})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	resp := inter.Await(ctx)
	assert.Equal(t, prompt.ActionTimedOut, resp.Action)
}

func TestLateResponseAfterRemove(t *testing.T) {
	p := NewPendingInteractions()
	p.Add(&prompt.Request{ID: "a", Kind: prompt.KindText})
	p.Remove("a")

	assert.False(t, p.Resolve("a", &prompt.Response{Action: prompt.ActionAccepted}))
	assert.Equal(t, 0, p.Len())
}

func TestSnapshotPreservesCreationOrder(t *testing.T) {
	p := NewPendingInteractions()
	p.Add(&prompt.Request{ID: "first", Kind: prompt.KindText})
	time.Sleep(2 * time.Millisecond)
	p.Add(&prompt.Request{ID: "second", Kind: prompt.KindChoice})
	time.Sleep(2 * time.Millisecond)
	p.Add(&prompt.Request{ID: "third", Kind: prompt.KindInfo})

	snap := p.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "first", snap[0].ID)
	assert.Equal(t, "second", snap[1].ID)
	assert.Equal(t, "third", snap[2].ID)
}

func TestParseResponse(t *testing.T) {
	msg, err := NewMessage(MsgResponse, ResponseData{ID: "x", Raw: "42"})
	require.NoError(t, err)

	data, err := ParseResponse(msg)
	require.NoError(t, err)
	assert.Equal(t, "x", data.ID)
	assert.Equal(t, "42", data.Raw)
	// Action defaults to accepted when the page omits it.
	assert.Equal(t, prompt.ActionAccepted, data.Action)

	bad, err := NewMessage(MsgResponse, ResponseData{Raw: "no id"})
	require.NoError(t, err)
	_, err = ParseResponse(bad)
	assert.Error(t, err)

	wrongType, err := PromptMessage(&prompt.Request{ID: "x"})
	require.NoError(t, err)
	_, err = ParseResponse(wrongType)
	assert.Error(t, err)
}
