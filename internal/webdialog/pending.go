package webdialog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/humanloop/hitl-mcp/internal/prompt"
)

// Interaction is one prompt awaiting a human response from the page.
type Interaction struct {
	ID        string
	Request   *prompt.Request
	CreatedAt time.Time

	resp chan *prompt.Response
}

// Await blocks until the interaction resolves or the context expires.
// Context expiry yields a timed-out response.
func (i *Interaction) Await(ctx context.Context) *prompt.Response {
	select {
	case resp := <-i.resp:
		return resp
	case <-ctx.Done():
		return &prompt.Response{Action: prompt.ActionTimedOut}
	}
}

// PendingInteractions tracks prompts that have been pushed to the page but
// not yet answered. Each interaction resolves at most once; late or duplicate
// responses are dropped.
type PendingInteractions struct {
	interactions map[string]*Interaction
	mu           sync.Mutex
}

// NewPendingInteractions creates an empty pending set.
func NewPendingInteractions() *PendingInteractions {
	return &PendingInteractions{
		interactions: make(map[string]*Interaction),
	}
}

// Add registers a prompt request and returns its interaction.
func (p *PendingInteractions) Add(req *prompt.Request) *Interaction {
	inter := &Interaction{
		ID:        req.ID,
		Request:   req,
		CreatedAt: time.Now(),
		resp:      make(chan *prompt.Response, 1),
	}

	p.mu.Lock()
	p.interactions[req.ID] = inter
	p.mu.Unlock()
	return inter
}

// Resolve delivers a response to a pending interaction and removes it.
// Returns false when the ID is unknown or already resolved.
func (p *PendingInteractions) Resolve(id string, resp *prompt.Response) bool {
	p.mu.Lock()
	inter, ok := p.interactions[id]
	if ok {
		delete(p.interactions, id)
	}
	p.mu.Unlock()

	if !ok {
		return false
	}
	inter.resp <- resp
	return true
}

// Remove drops an interaction without resolving it. Used after Await returns
// so a late response cannot land on an abandoned channel.
func (p *PendingInteractions) Remove(id string) {
	p.mu.Lock()
	delete(p.interactions, id)
	p.mu.Unlock()
}

// Snapshot returns the pending prompt requests in creation order, so a newly
// connected page can render everything still waiting for an answer.
func (p *PendingInteractions) Snapshot() []*prompt.Request {
	p.mu.Lock()
	pending := make([]*Interaction, 0, len(p.interactions))
	for _, inter := range p.interactions {
		pending = append(pending, inter)
	}
	p.mu.Unlock()

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	requests := make([]*prompt.Request, len(pending))
	for i, inter := range pending {
		requests[i] = inter.Request
	}
	return requests
}

// Len returns the number of pending interactions.
func (p *PendingInteractions) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.interactions)
}
