package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/salesdesk/internal/client/client"
)

var (
	// ErrStaleResult means a newer fetch for the same view was issued, or
	// the current project changed, while this one was in flight. The
	// result must not be shown.
	ErrStaleResult = errors.New("stale result")
	// ErrNoProject means a project-scoped fetch was attempted with no
	// current project.
	ErrNoProject = errors.New("no project selected")
	// ErrProjectGone means the backend no longer knows the current
	// project. The user should pick another one.
	ErrProjectGone = errors.New("current project is no longer available")
)

// CurrentProjectID reports the id of the current project, "" when none.
type CurrentProjectID func() string

// ScopeTracker tags project-scoped fetches so that only the latest fetch
// for a key, issued for the still-current project, is applied.
type ScopeTracker struct {
	current CurrentProjectID

	mu   sync.Mutex
	seqs map[string]uint64
}

// Ticket identifies one issued fetch.
type Ticket struct {
	Key       string
	ProjectID string
	seq       uint64
}

func NewScopeTracker(current CurrentProjectID) *ScopeTracker {
	return &ScopeTracker{current: current, seqs: make(map[string]uint64)}
}

// Issue starts a fetch for key, tagged with the current project.
func (t *ScopeTracker) Issue(key string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seqs[key]++
	return Ticket{Key: key, ProjectID: t.current(), seq: t.seqs[key]}
}

// Valid reports whether a result for tk may still be applied.
func (t *ScopeTracker) Valid(tk Ticket) bool {
	t.mu.Lock()
	latest := t.seqs[tk.Key] == tk.seq
	t.mu.Unlock()
	return latest && t.current() == tk.ProjectID
}

// ScopedFetch runs fetch for the current project and returns its result
// only if it is still wanted when it arrives. A not-found from the backend
// becomes ErrProjectGone.
func ScopedFetch[T any](ctx context.Context, t *ScopeTracker, key string, fetch func(ctx context.Context, projectID string) (T, error)) (T, error) {
	var zero T

	tk := t.Issue(key)
	if tk.ProjectID == "" {
		return zero, ErrNoProject
	}

	res, err := fetch(ctx, tk.ProjectID)
	if !t.Valid(tk) {
		return zero, ErrStaleResult
	}
	if err != nil {
		if client.IsNotFound(err) {
			return zero, ErrProjectGone
		}
		return zero, err
	}
	return res, nil
}
