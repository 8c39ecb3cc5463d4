package directory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/newtelco/dashboard/internal/identity"
)

// Reauthenticator starts an external sign-in flow after a failed fetch.
type Reauthenticator interface {
	Reauthenticate(ctx context.Context) error
}

// Request is a fetch issued for one identity generation.
type Request struct {
	Generation uint64
	Identity   *identity.Identity
}

// Result is the outcome of Load, tagged with the generation it was issued for.
type Result struct {
	Generation uint64
	Records    []ContactRecord
	Err        error
}

// State owns the directory lifecycle and is the only writer of the canonical and
// visible lists. It is driven from a single event loop and is not safe for
// concurrent use; only Load may run elsewhere.
type State struct {
	source Source
	reauth Reauthenticator
	logger *slog.Logger

	generation uint64
	identity   *identity.Identity
	view       View

	listeners    map[int]func(View)
	nextListener int
}

// NewState creates an idle directory state.
func NewState(log *slog.Logger, source Source, reauth Reauthenticator) *State {
	if log == nil {
		log = slog.Default()
	}
	return &State{
		source:    source,
		reauth:    reauth,
		logger:    log.With(slog.String("service", "directory")),
		view:      View{Phase: PhaseIdle},
		listeners: map[int]func(View){},
	}
}

// View returns the current snapshot.
func (s *State) View() View {
	return s.view
}

// Identity returns the identity the state was last reset for.
func (s *State) Identity() *identity.Identity {
	return s.identity
}

// Subscribe registers fn to receive every new snapshot. The returned func removes it.
func (s *State) Subscribe(fn func(View)) func() {
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// SetIdentity resets the view for a mount or identity change. Without an identity
// the view goes straight to login-required and nil is returned; otherwise it goes
// to loading and the returned request must be passed to Load.
func (s *State) SetIdentity(id *identity.Identity) *Request {
	s.generation++
	s.identity = id
	if id == nil {
		s.publish(View{Phase: PhaseLoginRequired})
		return nil
	}
	s.publish(View{Phase: PhaseLoading})
	return &Request{Generation: s.generation, Identity: id}
}

// Load fetches, normalizes and sorts. It reads no mutable state and may run off
// the event loop.
func (s *State) Load(ctx context.Context, req Request) Result {
	res := Result{Generation: req.Generation}
	if s.source == nil {
		res.Err = &TransportError{Message: "directory source not configured"}
		return res
	}
	raw, err := s.source.Fetch(ctx, req.Identity)
	if err != nil {
		res.Err = err
		return res
	}
	records, err := Normalize(raw)
	if err != nil {
		res.Err = err
		return res
	}
	res.Records = Sort(records)
	s.logger.Debug("directory loaded", slog.Int("raw", len(raw)), slog.Int("records", len(res.Records)))
	return res
}

// Apply folds a Load result into the state. Results for an older generation, or
// arriving when no load is pending, are dropped and false is returned.
func (s *State) Apply(ctx context.Context, res Result) bool {
	if res.Generation != s.generation || s.view.Phase != PhaseLoading {
		s.logger.Debug("discarding stale directory result",
			slog.Uint64("result_generation", res.Generation),
			slog.Uint64("current_generation", s.generation))
		return false
	}
	query := s.view.Query
	if res.Err != nil {
		s.fail(ctx, res.Err, query)
		return true
	}
	s.publish(View{
		Phase:     PhaseReady,
		Canonical: res.Records,
		Visible:   Filter(res.Records, query),
		Query:     query,
	})
	return true
}

func (s *State) fail(ctx context.Context, err error, query string) {
	var malformed *MalformedEntryError
	if errors.As(err, &malformed) || !requiresLogin(err) {
		s.logger.Error("directory data rejected", slog.Any("error", err))
		s.publish(View{Phase: PhaseFailed, Query: query, ErrorMessage: err.Error()})
		return
	}
	s.logger.Warn("directory fetch failed", slog.Any("error", err))
	s.publish(View{Phase: PhaseLoginRequired, Query: query, ErrorMessage: err.Error()})
	if s.reauth == nil {
		return
	}
	if rerr := s.reauth.Reauthenticate(ctx); rerr != nil {
		s.logger.Warn("reauthentication failed", slog.Any("error", rerr))
	}
}

// Search recomputes the visible list for query. Outside the ready phase the query
// is kept and applied once data arrives.
func (s *State) Search(query string) {
	next := s.view
	next.Query = query
	if next.Phase == PhaseReady {
		next.Visible = Filter(next.Canonical, query)
	}
	s.publish(next)
}

// Refresh runs SetIdentity, Load and Apply synchronously.
func (s *State) Refresh(ctx context.Context, id *identity.Identity) View {
	req := s.SetIdentity(id)
	if req == nil {
		return s.view
	}
	s.Apply(ctx, s.Load(ctx, *req))
	return s.view
}

func (s *State) publish(v View) {
	s.view = v
	for _, fn := range s.listeners {
		fn(v)
	}
}
