package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// SessionStore is the optional durable mirror for session intelligence.
// Implementations return (nil, nil) from LoadSession when no document exists.
type SessionStore interface {
	LoadSession(ctx context.Context, sessionID string) (*models.SessionIntelligence, error)
	SaveSession(ctx context.Context, doc *models.SessionIntelligence) error
}

// Accumulator owns the per-session intelligence unions. Values are only ever
// added for the life of a session. The in-memory state is authoritative; the
// store mirror is best-effort and never on the turn's critical path.
type Accumulator struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry

	store        SessionStore
	storeTimeout time.Duration
	logger       *logger.Logger
}

type sessionEntry struct {
	mu        sync.Mutex
	startTime time.Time
	intel     map[models.IntelType]map[string]struct{}
	loaded    bool
}

// NewAccumulator creates an accumulator. store may be nil for memory-only operation.
func NewAccumulator(store SessionStore, log *logger.Logger) *Accumulator {
	return &Accumulator{
		sessions:     make(map[string]*sessionEntry),
		store:        store,
		storeTimeout: 2 * time.Second,
		logger:       log.WithComponent("accumulator"),
	}
}

// entry returns the session entry, creating it on first reference
func (a *Accumulator) entry(sessionID string) *sessionEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.sessions[sessionID]
	if !ok {
		e = &sessionEntry{
			startTime: time.Now(),
			intel:     make(map[models.IntelType]map[string]struct{}),
		}
		a.sessions[sessionID] = e
	}
	return e
}

// hydrate attempts a single best-effort load from the durable store on first
// reference. Failure means the session starts empty; it is never surfaced.
func (a *Accumulator) hydrate(ctx context.Context, sessionID string, e *sessionEntry) {
	if e.loaded {
		return
	}
	e.loaded = true
	if a.store == nil {
		return
	}

	loadCtx, cancel := context.WithTimeout(ctx, a.storeTimeout)
	defer cancel()

	doc, err := a.store.LoadSession(loadCtx, sessionID)
	if err != nil {
		a.logger.Warn().Err(err).Str("session_id", sessionID).
			Msg("session store load failed, proceeding memory-only")
		return
	}
	if doc == nil {
		return
	}

	if !doc.StartTime.IsZero() {
		e.startTime = doc.StartTime
	}
	for intelType, values := range doc.Intel {
		set, ok := e.intel[intelType]
		if !ok {
			set = make(map[string]struct{})
			e.intel[intelType] = set
		}
		for _, v := range values {
			set[v] = struct{}{}
		}
	}
	a.logger.Debug().Str("session_id", sessionID).Msg("session intelligence restored from store")
}

// Accumulate merges the turn's validated records into the session union and
// returns the full accumulated state plus the records that were actually new.
// Re-delivery of the same record is absorbed by union semantics.
func (a *Accumulator) Accumulate(ctx context.Context, sessionID string, records []models.IntelRecord) (*models.SessionIntelligence, []models.IntelRecord) {
	e := a.entry(sessionID)

	e.mu.Lock()
	a.hydrate(ctx, sessionID, e)

	var added []models.IntelRecord
	for _, rec := range records {
		set, ok := e.intel[rec.Type]
		if !ok {
			set = make(map[string]struct{})
			e.intel[rec.Type] = set
		}
		if _, dup := set[rec.Value]; !dup {
			set[rec.Value] = struct{}{}
			added = append(added, rec)
		}
	}
	snapshot := e.snapshotLocked(sessionID)
	e.mu.Unlock()

	if len(added) > 0 {
		a.mirror(snapshot)
	}
	return snapshot, added
}

// Get returns the current accumulated state for a session, hydrating from the
// store on first reference.
func (a *Accumulator) Get(ctx context.Context, sessionID string) *models.SessionIntelligence {
	e := a.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	a.hydrate(ctx, sessionID, e)
	return e.snapshotLocked(sessionID)
}

// Evict drops a session's in-memory state. The durable mirror, if any, survives.
func (a *Accumulator) Evict(sessionID string) {
	a.mu.Lock()
	delete(a.sessions, sessionID)
	a.mu.Unlock()
}

// mirror fires a best-effort write to the durable store off the critical path
func (a *Accumulator) mirror(snapshot *models.SessionIntelligence) {
	if a.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.storeTimeout)
		defer cancel()
		if err := a.store.SaveSession(ctx, snapshot); err != nil {
			a.logger.Warn().Err(err).Str("session_id", snapshot.SessionID).
				Msg("session store mirror write failed")
		}
	}()
}

// snapshotLocked renders the union as sorted lists per type. Caller holds e.mu.
func (e *sessionEntry) snapshotLocked(sessionID string) *models.SessionIntelligence {
	intel := make(map[models.IntelType][]string, len(e.intel))
	for intelType, set := range e.intel {
		values := make([]string, 0, len(set))
		for v := range set {
			values = append(values, v)
		}
		sort.Strings(values)
		intel[intelType] = values
	}
	return &models.SessionIntelligence{
		SessionID: sessionID,
		StartTime: e.startTime,
		Intel:     intel,
		UpdatedAt: time.Now(),
	}
}
