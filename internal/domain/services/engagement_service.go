package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// ReportRepository archives finalized session reports. Optional.
type ReportRepository interface {
	SaveReport(ctx context.Context, report *models.SessionReport) error
}

// EventPublisher streams capture events to downstream consumers. Optional.
type EventPublisher interface {
	PublishIntelCaptured(ctx context.Context, sessionID string, record models.IntelRecord) error
	PublishSessionClosed(ctx context.Context, report *models.SessionReport) error
}

// EngagementService wires the per-turn pipeline: extract and merge, accumulate,
// decide, update the persona, and emit directives for the response generator.
type EngagementService struct {
	extractor   *Extractor
	accumulator *Accumulator
	policy      *EngagementPolicy
	personas    *PersonaEngine
	identities  *IdentityGenerator
	reports     ReportRepository
	events      EventPublisher

	mu      sync.Mutex
	runtime map[string]*sessionRuntime

	logger *logger.Logger
}

// sessionRuntime is per-session turn bookkeeping the policy state is derived
// from. Never persisted.
type sessionRuntime struct {
	startTime         time.Time
	turnCount         int
	turnsSinceNewInfo int
	urlPending        bool
	urlGraceUsed      int
	lastScamType      models.ScamType
	lastExitReason    models.ExitReason
}

// NewEngagementService creates the engagement core. reports and events may be nil.
func NewEngagementService(
	extractor *Extractor,
	accumulator *Accumulator,
	policy *EngagementPolicy,
	personas *PersonaEngine,
	identities *IdentityGenerator,
	reports ReportRepository,
	events EventPublisher,
	log *logger.Logger,
) *EngagementService {
	return &EngagementService{
		extractor:   extractor,
		accumulator: accumulator,
		policy:      policy,
		personas:    personas,
		identities:  identities,
		reports:     reports,
		events:      events,
		runtime:     make(map[string]*sessionRuntime),
		logger:      log.WithComponent("engagement"),
	}
}

// ProcessTurn handles one inbound scammer message and returns the directives
// for the response generator. Never fails the turn for store or stream faults;
// the worst outcome is a turn with less intelligence captured than ideal.
func (s *EngagementService) ProcessTurn(ctx context.Context, req models.TurnRequest) (*models.TurnDirectives, error) {
	if req.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	rt := s.ensureRuntime(req.SessionID)

	s.mu.Lock()
	rt.turnCount++
	rt.lastScamType = req.Classification.ScamType
	turnCount := rt.turnCount
	s.mu.Unlock()

	// Extraction pipeline
	records := s.extractor.ExtractAndMerge(req.Message, req.ExternalCandidates)
	snapshot, added := s.accumulator.Accumulate(ctx, req.SessionID, records)

	s.mu.Lock()
	if len(added) > 0 {
		rt.turnsSinceNewInfo = 0
	} else {
		rt.turnsSinceNewInfo++
	}
	s.trackURLLocked(rt, req.Message, added)

	state := models.EngagementState{
		Mode:              s.policy.Mode(req.Classification.Confidence),
		TurnCount:         turnCount,
		Duration:          time.Since(rt.startTime),
		IntelComplete:     s.policy.IntelligenceComplete(snapshot),
		ScammerSuspicious: req.ScammerSuspicious,
		TurnsSinceNewInfo: rt.turnsSinceNewInfo,
		HasUnextractedURL: rt.urlPending,
		URLGraceUsed:      rt.urlGraceUsed,
	}

	decision := s.policy.Decide(state)
	if decision.GraceApplied {
		rt.urlGraceUsed++
	}
	rt.lastExitReason = decision.ExitReason
	s.mu.Unlock()

	persona := s.personas.Update(req.SessionID, req.Classification, snapshot.TotalValues())
	askQuestion := decision.Continue && s.personas.ShouldAskQuestion(persona)
	missing := s.policy.MissingIntelligence(snapshot)

	directives := &models.TurnDirectives{
		SessionID:       req.SessionID,
		Continue:        decision.Continue,
		Mode:            state.Mode,
		EmotionalState:  persona.EmotionalState,
		AskQuestion:     askQuestion,
		MissingIntel:    missing,
		ExtractedIntel:  snapshot.Intel,
		NewRecords:      added,
		TurnCount:       turnCount,
		DurationSeconds: state.Duration.Seconds(),
	}
	if !decision.Continue {
		directives.ExitReason = decision.ExitReason
	}

	// The synthetic identity is only handed out once the policy has committed
	// to aggressive engagement.
	if state.Mode == models.EngagementModeAggressive && decision.Continue {
		directives.IdentitySnippet = s.identities.Identity(req.SessionID)
	}

	directives.TurnGuidance = buildGuidance(directives, persona)

	s.publishCaptures(ctx, req.SessionID, added)

	s.logger.Debug().
		Str("session_id", req.SessionID).
		Int("turn", turnCount).
		Str("mode", string(state.Mode)).
		Int("new_records", len(added)).
		Bool("continue", decision.Continue).
		Msg("turn processed")

	return directives, nil
}

// SessionIntel returns the accumulated intelligence for a session
func (s *EngagementService) SessionIntel(ctx context.Context, sessionID string) *models.SessionIntelligence {
	return s.accumulator.Get(ctx, sessionID)
}

// EndSession finalizes a session: archives the report, publishes a closing
// event, and tears down all per-session state. Archive faults are logged and
// do not prevent the report from being returned.
func (s *EngagementService) EndSession(ctx context.Context, sessionID string) *models.SessionReport {
	snapshot := s.accumulator.Get(ctx, sessionID)

	s.mu.Lock()
	rt, ok := s.runtime[sessionID]
	if !ok {
		rt = &sessionRuntime{startTime: snapshot.StartTime}
	}
	report := &models.SessionReport{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		ScamType:   rt.lastScamType,
		StartTime:  rt.startTime,
		EndTime:    time.Now(),
		TurnCount:  rt.turnCount,
		ExitReason: string(rt.lastExitReason),
		Intel:      snapshot.Intel,
	}
	delete(s.runtime, sessionID)
	s.mu.Unlock()

	if s.reports != nil {
		if err := s.reports.SaveReport(ctx, report); err != nil {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to archive session report")
		}
	}
	if s.events != nil {
		if err := s.events.PublishSessionClosed(ctx, report); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to publish session closed event")
		}
	}

	s.accumulator.Evict(sessionID)
	s.personas.End(sessionID)
	s.identities.Evict(sessionID)

	s.logger.Info().
		Str("session_id", sessionID).
		Int("turns", report.TurnCount).
		Int("intel_values", len(report.Intel)).
		Msg("session ended")

	return report
}

func (s *EngagementService) ensureRuntime(sessionID string) *sessionRuntime {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.runtime[sessionID]
	if !ok {
		rt = &sessionRuntime{startTime: time.Now()}
		s.runtime[sessionID] = rt
	}
	return rt
}

// trackURLLocked maintains the unresolved-URL signal. A turn that captures a
// URL clears it; a turn that mentions a link the validator could not accept
// arms it. Caller holds s.mu.
func (s *EngagementService) trackURLLocked(rt *sessionRuntime, message string, added []models.IntelRecord) {
	for _, rec := range added {
		if rec.Type == models.IntelTypeURL {
			// Suspicious links are prioritized: keep pressing until the
			// grace window is spent so context around them gets captured.
			if s.extractor.Validator().IsSuspiciousURL(rec.Value) {
				rt.urlPending = true
				return
			}
			rt.urlPending = false
			rt.urlGraceUsed = 0
			return
		}
	}

	lowered := strings.ToLower(message)
	if strings.Contains(lowered, "http://") || strings.Contains(lowered, "https://") ||
		strings.Contains(lowered, "link") || strings.Contains(lowered, "click") {
		rt.urlPending = true
	}
}

// publishCaptures streams newly captured records. Failures are logged and swallowed.
func (s *EngagementService) publishCaptures(ctx context.Context, sessionID string, added []models.IntelRecord) {
	if s.events == nil {
		return
	}
	for _, rec := range added {
		if err := s.events.PublishIntelCaptured(ctx, sessionID, rec); err != nil {
			s.logger.Warn().Err(err).
				Str("session_id", sessionID).
				Str("intel_type", string(rec.Type)).
				Msg("failed to publish capture event")
		}
	}
}

// buildGuidance composes the free-text hint handed to the response generator
func buildGuidance(d *models.TurnDirectives, persona *models.Persona) string {
	var b strings.Builder

	switch persona.EmotionalState {
	case models.EmotionPanicked:
		b.WriteString("React with visible panic about the account. ")
	case models.EmotionAnxious:
		b.WriteString("Sound worried and eager to fix the problem. ")
	case models.EmotionRelieved:
		b.WriteString("Sound delighted about the good news. ")
	case models.EmotionSuspicious:
		b.WriteString("Hesitate a little before complying. ")
	default:
		b.WriteString("Stay friendly and a bit confused. ")
	}

	if !d.Continue {
		b.WriteString("Wind the conversation down naturally.")
		return b.String()
	}

	if d.AskQuestion && len(d.MissingIntel) > 0 {
		names := make([]string, len(d.MissingIntel))
		for i, t := range d.MissingIntel {
			names[i] = strings.ReplaceAll(string(t), "_", " ")
		}
		fmt.Fprintf(&b, "Work in a question that could surface their %s.", strings.Join(names, " or "))
	} else {
		b.WriteString("Keep them talking without pressing for details.")
	}

	return b.String()
}
