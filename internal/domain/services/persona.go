package services

import (
	"math/rand"
	"sync"
	"time"

	"scambait-lab/internal/config"
	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// defaultTraits shape the victim persona the response generator plays
var defaultTraits = []string{
	"trusting", "technologically naive", "polite", "slow to act",
}

// PersonaEngine tracks the turn-indexed emotional state of the synthetic
// victim per conversation and decides when the persona should slip in an
// extraction question. Randomness is injected so tests can force outcomes.
type PersonaEngine struct {
	mu       sync.Mutex
	personas map[string]*models.Persona

	cfg    config.PersonaConfig
	rng    *rand.Rand
	logger *logger.Logger
}

// NewPersonaEngine creates a persona engine. rng may be nil, in which case a
// time-seeded source is used.
func NewPersonaEngine(cfg config.PersonaConfig, rng *rand.Rand, log *logger.Logger) *PersonaEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PersonaEngine{
		personas: make(map[string]*models.Persona),
		cfg:      cfg,
		rng:      rng,
		logger:   log.WithComponent("persona"),
	}
}

// Update advances the conversation's persona by one turn and returns it
func (e *PersonaEngine) Update(conversationID string, cls models.Classification, extractedCount int) *models.Persona {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.personas[conversationID]
	if !ok {
		p = &models.Persona{
			ConversationID: conversationID,
			EmotionalState: models.EmotionCalm,
			Traits:         defaultTraits,
		}
		e.personas[conversationID] = p
	}

	p.EngagementTurn++
	p.ExtractedInfoCount = extractedCount
	p.EmotionalState = nextEmotion(cls)
	return p
}

// nextEmotion maps the classifier signal onto the persona's emotional state
func nextEmotion(cls models.Classification) models.EmotionalState {
	switch cls.ScamType {
	case models.ScamTypeUnknown, "":
		if cls.Confidence >= 0.9 {
			return models.EmotionAnxious
		}
		return models.EmotionCalm
	case models.ScamTypeBanking, models.ScamTypeInvestment, models.ScamTypeTaxRefund:
		if cls.Confidence >= 0.8 {
			return models.EmotionPanicked
		}
		return models.EmotionAnxious
	case models.ScamTypeLottery, models.ScamTypePrizeWinning:
		return models.EmotionRelieved
	case models.ScamTypePhishing, models.ScamTypeImpersonation:
		return models.EmotionAnxious
	default:
		if cls.Confidence >= 0.8 {
			return models.EmotionAnxious
		}
		return models.EmotionCalm
	}
}

// ShouldAskQuestion decides whether the persona works an extraction question
// into this turn. The probability rises with turn number and falls with how
// much has already been extracted. A tuning knob, not a hard gate.
func (e *PersonaEngine) ShouldAskQuestion(p *models.Persona) bool {
	prob := e.QuestionProbability(p)

	e.mu.Lock()
	roll := e.rng.Float64()
	e.mu.Unlock()

	return roll < prob
}

// QuestionProbability exposes the cadence curve for inspection and tests
func (e *PersonaEngine) QuestionProbability(p *models.Persona) float64 {
	prob := e.cfg.QuestionBaseProbability +
		float64(p.EngagementTurn)*e.cfg.QuestionTurnIncrement -
		float64(p.ExtractedInfoCount)*e.cfg.QuestionExtractedDecrement

	if prob > e.cfg.QuestionMaxProbability {
		prob = e.cfg.QuestionMaxProbability
	}
	if prob < 0 {
		prob = 0
	}
	return prob
}

// Get returns the persona for a conversation, or nil
func (e *PersonaEngine) Get(conversationID string) *models.Persona {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.personas[conversationID]
}

// End destroys the persona when the conversation ends
func (e *PersonaEngine) End(conversationID string) {
	e.mu.Lock()
	delete(e.personas, conversationID)
	e.mu.Unlock()
}
