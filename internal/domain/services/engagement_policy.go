package services

import (
	"scambait-lab/internal/config"
	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// EngagementPolicy decides, turn by turn, how aggressively to keep a scammer
// talking and when to stop. Pure decision functions over the engagement state;
// nothing here holds per-session data.
type EngagementPolicy struct {
	cfg    config.EngagementConfig
	logger *logger.Logger
}

// Decision is the policy's verdict for one turn
type Decision struct {
	Continue     bool
	ExitReason   models.ExitReason
	GraceApplied bool
}

// NewEngagementPolicy creates a policy with the configured thresholds
func NewEngagementPolicy(cfg config.EngagementConfig, log *logger.Logger) *EngagementPolicy {
	return &EngagementPolicy{
		cfg:    cfg,
		logger: log.WithComponent("engagement-policy"),
	}
}

// Mode selects the engagement mode from the classifier confidence alone
func (p *EngagementPolicy) Mode(confidence float64) models.EngagementMode {
	switch {
	case confidence >= p.cfg.AggressiveThreshold:
		return models.EngagementModeAggressive
	case confidence >= p.cfg.CautiousThreshold:
		return models.EngagementModeCautious
	default:
		return models.EngagementModeNone
	}
}

// maxTurns returns the turn ceiling for a mode
func (p *EngagementPolicy) maxTurns(mode models.EngagementMode) int {
	switch mode {
	case models.EngagementModeAggressive:
		return p.cfg.AggressiveMaxTurns
	case models.EngagementModeCautious:
		return p.cfg.CautiousMaxTurns
	default:
		return 0
	}
}

// ExitReason returns the first matching stop condition in priority order,
// or ExitReasonNone when engagement should continue.
func (p *EngagementPolicy) ExitReason(state models.EngagementState) models.ExitReason {
	if state.TurnCount >= p.maxTurns(state.Mode) {
		return models.ExitReasonTurnLimit
	}
	if p.cfg.MaxDuration > 0 && state.Duration >= p.cfg.MaxDuration {
		return models.ExitReasonDurationExceeded
	}
	if state.IntelComplete {
		return models.ExitReasonIntelComplete
	}
	if state.ScammerSuspicious {
		return models.ExitReasonScammerSuspicious
	}
	if state.TurnsSinceNewInfo >= p.cfg.StaleTurnLimit {
		return models.ExitReasonConversationStale
	}
	return models.ExitReasonNone
}

// Decide evaluates the continuation predicate. An unresolved URL forces
// continuation for up to URLGraceTurns past whatever the other conditions
// would allow, so the extractor gets a chance to capture it.
func (p *EngagementPolicy) Decide(state models.EngagementState) Decision {
	reason := p.ExitReason(state)
	if reason == models.ExitReasonNone {
		return Decision{Continue: true}
	}
	if state.HasUnextractedURL && state.URLGraceUsed < p.cfg.URLGraceTurns {
		return Decision{Continue: true, ExitReason: reason, GraceApplied: true}
	}
	return Decision{Continue: false, ExitReason: reason}
}

// ShouldContinue is the bare continuation predicate
func (p *EngagementPolicy) ShouldContinue(state models.EngagementState) bool {
	return p.Decide(state).Continue
}

// IntelligenceComplete reports whether the high-value combination has been
// captured: a payment destination (bank account or payment alias), a phone
// number, and a beneficiary name. The name is mandatory because without it
// the payment destination cannot be attributed to a person.
func (p *EngagementPolicy) IntelligenceComplete(intel *models.SessionIntelligence) bool {
	if intel == nil {
		return false
	}
	hasDestination := intel.Has(models.IntelTypeBankAccount) || intel.Has(models.IntelTypeUPIID)
	return hasDestination && intel.Has(models.IntelTypePhoneNumber) && intel.Has(models.IntelTypeBeneficiaryName)
}

// MissingIntelligence returns the ordered complement of the completeness
// test, used to drive extraction directives.
func (p *EngagementPolicy) MissingIntelligence(intel *models.SessionIntelligence) []models.IntelType {
	missing := make([]models.IntelType, 0, 4)
	if intel == nil {
		return []models.IntelType{
			models.IntelTypeBankAccount,
			models.IntelTypeUPIID,
			models.IntelTypePhoneNumber,
			models.IntelTypeBeneficiaryName,
		}
	}
	if !intel.Has(models.IntelTypeBankAccount) && !intel.Has(models.IntelTypeUPIID) {
		missing = append(missing, models.IntelTypeBankAccount, models.IntelTypeUPIID)
	}
	if !intel.Has(models.IntelTypePhoneNumber) {
		missing = append(missing, models.IntelTypePhoneNumber)
	}
	if !intel.Has(models.IntelTypeBeneficiaryName) {
		missing = append(missing, models.IntelTypeBeneficiaryName)
	}
	return missing
}
