package models

import (
	"time"
)

// ScamType represents the classified type of scam being run against the honeypot
type ScamType string

const (
	ScamTypeBanking       ScamType = "banking"
	ScamTypeInvestment    ScamType = "investment"
	ScamTypeTaxRefund     ScamType = "tax_refund"
	ScamTypeLottery       ScamType = "lottery"
	ScamTypePrizeWinning  ScamType = "prize_winning"
	ScamTypePhishing      ScamType = "phishing"
	ScamTypeImpersonation ScamType = "impersonation"
	ScamTypeTechSupport   ScamType = "tech_support"
	ScamTypeJobOffer      ScamType = "job_offer"
	ScamTypeUnknown       ScamType = "unknown"
)

// Classification is the per-turn verdict consumed from the upstream classifier.
// Confidence smoothing (never-decreases) is the caller's responsibility.
type Classification struct {
	IsScam     bool     `json:"is_scam"`
	Confidence float64  `json:"confidence"`
	ScamType   ScamType `json:"scam_type,omitempty"`
}

// EngagementMode controls how aggressively the honeypot keeps the scammer talking
type EngagementMode string

const (
	EngagementModeNone       EngagementMode = "none"
	EngagementModeCautious   EngagementMode = "cautious"
	EngagementModeAggressive EngagementMode = "aggressive"
)

// ExitReason explains why the policy decided to stop engaging
type ExitReason string

const (
	ExitReasonNone              ExitReason = ""
	ExitReasonTurnLimit         ExitReason = "turn_limit_reached"
	ExitReasonDurationExceeded  ExitReason = "duration_exceeded"
	ExitReasonIntelComplete     ExitReason = "intelligence_extraction_complete"
	ExitReasonScammerSuspicious ExitReason = "scammer_suspicious"
	ExitReasonConversationStale ExitReason = "conversation_stale"
)

// EngagementState is recomputed fresh every turn from the accumulator plus
// caller-supplied signals. It is never persisted.
type EngagementState struct {
	Mode              EngagementMode `json:"mode"`
	TurnCount         int            `json:"turn_count"`
	Duration          time.Duration  `json:"duration"`
	IntelComplete     bool           `json:"intel_complete"`
	ScammerSuspicious bool           `json:"scammer_suspicious"`
	TurnsSinceNewInfo int            `json:"turns_since_new_info"`
	HasUnextractedURL bool           `json:"has_unextracted_url"`
	URLGraceUsed      int            `json:"url_grace_used"`
}

// TurnRequest carries one inbound scammer turn through the engagement core
type TurnRequest struct {
	SessionID          string              `json:"session_id"`
	Message            string              `json:"message"`
	ExternalCandidates []ExternalCandidate `json:"external_candidates,omitempty"`
	Classification     Classification      `json:"classification"`
	ScammerSuspicious  bool                `json:"scammer_suspicious,omitempty"`
}

// TurnDirectives is everything the response generator needs for the next reply
type TurnDirectives struct {
	SessionID        string                 `json:"session_id"`
	Continue         bool                   `json:"continue"`
	ExitReason       ExitReason             `json:"exit_reason,omitempty"`
	Mode             EngagementMode         `json:"mode"`
	EmotionalState   EmotionalState         `json:"emotional_state"`
	AskQuestion      bool                   `json:"ask_question"`
	MissingIntel     []IntelType            `json:"missing_intel"`
	ExtractedIntel   map[IntelType][]string `json:"extracted_intel"`
	NewRecords       []IntelRecord          `json:"new_records,omitempty"`
	IdentitySnippet  *FakeIdentity          `json:"identity_snippet,omitempty"`
	TurnGuidance     string                 `json:"turn_guidance,omitempty"`
	TurnCount        int                    `json:"turn_count"`
	DurationSeconds  float64                `json:"duration_seconds"`
}
