package models

import (
	"time"
)

// IntelType represents the type of intelligence captured from a scammer
type IntelType string

const (
	IntelTypeBankAccount     IntelType = "bank_account"
	IntelTypeUPIID           IntelType = "upi_id"
	IntelTypePhoneNumber     IntelType = "phone_number"
	IntelTypeURL             IntelType = "url"
	IntelTypeEmail           IntelType = "email"
	IntelTypeBeneficiaryName IntelType = "beneficiary_name"
	IntelTypeBankName        IntelType = "bank_name"
	IntelTypeIFSCCode        IntelType = "ifsc_code"
	IntelTypeSecondaryPhone  IntelType = "secondary_phone"
)

// AllIntelTypes lists every intelligence type in reporting order
var AllIntelTypes = []IntelType{
	IntelTypeBankAccount,
	IntelTypeUPIID,
	IntelTypePhoneNumber,
	IntelTypeURL,
	IntelTypeEmail,
	IntelTypeBeneficiaryName,
	IntelTypeBankName,
	IntelTypeIFSCCode,
	IntelTypeSecondaryPhone,
}

// ExtractionCandidate is a raw pattern match awaiting validation.
// Produced and consumed within a single extraction call.
type ExtractionCandidate struct {
	Type     IntelType `json:"type"`
	RawText  string    `json:"raw_text"`
	StartPos int       `json:"start_pos"`
	EndPos   int       `json:"end_pos"`
}

// ExternalCandidate is a candidate supplied by the upstream model, already
// semantically filtered but not yet validated
type ExternalCandidate struct {
	Type  IntelType `json:"type"`
	Value string    `json:"value"`
}

// IntelRecord is a validated, normalized piece of intelligence
type IntelRecord struct {
	Type  IntelType `json:"type"`
	Value string    `json:"value"`
}

// SessionIntelligence is the accumulated intelligence for one session,
// rendered as deduplicated lists per type. This is also the durable
// document shape mirrored to the session store.
type SessionIntelligence struct {
	SessionID string                 `json:"session_id"`
	StartTime time.Time              `json:"start_time"`
	Intel     map[IntelType][]string `json:"intel"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// TotalValues returns the number of distinct values across all types
func (s *SessionIntelligence) TotalValues() int {
	total := 0
	for _, values := range s.Intel {
		total += len(values)
	}
	return total
}

// Has reports whether at least one value of the given type was captured
func (s *SessionIntelligence) Has(t IntelType) bool {
	return len(s.Intel[t]) > 0
}

// SessionReport is the finalized record archived when a session ends
type SessionReport struct {
	ID         string                 `json:"id"`
	SessionID  string                 `json:"session_id"`
	ScamType   ScamType               `json:"scam_type"`
	StartTime  time.Time              `json:"start_time"`
	EndTime    time.Time              `json:"end_time"`
	TurnCount  int                    `json:"turn_count"`
	ExitReason string                 `json:"exit_reason"`
	Intel      map[IntelType][]string `json:"intel"`
}
