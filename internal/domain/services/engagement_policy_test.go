package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scambait-lab/internal/config"
	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

func testEngagementConfig() config.EngagementConfig {
	return config.EngagementConfig{
		CautiousThreshold:   0.5,
		AggressiveThreshold: 0.85,
		CautiousMaxTurns:    10,
		AggressiveMaxTurns:  20,
		MaxDuration:         30 * time.Minute,
		StaleTurnLimit:      3,
		URLGraceTurns:       2,
	}
}

func newTestPolicy() *EngagementPolicy {
	return NewEngagementPolicy(testEngagementConfig(), logger.NewDevelopment())
}

func intelWith(types ...models.IntelType) *models.SessionIntelligence {
	intel := make(map[models.IntelType][]string)
	for _, t := range types {
		intel[t] = []string{"x"}
	}
	return &models.SessionIntelligence{SessionID: "s1", Intel: intel}
}

func TestMode(t *testing.T) {
	p := newTestPolicy()

	assert.Equal(t, models.EngagementModeNone, p.Mode(0.0))
	assert.Equal(t, models.EngagementModeNone, p.Mode(0.49))
	assert.Equal(t, models.EngagementModeCautious, p.Mode(0.5))
	assert.Equal(t, models.EngagementModeCautious, p.Mode(0.84))
	assert.Equal(t, models.EngagementModeAggressive, p.Mode(0.85))
	assert.Equal(t, models.EngagementModeAggressive, p.Mode(1.0))
}

func TestExitReasonPriority(t *testing.T) {
	p := newTestPolicy()

	tests := []struct {
		name  string
		state models.EngagementState
		want  models.ExitReason
	}{
		{
			name: "turn limit beats everything",
			state: models.EngagementState{
				Mode: models.EngagementModeCautious, TurnCount: 10,
				Duration: time.Hour, IntelComplete: true, ScammerSuspicious: true,
				TurnsSinceNewInfo: 5,
			},
			want: models.ExitReasonTurnLimit,
		},
		{
			name: "duration beats intel complete",
			state: models.EngagementState{
				Mode: models.EngagementModeCautious, TurnCount: 2,
				Duration: time.Hour, IntelComplete: true,
			},
			want: models.ExitReasonDurationExceeded,
		},
		{
			name: "intel complete beats suspicion",
			state: models.EngagementState{
				Mode: models.EngagementModeAggressive, TurnCount: 5,
				IntelComplete: true, ScammerSuspicious: true,
			},
			want: models.ExitReasonIntelComplete,
		},
		{
			name: "suspicion beats staleness",
			state: models.EngagementState{
				Mode: models.EngagementModeAggressive, TurnCount: 5,
				ScammerSuspicious: true, TurnsSinceNewInfo: 5,
			},
			want: models.ExitReasonScammerSuspicious,
		},
		{
			name: "staleness",
			state: models.EngagementState{
				Mode: models.EngagementModeAggressive, TurnCount: 5,
				TurnsSinceNewInfo: 3,
			},
			want: models.ExitReasonConversationStale,
		},
		{
			name: "healthy engagement continues",
			state: models.EngagementState{
				Mode: models.EngagementModeAggressive, TurnCount: 5,
				Duration: time.Minute, TurnsSinceNewInfo: 1,
			},
			want: models.ExitReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ExitReason(tt.state))
		})
	}
}

func TestModeTurnCeilings(t *testing.T) {
	p := newTestPolicy()

	// The none mode never engages
	assert.Equal(t, models.ExitReasonTurnLimit, p.ExitReason(models.EngagementState{
		Mode: models.EngagementModeNone, TurnCount: 1,
	}))

	// Cautious stops at 10, aggressive keeps going
	state := models.EngagementState{Mode: models.EngagementModeCautious, TurnCount: 10}
	assert.Equal(t, models.ExitReasonTurnLimit, p.ExitReason(state))

	state.Mode = models.EngagementModeAggressive
	assert.Equal(t, models.ExitReasonNone, p.ExitReason(state))

	state.TurnCount = 20
	assert.Equal(t, models.ExitReasonTurnLimit, p.ExitReason(state))
}

func TestDecideURLGrace(t *testing.T) {
	p := newTestPolicy()

	// Stale conversation with a pending URL gets grace turns
	state := models.EngagementState{
		Mode: models.EngagementModeAggressive, TurnCount: 5,
		TurnsSinceNewInfo: 3, HasUnextractedURL: true, URLGraceUsed: 0,
	}

	d := p.Decide(state)
	assert.True(t, d.Continue)
	assert.True(t, d.GraceApplied)
	assert.Equal(t, models.ExitReasonConversationStale, d.ExitReason)

	state.URLGraceUsed = 1
	d = p.Decide(state)
	assert.True(t, d.Continue)
	assert.True(t, d.GraceApplied)

	// Grace is spent after two turns
	state.URLGraceUsed = 2
	d = p.Decide(state)
	assert.False(t, d.Continue)
	assert.False(t, d.GraceApplied)
	assert.Equal(t, models.ExitReasonConversationStale, d.ExitReason)
}

// The grace override is not special to staleness; a pending URL buys extra
// turns past any stop condition.
func TestDecideURLGraceOverridesAnyExit(t *testing.T) {
	p := newTestPolicy()

	tests := []struct {
		name  string
		state models.EngagementState
		want  models.ExitReason
	}{
		{
			name: "turn limit",
			state: models.EngagementState{
				Mode: models.EngagementModeCautious, TurnCount: 10,
			},
			want: models.ExitReasonTurnLimit,
		},
		{
			name: "intel complete",
			state: models.EngagementState{
				Mode: models.EngagementModeAggressive, TurnCount: 5, IntelComplete: true,
			},
			want: models.ExitReasonIntelComplete,
		},
		{
			name: "duration exceeded",
			state: models.EngagementState{
				Mode: models.EngagementModeAggressive, TurnCount: 5, Duration: time.Hour,
			},
			want: models.ExitReasonDurationExceeded,
		},
		{
			name: "scammer suspicious",
			state: models.EngagementState{
				Mode: models.EngagementModeAggressive, TurnCount: 5, ScammerSuspicious: true,
			},
			want: models.ExitReasonScammerSuspicious,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state
			state.HasUnextractedURL = true

			d := p.Decide(state)
			assert.True(t, d.Continue)
			assert.True(t, d.GraceApplied)
			assert.Equal(t, tt.want, d.ExitReason)

			// Spent grace no longer overrides
			state.URLGraceUsed = 2
			d = p.Decide(state)
			assert.False(t, d.Continue)
			assert.Equal(t, tt.want, d.ExitReason)
		})
	}
}

func TestDecideNoGraceWithoutPendingURL(t *testing.T) {
	p := newTestPolicy()

	state := models.EngagementState{
		Mode: models.EngagementModeAggressive, TurnCount: 5,
		TurnsSinceNewInfo: 3,
	}
	d := p.Decide(state)
	assert.False(t, d.Continue)
	assert.False(t, d.GraceApplied)
}

func TestIntelligenceComplete(t *testing.T) {
	p := newTestPolicy()

	assert.False(t, p.IntelligenceComplete(nil))
	assert.False(t, p.IntelligenceComplete(intelWith()))

	// Destination alone is not enough
	assert.False(t, p.IntelligenceComplete(intelWith(models.IntelTypeBankAccount)))

	// Destination plus phone still needs the name for attribution
	assert.False(t, p.IntelligenceComplete(intelWith(
		models.IntelTypeBankAccount, models.IntelTypePhoneNumber,
	)))

	// Either destination kind completes the set
	assert.True(t, p.IntelligenceComplete(intelWith(
		models.IntelTypeBankAccount, models.IntelTypePhoneNumber, models.IntelTypeBeneficiaryName,
	)))
	assert.True(t, p.IntelligenceComplete(intelWith(
		models.IntelTypeUPIID, models.IntelTypePhoneNumber, models.IntelTypeBeneficiaryName,
	)))

	// Phone and name without a payment destination is incomplete
	assert.False(t, p.IntelligenceComplete(intelWith(
		models.IntelTypePhoneNumber, models.IntelTypeBeneficiaryName,
	)))
}

func TestMissingIntelligence(t *testing.T) {
	p := newTestPolicy()

	// Nothing captured yet: everything is missing
	missing := p.MissingIntelligence(intelWith())
	assert.Equal(t, []models.IntelType{
		models.IntelTypeBankAccount,
		models.IntelTypeUPIID,
		models.IntelTypePhoneNumber,
		models.IntelTypeBeneficiaryName,
	}, missing)

	// Either destination kind satisfies the destination slot
	missing = p.MissingIntelligence(intelWith(models.IntelTypeUPIID))
	assert.Equal(t, []models.IntelType{
		models.IntelTypePhoneNumber,
		models.IntelTypeBeneficiaryName,
	}, missing)

	// Only the name outstanding
	missing = p.MissingIntelligence(intelWith(
		models.IntelTypeBankAccount, models.IntelTypePhoneNumber,
	))
	require.Equal(t, []models.IntelType{models.IntelTypeBeneficiaryName}, missing)

	// Complete set: nothing missing
	missing = p.MissingIntelligence(intelWith(
		models.IntelTypeBankAccount, models.IntelTypePhoneNumber, models.IntelTypeBeneficiaryName,
	))
	assert.Empty(t, missing)
}
