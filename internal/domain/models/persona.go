package models

// EmotionalState represents the victim persona's current emotional posture
type EmotionalState string

const (
	EmotionCalm       EmotionalState = "calm"
	EmotionAnxious    EmotionalState = "anxious"
	EmotionPanicked   EmotionalState = "panicked"
	EmotionRelieved   EmotionalState = "relieved"
	EmotionSuspicious EmotionalState = "suspicious"
)

// Persona is the turn-indexed emotional state of the synthetic victim for
// one conversation. Mutated once per turn, destroyed on conversation end.
type Persona struct {
	ConversationID     string         `json:"conversation_id"`
	EmotionalState     EmotionalState `json:"emotional_state"`
	EngagementTurn     int            `json:"engagement_turn"`
	ExtractedInfoCount int            `json:"extracted_info_count"`
	Traits             []string       `json:"traits"`
}
