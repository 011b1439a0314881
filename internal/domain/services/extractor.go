package services

import (
	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// Extractor combines the deterministic pattern pass with the externally
// supplied candidate list into one validated, de-duplicated record set per
// message. The external list covers values no pattern can phrase (spelled-out
// digits); the pattern pass is the safety net when that source is degraded.
type Extractor struct {
	patterns  *PatternLibrary
	validator *CandidateValidator
	logger    *logger.Logger
}

// NewExtractor creates an extractor over the given pattern library and validator
func NewExtractor(patterns *PatternLibrary, validator *CandidateValidator, log *logger.Logger) *Extractor {
	return &Extractor{
		patterns:  patterns,
		validator: validator,
		logger:    log.WithComponent("extractor"),
	}
}

// ExtractAndMerge validates both candidate sources and unions them,
// de-duplicated by (type, normalized value). Records keep first-appearance
// order. Malformed external entries contribute nothing.
func (e *Extractor) ExtractAndMerge(text string, external []models.ExternalCandidate) []models.IntelRecord {
	seen := make(map[string]struct{})
	var records []models.IntelRecord

	add := func(rec models.IntelRecord) {
		key := string(rec.Type) + ":" + rec.Value
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		records = append(records, rec)
	}

	for _, candidate := range e.patterns.Extract(text) {
		if rec, ok := e.validator.Validate(candidate); ok {
			add(rec)
		}
	}

	for _, ext := range external {
		if ext.Type == "" || ext.Value == "" {
			continue
		}
		candidate := models.ExtractionCandidate{Type: ext.Type, RawText: ext.Value}
		if rec, ok := e.validator.Validate(candidate); ok {
			add(rec)
		}
	}

	return records
}

// Validator exposes the underlying validator for URL prioritization checks
func (e *Extractor) Validator() *CandidateValidator {
	return e.validator
}
