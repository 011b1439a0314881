package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

func candidatesOfType(cands []models.ExtractionCandidate, t models.IntelType) []string {
	var out []string
	for _, c := range cands {
		if c.Type == t {
			out = append(out, c.RawText)
		}
	}
	return out
}

func TestExtractEmptyText(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())
	assert.Empty(t, pl.Extract(""))
	assert.Empty(t, pl.Extract("hello, how are you today?"))
}

func TestExtractAccountAndIFSC(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	cands := pl.Extract("Transfer the amount to account 12345678901234 IFSC SBIN0005943")

	assert.Contains(t, candidatesOfType(cands, models.IntelTypeBankAccount), "12345678901234")
	assert.Contains(t, candidatesOfType(cands, models.IntelTypeIFSCCode), "SBIN0005943")
}

func TestExtractPhoneVariants(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	for _, msg := range []string{
		"call me on 9876543210 right now",
		"call me on +91 98765 43210 right now",
		"call me on 91-9876543210 right now",
	} {
		cands := pl.Extract(msg)
		require.NotEmpty(t, candidatesOfType(cands, models.IntelTypePhoneNumber), "message %q", msg)
	}
}

// A mobile-shaped tail inside a longer digit run is part of the run, not a
// phone number of its own.
func TestExtractPhoneNotCarvedFromAccountRun(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	for _, msg := range []string{
		"transfer to account 123456789012345678 today",
		"123456789012345678",
		"account 12345678901234",
	} {
		cands := pl.Extract(msg)
		assert.Empty(t, candidatesOfType(cands, models.IntelTypePhoneNumber), "message %q", msg)
		assert.NotEmpty(t, candidatesOfType(cands, models.IntelTypeBankAccount), "message %q", msg)
	}

	// A phone next to punctuation or at the start of the text still matches
	for _, msg := range []string{
		"9876543210",
		"number:9876543210",
		"(9876543210)",
	} {
		cands := pl.Extract(msg)
		assert.Contains(t, candidatesOfType(cands, models.IntelTypePhoneNumber), "9876543210", "message %q", msg)
	}
}

// A ten-digit mobile number matches both the account and the phone recognizer.
// Producing both candidates is intentional; the validator resolves the type.
func TestExtractOverlappingCandidates(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	cands := pl.Extract("my number is 9876543210")

	assert.NotEmpty(t, candidatesOfType(cands, models.IntelTypePhoneNumber))
	assert.NotEmpty(t, candidatesOfType(cands, models.IntelTypeBankAccount))
}

func TestExtractUPIAndEmail(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	cands := pl.Extract("pay to rahul@ybl or mail scammer@frauddesk.com")

	upi := candidatesOfType(cands, models.IntelTypeUPIID)
	assert.Contains(t, upi, "rahul@ybl")
	assert.Contains(t, upi, "scammer@frauddesk.com") // rejected later by the validator
	assert.Contains(t, candidatesOfType(cands, models.IntelTypeEmail), "scammer@frauddesk.com")
}

func TestExtractURL(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	cands := pl.Extract("verify here: https://secure-bank.xyz/kyc?id=99 today")
	assert.Contains(t, candidatesOfType(cands, models.IntelTypeURL), "https://secure-bank.xyz/kyc?id=99")
}

func TestExtractBeneficiaryNameFromContext(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	tests := []struct {
		msg  string
		want string
	}{
		{"the beneficiary name is Rahul Kumar for this transfer", "Rahul Kumar"},
		{"account holder: Priya Sharma", "Priya Sharma"},
		{"send money to Amit Verma today", "Amit Verma"},
		{"transfer it to Pay Now", "Pay Now"}, // shape matches, blocklisted at validation
	}

	for _, tt := range tests {
		cands := pl.Extract(tt.msg)
		assert.Contains(t, candidatesOfType(cands, models.IntelTypeBeneficiaryName), tt.want, "message %q", tt.msg)
	}

	// No payment context, no name candidate
	cands := pl.Extract("Rahul Kumar is a common name")
	assert.Empty(t, candidatesOfType(cands, models.IntelTypeBeneficiaryName))
}

func TestExtractBankName(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	cands := pl.Extract("I am calling from SBI about your State Bank of India account")
	names := candidatesOfType(cands, models.IntelTypeBankName)
	assert.Contains(t, names, "SBI")
	assert.Contains(t, names, "State Bank of India")
}

func TestExtractSecondaryPhone(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	cands := pl.Extract("WhatsApp me on 9123456780 for the payment link")
	assert.Contains(t, candidatesOfType(cands, models.IntelTypeSecondaryPhone), "9123456780")

	cands = pl.Extract("telegram: +91 91234 56780")
	assert.NotEmpty(t, candidatesOfType(cands, models.IntelTypeSecondaryPhone))
}

func TestExtractPositions(t *testing.T) {
	pl := NewPatternLibrary(logger.NewDevelopment())

	text := "IFSC SBIN0005943"
	cands := pl.Extract(text)
	require.NotEmpty(t, cands)

	for _, c := range cands {
		assert.Equal(t, c.RawText, text[c.StartPos:c.EndPos])
	}
}
