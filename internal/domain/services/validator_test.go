package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

func newTestValidator() *CandidateValidator {
	return NewCandidateValidator(logger.NewDevelopment())
}

func validate(v *CandidateValidator, t models.IntelType, raw string) (string, bool) {
	rec, ok := v.Validate(models.ExtractionCandidate{Type: t, RawText: raw})
	return rec.Value, ok
}

func TestValidateBankAccount(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		raw      string
		want     string
		accepted bool
	}{
		{"fourteen digit account", "12345678901234", "12345678901234", true},
		{"nine digit minimum", "123456789", "123456789", true},
		{"separators stripped", "1234-5678-9012-34", "12345678901234", true},
		{"too short", "12345678", "", false},
		{"too long", "1234567890123456789", "", false},
		{"phone shaped ten digits", "9876543210", "", false},
		{"phone shaped with country code", "919123456789", "", false},
		{"all identical digits", "1111111111", "", false},
		{"non digits", "12345abc678", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := validate(v, models.IntelTypeBankAccount, tt.raw)
			assert.Equal(t, tt.accepted, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePhone(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		raw      string
		want     string
		accepted bool
	}{
		{"bare ten digit mobile", "9876543210", "9876543210", true},
		{"with country code", "919123456789", "919123456789", true},
		{"plus and separators", "+91-98765 43210", "919876543210", true},
		{"landline prefix rejected", "5876543210", "", false},
		{"fourteen digit run rejected", "12345678901234", "", false},
		{"too short", "987654321", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := validate(v, models.IntelTypePhoneNumber, tt.raw)
			assert.Equal(t, tt.accepted, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A digit string is never both a phone number and a bank account.
func TestPhoneAndAccountMutuallyExclusive(t *testing.T) {
	v := newTestValidator()

	for _, raw := range []string{"9876543210", "919123456789", "12345678901234", "123456789012345678"} {
		_, asPhone := validate(v, models.IntelTypePhoneNumber, raw)
		_, asAccount := validate(v, models.IntelTypeBankAccount, raw)
		assert.False(t, asPhone && asAccount, "value %q accepted as both phone and account", raw)
	}
}

func TestValidateUPIID(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		raw      string
		want     string
		accepted bool
	}{
		{"known provider", "rahul.kumar@ybl", "rahul.kumar@ybl", true},
		{"known bank handle", "victim123@oksbi", "victim123@oksbi", true},
		{"uppercase normalized", "Rahul@Paytm", "rahul@paytm", true},
		{"unknown dotless handle", "scammer@fakebank", "scammer@fakebank", true},
		{"dotted unknown domain is email", "scammer@gmail.com", "", false},
		{"missing local part", "@ybl", "", false},
		{"missing provider", "rahul@", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := validate(v, models.IntelTypeUPIID, tt.raw)
			assert.Equal(t, tt.accepted, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateIFSC(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		raw      string
		want     string
		accepted bool
	}{
		{"standard code", "SBIN0001234", "SBIN0001234", true},
		{"lowercase normalized", "hdfc0ab1234", "HDFC0AB1234", true},
		{"fifth char not zero", "SBIN1001234", "", false},
		{"too short", "SBIN000123", "", false},
		{"digit in bank part", "SB1N0001234", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := validate(v, models.IntelTypeIFSCCode, tt.raw)
			assert.Equal(t, tt.accepted, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateURL(t *testing.T) {
	v := newTestValidator()

	got, ok := validate(v, models.IntelTypeURL, "https://secure-bank.xyz/verify?id=123")
	require.True(t, ok)
	assert.Equal(t, "https://secure-bank.xyz/verify?id=123", got)

	got, ok = validate(v, models.IntelTypeURL, "http://bit.ly/3xYzAb.")
	require.True(t, ok, "trailing punctuation should be trimmed")
	assert.Equal(t, "http://bit.ly/3xYzAb", got)

	_, ok = validate(v, models.IntelTypeURL, "ftp://files.example.com/x")
	assert.False(t, ok)

	_, ok = validate(v, models.IntelTypeURL, "not a url")
	assert.False(t, ok)
}

func TestIsSuspiciousURL(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		url        string
		suspicious bool
	}{
		{"http://bit.ly/3xYzAb", true},
		{"https://wa.me/919876543210", true},
		{"https://sbi-secure.tk/home", true},
		{"https://example.com/account/verify", true},
		{"https://kyc-update.xyz", true},
		{"https://www.wikipedia.org/wiki/Fraud", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.suspicious, v.IsSuspiciousURL(tt.url), "url %q", tt.url)
	}
}

func TestValidateBeneficiaryName(t *testing.T) {
	v := newTestValidator()

	accepted := []string{"Rahul Kumar", "Priya", "Amit Kumar Singh", "Extra  Spaces Collapsed"}
	for _, name := range accepted {
		_, ok := validate(v, models.IntelTypeBeneficiaryName, name)
		assert.True(t, ok, "name %q should be accepted", name)
	}

	rejected := []string{
		"Pay Now", "Dear Customer", "Now", "Send Money", "Click Here",
		"rahul kumar",                  // not title case
		"RAHUL",                        // all caps
		"A",                            // single rune
		"One Two Three Four Five",      // too many words
	}
	for _, name := range rejected {
		_, ok := validate(v, models.IntelTypeBeneficiaryName, name)
		assert.False(t, ok, "name %q should be rejected", name)
	}
}

func TestValidateEmail(t *testing.T) {
	v := newTestValidator()

	got, ok := validate(v, models.IntelTypeEmail, "Scammer@Fraud-Desk.COM")
	require.True(t, ok)
	assert.Equal(t, "scammer@fraud-desk.com", got)

	_, ok = validate(v, models.IntelTypeEmail, "not-an-email")
	assert.False(t, ok)
}
