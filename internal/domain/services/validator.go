package services

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// CandidateValidator applies the per-type acceptance rules that turn raw
// pattern matches into normalized intelligence records. All checks are pure;
// rejection is silent.
type CandidateValidator struct {
	nameBlocklist  map[string]struct{}
	upiProviders   map[string]struct{}
	shortenerHosts map[string]struct{}
	throwawayTLDs  map[string]struct{}
	phishingWords  []string
	logger         *logger.Logger
}

// NewCandidateValidator builds a validator with the standard blocklists
func NewCandidateValidator(log *logger.Logger) *CandidateValidator {
	v := &CandidateValidator{
		nameBlocklist:  make(map[string]struct{}),
		upiProviders:   make(map[string]struct{}),
		shortenerHosts: make(map[string]struct{}),
		throwawayTLDs:  make(map[string]struct{}),
		logger:         log.WithComponent("candidate-validator"),
	}
	v.loadBlocklists()
	return v
}

func (v *CandidateValidator) loadBlocklists() {
	// Generic phrases that pattern-match the name shape but are not names
	for _, phrase := range []string{
		"Now", "Pay", "Pay Now", "Pay Here", "Send Money", "Send Now",
		"Dear Customer", "Dear Sir", "Dear Madam", "Thank You", "Please",
		"Click Here", "Account Number", "Bank Account", "Phone Number",
		"Customer Care", "Helpline Number", "Good Morning", "Good Evening",
		"Urgent", "Immediately", "Verify Now", "Update Now", "Account Blocked",
	} {
		v.nameBlocklist[strings.ToLower(phrase)] = struct{}{}
	}

	// Known UPI handle suffixes. A name@token candidate is a payment alias
	// only when the token is in this list or carries no dot; dotted domains
	// outside the list are left to the email recognizer.
	for _, provider := range []string{
		"upi", "ybl", "ibl", "axl", "apl", "paytm", "okaxis", "oksbi",
		"okhdfcbank", "okicici", "okbizaxis", "yapl", "rapl", "pthdfc",
		"axisbank", "barodampay", "fbl", "idfcbank", "indus", "kotak",
		"sbi", "uco", "waaxis", "wahdfcbank", "waicici", "wasbi",
	} {
		v.upiProviders[provider] = struct{}{}
	}

	for _, host := range []string{
		"bit.ly", "tinyurl.com", "goo.gl", "t.co", "is.gd", "ow.ly",
		"rb.gy", "cutt.ly", "rebrand.ly", "shorturl.at", "tiny.cc",
	} {
		v.shortenerHosts[host] = struct{}{}
	}

	for _, tld := range []string{"tk", "ml", "ga", "cf", "gq", "xyz", "top", "buzz"} {
		v.throwawayTLDs[tld] = struct{}{}
	}

	v.phishingWords = []string{
		"login", "verify", "kyc", "update-account", "secure-bank", "blocked",
		"refund", "claim", "prize", "lottery", "otp", "unlock",
	}
}

// Validate applies the type-specific rule for the candidate. The boolean is
// false when the candidate is rejected.
func (v *CandidateValidator) Validate(c models.ExtractionCandidate) (models.IntelRecord, bool) {
	var normalized string
	var ok bool

	switch c.Type {
	case models.IntelTypeBankAccount:
		normalized, ok = v.validateBankAccount(c.RawText)
	case models.IntelTypeUPIID:
		normalized, ok = v.validateUPIID(c.RawText)
	case models.IntelTypePhoneNumber:
		normalized, ok = v.validatePhone(c.RawText)
	case models.IntelTypeURL:
		normalized, ok = v.validateURL(c.RawText)
	case models.IntelTypeEmail:
		normalized, ok = v.validateEmail(c.RawText)
	case models.IntelTypeBeneficiaryName:
		normalized, ok = v.validateBeneficiaryName(c.RawText)
	case models.IntelTypeBankName:
		normalized, ok = v.validateBankName(c.RawText)
	case models.IntelTypeIFSCCode:
		normalized, ok = v.validateIFSC(c.RawText)
	case models.IntelTypeSecondaryPhone:
		normalized, ok = v.validatePhone(c.RawText)
	default:
		return models.IntelRecord{}, false
	}

	if !ok {
		return models.IntelRecord{}, false
	}
	return models.IntelRecord{Type: c.Type, Value: normalized}, true
}

// stripSeparators removes spaces, hyphens and a leading plus sign
func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '-' || r == '+' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isPhoneShaped reports whether a digit string has the shape of an Indian
// mobile number: 10 digits starting 6-9, or "91" followed by such a number.
func isPhoneShaped(digits string) bool {
	if len(digits) == 10 {
		return digits[0] >= '6' && digits[0] <= '9'
	}
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		return digits[2] >= '6' && digits[2] <= '9'
	}
	return false
}

// validateBankAccount accepts 9-18 digit runs. Phone-shaped values are never
// accepted as bank accounts, even when they satisfy the length rule; this
// precedence is what keeps international-format phone numbers out of the
// account bucket.
func (v *CandidateValidator) validateBankAccount(raw string) (string, bool) {
	digits := stripSeparators(raw)
	if !allDigits(digits) {
		return "", false
	}
	if len(digits) < 9 || len(digits) > 18 {
		return "", false
	}
	if isPhoneShaped(digits) {
		return "", false
	}

	// All-identical digit runs are noise, not accounts
	identical := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			identical = false
			break
		}
	}
	if identical {
		return "", false
	}

	return digits, true
}

// validatePhone accepts Indian mobile numbers, with or without the 91
// country prefix. Normalization keeps the prefix as given.
func (v *CandidateValidator) validatePhone(raw string) (string, bool) {
	digits := stripSeparators(raw)
	if !allDigits(digits) {
		return "", false
	}
	if !isPhoneShaped(digits) {
		return "", false
	}
	return digits, true
}

// validateUPIID accepts localpart@provider payment aliases. Dotted domain
// tokens outside the known provider list are treated as email addresses,
// not aliases.
func (v *CandidateValidator) validateUPIID(raw string) (string, bool) {
	parts := strings.SplitN(raw, "@", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	provider := strings.ToLower(parts[1])
	if _, known := v.upiProviders[provider]; !known {
		if strings.Contains(provider, ".") {
			return "", false
		}
	}
	return strings.ToLower(raw), true
}

// validateIFSC accepts 4 letters + "0" + 6 alphanumerics
func (v *CandidateValidator) validateIFSC(raw string) (string, bool) {
	code := strings.ToUpper(raw)
	if len(code) != 11 {
		return "", false
	}
	for i := 0; i < 4; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", false
		}
	}
	if code[4] != '0' {
		return "", false
	}
	for i := 5; i < 11; i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return "", false
		}
	}
	return code, true
}

// validateURL accepts any well-formed http(s) token
func (v *CandidateValidator) validateURL(raw string) (string, bool) {
	cleaned := strings.TrimRight(raw, ".,;:!?)")
	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Host == "" {
		return "", false
	}
	return cleaned, true
}

// IsSuspiciousURL flags shortener domains, phishing-indicative path keywords,
// throwaway TLDs, and messaging-app deep links. Used only for prioritization,
// never for acceptance.
func (v *CandidateValidator) IsSuspiciousURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())

	if _, ok := v.shortenerHosts[host]; ok {
		return true
	}
	if host == "wa.me" || host == "t.me" || host == "api.whatsapp.com" {
		return true
	}
	if idx := strings.LastIndex(host, "."); idx >= 0 {
		if _, ok := v.throwawayTLDs[host[idx+1:]]; ok {
			return true
		}
	}

	lowered := strings.ToLower(parsed.Path + "?" + parsed.RawQuery)
	for _, word := range v.phishingWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

// validateEmail accepts parseable addresses, lowercased
func (v *CandidateValidator) validateEmail(raw string) (string, bool) {
	if _, err := mail.ParseAddress(raw); err != nil {
		return "", false
	}
	return strings.ToLower(raw), true
}

// validateBeneficiaryName accepts Title-Case names of 1-4 words that are not
// generic phrases. The blocklist check is mandatory before any name surfaces.
func (v *CandidateValidator) validateBeneficiaryName(raw string) (string, bool) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", false
	}

	words := strings.Split(name, " ")
	if len(words) > 4 {
		return "", false
	}
	for _, w := range words {
		runes := []rune(w)
		if len(runes) < 2 {
			return "", false
		}
		if !unicode.IsUpper(runes[0]) {
			return "", false
		}
		for _, r := range runes[1:] {
			if !unicode.IsLower(r) {
				return "", false
			}
		}
	}

	if _, blocked := v.nameBlocklist[strings.ToLower(name)]; blocked {
		return "", false
	}
	return name, true
}

// validateBankName passes through trimmed known bank mentions
func (v *CandidateValidator) validateBankName(raw string) (string, bool) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", false
	}
	return name, true
}
