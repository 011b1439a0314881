package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scambait-lab/pkg/logger"
)

func TestLuhnValid(t *testing.T) {
	assert.True(t, LuhnValid("4242424242424242"))
	assert.True(t, LuhnValid("4111111111111111"))
	assert.False(t, LuhnValid("4242424242424241"))
	assert.False(t, LuhnValid("1234567890123456"))
	assert.False(t, LuhnValid(""))
	assert.False(t, LuhnValid("4242abcd42424242"))
}

func TestIdentityDeterministic(t *testing.T) {
	g := NewIdentityGenerator(logger.NewDevelopment())

	first := g.Identity("conv-123")
	second := g.Identity("conv-123")
	assert.Same(t, first, second, "cached identity should be reused")

	// A fresh generator reproduces the same identity for the same id
	fresh := NewIdentityGenerator(logger.NewDevelopment()).Identity("conv-123")
	assert.Equal(t, first, fresh)

	// Different conversations get different identities
	other := g.Identity("conv-456")
	assert.NotEqual(t, first.Card.Number, other.Card.Number)
}

func TestIdentityCardIsLuhnValidTestRange(t *testing.T) {
	g := NewIdentityGenerator(logger.NewDevelopment())

	for _, id := range []string{"a", "b", "c", "conv-1", "conv-2", "session-xyz"} {
		card := g.Identity(id).Card

		require.Len(t, card.Number, 16, "conversation %s", id)
		assert.True(t, LuhnValid(card.Number), "conversation %s: %s", id, card.Number)

		prefixed := false
		for _, prefix := range cardPrefixes {
			if card.Number[:6] == prefix {
				prefixed = true
				break
			}
		}
		assert.True(t, prefixed, "card %s must use a test-range prefix", card.Number)

		assert.Regexp(t, regexp.MustCompile(`^\d{2}/\d{2}$`), card.Expiry)
		assert.Regexp(t, regexp.MustCompile(`^\d{3}$`), card.CVV)
	}
}

func TestIdentityBankDetails(t *testing.T) {
	identity := NewIdentityGenerator(logger.NewDevelopment()).Identity("conv-123")

	acct := identity.BankAccount
	assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), acct.AccountNumber)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{4}099\d{4}$`), acct.IFSC)
	assert.NotEmpty(t, acct.BankName)
}

func TestIdentityPersonalDetails(t *testing.T) {
	identity := NewIdentityGenerator(logger.NewDevelopment()).Identity("conv-123")

	p := identity.Persona
	assert.NotEmpty(t, p.Name)
	assert.GreaterOrEqual(t, p.Age, 62)
	assert.NotEmpty(t, p.Address)
	assert.NotEmpty(t, p.City)

	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), identity.OTP)
	assert.Regexp(t, regexp.MustCompile(`^[2-9]\d{11}$`), identity.NationalID)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{3}P[A-Z]\d{4}[A-Z]$`), identity.TaxID)
}

func TestIdentityEvict(t *testing.T) {
	g := NewIdentityGenerator(logger.NewDevelopment())

	first := g.Identity("conv-123")
	g.Evict("conv-123")
	second := g.Identity("conv-123")

	// Regenerated from the same seed, so equal but not the same object
	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}
