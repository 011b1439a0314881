package services

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"scambait-lab/internal/domain/models"
	"scambait-lab/pkg/logger"
)

// cardPrefixes are reserved test-range issuer prefixes. Numbers built on
// them pass the Luhn structural check but cannot clear real payment rails.
var cardPrefixes = []string{
	"400000", "411111", "424242", "453201", "510510", "555555",
}

// bankProfiles pair real-looking bank prefixes with IFSC roots. The branch
// suffix is always drawn from the unassigned 99xxxx range.
var bankProfiles = []struct {
	name       string
	accPrefix  string
	ifscPrefix string
}{
	{"State Bank of India", "2008", "SBIN"},
	{"HDFC Bank", "5010", "HDFC"},
	{"ICICI Bank", "0023", "ICIC"},
	{"Axis Bank", "9110", "UTIB"},
	{"Punjab National Bank", "0158", "PUNB"},
}

var (
	firstNames = []string{
		"Ramesh", "Suresh", "Mohan", "Gopal", "Kamala",
		"Savitri", "Shanti", "Lakshmi", "Prabha", "Dinesh",
	}
	lastNames = []string{
		"Sharma", "Iyer", "Patel", "Reddy", "Mukherjee", "Nair", "Gupta", "Verma",
	}
	streets = []string{
		"MG Road", "Nehru Nagar", "Gandhi Street", "Station Road",
		"Temple Lane", "Subhash Marg", "Lake View Colony",
	}
	cities = []string{
		"Pune", "Nagpur", "Lucknow", "Jaipur", "Coimbatore", "Indore", "Mysore",
	}
)

// IdentityGenerator produces the synthetic victim identity handed out when
// the honeypot is told to comply with a scammer's data request. Deterministic
// per conversation id, cached for the conversation's lifetime.
type IdentityGenerator struct {
	mu     sync.Mutex
	cache  map[string]*models.FakeIdentity
	logger *logger.Logger
}

// NewIdentityGenerator creates an identity generator
func NewIdentityGenerator(log *logger.Logger) *IdentityGenerator {
	return &IdentityGenerator{
		cache:  make(map[string]*models.FakeIdentity),
		logger: log.WithComponent("identity-generator"),
	}
}

// Identity returns the synthetic identity for a conversation, generating it
// on first request. The same conversation id always yields the same identity.
func (g *IdentityGenerator) Identity(conversationID string) *models.FakeIdentity {
	g.mu.Lock()
	defer g.mu.Unlock()

	if identity, ok := g.cache[conversationID]; ok {
		return identity
	}
	identity := generate(conversationID)
	g.cache[conversationID] = identity
	return identity
}

// Evict discards a conversation's cached identity
func (g *IdentityGenerator) Evict(conversationID string) {
	g.mu.Lock()
	delete(g.cache, conversationID)
	g.mu.Unlock()
}

// generate builds the full identity from a seed derived from the conversation id
func generate(conversationID string) *models.FakeIdentity {
	h := fnv.New64a()
	h.Write([]byte(conversationID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]
	bank := bankProfiles[rng.Intn(len(bankProfiles))]

	expiry := fmt.Sprintf("%02d/%02d",
		1+rng.Intn(12),
		(time.Now().Year()+2+rng.Intn(3))%100,
	)

	return &models.FakeIdentity{
		Card: models.FakeCard{
			Number: cardNumber(rng),
			Expiry: expiry,
			CVV:    fmt.Sprintf("%03d", rng.Intn(1000)),
		},
		BankAccount: models.FakeBankAccount{
			AccountNumber: bank.accPrefix + randomDigits(rng, 10),
			IFSC:          bank.ifscPrefix + "099" + randomDigits(rng, 4),
			BankName:      bank.name,
		},
		Persona: models.FakePersonaDetails{
			Name:    first + " " + last,
			Age:     62 + rng.Intn(16),
			Address: fmt.Sprintf("%d, %s", 1+rng.Intn(200), streets[rng.Intn(len(streets))]),
			City:    cities[rng.Intn(len(cities))],
		},
		OTP:        fmt.Sprintf("%06d", 100000+rng.Intn(900000)),
		NationalID: nationalID(rng),
		TaxID:      taxID(rng),
	}
}

// cardNumber builds a 16-digit number from a test-range prefix plus a Luhn
// check digit, so the number validates structurally.
func cardNumber(rng *rand.Rand) string {
	body := cardPrefixes[rng.Intn(len(cardPrefixes))] + randomDigits(rng, 9)
	return body + fmt.Sprintf("%d", luhnCheckDigit(body))
}

// luhnCheckDigit computes the digit that makes body+digit pass the Luhn check:
// double every second digit from the right, subtract 9 when over 9, and make
// the total a multiple of 10.
func luhnCheckDigit(body string) int {
	sum := 0
	double := true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

// LuhnValid reports whether a full card number passes the Luhn check
func LuhnValid(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// nationalID produces a 12-digit Aadhaar-shaped number (first digit 2-9)
func nationalID(rng *rand.Rand) string {
	return fmt.Sprintf("%d", 2+rng.Intn(8)) + randomDigits(rng, 11)
}

// taxID produces a PAN-shaped string: AAAPX1234A
func taxID(rng *rand.Rand) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, 0, 10)
	for i := 0; i < 3; i++ {
		b = append(b, letters[rng.Intn(26)])
	}
	b = append(b, 'P') // individual holder marker
	b = append(b, letters[rng.Intn(26)])
	for i := 0; i < 4; i++ {
		b = append(b, byte('0'+rng.Intn(10)))
	}
	b = append(b, letters[rng.Intn(26)])
	return string(b)
}

func randomDigits(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + rng.Intn(10))
	}
	return string(b)
}
