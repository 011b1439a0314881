package models

// FakeCard is a structurally valid payment card that cannot clear real rails
type FakeCard struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// FakeBankAccount pairs a plausible account number with an invalid branch code
type FakeBankAccount struct {
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bank_name"`
}

// FakePersonaDetails is the believable victim identity behind the honeypot
type FakePersonaDetails struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// FakeIdentity is the full synthetic identity handed out when the honeypot
// is instructed to comply with a scammer's data request. Deterministic per
// conversation, discarded when the conversation ends.
type FakeIdentity struct {
	Card        FakeCard           `json:"card"`
	BankAccount FakeBankAccount    `json:"bank_account"`
	Persona     FakePersonaDetails `json:"persona"`
	OTP         string             `json:"otp"`
	NationalID  string             `json:"national_id"`
	TaxID       string             `json:"tax_id"`
}
