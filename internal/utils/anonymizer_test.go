package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestScrubRedactsIdentifiers(t *testing.T) {
	a := NewAnonymizer(zap.NewNop())

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"email", "reply to alice.smith+x@bank-example.co.uk today", "reply to <EMAIL_ADDRESS> today"},
		{"phone with parens", "call (555) 123-4567 now", "call <PHONE_NUMBER> now"},
		{"phone with country code", "call +1 555-123-4567", "call <PHONE_NUMBER>"},
		{"credit card with spaces", "pay 4111 1111 1111 1111 please", "pay <CREDIT_CARD> please"},
		{"credit card with dashes", "card 4012-8888-8888-1881 on file", "card <CREDIT_CARD> on file"},
		{"ssn", "my ssn is 078-05-1120", "my ssn is <US_SSN>"},
		{"iban", "send to DE89370400440532013000", "send to <IBAN_CODE>"},
		{"ip address", "login from 192.168.1.50", "login from <IP_ADDRESS>"},
		{"bitcoin address", "pay 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "pay <CRYPTO>"},
		{"clean text", "no identifiers here", "no identifiers here"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.Scrub(tc.in))
		})
	}
}

func TestScrubKeepsLuhnInvalidDigitRuns(t *testing.T) {
	a := NewAnonymizer(zap.NewNop())

	in := "tracking number 1234 5678 9012 3456"
	assert.Equal(t, in, a.Scrub(in), "digit runs that fail the checksum are not card numbers")
}

func TestScrubHandlesMultipleEntities(t *testing.T) {
	a := NewAnonymizer(zap.NewNop())

	out := a.Scrub("Wire to DE89370400440532013000 and email bob@example.com from 10.0.0.1")
	assert.Equal(t, "Wire to <IBAN_CODE> and email <EMAIL_ADDRESS> from <IP_ADDRESS>", out)
}
