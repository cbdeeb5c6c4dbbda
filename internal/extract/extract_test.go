package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhoneCanonicalForm(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"plus91", "call me at +91 9876543210"},
		{"plus91 dashed", "reach +91-98765-43210 anytime"},
		{"bare country code", "my number is 919876543210"},
		{"leading zero", "dial 09876543210 now"},
		{"bare ten digits", "contact 9876543210"},
		{"split format", "whatsapp on 98765 43210"},
		{"wa.me link", "message wa.me/919876543210"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := NewIntel()
			Scan(tc.text, in)
			assert.True(t, in.PhoneNumbers["+919876543210"], "text: %q", tc.text)
		})
	}
}

func TestPhoneDedupeAcrossFormats(t *testing.T) {
	in := NewIntel()
	Scan("call +91 9876543210 or 9876543210 or 09876543210", in)
	assert.Len(t, in.PhoneNumbers, 1)
}

func TestTollFreeNumberKept(t *testing.T) {
	in := NewIntel()
	Scan("verify on our helpline 1800-123-4567", in)
	assert.True(t, in.PhoneNumbers["18001234567"])
}

func TestBankAccountExtraction(t *testing.T) {
	in := NewIntel()
	Scan("transfer to account no: 123456789012345", in)
	Scan("send to 98761234509876", in)

	assert.True(t, in.BankAccounts["123456789012345"])
	assert.True(t, in.BankAccounts["98761234509876"])
}

func TestTenDigitMobileNotStoredAsAccount(t *testing.T) {
	in := NewIntel()
	Scan("number 9876543210 only", in)
	assert.Empty(t, in.BankAccounts)
	assert.True(t, in.PhoneNumbers["+919876543210"])
}

func TestUPIExtraction(t *testing.T) {
	in := NewIntel()
	Scan("Pay to Refund.Officer@paytm immediately", in)
	Scan("my vpa is scammer123@ybl ok", in)

	assert.True(t, in.UpiIDs["refund.officer@paytm"])
	assert.True(t, in.UpiIDs["scammer123@ybl"])
}

func TestEmailNotMistakenForUPI(t *testing.T) {
	in := NewIntel()
	Scan("write to support@gmail.com for the form", in)

	assert.Empty(t, in.UpiIDs)
	assert.True(t, in.EmailAddresses["support@gmail.com"])
}

func TestURLNormalization(t *testing.T) {
	in := NewIntel()
	Scan("click HTTPS://Secure-Bank-Verify.com/kyc/ now!", in)
	Scan("or bit.ly/Xy12Z.", in)

	assert.True(t, in.PhishingLinks["https://secure-bank-verify.com/kyc"])
	assert.True(t, in.PhishingLinks["bit.ly/xy12z"])
}

func TestAadhaarPanIfsc(t *testing.T) {
	in := NewIntel()
	Scan("share aadhaar 2345 6789 0123, PAN ABCPE1234F, IFSC SBIN0001234", in)

	assert.True(t, in.AadhaarNumbers["234567890123"])
	assert.True(t, in.PanCards["ABCPE1234F"])
	assert.True(t, in.IfscCodes["SBIN0001234"])
}

func TestAmounts(t *testing.T) {
	in := NewIntel()
	Scan("pay Rs. 25,000 fine or a fee of 500 rupees", in)

	assert.True(t, in.Amounts["25000"])
	assert.True(t, in.Amounts["500"])
}

func TestCaseIDs(t *testing.T) {
	in := NewIntel()
	Scan("Your case number CBI-2025-NARC-5678 and ref FIR-DEL-2025-12345", in)

	assert.True(t, in.CaseIDs["CBI-2025-NARC-5678"])
	assert.True(t, in.CaseIDs["FIR-DEL-2025-12345"])
}

func TestPolicyNumberNotStoredAsCaseID(t *testing.T) {
	in := NewIntel()
	Scan("your policy number POL-2023-98765 has lapsed", in)

	assert.True(t, in.PolicyNumbers["POL-2023-98765"])
	for id := range in.CaseIDs {
		assert.NotContains(t, id, "POL-")
	}
}

func TestOrderNumbers(t *testing.T) {
	in := NewIntel()
	Scan("your order id: ORD-AMZ-789456123 is held at customs", in)
	assert.True(t, in.OrderNumbers["ORD-AMZ-789456123"])
}

func TestHasActionableAndReport(t *testing.T) {
	in := NewIntel()
	assert.False(t, in.HasActionable())

	Scan("send to 9876543210", in)
	assert.True(t, in.HasActionable())

	report := in.Report()
	require.Len(t, report, 8)
	assert.Equal(t, []string{"+919876543210"}, report["phoneNumbers"])
}

func TestSupportingTypesDoNotTriggerReport(t *testing.T) {
	in := NewIntel()
	Scan("the fine is Rs 5000", in)
	assert.False(t, in.HasActionable())
	assert.True(t, in.Amounts["5000"])
}

func TestScanEmptyTextIsNoOp(t *testing.T) {
	in := NewIntel()
	Scan("   ", in)
	assert.False(t, in.HasActionable())
}
