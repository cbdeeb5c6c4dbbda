// Package extract pulls actionable identifiers out of scammer messages
// with regex matching and canonical normalization: phone numbers, bank
// accounts, UPI IDs, emails, URLs, Aadhaar and PAN numbers, IFSC codes,
// monetary amounts, and fabricated case/policy/order references.
package extract

import (
	"sort"
	"strings"
)

// Intel is the per-session de-duplicated identifier store. Sets are keyed
// by canonical form: phones as +91XXXXXXXXXX, URLs lowercased without a
// trailing slash, UPI IDs and emails lowercased, account numbers stripped
// of spaces and dashes.
type Intel struct {
	PhoneNumbers   map[string]bool `json:"phoneNumbers"`
	BankAccounts   map[string]bool `json:"bankAccounts"`
	UpiIDs         map[string]bool `json:"upiIds"`
	PhishingLinks  map[string]bool `json:"phishingLinks"`
	EmailAddresses map[string]bool `json:"emailAddresses"`
	CaseIDs        map[string]bool `json:"caseIds"`
	PolicyNumbers  map[string]bool `json:"policyNumbers"`
	OrderNumbers   map[string]bool `json:"orderNumbers"`
	AadhaarNumbers map[string]bool `json:"aadhaarNumbers"`
	PanCards       map[string]bool `json:"panCards"`
	IfscCodes      map[string]bool `json:"ifscCodes"`
	Amounts        map[string]bool `json:"amounts"`
}

// NewIntel returns an empty identifier store.
func NewIntel() *Intel {
	return &Intel{
		PhoneNumbers:   make(map[string]bool),
		BankAccounts:   make(map[string]bool),
		UpiIDs:         make(map[string]bool),
		PhishingLinks:  make(map[string]bool),
		EmailAddresses: make(map[string]bool),
		CaseIDs:        make(map[string]bool),
		PolicyNumbers:  make(map[string]bool),
		OrderNumbers:   make(map[string]bool),
		AadhaarNumbers: make(map[string]bool),
		PanCards:       make(map[string]bool),
		IfscCodes:      make(map[string]bool),
		Amounts:        make(map[string]bool),
	}
}

// HasActionable reports whether any reportable identifier was captured.
// Aadhaar/PAN/IFSC/amounts are supporting context, not report triggers.
func (in *Intel) HasActionable() bool {
	for _, set := range []map[string]bool{
		in.PhoneNumbers, in.BankAccounts, in.UpiIDs, in.PhishingLinks,
		in.EmailAddresses, in.CaseIDs, in.PolicyNumbers, in.OrderNumbers,
	} {
		if len(set) > 0 {
			return true
		}
	}
	return false
}

// Report returns the eight reportable identifier lists, sorted.
func (in *Intel) Report() map[string][]string {
	return map[string][]string{
		"phoneNumbers":   sorted(in.PhoneNumbers),
		"bankAccounts":   sorted(in.BankAccounts),
		"upiIds":         sorted(in.UpiIDs),
		"phishingLinks":  sorted(in.PhishingLinks),
		"emailAddresses": sorted(in.EmailAddresses),
		"caseIds":        sorted(in.CaseIDs),
		"policyNumbers":  sorted(in.PolicyNumbers),
		"orderNumbers":   sorted(in.OrderNumbers),
	}
}

// Snapshot returns every identifier list including the supporting types.
func (in *Intel) Snapshot() map[string][]string {
	out := in.Report()
	out["aadhaarNumbers"] = sorted(in.AadhaarNumbers)
	out["panCards"] = sorted(in.PanCards)
	out["ifscCodes"] = sorted(in.IfscCodes)
	out["amounts"] = sorted(in.Amounts)
	return out
}

// Counts returns per-type totals for notes and metrics.
func (in *Intel) Counts() map[string]int {
	counts := make(map[string]int)
	for key, list := range in.Snapshot() {
		counts[key] = len(list)
	}
	return counts
}

// Scan runs every extraction pass over one message and merges the results
// into the store. Empty text is a no-op.
func Scan(text string, in *Intel) {
	if strings.TrimSpace(text) == "" {
		return
	}
	scanPhones(text, in)
	scanBankAccounts(text, in)
	scanUPI(text, in)
	scanEmails(text, in)
	scanURLs(text, in)
	scanAadhaar(text, in)
	scanPAN(text, in)
	scanIFSC(text, in)
	scanAmounts(text, in)
	scanCaseIDs(text, in)
	scanPolicyNumbers(text, in)
	scanOrderNumbers(text, in)
}

func scanPhones(text string, in *Intel) {
	for _, re := range phonePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			cleaned := stripPhoneChars(raw)

			if strings.HasPrefix(cleaned, "91") && len(cleaned) == 12 {
				cleaned = cleaned[2:]
			} else if strings.HasPrefix(cleaned, "0") && len(cleaned) == 11 {
				cleaned = cleaned[1:]
			}

			if len(cleaned) == 10 && cleaned[0] >= '6' && cleaned[0] <= '9' {
				in.PhoneNumbers["+91"+cleaned] = true
			}
			if strings.HasPrefix(cleaned, "1800") || strings.HasPrefix(cleaned, "1860") {
				in.PhoneNumbers[cleaned] = true
			}
		}
	}
}

// stripPhoneChars drops separators and wa.me link characters.
func stripPhoneChars(raw string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '+', '(', ')', 'w', 'a', '.', 'm', 'e', '/':
			return -1
		}
		return r
	}, raw)
}

func scanBankAccounts(text string, in *Intel) {
	for _, m := range bareAccountPattern.FindAllString(text, -1) {
		// 10-digit runs starting 6-9 are mobiles, not accounts.
		if len(m) == 10 && m[0] >= '6' && m[0] <= '9' {
			continue
		}
		in.BankAccounts[normalizeAccount(m)] = true
	}
	for _, re := range contextualBankPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if n := len(m[1]); n >= 6 && n <= 18 {
				in.BankAccounts[normalizeAccount(m[1])] = true
			}
		}
	}
}

func normalizeAccount(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func scanUPI(text string, in *Intel) {
	for _, loc := range upiPattern.FindAllStringIndex(text, -1) {
		match := text[loc[0]:loc[1]]

		// A domain continuing with ".x" or "-x" is an email or web
		// domain, which the pattern alone cannot see.
		if loc[1]+1 < len(text) {
			next, after := text[loc[1]], text[loc[1]+1]
			if (next == '.' || next == '-') && isAlnum(after) {
				continue
			}
		}

		at := strings.LastIndex(match, "@")
		local, domain := match[:at], strings.ToLower(match[at+1:])
		if len(local) < 2 {
			continue
		}
		if isEmailProvider(domain) {
			continue
		}
		if upiProviders[domain] || (!strings.Contains(domain, ".") && len(domain) <= 15) {
			in.UpiIDs[strings.ToLower(match)] = true
		}
	}
}

func isEmailProvider(domain string) bool {
	for _, prefix := range emailDomainPrefixes {
		if strings.HasPrefix(domain, prefix) {
			return true
		}
	}
	return false
}

func isAlnum(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func scanEmails(text string, in *Intel) {
	for _, m := range emailPattern.FindAllString(text, -1) {
		domain := strings.ToLower(m[strings.LastIndex(m, "@")+1:])
		base := domain
		if i := strings.Index(domain, "."); i >= 0 {
			base = domain[:i]
		}
		if upiProviders[base] {
			continue
		}
		in.EmailAddresses[strings.ToLower(m)] = true
	}
}

func scanURLs(text string, in *Intel) {
	for _, re := range urlPatterns {
		for _, m := range re.FindAllString(text, -1) {
			cleaned := urlTrailingJunk.ReplaceAllString(m, "")
			cleaned = strings.TrimRight(strings.ToLower(cleaned), "/")
			if len(cleaned) > 5 {
				in.PhishingLinks[cleaned] = true
			}
		}
	}
}

func scanAadhaar(text string, in *Intel) {
	for _, re := range aadhaarPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			digits := normalizeAccount(raw)
			if len(digits) == 12 {
				in.AadhaarNumbers[digits] = true
			}
		}
	}
}

func scanPAN(text string, in *Intel) {
	for _, re := range panPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			in.PanCards[strings.ToUpper(raw)] = true
		}
	}
}

func scanIFSC(text string, in *Intel) {
	for _, re := range ifscPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			in.IfscCodes[strings.ToUpper(raw)] = true
		}
	}
}

func scanAmounts(text string, in *Intel) {
	for _, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			amount := strings.ReplaceAll(m[1], ",", "")
			if amount != "" {
				in.Amounts[amount] = true
			}
		}
	}
}

// policyIDPrefixes keep insurance references out of the case-ID bucket.
var policyIDPrefixes = []string{"POL-", "INS-", "POLICY-", "P-", "LIC-"}

func scanCaseIDs(text string, in *Intel) {
	for _, re := range caseIDPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			id := strings.ToUpper(strings.TrimSpace(raw))
			if len(id) < 3 || hasAnyPrefix(id, policyIDPrefixes) {
				continue
			}
			in.CaseIDs[id] = true
		}
	}
}

func scanPolicyNumbers(text string, in *Intel) {
	for _, re := range policyPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			id := strings.ToUpper(strings.TrimSpace(raw))
			if len(id) >= 3 {
				in.PolicyNumbers[id] = true
			}
		}
	}
	// Bare P/INS/POL numbers, skipping partial matches of longer IDs.
	for _, loc := range policyBareNumPattern.FindAllStringIndex(text, -1) {
		if loc[1]+1 < len(text) && text[loc[1]] == '-' && isDigit(text[loc[1]+1]) {
			continue
		}
		in.PolicyNumbers[strings.ToUpper(text[loc[0]:loc[1]])] = true
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func scanOrderNumbers(text string, in *Intel) {
	for _, re := range orderPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			id := strings.ToUpper(strings.TrimSpace(raw))
			if len(id) >= 3 {
				in.OrderNumbers[id] = true
			}
		}
	}
}

func sorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
