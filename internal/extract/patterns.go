package extract

import "regexp"

// Indian phone formats: international, domestic, bare mobile, toll-free,
// landline, WhatsApp links, digit-spaced evasion, and keyword-adjacent.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+91[\s\-]?[6-9]\d{9}\b`),
	regexp.MustCompile(`\+91[\s\-]?[6-9]\d{4}[\s\-]\d{5}`),
	regexp.MustCompile(`\+91[\s\-]?[6-9]\d{2}[\s\-]\d{3}[\s\-]\d{4}`),
	regexp.MustCompile(`\(\+91\)[\s\-]?[6-9]\d{9}`),
	regexp.MustCompile(`\+91[\s\-]?\([6-9]\d{2}\)[\s\-]?\d{3}[\s\-]?\d{4}`),
	regexp.MustCompile(`\b91[\s\-]?[6-9]\d{9}\b`),
	regexp.MustCompile(`\b91[\s\-]?[6-9]\d{4}[\s\-]\d{5}\b`),
	regexp.MustCompile(`\b0[6-9]\d{9}\b`),
	regexp.MustCompile(`\b0[6-9]\d{4}[\s\-]\d{5}\b`),
	regexp.MustCompile(`\b[6-9]\d{9}\b`),
	regexp.MustCompile(`\b[6-9]\d{4}[\s\-]\d{5}\b`),
	regexp.MustCompile(`\b[6-9]\d{3}[\s\-]\d{6}\b`),
	regexp.MustCompile(`\b[6-9]\d{2}[\s\-]\d{3}[\s\-]\d{4}\b`),
	regexp.MustCompile(`\b1800[\s\-]?\d{3}[\s\-]?\d{4,5}\b`),
	regexp.MustCompile(`\b1860[\s\-]?\d{3}[\s\-]?\d{4,5}\b`),
	regexp.MustCompile(`\b0\d{2,4}[\s\-]?\d{6,8}\b`),
	regexp.MustCompile(`\bwa\.me/(?:\+?91)?[6-9]\d{9}\b`),
	regexp.MustCompile(`\b[6-9]\s\d\s\d\s\d\s\d\s\d\s\d\s\d\s\d\s\d\b`),
	regexp.MustCompile(`(?i)(?:call|phone|mobile|contact|whatsapp|number|no|reach)\s*(?:me\s*)?(?:at|on|:|\-)?\s*(?:\+?91[\s\-]?)?([6-9]\d{9})`),
	regexp.MustCompile(`(?i)(?:call|phone|mobile|contact|whatsapp|number|no|reach)\s*(?:me\s*)?(?:at|on|:|\-)?\s*(?:\+?91[\s\-]?)?([6-9]\d{4}[\s\-]\d{5})`),
}

var bareAccountPattern = regexp.MustCompile(`\b\d{9,18}\b`)

var contextualBankPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:account|a/c|acct|acc)\s*(?:no|number|num|#)?[\s:.#\-]*(\d{6,18})`),
	regexp.MustCompile(`(?i)(?:bank\s*(?:account|a/c))\s*(?:no|number|num|#)?[\s:.#\-]*(\d{6,18})`),
	regexp.MustCompile(`(?i)(?:transfer\s*to|deposit\s*to|send\s*to|credit\s*to)\s*(?:account\s*)?(\d{9,18})`),
	regexp.MustCompile(`(?i)(?:beneficiary|payee|receiver)\s*(?:account|a/c)?\s*(?:no|number)?[\s:.#\-]*(\d{9,18})`),
	regexp.MustCompile(`(?i)(?:savings?|current|fixed\s*deposit|fd)\s*(?:account|a/c)\s*(?:no|number)?[\s:.#\-]*(\d{9,18})`),
	regexp.MustCompile(`(?i)(?:account\s*(?:holder|name|details))\s*.{0,30}(\d{9,18})`),
}

// upiPattern deliberately has no trailing guard; scanUPI checks the
// following characters to reject email-style domains.
var upiPattern = regexp.MustCompile(`(?i)\b[\w.\-]{2,}@[a-zA-Z][a-zA-Z0-9]{1,30}`)

var emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`)

var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`),
	regexp.MustCompile(`(?i)\b(?:bit\.ly|tinyurl\.com|goo\.gl|t\.co|rb\.gy|is\.gd|cutt\.ly|shorturl\.at|ow\.ly|tiny\.cc|v\.gd|s\.id|clck\.ru|rebrand\.ly)/[a-zA-Z0-9\-_]+`),
	regexp.MustCompile(`(?i)\bwa\.me/[0-9]+`),
	regexp.MustCompile(`(?i)\bt\.me/[a-zA-Z0-9_]+`),
	regexp.MustCompile(`(?i)\b[a-z0-9]{4,}\.(?:xyz|top|online|site|work|click|live|club|fun|icu|buzz|ooo|rest|cam|loan|win|bid)[^\s]*`),
	regexp.MustCompile(`(?i)\b(?:forms?\.google\.com|docs\.google\.com)/[^\s]+`),
	regexp.MustCompile(`(?i)\b(?:play\.google\.com|apps\.apple\.com)/[^\s]+`),
	regexp.MustCompile(`(?i)\b[a-z0-9\-]+(?:bank|secure|verify|update|login|account|pay|refund|claim)[a-z0-9\-]*\.(?:com|in|org|net|co\.in)/[^\s]*`),
}

var urlTrailingJunk = regexp.MustCompile(`[.,;:!?\)\]>]+$`)

var aadhaarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[2-9]\d{3}[\s\-]?\d{4}[\s\-]?\d{4}\b`),
	regexp.MustCompile(`(?i)(?:aadhaar|aadhar|uid)\s*(?:no|number|card|id)?[\s:.#\-]*(\d{12})`),
	regexp.MustCompile(`(?i)(?:aadhaar|aadhar|uid)\s*(?:no|number|card|id)?[\s:.#\-]*(\d{4}[\s\-]\d{4}[\s\-]\d{4})`),
}

var panPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z]{3}[ABCFGHLJPT][A-Z]\d{4}[A-Z]\b`),
	regexp.MustCompile(`(?i:pan(?:\s*card|\s*no|\s*number)?[\s:.#\-]*)([A-Z]{5}\d{4}[A-Z])`),
}

var ifscPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`),
	regexp.MustCompile(`(?i:ifsc(?:\s*code)?[\s:.#\-]*)([A-Z]{4}0[A-Z0-9]{6})`),
}

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:rs|₹|inr|rupees?)\s*\.?\s*(\d[\d,]*(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d{1,2})?)\s*(?:rs|₹|inr|rupees?)`),
	regexp.MustCompile(`(?i)(?:amount|fee|charge|payment|fine|penalty)\s*(?:of|is|:)?\s*(?:rs|₹|inr)?\s*(\d[\d,]*)`),
}

var caseIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:case\s*id|case\s*no|case\s*number|complaint\s*id|complaint\s*no|cid)[:\s#\-.]*([A-Z0-9][A-Z0-9\-/]{2,20})\b`),
	regexp.MustCompile(`(?i)(?:reference\s*(?:no|number|id)|ref\s*(?:no|id|#))[:\s#\-.]*#?([A-Z0-9][A-Z0-9\-/]{2,20})\b`),
	regexp.MustCompile(`(?i)(?:ticket\s*(?:no|id|number)|fir\s*(?:no|number|id))[:\s#\-.]*([A-Z0-9][A-Z0-9\-/]{2,20})\b`),
	regexp.MustCompile(`\b[XCTR]-\d{3,8}\b`),
	regexp.MustCompile(`\bCID-?[A-Z0-9]{4,12}\b`),
	regexp.MustCompile(`\b(FRD-[A-Z0-9\-]{5,20})\b`),
	regexp.MustCompile(`\b(CBI-[A-Z0-9\-]{5,25})\b`),
	regexp.MustCompile(`\b(FIR-[A-Z0-9\-]{5,25})\b`),
	regexp.MustCompile(`\b(REFUND-[A-Z0-9\-]{3,15})\b`),
	regexp.MustCompile(`\b(NCB-[A-Z0-9\-]{4,20})\b`),
	regexp.MustCompile(`\b(ED-[A-Z0-9\-]{4,20})\b`),
	regexp.MustCompile(`\b(CYBER-[A-Z0-9\-]{4,20})\b`),
	regexp.MustCompile(`\b(ITR-[A-Z0-9\-]{4,15})\b`),
	regexp.MustCompile(`\b(DRI-[A-Z0-9\-]{4,20})\b`),
	regexp.MustCompile(`\b[A-Z]{2,5}-\d{4}-[A-Z0-9\-]{3,15}\b`),
	regexp.MustCompile(`\b([A-Z]{2,10}-[A-Z0-9]{2,12}-[A-Z0-9\-]{4,25})\b`),
}

var policyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:policy\s*(?:no|number|id|#)|insurance\s*(?:id|no|number|policy))(?:\s*(?:is|:))?\s*[:\s#\-.]*([A-Z]{0,5}-?[A-Z0-9\-]{3,20})\b`),
	regexp.MustCompile(`(?i)(?:lic\s*(?:policy|no|number)|policy\s*code)(?:\s*(?:is|:))?\s*[:\s#\-.]*([A-Z0-9\-]{4,18})\b`),
	regexp.MustCompile(`\b(?:P|INS|POL)-[A-Z0-9\-]{4,20}\b`),
	regexp.MustCompile(`\bPOLICY-?[A-Z0-9]{4,12}\b`),
	regexp.MustCompile(`\bLIC-[A-Z]{2,5}-\d{4}-[A-Z0-9\-]{4,12}\b`),
}

// Matched separately so a following "-digit" can be rejected; RE2 has no
// negative lookahead.
var policyBareNumPattern = regexp.MustCompile(`\b(?:P|INS|POL)-?\d{4,10}\b`)

var orderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:order\s*(?:id|no|number|#)|order\s*ref(?:erence)?)[:\s#\-.]+([A-Z]{0,4}-?\d{4,16})\b`),
	regexp.MustCompile(`(?i)(?:txn\s*(?:ref|id|no)\b|transaction\s*(?:id|no|number)\b)[:\s#\-.]+([A-Z]{0,3}-?[A-Z0-9]{4,16})\b`),
	regexp.MustCompile(`\b(?:ORD|TRN)-?[A-Z0-9]{3,12}\b`),
	regexp.MustCompile(`\bTXN?-?\d{3,12}\b`),
	regexp.MustCompile(`(?i)(?:shipment\s*id|parcel\s*id|courier\s*(?:id|ref))[:\s#\-.]+([A-Z0-9\-]{4,18})\b`),
	regexp.MustCompile(`\b(ORD-[A-Z]{2,4}-[A-Z0-9\-]{4,20})\b`),
	regexp.MustCompile(`\b(AMZ-[A-Z0-9\-]{6,20})\b`),
	regexp.MustCompile(`\b(FLK-[A-Z0-9\-]{6,20})\b`),
	regexp.MustCompile(`\b(SHIP-[A-Z0-9\-]{4,15})\b`),
	regexp.MustCompile(`(?i)order\s+([A-Z0-9\-]{8,25})\b`),
	regexp.MustCompile(`\b([A-Z]{2,5}-[A-Z]{2,5}-\d{4}-\d{4,12})\b`),
}

// upiProviders are known Indian VPA handles; a match whose domain is one
// of these is a UPI ID, not an email.
var upiProviders = map[string]bool{
	"paytm": true, "ybl": true, "okaxis": true, "oksbi": true,
	"okhdfcbank": true, "okicici": true, "axl": true, "ibl": true,
	"upi": true, "apl": true, "rapl": true, "waaxis": true,
	"wahdfcbank": true, "waicici": true, "wasbi": true, "ikwik": true,
	"freecharge": true, "airtel": true, "jio": true, "pingpay": true,
	"slice": true, "amazonpay": true, "postpe": true, "axisb": true,
	"sbi": true, "hdfc": true, "icici": true, "kotak": true,
	"indus": true, "federal": true, "idbi": true, "pnb": true,
	"bob": true, "union": true, "canara": true, "boi": true,
	"cbi": true, "iob": true, "jupiter": true, "fi": true,
	"groww": true, "cred": true, "bharatpe": true, "navi": true,
	"mobikwik": true, "yesbank": true, "rbl": true, "dbs": true,
	"hsbc": true, "scb": true, "citi": true, "barodapay": true,
	"aubank": true, "bandhan": true, "payzapp": true, "phonepe": true,
	"gpay": true, "googlepay": true, "fam": true, "equitas": true,
	"dlb": true, "kvb": true, "tmb": true, "lvb": true, "dcb": true,
	"jkb": true, "ujjivan": true, "suryoday": true, "esaf": true,
	"utkarsh": true, "shivalik": true, "fino": true,
	"airtelpaymentsbank": true, "paytmpaymentsbank": true,
	"jiomoney": true, "myicici": true, "oxigen": true, "ola": true,
	"hdfcbank": true, "icicibank": true, "axisbank": true,
	"kotakbank": true, "sbibank": true, "pnbbank": true,
	"bobbank": true, "canarabank": true, "unionbank": true,
	"boibank": true, "centralbank": true, "iobbank": true,
	"indianbank": true, "mairtel": true, "yespay": true,
	"rblbank": true, "dbsbank": true,
}

// emailDomainPrefixes mark domains that are mail providers, never VPAs.
var emailDomainPrefixes = []string{
	"gmail", "yahoo", "hotmail", "outlook", "live", "rediffmail",
	"protonmail", "aol", "icloud", "zoho", "yandex", "mail",
	"msn", "me", "pm", "tutanota",
}
