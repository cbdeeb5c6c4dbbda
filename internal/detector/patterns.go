package detector

import "regexp"

// Signal category names. These are the keys stored in Profile.SignalCounts
// and the vocabulary the classifier works from.
const (
	SignalUrgency        = "urgency"
	SignalAuthority      = "authority_impersonation"
	SignalOTP            = "otp_request"
	SignalPayment        = "payment_request"
	SignalSuspension     = "account_suspension"
	SignalLure           = "prize_lure"
	SignalURL            = "suspicious_url"
	SignalEmotional      = "emotional_pressure"
	SignalLegalThreat    = "legal_threat"
	SignalDigitalArrest  = "digital_arrest"
	SignalCourier        = "courier"
	SignalScreenShare    = "screen_share"
	SignalUPI            = "upi_specific"
	SignalInvestment     = "investment"
	SignalTechSupport    = "tech_support"
	SignalJobFraud       = "job_fraud"
	SignalLoanFraud      = "loan_fraud"
	SignalInsuranceFraud = "insurance_fraud"
	SignalRomance        = "romance_scam"
	SignalIdentityTheft  = "identity_theft"
)

type pattern struct {
	re     *regexp.Regexp
	weight float64
}

func pat(expr string, weight float64) pattern {
	return pattern{re: regexp.MustCompile(`(?i)` + expr), weight: weight}
}

type layer struct {
	name     string
	patterns []pattern
}

// coreLayers are the twelve primary signal categories. Every message is
// scored against all of them; within a layer only the heaviest matching
// pattern counts for the turn.
var coreLayers = []layer{
	{SignalUrgency, []pattern{
		pat(`\b(urgent|urgently|immediate(?:ly)?|right\s*now|asap)\b`, 12),
		pat(`\b(hurry|quickly|fast|rush|rushing)\b`, 10),
		pat(`\b(within\s*\d+\s*(?:hour|minute|min|day|hr)s?|today\s*only)\b`, 14),
		pat(`\b(last\s*chance|final\s*(?:notice|warning|chance)|expir(?:e|ing|ed))\b`, 16),
		pat(`\b(deadline|time\s*(?:running|left)|before\s*\d+)\b`, 12),
		pat(`\b(act\s*now|don.t\s*wait|limited\s*time|time\s*sensitive)\b`, 14),
		pat(`\b(running\s*out|clock\s*is\s*ticking|no\s*time)\b`, 12),
		pat(`\b(expire[sd]?\s*(?:in|within|today|soon)|valid\s*(?:till|until|for))\b`, 14),
		pat(`\b(?:only|just)\s*\d+\s*(?:hour|minute|min|slot|seat)s?\s*(?:left|remaining)\b`, 16),
		pat(`\b(respond\s*(?:now|immediately|urgently)|time\s*is\s*(?:running|short))\b`, 12),
		// Hindi/Hinglish
		pat(`\b(jaldi|turant|abhi|fauran|fatafat|jald\s*se\s*jald)\b`, 12),
		pat(`\b(samay\s*(?:khatam|nahi)|waqt\s*nahi|bahut\s*zaruri)\b`, 12),
		pat(`\b(aakhri\s*(?:mauka|chance|moka)|ant(?:im|a)\s*(?:chetavani|warning))\b`, 14),
		pat(`\b(jaldi\s*kar(?:o|iye|en)|der\s*mat\s*kar(?:o|iye))\b`, 12),
		pat(`\b(tatkaal|atisheeghra|sheeghrata\s*se)\b`, 10),
	}},
	{SignalAuthority, []pattern{
		pat(`\b(rbi|reserve\s*bank(?:\s*of\s*india)?)\b`, 18),
		pat(`\b(income\s*tax|it\s*department|itr)\b`, 16),
		pat(`\b(police|cbi|enforcement\s*directorate)\b`, 18),
		pat(`\b(trai|dot|department\s*of\s*telecom(?:munications)?)\b`, 16),
		pat(`\b(customs|ministry|government|govt)\b`, 14),
		pat(`\b(officer|inspector|commissioner|superintendent|sub[\s\-]?inspector)\b`, 12),
		pat(`\b(uidai|npci|sebi|irda|irdai|nabard|sidbi)\b`, 14),
		pat(`\b(cyber\s*(?:cell|crime|police|branch))\b`, 16),
		pat(`\b(central\s*bureau|investigation\s*agency|nia|nsa)\b`, 18),
		pat(`\b(supreme\s*court|high\s*court|court\s*order|sessions?\s*court)\b`, 16),
		pat(`\b(pradhan\s*mantri|pm\s*(?:scheme|yojana)|govt\s*scheme)\b`, 14),
		pat(`\b(sbi|state\s*bank|hdfc|icici|axis\s*bank|kotak|pnb)\b`, 10),
		pat(`\b(airtel|jio|vodafone|vi|bsnl)\b`, 10),
		pat(`\b(amazon|flipkart|paytm|phonepe|google\s*pay)\b`, 8),
		pat(`\b(narcotics?\s*(?:bureau|department|control)|ncb)\b`, 18),
		pat(`\b(immigration|passport\s*office|dgca)\b`, 14),
		pat(`\b(election\s*commission|eci|niti\s*aayog)\b`, 12),
		pat(`\b(epfo|pf\s*office|esi|labour\s*(?:department|office))\b`, 12),
		pat(`\b(municipal|nagar\s*(?:nigam|palika)|corporation)\b`, 10),
		// Hindi
		pat(`\b(sarkar|sarkari|adhikari|thana|thanedar)\b`, 12),
		pat(`\b(vibhag|mantralaya|niyamak|pradhikaran)\b`, 10),
	}},
	{SignalOTP, []pattern{
		pat(`\b(otp|one\s*time\s*password|verification\s*code)\b`, 20),
		pat(`\b(?:share|send|tell|give|provide|forward)\s*(?:me\s*)?(?:the\s*)?(?:otp|code|pin)\b`, 25),
		pat(`\b\d[\s\-]?digit\s*(?:code|otp|pin|password|number)\b`, 22),
		pat(`\b(?:enter|type|input|submit)\s*(?:the\s*)?(?:otp|code|pin)\b`, 22),
		pat(`\b(cvv|atm\s*pin|card\s*pin|mpin|m[\s\-]?pin|upi\s*pin)\b`, 22),
		pat(`\b(?:received?\s*(?:a\s*)?(?:otp|code|sms|message))\b`, 18),
		pat(`\b(?:read\s*(?:out|me)\s*(?:the\s*)?(?:otp|code|number))\b`, 25),
		pat(`\b(?:what\s*(?:is|was)\s*(?:the\s*)?(?:otp|code|pin))\b`, 22),
		pat(`\b(?:confirm\s*(?:your\s*)?(?:otp|code|pin|password))\b`, 20),
		pat(`\b(?:send\s*(?:the\s*)?sms\s*(?:code|otp))\b`, 22),
		// Hindi
		pat(`\b(?:otp\s*(?:batao|bhejo|do|dijiye|bataiye))\b`, 22),
		pat(`\b(?:code\s*(?:batao|bhejo|do|dijiye))\b`, 20),
	}},
	{SignalPayment, []pattern{
		pat(`\b(?:send|transfer|pay)\s*(?:me|us|the|now|rs|₹|\$|\d+)\b`, 18),
		pat(`\b(processing\s*fee|registration\s*fee|advance\s*payment)\b`, 20),
		pat(`\b(pay\s*now|transfer\s*now|send\s*money|make\s*payment)\b`, 18),
		pat(`\b(?:amount|money|payment)\s*(?:of|is|due|required|pending)\b`, 14),
		pat(`\b(demand\s*draft|neft|rtgs|imps|wire\s*transfer)\b`, 10),
		pat(`\b(?:refund|cashback|reward)\s*(?:of|is|amount|pending|process)\b`, 16),
		pat(`\b(?:rs|₹|inr)\s*\d[\d,]*\b`, 12),
		pat(`\b\d[\d,]*\s*(?:rs|rupees?|₹|inr)\b`, 12),
		pat(`\b(security\s*deposit|verification\s*(?:fee|charge|amount))\b`, 18),
		pat(`\b(service\s*(?:charge|fee|tax)|gst\s*(?:charge|fee|extra))\b`, 16),
		pat(`\b(clearance\s*(?:fee|charge|amount)|handling\s*(?:fee|charge))\b`, 18),
		pat(`\b(stamp\s*duty|documentation\s*(?:fee|charge))\b`, 16),
		pat(`\b(insurance\s*premium|membership\s*fee|activation\s*(?:fee|charge))\b`, 16),
		pat(`\b(token\s*(?:money|amount)|booking\s*(?:amount|fee))\b`, 14),
		// Hindi
		pat(`\b(paisa|paise|rupaye|bhejo|transfer\s*karo|payment\s*karo)\b`, 14),
		pat(`\b(rashi|dhanrashi|shulk|fees?\s*jama\s*kar(?:o|en))\b`, 14),
	}},
	{SignalSuspension, []pattern{
		pat(`\b(?:account|a/c)\s*(?:will\s*be\s*)?(?:suspend|block|deactivat|freez|terminat|clos|lock)\w*\b`, 18),
		pat(`\b(?:suspend|block|deactivat|freez|terminat|lock|clos)(?:ed|ion|ing|ure)\s*(?:your\s*)?(?:account|a/c|card|number|sim|wallet)?\b`, 16),
		pat(`\b(?:kyc|ekyc|re[\s\-]?kyc|ckyc)\s*(?:update|expir|fail|mandatory|required|pending|incomplete|verify)\b`, 18),
		pat(`\b(?:sim|number|mobile|phone)\s*(?:will\s*be\s*)?(?:block|deactivat|suspend|disconnect)\b`, 16),
		pat(`\b(?:aadhaar|aadhar|pan|pan\s*card)\s*(?:block|suspend|deactivat|cancel|link|mismatch)\b`, 16),
		pat(`\b(?:your\s*(?:card|debit|credit)\s*(?:is|will\s*be|has\s*been))\s*(?:block|suspend|deactivat|freez)\w*\b`, 18),
		pat(`\b(?:unauthorized?\s*(?:access|transaction|activity|login))\b`, 16),
		pat(`\b(?:suspicious\s*(?:activity|transaction|login|access))\b`, 16),
		pat(`\b(?:compromised?|hacked?|breach(?:ed)?|tamper(?:ed)?)\b`, 16),
		pat(`\b(?:permanently?\s*(?:block|close|deactivat|suspend|disabled?))\b`, 18),
		pat(`\b(?:service\s*(?:discontinue|terminate|suspend|restrict))\b`, 14),
		// Hindi
		pat(`\b(band\s*(?:ho\s*jayega|kar\s*diya|hoga)|rok\s*diya)\b`, 14),
		pat(`\b(khata\s*(?:band|block|freeze)|sim\s*band)\b`, 14),
	}},
	{SignalLure, []pattern{
		pat(`\b(?:won|winner|winning|congratulat)\w*\b`, 16),
		pat(`\b(prize|lottery|lucky\s*draw|jackpot|bumper\s*draw)\b`, 18),
		pat(`\b(?:cashback|cash\s*back|bonus|reward)\s*(?:of|is|amount)?\b`, 14),
		pat(`\b(?:claim|collect|receive|redeem)\s*(?:your\s*)?(?:prize|reward|money|amount|gift)\b`, 16),
		pat(`\b(?:guaranteed\s*returns?|double\s*your\s*money|high\s*returns?)\b`, 18),
		pat(`\b(?:selected|chosen|nominated|shortlisted)\s*(?:for|as)\b`, 14),
		pat(`\b(?:free\s*(?:gift|iphone|laptop|car|bike|gold|trip|holiday))\b`, 16),
		pat(`\b(?:scratch\s*card|spin\s*wheel|mega\s*(?:offer|deal|sale))\b`, 14),
		pat(`\b(?:exclusive\s*(?:offer|deal|discount)|special\s*(?:offer|price))\b`, 12),
		pat(`\b(?:limited\s*(?:offer|period|seats?)|offer\s*ends?\s*(?:today|soon|now))\b`, 14),
		pat(`\b(?:kbc|kaun\s*banega\s*crorepati|who\s*wants?\s*to\s*be)\b`, 20),
		pat(`\b(?:amazon\s*(?:lucky|winner|prize)|flipkart\s*(?:lucky|winner))\b`, 18),
		pat(`\b(?:government\s*(?:scheme|subsidy|grant)|pm\s*(?:yojana|scheme))\b`, 14),
		// Hindi
		pat(`\b(jeet(?:a|e)|muft|inaam|lakhpati|crorepati)\b`, 14),
		pat(`\b(badhai|badhaiyan|shubh|lucky)\b`, 10),
	}},
	{SignalURL, []pattern{
		pat(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`, 12),
		pat(`\b(?:bit\.ly|tinyurl|goo\.gl|t\.co|rb\.gy|is\.gd|cutt\.ly|shorturl|ow\.ly|tiny\.cc|v\.gd)\b`, 16),
		pat(`\b(?:click\s*(?:here|this|below|the\s*link)|tap\s*(?:here|this|below)|open\s*(?:this|the\s*link))\b`, 14),
		pat(`\b(?:wa\.me|whatsapp\.com|t\.me|telegram\.me)\b`, 10),
		pat(`[a-z0-9]+\.(?:xyz|top|online|site|work|click|live|club|fun|icu|buzz)\b`, 14),
		pat(`\b(?:download|install|update)\s*(?:from|the|this|our)\s*(?:link|app|apk)\b`, 14),
		pat(`\b(?:apk|\.exe|\.msi)\s*(?:file|download|install)\b`, 16),
		pat(`\b(?:play\s*store\s*(?:link|download)|app\s*(?:store|download))\b`, 8),
		pat(`\b(?:insure|securelink|e-verification|e[\.\s]?verif)\b`, 16),
		pat(`\b(?:whatsapp|telegram)\s*(?:link|url|group|channel)\b`, 14),
		pat(`\b(?:mobile\s*app|apk\s*file|install\s*app)\b`, 14),
		pat(`\b(?:secure[\.\-]?link|safe[\.\-]?pay|verify[\.\-]?now|claim[\.\-]?reward)\b`, 16),
		pat(`[a-z0-9\-]*(?:secure|verify|account|update|login|claim)[a-z0-9\-]*\.(?:in|com|org|net)/[^\s]*`, 16),
	}},
	{SignalEmotional, []pattern{
		pat(`\b(scared|afraid|worried|danger(?:ous)?|risk|destroy|ruin)\b`, 10),
		pat(`\b(?:your\s*(?:family|children|parents?|wife|husband|reputation|career|future))\b`, 12),
		pat(`\b(embarrass|shame|disgrace|humiliat|insult)\b`, 12),
		pat(`\b(?:save|protect)\s*(?:yourself|your\s*(?:family|money))\b`, 8),
		pat(`\b(?:trust\s*me|believe\s*me|honest|genuine|rest\s*assured)\b`, 6),
		pat(`\b(confidential|secret|private|between\s*us|don.t\s*tell)\b`, 10),
		pat(`\b(?:no\s*one\s*(?:will\s*know|can\s*help)|only\s*(?:I|we)\s*can)\b`, 12),
		pat(`\b(helpless|hopeless|no\s*(?:choice|option|way\s*out))\b`, 10),
		pat(`\b(suffer|suffering|pain|misery|tragedy)\b`, 8),
		pat(`\b(?:your\s*(?:life|name)\s*(?:will\s*be|is)\s*(?:ruin|destroy|finish))\b`, 14),
		pat(`\b(media|newspaper|social\s*media|viral|public)\b`, 8),
		// Hindi
		pat(`\b(darr|daro|dar\s*jao|ghabrao|chinta|pareshaan)\b`, 10),
		pat(`\b(badnaam|izzat|sharm|beizzati|barbad)\b`, 12),
		pat(`\b(bach\s*jao|bacha\s*lo|madad|sahara|bharosa)\b`, 8),
	}},
	{SignalLegalThreat, []pattern{
		pat(`\b(legal\s*action|legal\s*notice|legal\s*proceedings?)\b`, 16),
		pat(`\b(arrest(?:ed)?|warrant|fir|first\s*information\s*report)\b`, 16),
		pat(`\b(jail|prison|imprison(?:ment)?|custody|detention|lock[\s\-]?up)\b`, 18),
		pat(`\b(penalty|fine|prosecution|indictment|conviction)\b`, 14),
		pat(`\b(?:case\s*(?:filed|registered|pending)|under\s*investigation)\b`, 16),
		pat(`\b(money\s*laundering|terror(?:ist)?\s*funding|hawala)\b`, 20),
		pat(`\b(non[\s\-]?bailable|criminal\s*(?:case|offence|charge))\b`, 18),
		pat(`\b(section\s*\d+|ipc\s*\d+|crpc|it\s*act|cyber\s*(?:act|law))\b`, 14),
		pat(`\b(summon(?:s|ed)?|notice\s*(?:served|issued)|contempt\s*of\s*court)\b`, 16),
		pat(`\b(blacklist(?:ed)?|watchlist|lookout\s*(?:notice|circular))\b`, 16),
		pat(`\b(interpol|red\s*corner|blue\s*corner|extradition)\b`, 18),
		pat(`\b(narcotics?\s*(?:case|offence)|drug\s*trafficking)\b`, 20),
		pat(`\b(seize|confiscate|attach|freeze)\s*(?:your\s*)?(?:property|assets?|accounts?)\b`, 16),
		// Hindi
		pat(`\b(giraftaar|giraftaari|hathkadi|jail\s*bhejo|andar\s*kar\s*denge)\b`, 18),
		pat(`\b(kanoon|kanuni|kaarwahi|mukadma|adalat|peshi)\b`, 14),
		pat(`\b(jurmana|saza|dand|paabandi)\b`, 12),
	}},
	{SignalDigitalArrest, []pattern{
		pat(`\b(digital\s*arrest|video\s*call\s*arrest|online\s*arrest)\b`, 20),
		pat(`\b(stay\s*on\s*(?:the\s*)?(?:call|video|line)|don.t\s*disconnect)\b`, 16),
		pat(`\b(?:video\s*(?:call|conference|hearing))\s*.{0,30}(?:court|police|verification|statement)\b`, 18),
		pat(`\b(?:camera\s*(?:on|chalu)|turn\s*on\s*(?:your\s*)?(?:camera|video))\b`, 14),
		pat(`\b(?:virtual\s*(?:court|hearing|custody)|house\s*arrest)\b`, 18),
	}},
	{SignalCourier, []pattern{
		pat(`\b(?:parcel|courier|package|shipment|consignment)\s*.{0,30}(?:seiz|held|illegal|drugs|contraband|suspicious)\b`, 20),
		pat(`\b(?:customs?\s*(?:duty|clearance|department|officer|fee|charge))\b`, 14),
		pat(`\b(?:drugs?|contraband|illegal\s*(?:items?|goods?|substance))\s*.{0,30}(?:found|detected|seized|discovered)\b`, 20),
		pat(`\b(?:fedex|dhl|blue\s*dart|dtdc|india\s*post|speed\s*post)\b`, 12),
		pat(`\b(?:tracking\s*(?:number|id|code)|consignment\s*(?:number|id|no))\b`, 10),
		pat(`\b(?:parcel|package|shipment)\s*(?:from|to)\s*(?:china|abroad|overseas|foreign|international)\b`, 16),
		pat(`\b(?:import\s*(?:duty|tax|fee)|export\s*(?:duty|tax|fee))\b`, 14),
		pat(`\b(?:x[\s\-]?ray|scan(?:ned)?|inspect(?:ed|ion)?)\s*.{0,20}(?:parcel|package|shipment)\b`, 14),
	}},
	{SignalScreenShare, []pattern{
		pat(`\b(?:anydesk|teamviewer|quicksupport|ammyy|ultraviewer)\b`, 20),
		pat(`\b(?:screen\s*shar(?:e|ing)|remote\s*(?:access|desktop|control|connection))\b`, 18),
		pat(`\b(?:share\s*(?:your\s*)?screen|give\s*(?:me\s*)?(?:access|control))\b`, 16),
		pat(`\b(?:9[\s\-]?digit\s*(?:address|code)|session\s*(?:code|id))\s*.{0,20}(?:anydesk|teamviewer|app)\b`, 18),
	}},
}

// auxLayers refine the scam-type classification for specialized rackets.
var auxLayers = []layer{
	{SignalUPI, []pattern{
		pat(`\b(?:upi\s*(?:id|address|handle)|bhim\s*id|vpa)\b`, 12),
		pat(`[\w.\-]+@(?:paytm|ybl|oksbi|okaxis|okicici|upi|phonepe|gpay|ibl|axl|apl|freecharge|airtel|jio|kotak|sbi|hdfc|icici|pnb|bob|barodapay|aubank)\b`, 16),
		pat(`\b(?:scan\s*(?:the\s*)?(?:qr|code|barcode)|upi\s*transfer)\b`, 12),
		pat(`\b(?:google\s*pay|phone\s*pe|paytm|bhim|cred|groww|slice|jupiter)\b`, 8),
		pat(`\b(?:collect\s*request|payment\s*(?:request|link)|pay\s*(?:link|request))\b`, 14),
		pat(`\b(?:qr\s*code|scan\s*(?:and|to)\s*pay|tap\s*(?:and|to)\s*pay)\b`, 12),
	}},
	{SignalInvestment, []pattern{
		pat(`\b(?:invest|trading|forex|crypto|bitcoin|ethereum)\s*.{0,30}(?:guaranteed|profit|returns?|income|gain)\b`, 18),
		pat(`\b(?:double|triple|10x|100x)\s*(?:your\s*)?(?:money|investment|capital|returns?)\b`, 20),
		pat(`\b(?:mutual\s*fund|stock\s*(?:tip|market)|insider\s*(?:info|tip|knowledge))\b`, 14),
		pat(`\b(?:demat|nifty|sensex|share\s*(?:market|trading)|ipo)\b`, 12),
		pat(`\b(?:monthly\s*(?:income|returns?|profit)|daily\s*(?:income|returns?|profit))\b`, 16),
		pat(`\b(?:risk[\s\-]?free|zero\s*risk|no\s*risk|safe\s*investment)\b`, 18),
		pat(`\b(?:portfolio|asset\s*management|wealth\s*management)\b`, 10),
		pat(`\b(?:mlm|multi[\s\-]?level|network\s*marketing|ponzi|pyramid)\b`, 20),
		pat(`\b(?:binary\s*(?:option|trading)|option\s*trading)\b`, 16),
		pat(`\b(?:referral\s*(?:bonus|income|commission)|joining\s*(?:bonus|fee))\b`, 14),
	}},
	{SignalTechSupport, []pattern{
		pat(`\b(?:virus|malware|trojan|spyware|ransomware)\s*.{0,20}(?:detected|found|infected|attack)\b`, 18),
		pat(`\b(?:computer|system|device|laptop|pc)\s*.{0,20}(?:hacked|compromised|infected|at\s*risk)\b`, 18),
		pat(`\b(?:microsoft|apple|google|windows)\s*.{0,15}(?:support|helpdesk|team|security)\b`, 16),
		pat(`\b(?:download\s*(?:this|the)\s*(?:app|software|tool)|install\s*(?:this|the)\s*(?:app|software))\b`, 16),
		pat(`\b(?:tech(?:nical)?\s*support|customer\s*(?:care|support|service)\s*(?:number|helpline))\b`, 12),
		pat(`\b(?:antivirus|firewall|security\s*(?:alert|warning|scan))\b`, 14),
	}},
	{SignalJobFraud, []pattern{
		pat(`\b(?:work\s*from\s*home|online\s*(?:job|work|earning|income))\b`, 14),
		pat(`\b(?:data\s*entry|typing\s*(?:job|work)|copy\s*paste)\b`, 14),
		pat(`\b(?:earn\s*(?:from\s*home|daily|weekly|monthly|lakhs?|thousands?))\b`, 16),
		pat(`\b(?:part[\s\-]?time\s*(?:job|work|income)|freelance\s*(?:job|work|opportunity))\b`, 12),
		pat(`\b(?:no\s*(?:experience|qualification|skill)s?\s*(?:needed|required))\b`, 16),
		pat(`\b(?:hiring|recruitment|vacancy|opening|placement)\b`, 8),
		pat(`\b(?:salary|stipend|package)\s*(?:of|is|upto|ranging)\s*(?:rs|₹|\d+)\b`, 14),
		pat(`\b(?:telegram\s*(?:group|channel|job)|whatsapp\s*(?:group|job))\b`, 12),
		pat(`\b(?:training\s*(?:fee|charge)|registration\s*(?:fee|charge|amount))\b`, 18),
		pat(`\b(?:amazon|flipkart|shopify)\s*(?:review|rating|product\s*review)\b`, 16),
		pat(`\b(?:youtube|instagram|social\s*media)\s*(?:like|follow|subscribe|view)\b`, 14),
		pat(`\b(?:task[\s\-]?based|per[\s\-]?task|commission[\s\-]?based)\b`, 12),
	}},
	{SignalLoanFraud, []pattern{
		pat(`\b(?:instant\s*(?:loan|credit)|pre[\s\-]?approved\s*(?:loan|credit))\b`, 16),
		pat(`\b(?:loan\s*(?:approved|sanction|disburs|offer|guarantee))\b`, 14),
		pat(`\b(?:low\s*(?:interest|emi)|zero\s*(?:interest|emi|percent))\b`, 14),
		pat(`\b(?:personal\s*loan|home\s*loan|business\s*loan|car\s*loan)\b`, 10),
		pat(`\b(?:no\s*(?:cibil|credit\s*score|document|collateral)\s*(?:needed|required|check))\b`, 18),
		pat(`\b(?:processing\s*fee|file\s*(?:charge|fee)|disbursement\s*(?:fee|charge))\b`, 16),
		pat(`\b(?:emi\s*(?:starts?|from|just)|pay\s*later|buy\s*now)\b`, 10),
		pat(`\b(?:nbfc|microfinance|fintech|lending\s*(?:app|company|platform))\b`, 10),
	}},
	{SignalInsuranceFraud, []pattern{
		pat(`\b(?:insurance\s*(?:claim|policy|premium|bonus|maturity|lapsed?))\b`, 14),
		pat(`\b(?:(?:policy|claim)\s*(?:expired?|lapsed?|pending|unclaimed|matured?))\b`, 14),
		pat(`\b(?:lic|life\s*insurance|health\s*insurance|motor\s*insurance)\b`, 10),
		pat(`\b(?:bonus\s*(?:amount|payment)|maturity\s*(?:amount|payment|benefit))\b`, 14),
		pat(`\b(?:unclaimed\s*(?:amount|money|fund|benefit|bonus|deposit))\b`, 16),
		pat(`\b(?:surrender\s*(?:value|charge)|policy\s*(?:revival|renewal))\b`, 12),
		pat(`\b(?:nominee|beneficiary)\s*(?:update|change|verify|details)\b`, 12),
	}},
	{SignalRomance, []pattern{
		pat(`\b(?:i\s*love\s*you|fallen?\s*(?:in\s*)?love|soul\s*mate)\b`, 14),
		pat(`\b(?:gift|present|parcel|package)\s*(?:for\s*you|sending|from\s*abroad)\b`, 12),
		pat(`\b(?:stuck\s*(?:at|in)\s*(?:airport|customs)|need\s*(?:money|help)\s*(?:urgently|now))\b`, 16),
		pat(`\b(?:military|army|navy|deployed|overseas)\b`, 8),
		pat(`\b(?:inheritance|will|estate|fortune|million\s*dollars?)\b`, 14),
		pat(`\b(?:western\s*union|moneygram|money\s*order|bitcoin)\b`, 14),
	}},
	{SignalIdentityTheft, []pattern{
		pat(`\b(?:aadhaar|aadhar)\s*(?:number|no|card|id|details|copy)\b`, 14),
		pat(`\b(?:pan\s*(?:card|number|no|details)|permanent\s*account)\b`, 14),
		pat(`\b(?:voter\s*id|driving\s*licen[cs]e|passport\s*(?:number|no|details))\b`, 14),
		pat(`\b(?:date\s*of\s*birth|dob|mother.s?\s*(?:name|maiden))\b`, 12),
		pat(`\b(?:photo\s*(?:id|proof)|address\s*proof|identity\s*proof)\b`, 10),
		pat(`\b(?:selfie|photograph|photo)\s*(?:of|with)\s*(?:your|the)\s*(?:aadhaar|pan|id)\b`, 16),
		pat(`\b(?:share\s*(?:your\s*)?(?:aadhaar|pan|voter|passport|id)\s*(?:number|details|copy|photo))\b`, 18),
	}},
}

// greetingOnly suppresses scoring when the first message is nothing but a
// greeting. Cold-open pleasantries are how most of these conversations
// start and carry no signal on their own.
var greetingOnly = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[\s]*(hello|hi|hey|namaste|namaskar|good\s*(?:morning|afternoon|evening|day))[\s!.,?]*$`),
	regexp.MustCompile(`(?i)^[\s]*(greetings|howdy|salam|jai\s*hind)[\s!.,?]*$`),
	regexp.MustCompile(`(?i)^[\s]*(how\s*are\s*you|hope\s*you.?re\s*well|are\s*you\s*there)[\s?.!]*$`),
	regexp.MustCompile(`(?i)^[\s]*(dear\s*(?:sir|ma.?am|customer|user|friend))[\s,!.]*$`),
	regexp.MustCompile(`(?i)^[\s]*(welcome|thank\s*you|thanks)[\s!.,?]*$`),
	regexp.MustCompile(`(?i)^[\s]*(kaise\s*ho|kya\s*haal|theek\s*ho|sab\s*theek)[\s?!.]*$`),
}
