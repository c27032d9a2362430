package patterns

// DefaultVersion identifies the built-in ruleset
const DefaultVersion = "builtin-v1"

// DefaultRuleset returns the built-in English-only ruleset. Locale-aware
// tables are loaded from files via LoadFile.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Version: DefaultVersion,

		SenderLocalParts: []string{
			`^no[-._]?reply`,
			`^do[-._]?not[-._]?reply`,
			`^notifications?$`,
			`^notify$`,
			`^mailer-daemon$`,
			`^postmaster$`,
			`^bounces?([-.+]|$)`,
			`^newsletters?$`,
			`^marketing$`,
			`^updates?$`,
			`^alerts?$`,
			`^digest$`,
		},

		SubjectPhrases: []string{
			`(?i)\bautomatic reply\b`,
			`(?i)\bauto[- ]?reply\b`,
			`(?i)\bout of (the )?office\b`,
			`(?i)\bdelivery status notification\b`,
			`(?i)^undeliverable\b`,
			`(?i)\bvacation respon(se|der)\b`,
			`(?i)\bread receipt\b`,
			`(?i)\bpassword reset\b`,
			`(?i)\bverify your (e-?mail|account)\b`,
		},

		ForwardMarkers: []string{
			`(?i)^-{2,}\s*forwarded message\s*-{2,}`,
			`(?i)^begin forwarded message\s*:`,
			`(?i)^-{2,}\s*original message\s*-{2,}`,
			`(?i)^forwarded by\b`,
		},

		DeviceSignoffs: []string{
			`(?i)^sent from my \S+`,
			`(?i)^sent from \S+ for (ios|android|windows)`,
			`(?i)^get outlook for (ios|android)`,
			`(?i)^sent via \S+`,
			`(?i)^sent from (windows )?mail for\b`,
			`(?i)notification-only (e-?mail )?address`,
			`(?i)^please do not reply to this (e-?mail|message)`,
		},

		Confidentiality: []string{
			`(?i)\bconfidential(ity)?\b`,
			`(?i)\bintended recipient\b`,
			`(?i)\bplease delete\b`,
			`(?i)\bprivileged\b`,
			`(?i)\bif you (have received|are not the intended)\b`,
			`(?i)\bthis (e-?mail|message)( and any attachments)? (is|are) intended\b`,
		},

		Environmental: []string{
			`(?i)\bconsider the environment\b`,
			`(?i)\bbefore printing\b`,
			`(?i)\bthink before you print\b`,
			`(?i)\bplease don'?t print\b`,
		},

		Valedictions: []string{
			"regards", "best regards", "kind regards", "warm regards",
			"warmest regards", "with kind regards",
			"thanks", "many thanks", "thank you", "thanks so much",
			"thanks again", "sincere thanks",
			"sincerely", "sincerely yours",
			"best", "all the best", "best wishes",
			"cheers", "respectfully", "cordially", "yours truly",
			"take care", "talk soon", "warmly",
			"with gratitude", "with appreciation",
		},

		SignatureMarkers: []string{
			`(?i)\b(tel|phone|mobile|cell|office|fax|direct)\b\.?:?\s*[+(\d]`,
			`\(\d{3}\)\s?\d{3}[-.\s]?\d{4}`,
			`\b\d{3}[-.]\d{3}[-.]\d{4}\b`,
			`\b\d{3}[-.]\d{4}\b`,
			`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
			`(?i)\b(https?://|www\.)\S+`,
			`(?im)^\s*e-?mail\s*:`,
			`(?i)\b(director|manager|president|founder|partner|chair|co-chair|consultant|engineer|attorney|realtor|broker|coordinator|specialist|analyst|officer)\b`,
			`(?i)\b(ceo|cfo|cto|coo|vp|vice president)\b`,
			`(?i)\b(mba|ph\.?d|cpa|esq|j\.?d|pmp)\b\.?`,
			`(?i)\b(llc|inc|ltd|corp)\b\.?`,
		},

		NameLine:     `^\s*[A-Z][a-z'’-]+(?:\s+[A-Z]\.?)?(?:\s+[A-Z][A-Za-z'’-]+){1,3}\s*$`,
		CapsNameLine: `^\s*[A-Z][A-Z'. -]{2,40},(?:\s*[A-Za-z.]{2,15},?)+\s*$`,
		TitleLine:    `(?i)^[\w .,&/'-]{0,40}\b(director|manager|president|founder|partner|chair|co-chair|consultant|engineer|attorney|officer|coordinator|specialist|analyst|ceo|cfo|cto|coo|vp)\b[\w .,&/'-]{0,60}$`,

		Promotional: []string{
			`(?i)^\s*(follow us|connect with (me|us)|find us on)\b`,
			`(?i)^\s*(linkedin|twitter|facebook|instagram|youtube)(\s*[|•·:]\s*\S*)*\s*$`,
			`(?i)\b(download (my )?vcard|view my (profile|calendar)|book time with me|schedule a meeting with me)\b`,
			`(?i)\bsent securely\b|\bsecure file link\b`,
			`(?i)\b(proudly (named|ranked)|award-winning|voted (best|top)|ranked #?\d+|top \d+ (firms?|companies|agents?|advisors?))\b`,
			`(?i)^\s*\[(image|cid):`,
		},

		SentenceWhitelist: []string{
			`(?i)\bbook time with me\b`,
			`(?i)\b(confidential|privileged|intended recipient)\b`,
			`(?i)\b(licensed|registered|member (finra|sipc)|fdic|equal housing)\b`,
			`(?i)\badvisory services\b|\bsecurities offered\b`,
			`(?i)(https?://|www\.)\S+`,
			`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
		},

		QuoteContainers: []string{
			"gmail_quote", "gmail_quote_container", "yahoo_quoted",
			"moz-cite-prefix", "protonmail_quote", "tutanota_quote",
			"zmail_extra", "front-blockquote",
		},

		SignatureContainers: []string{
			"gmail_signature", "signature", "sig", "moz-signature",
			"protonmail_signature", "ms-outlook-mobile-signature",
			"email-signature",
		},

		CutoffMarkers: []string{
			"divrplyfwdmsg", "x_divrplyfwdmsg", "appendonsend",
			"reply-intro", "mail-quote-header",
		},

		FooterNames: []string{
			"footer", "email-footer", "emailfooter", "footer-container",
			"campaign-footer", "unsub", "unsubscribe",
		},

		UnsubscribeWords: []string{
			"unsubscribe", "opt out", "opt-out", "email preferences",
			"manage preferences",
		},
	}
}

// Default compiles the built-in ruleset. The defaults are fixed data, so
// compilation cannot fail; a failure here is a programming error.
func Default() *Table {
	t, err := DefaultRuleset().Compile()
	if err != nil {
		panic("patterns: default ruleset failed to compile: " + err.Error())
	}
	return t
}
