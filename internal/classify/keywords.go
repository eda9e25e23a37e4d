package classify

import "strings"

type keywordEntry struct {
	tag   string
	terms []string
}

// Keyword tables for the fallback heuristic, in priority order so results
// are deterministic. Deliberately small: the fallback exists to keep
// onboarding moving when the model is down, not to match its quality.
var keywordTables = map[Kind][]keywordEntry{
	KindRole: {
		{"founder", []string{"founder", "co-founder", "cofounder", "ceo"}},
		{"engineer", []string{"engineer", "developer", "swe", "programmer"}},
		{"product_manager", []string{"product manager", "pm ", "head of product"}},
		{"designer", []string{"designer", "ux", "ui design"}},
		{"investor", []string{"investor", "vc ", "venture", "angel"}},
		{"marketer", []string{"marketing", "growth", "demand gen"}},
		{"sales", []string{"sales", "account executive", "business development"}},
		{"operations", []string{"operations", "chief of staff", "ops "}},
	},
	KindIndustry: {
		{"fintech", []string{"fintech", "payments", "banking", "lending"}},
		{"healthtech", []string{"health", "medical", "biotech", "clinical"}},
		{"saas", []string{"saas", "b2b software", "subscription"}},
		{"ecommerce", []string{"ecommerce", "e-commerce", "marketplace", "retail"}},
		{"ai", []string{"ai ", "machine learning", "ml ", "llm"}},
		{"climate", []string{"climate", "cleantech", "sustainability"}},
		{"edtech", []string{"edtech", "education", "learning platform"}},
	},
	KindExpertise: {
		{"react", []string{"react", "frontend", "next.js"}},
		{"golang", []string{"golang", "go services", "backend"}},
		{"fundraising", []string{"fundraising", "raise", "seed round", "series a"}},
		{"hiring", []string{"hiring", "recruiting", "interview"}},
		{"pricing", []string{"pricing", "monetization"}},
		{"growth", []string{"growth", "acquisition", "retention"}},
		{"data", []string{"data", "analytics", "sql"}},
		{"security", []string{"security", "compliance", "soc2", "soc 2"}},
	},
	KindHelpTopics: {
		{"fundraising", []string{"fundraising", "investor", "term sheet", "valuation"}},
		{"hiring", []string{"hire", "hiring", "candidate", "recruit"}},
		{"product", []string{"product", "roadmap", "feature", "mvp"}},
		{"go_to_market", []string{"go-to-market", "gtm", "launch", "positioning"}},
		{"engineering", []string{"architecture", "scaling", "tech debt", "infrastructure"}},
		{"legal", []string{"legal", "contract", "incorporation", "equity"}},
	},
}

// keywordFallback scans the lower-cased text for known domain terms and
// assembles a best-effort tag set. Confidence grows with match count but
// is capped well below what the model path reports.
func keywordFallback(kind Kind, text string) Classification {
	lowered := strings.ToLower(text)

	var tags []string
	for _, entry := range keywordTables[kind] {
		for _, term := range entry.terms {
			if strings.Contains(lowered, term) {
				tags = append(tags, entry.tag)
				break
			}
		}
	}

	confidence := 0.3 + 0.15*float64(len(tags))
	if confidence > 0.9 {
		confidence = 0.9
	}
	if tags == nil {
		tags = []string{}
	}

	result := Classification{
		Tags:       tags,
		Confidence: confidence,
		Source:     SourceFallback,
	}

	if kind == KindRole && len(tags) > 0 {
		result.Role = tags[0]
	}

	return result
}
