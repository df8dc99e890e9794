package workflow

import "strings"

const (
	ModelSmall    = "llama3-8b-8192"
	ModelStandard = "llama3-70b-8192"

	budgetFloorUSD  = 0.10
	budgetMaxTokens = 800
)

var supportedJurisdictions = []string{"US", "UK", "CA", "AU", "DE", "FR", "JP", "EU"}

type JurisdictionCheck struct {
	Jurisdiction           string   `json:"jurisdiction"`
	IsSupported            bool     `json:"isSupported"`
	SupportedJurisdictions []string `json:"supportedJurisdictions"`
	Recommendation         string   `json:"recommendation"`
}

// ValidateJurisdiction reports whether a tailored template exists for code.
func ValidateJurisdiction(code string) JurisdictionCheck {
	code = strings.ToUpper(strings.TrimSpace(code))
	out := JurisdictionCheck{
		Jurisdiction:           code,
		SupportedJurisdictions: append([]string(nil), supportedJurisdictions...),
		Recommendation:         "USE_GENERIC_TEMPLATE",
	}
	for _, j := range supportedJurisdictions {
		if j == code {
			out.IsSupported = true
			out.Recommendation = "PROCEED"
			break
		}
	}
	return out
}

// Plan selects steps and model settings for a document run.
type Plan struct {
	Complexity           string `json:"complexity"`
	ValidateInfringement bool   `json:"validateInfringement"`
	ReviewDocument       bool   `json:"reviewDocument"`
	Model                string `json:"agentModel"`
	MaxTokens            int    `json:"maxTokens"`
	MultipleReviews      bool   `json:"multipleReviews,omitempty"`
}

var presets = map[string]Plan{
	"simple":   {Complexity: "simple", ReviewDocument: true, Model: ModelSmall, MaxTokens: 1000},
	"moderate": {Complexity: "moderate", ValidateInfringement: true, ReviewDocument: true, Model: ModelStandard, MaxTokens: 1500},
	"complex":  {Complexity: "complex", ValidateInfringement: true, ReviewDocument: true, Model: ModelStandard, MaxTokens: 2000, MultipleReviews: true},
}

// PlanWorkflow picks a preset by complexity, falling back to moderate. A
// positive budget under ten cents forces the small model; urgent runs skip
// validation.
func PlanWorkflow(complexity string, budgetUSD float64, urgent bool) Plan {
	p, ok := presets[strings.ToLower(complexity)]
	if !ok {
		p = presets["moderate"]
	}
	if budgetUSD > 0 && budgetUSD < budgetFloorUSD {
		p.Model = ModelSmall
		p.MaxTokens = min(p.MaxTokens, budgetMaxTokens)
	}
	if urgent {
		p.ValidateInfringement = false
	}
	return p
}
