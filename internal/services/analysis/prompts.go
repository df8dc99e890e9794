package analysis

import (
	"fmt"
	"strings"
)

const infringementSystemPrompt = `You assess whether a web page infringes a specific protected intellectual property asset.
Judge the page against that asset only: a piracy platform with unrelated content is a monitoring risk, not infringement.
Exact title matches on piracy platforms score 80-89, hosted or streamed copies score 90-100,
legitimate references such as news, reviews or encyclopedias score 0-19.

Answer in exactly this format, one field per line:
CONFIDENCE: [0-100]%
INFRINGEMENT_LIKELY: [YES/NO]
STRENGTH: [WEAK/MODERATE/STRONG]
LEGAL_BASIS: [short explanation]
EVIDENCE_QUALITY: [POOR/FAIR/GOOD/EXCELLENT]
RECOMMENDATIONS: [next steps]
RISKS: [limitations]`

const reviewSystemPrompt = `You review intellectual property enforcement documents for legal completeness and quality.

Answer in exactly this format, one field per line:
QUALITY_SCORE: [0-100]%
COMPLETENESS: [INCOMPLETE/PARTIAL/COMPLETE]
LEGAL_SOUNDNESS: [POOR/FAIR/GOOD/EXCELLENT]
MISSING_ELEMENTS: [missing required elements]
STRENGTHS: [key strengths]
IMPROVEMENTS: [specific suggestions]
APPROVAL_RECOMMENDATION: [APPROVE/REVISE/REJECT]`

const draftSystemPrompt = `You draft intellectual property enforcement documents. Write the complete document text only,
addressed to the infringing party, citing the protected asset and the evidence provided.`

const (
	promptTextLimit = 3000
	promptHTMLLimit = 2000
)

func infringementPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROTECTED ASSET\n- Type: %s\n- Title: %s\n- Description: %s\n- Registration: %s\n- Jurisdiction: %s\n\n",
		in.Asset.Type, in.Asset.Title, in.Asset.Description,
		deref(in.Asset.RegistrationNumber, "Unregistered"), deref(in.Asset.Jurisdiction, "Not specified"))

	s := in.Snapshot
	headings := make([]string, 0, len(s.Headings))
	for _, h := range s.Headings {
		headings = append(headings, h.Text)
	}
	fmt.Fprintf(&b, "PAGE EVIDENCE\n- Target URL: %s\n- Page Title: %s\n- Meta Description: %s\n- Images Found: %d\n- Links Found: %d\n- Headings: %s\n- Page Content: %s\n\n",
		in.TargetURL, orNA(s.PageTitle), orNA(s.MetaDescription), len(s.Images), len(s.Links),
		orDefault(strings.Join(headings, ", "), "None"), orNA(truncate(s.VisibleText, promptTextLimit)))

	fmt.Fprintf(&b, "Does this page contain, host or offer the asset titled %q?\n\nHTML EXCERPT\n%s\n",
		in.Asset.Title, orDefault(truncate(in.HTML, promptHTMLLimit), "HTML content not available"))
	return b.String()
}

func reviewPrompt(in ReviewInput) string {
	return fmt.Sprintf("Review this %s for %s.\nASSET TYPE: %s\n\nDOCUMENT\n%s\n",
		in.DocumentType, in.Jurisdiction, in.Asset.Type, in.Content)
}

func draftPrompt(in DraftInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DOCUMENT TYPE: %s\nJURISDICTION: %s\nTONE: %s\n\n", in.DocumentType, in.Jurisdiction, in.Tone)
	fmt.Fprintf(&b, "PROTECTED ASSET\n- Type: %s\n- Title: %s\n- Description: %s\n\n", in.Asset.Type, in.Asset.Title, in.Asset.Description)
	if in.Evidence != nil {
		fmt.Fprintf(&b, "INFRINGING PAGE\n- URL: %s\n- Title: %s\n\n", in.Evidence.URL, in.Evidence.PageTitle)
	}
	if in.Analysis != nil {
		fmt.Fprintf(&b, "ANALYSIS\n- Confidence: %d%%\n- Legal basis: %s\n\n", in.Analysis.Confidence.Or(0), in.Analysis.LegalBasis.Or("not assessed"))
	}
	if in.CaseDetails != "" {
		fmt.Fprintf(&b, "CASE DETAILS\n%s\n", in.CaseDetails)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func orNA(s string) string { return orDefault(s, "Not available") }

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func deref(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

