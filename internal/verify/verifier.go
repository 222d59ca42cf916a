// Package verify checks source trustworthiness against a static allow-list
// of official domain suffixes. Pure string matching, no network calls.
package verify

import (
	"net/url"
	"regexp"
	"strings"
)

// Result is the verdict for one verification request.
type Result struct {
	Confiavel bool     `json:"confiavel"`
	Score     int      `json:"score"`
	Dominio   string   `json:"dominio,omitempty"`
	Detalhes  []string `json:"detalhes"`
}

// officialSuffixes are the reserved domain families for Brazilian public
// institutions, courts, legislatures and accredited universities.
var officialSuffixes = []string{
	".gov.br",
	".leg.br",
	".jus.br",
	".mp.br",
	".def.br",
	".edu.br",
	".mil.br",
	".tc.br",
}

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// CheckSource inspects a URL or free text and scores its trustworthiness.
// When the text mentions an official domain, the verdict is favorable; a
// recognizable but unofficial domain scores lower; text with no domain at
// all is inconclusive.
func CheckSource(text string) Result {
	domain := extractDomain(text)
	switch {
	case domain == "":
		return Result{
			Confiavel: false,
			Score:     30,
			Detalhes: []string{
				"Nenhum domínio identificado no texto",
				"Verifique a origem da informação em veículos oficiais",
			},
		}
	case isOfficial(domain):
		return Result{
			Confiavel: true,
			Score:     95,
			Dominio:   domain,
			Detalhes: []string{
				"Domínio pertence a uma família oficial (" + matchedSuffix(domain) + ")",
				"Fonte verificada na lista de domínios oficiais",
			},
		}
	default:
		return Result{
			Confiavel: false,
			Score:     45,
			Dominio:   domain,
			Detalhes: []string{
				"Domínio " + domain + " não consta na lista de domínios oficiais",
				"Cruze a informação com pelo menos duas fontes independentes",
			},
		}
	}
}

// IsOfficialDomain reports whether the domain belongs to an official family.
func IsOfficialDomain(domain string) bool {
	return isOfficial(normalizeDomain(domain))
}

func extractDomain(text string) string {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return ""
	}
	if match := urlPattern.FindString(raw); match != "" {
		if u, err := url.Parse(match); err == nil {
			return normalizeDomain(u.Hostname())
		}
	}
	// a bare domain pasted without scheme
	if !strings.ContainsAny(raw, " \t\n") && strings.Contains(raw, ".") {
		if u, err := url.Parse("https://" + raw); err == nil {
			return normalizeDomain(u.Hostname())
		}
	}
	return ""
}

func normalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
}

func isOfficial(domain string) bool {
	return matchedSuffix(domain) != ""
}

func matchedSuffix(domain string) string {
	for _, suffix := range officialSuffixes {
		// the bare apex (gov.br) counts as much as any subdomain under it
		if strings.HasSuffix(domain, suffix) || domain == suffix[1:] {
			return suffix
		}
	}
	return ""
}
