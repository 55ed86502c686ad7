package extract

import "regexp"

var (
	capStageRe  = regexp.MustCompile(`([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*\s+Stage)\b`)
	mainstageRe = regexp.MustCompile(`(?i)\b(Mainstage)\b`)
)

// inferStage scans text for a venue/stage name: first any of the company's
// configured stage names matched as a whole word case-insensitively, then a
// generic "<Capitalized words> Stage" pattern, then the literal token
// "Mainstage".
func inferStage(text string, stages []string) string {
	if text == "" {
		return ""
	}
	for _, st := range stages {
		if st == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(st) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			return st
		}
	}
	if m := capStageRe.FindString(text); m != "" {
		return m
	}
	if mainstageRe.MatchString(text) {
		// Title-cased regardless of how the source spells it.
		return "Mainstage"
	}
	return ""
}
