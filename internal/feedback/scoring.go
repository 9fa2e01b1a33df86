package feedback

import "strings"

const (
	scoreFull    = 1.0
	scorePartial = 0.5
)

// ScoreAnswer gives full credit when a whole keyword phrase occurs in the
// answer and half credit when only one of its words does. Matching is
// case-insensitive substring matching.
func ScoreAnswer(keywords []string, answer string) (float64, []string) {
	lower := strings.ToLower(answer)
	matched := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	if len(matched) > 0 {
		return scoreFull, matched
	}
	for _, kw := range keywords {
		for _, token := range strings.Fields(strings.ToLower(kw)) {
			if strings.Contains(lower, token) {
				return scorePartial, matched
			}
		}
	}
	return 0, matched
}
