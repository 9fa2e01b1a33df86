package feedback

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kept explicit instead of time.DateTime so the layout can change independently.
const reportTimeLayout = "2006-01-02 15:04:05"

func buildReportText(r Report, turns []Turn, h DocumentHeader, timezone string, loc *time.Location) string {
	loc = safeLocation(loc)
	video := h.VideoRef
	if video == "" {
		video = "not recorded"
	}
	candidate := h.CandidateLabel
	if candidate == "" {
		candidate = "(not provided)"
	}

	lines := []string{
		fmt.Sprintf("=== Interview Report: Session %s ===", r.SessionID),
		fmt.Sprintf("Candidate: %s", candidate),
		fmt.Sprintf("Interview period: %s ~ %s (%s)", h.StartedAt.In(loc).Format(reportTimeLayout), h.EndedAt.In(loc).Format(reportTimeLayout), timezone),
		fmt.Sprintf("Video: %s", video),
		"",
	}
	for i, item := range r.Items {
		n := i + 1
		elapsed := time.Duration(0)
		if i < len(turns) {
			elapsed = turns[i].AnsweredAt.Sub(h.StartedAt)
		}
		if elapsed < 0 {
			elapsed = 0
		}
		lines = append(lines,
			fmt.Sprintf("%s Q%d [%s]: %s", formatElapsedHMS(elapsed), n, item.Kind, item.Question),
			fmt.Sprintf("A%d: %s", n, item.Answer),
		)
		if item.Scored {
			lines = append(lines, fmt.Sprintf("Score: %s (matched keywords: %s)", formatScore(item.Score), matchedText(item.MatchedKeywords)))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"--- PRIVATE FEEDBACK (authorized personnel only) ---",
		fmt.Sprintf("Summary: %s", r.Summary),
		"Strengths:",
	)
	for _, s := range r.Strengths {
		lines = append(lines, "- "+s)
	}
	lines = append(lines, "Improvements:")
	for _, s := range r.Improvements {
		lines = append(lines, "- "+s)
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Final Score: %s/%s", formatScore(r.TotalScore), formatScore(r.MaxScore)),
		fmt.Sprintf("Generated at: %s (%s)", r.GeneratedAt.In(loc).Format(reportTimeLayout), timezone),
	)
	return strings.Join(lines, "\n")
}

func matchedText(keywords []string) string {
	if len(keywords) == 0 {
		return "none"
	}
	return strings.Join(keywords, ", ")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatElapsedHMS(d time.Duration) string {
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func safeLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
