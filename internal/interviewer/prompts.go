package interviewer

import (
	"fmt"
	"strings"
)

const interviewerPersona = "You are a professional, neutral interviewer running a spoken one-on-one interview. " +
	"Keep every line short enough to be read aloud. Never reveal scoring, the interview process or how many questions remain."

// tailLimit bounds how many recent exchanges are quoted back to the model.
const tailLimit = 3

func greetingPrompt(candidateLabel string) string {
	var b strings.Builder
	b.WriteString("Greet the candidate naturally and ask them to introduce themselves and briefly describe their relevant experience.")
	if label := strings.TrimSpace(candidateLabel); label != "" {
		fmt.Fprintf(&b, " The candidate's name is %q.", label)
	}
	b.WriteString(" Return only the words to speak.")
	return b.String()
}

func followupPrompt(tail []Exchange) string {
	if len(tail) > tailLimit {
		tail = tail[len(tail)-tailLimit:]
	}
	var b strings.Builder
	b.WriteString("Recent exchanges, oldest first:\n")
	for i, ex := range tail {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", i+1, ex.Question, i+1, ex.Answer)
	}
	b.WriteString("\nDecide whether the last answer is vague or incomplete enough to justify exactly one short, neutral follow-up question. ")
	b.WriteString(`Respond with a single JSON object: {"ask_followup": true|false, "question": "<follow-up question or empty string>"}.`)
	return b.String()
}

func rephrasePrompt(questionText string) string {
	return fmt.Sprintf("Ask the following interview question naturally in one sentence, keeping its meaning: %q. Return only the question.", questionText)
}
