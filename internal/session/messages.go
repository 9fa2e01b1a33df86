package session

import (
	"fmt"
	"strings"
)

const (
	messageGreetingFallback      = "Hello and welcome. Thank you for joining today's interview. To start, please introduce yourself and briefly describe your relevant experience."
	messageGreetingFallbackNamed = "Hello %s, and welcome. Thank you for joining today's interview. To start, please introduce yourself and briefly describe your relevant experience."
	messageInterviewComplete     = "Thank you. That concludes the interview. You can now end the session."

	// MessageRetryAnswer is shown when an answer could not be transcribed.
	MessageRetryAnswer = "Sorry, I could not make out that answer. Please record it again."
)

func fallbackGreeting(candidateLabel string) string {
	if label := strings.TrimSpace(candidateLabel); label != "" {
		return fmt.Sprintf(messageGreetingFallbackNamed, label)
	}
	return messageGreetingFallback
}

func reportFilename(sessionID string) string {
	return fmt.Sprintf("report-%s.txt", sessionID)
}
