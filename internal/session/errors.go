package session

import "errors"

var (
	ErrUnknownSession    = errors.New("unknown session")
	ErrSessionClosed     = errors.New("session is closed")
	ErrAlreadyProcessing = errors.New("an answer is already being processed for this session")
	ErrBankEmpty         = errors.New("question bank is empty")
	ErrQuestionMismatch  = errors.New("answer does not belong to the current question")
)
