package webhook

import "context"

// Report is the private report handed to the evaluator endpoint.
type Report struct {
	SessionID string
	ReportID  string
	Filename  string
	Body      []byte
}

type Sender interface {
	SendReport(ctx context.Context, report Report) error
}
