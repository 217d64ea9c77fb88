package models

// Sweep of cases stuck in Processing without a live job row update.
type CaseTimeoutSweepArgs struct{}

func (CaseTimeoutSweepArgs) Kind() string { return "case_timeout_sweep" }

// Best-effort operator notification after a failed or rejected analysis.
type FailureNotificationArgs struct {
	CaseId       string `json:"case_id"`
	Task         string `json:"task"`
	ArchiveUrl   string `json:"archive_url"`
	ErrorMessage string `json:"error_message"`
}

func (FailureNotificationArgs) Kind() string { return "failure_notification" }
