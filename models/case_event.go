package models

import (
	"time"
)

// CaseEvent is an append-only audit trail entry. Events are never updated or
// deleted independently of their case.
type CaseEvent struct {
	Id        string
	CaseId    string
	UserId    string
	EventType CaseEventType
	Payload   string
	CreatedAt time.Time
}

type CaseEventType string

const (
	CaseEventCreated           CaseEventType = "created"
	CaseEventFilesUploaded     CaseEventType = "files_uploaded"
	CaseEventAnalysisSubmitted CaseEventType = "analysis_submitted"
	CaseEventAnalysisReady     CaseEventType = "analysis_ready"
	CaseEventAnalysisFailed    CaseEventType = "analysis_failed"
	CaseEventReviewReady       CaseEventType = "review_ready"
	CaseEventNoteAdded         CaseEventType = "note_added"
	CaseEventUnknown           CaseEventType = "unknown"
)

func CaseEventTypeFrom(s string) CaseEventType {
	switch s {
	case "created", "files_uploaded", "analysis_submitted", "analysis_ready",
		"analysis_failed", "review_ready", "note_added":
		return CaseEventType(s)
	default:
		return CaseEventUnknown
	}
}

type CreateCaseEventAttributes struct {
	CaseId    string
	UserId    string
	EventType CaseEventType
	Payload   string
}
