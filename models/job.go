package models

import (
	"time"
)

// TaskType identifies the analysis backend endpoint a job was submitted to.
type TaskType string

const (
	TaskInitialParse    TaskType = "initial-parse"
	TaskFinalAnalysis   TaskType = "final-analysis"
	TaskParseStatements TaskType = "parse-statements"
	TaskUnknown         TaskType = "unknown"
)

func TaskTypeFrom(s string) TaskType {
	switch s {
	case "initial-parse":
		return TaskInitialParse
	case "final-analysis":
		return TaskFinalAnalysis
	case "parse-statements":
		return TaskParseStatements
	default:
		return TaskUnknown
	}
}

// LongRunning reports whether a dispatch failure for this task should open a
// support ticket: these are the user-facing, multi-stage tasks where silent
// failure leaves an investigator blocked.
func (t TaskType) LongRunning() bool {
	return t == TaskInitialParse || t == TaskFinalAnalysis
}

type JobStatus string

const (
	JobStarted   JobStatus = "STARTED"
	JobSucceeded JobStatus = "SUCCEEDED"
	JobFailed    JobStatus = "FAILED"
)

func JobStatusFrom(s string) JobStatus {
	switch s {
	case "STARTED", "SUCCEEDED", "FAILED":
		return JobStatus(s)
	default:
		return ""
	}
}

func (s JobStatus) IsTerminal() bool {
	return s == JobSucceeded || s == JobFailed
}

// AnalysisJob is one asynchronous unit of backend work tied to a case. The job
// id is generated by the caller (the analysis backend) and is the idempotency
// anchor for webhook deliveries.
type AnalysisJob struct {
	Id             string
	Task           TaskType
	CaseId         string
	UserId         string
	InputUrl       string
	Status         JobStatus
	ResultUrl      string
	ErrorMessage   string
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// JobUpdate carries the fields of one webhook delivery, after DTO adaptation.
type JobUpdate struct {
	JobId          string
	Task           TaskType
	CaseId         string
	UserId         string
	InputUrl       string
	Status         JobStatus
	ResultUrl      string
	ErrorMessage   string
	IdempotencyKey string
}
