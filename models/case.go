package models

import (
	"fmt"
	"slices"
	"time"
)

type Case struct {
	Id              string
	OrganizationId  string
	OwnerId         string
	Name            string
	Description     string
	Tags            []string
	Color           string
	Status          CaseStatus
	HitlStage       HitlStage
	InputArchiveKey string
	CsvZipUrl       string
	ResultZipUrl    string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Files    []CaseFile
	CsvFiles []CaseCsvFile
	Events   []CaseEvent
}

func (c Case) Lifecycle() CaseLifecycle {
	return CaseLifecycle{Status: c.Status, HitlStage: c.HitlStage}
}

type CaseStatus string

const (
	CaseActive        CaseStatus = "Active"
	CaseProcessing    CaseStatus = "Processing"
	CaseReview        CaseStatus = "Review"
	CaseReady         CaseStatus = "Ready"
	CaseArchived      CaseStatus = "Archived"
	CaseFailed        CaseStatus = "Failed"
	CaseTimeout       CaseStatus = "Timeout"
	CaseUnknownStatus CaseStatus = "unknown"
)

var ValidCaseStatuses = []CaseStatus{
	CaseActive, CaseProcessing, CaseReview, CaseReady, CaseArchived, CaseFailed, CaseTimeout,
}

func CaseStatusFrom(s string) CaseStatus {
	if slices.Contains(ValidCaseStatuses, CaseStatus(s)) {
		return CaseStatus(s)
	}
	return CaseUnknownStatus
}

func ValidateCaseStatuses(statuses []string) ([]CaseStatus, error) {
	sanitized := make([]CaseStatus, len(statuses))
	for i, status := range statuses {
		sanitized[i] = CaseStatusFrom(status)
		if sanitized[i] == CaseUnknownStatus {
			return []CaseStatus{}, fmt.Errorf("invalid status: %s %w", status, BadParameterError)
		}
	}
	return sanitized, nil
}

// HitlStage is the human-in-the-loop sub-state of a case. It is only set while
// the case status is Processing or Review.
type HitlStage string

const (
	HitlStageNone          HitlStage = ""
	HitlStageInitialParse  HitlStage = "initial_parse"
	HitlStageReview        HitlStage = "review"
	HitlStageFinalAnalysis HitlStage = "final_analysis"
)

type CreateCaseAttributes struct {
	OrganizationId string
	OwnerId        string
	Name           string
	Description    string
	Tags           []string
	Color          string
}

type UpdateCaseAttributes struct {
	Id          string
	Name        string
	Description *string
	Tags        []string
	Color       string
}

// CaseFilters scopes a case listing. OwnerId is the fallback scope for callers
// without an organization.
type CaseFilters struct {
	OrganizationId string
	OwnerId        string
	Statuses       []CaseStatus
}
