package models

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// CaseLifecycle is the pair of case status and HITL stage that the lifecycle
// state machine operates on.
type CaseLifecycle struct {
	Status    CaseStatus
	HitlStage HitlStage
}

type CaseLifecycleEventKind string

const (
	LifecycleEventSubmitFiles     CaseLifecycleEventKind = "submit_files"
	LifecycleEventJobStarted      CaseLifecycleEventKind = "job_started"
	LifecycleEventJobSucceeded    CaseLifecycleEventKind = "job_succeeded"
	LifecycleEventJobFailed       CaseLifecycleEventKind = "job_failed"
	LifecycleEventProceedToFinal  CaseLifecycleEventKind = "proceed_to_final_analysis"
	LifecycleEventWatchdogExpired CaseLifecycleEventKind = "watchdog_expired"
	LifecycleEventArchive         CaseLifecycleEventKind = "archive"
	LifecycleEventUnarchive       CaseLifecycleEventKind = "unarchive"
)

type CaseLifecycleEvent struct {
	Kind CaseLifecycleEventKind
	// Task qualifies job events and file submissions.
	Task TaskType
	// ExtractionOk qualifies LifecycleEventJobSucceeded for the initial-parse
	// task: a successful backend job whose result archive could not be
	// extracted must not surface a Review state.
	ExtractionOk bool
}

// Statuses from which a user may (re)submit files for analysis. Processing and
// Review are excluded so that at most one job is in flight per case.
var resubmittableStatuses = []CaseStatus{CaseActive, CaseReady, CaseFailed, CaseTimeout}

// NextCaseLifecycle is the single authority on case transitions. Every status
// change, whether driven by a user action or a job callback, goes through it.
// A transition absent from the table returns ErrInvalidCaseTransition and must
// leave the case untouched.
func NextCaseLifecycle(current CaseLifecycle, event CaseLifecycleEvent) (CaseLifecycle, error) {
	switch event.Kind {
	case LifecycleEventSubmitFiles:
		if !slices.Contains(resubmittableStatuses, current.Status) {
			if current.Status == CaseProcessing || current.Status == CaseReview {
				return current, errors.WithDetail(ErrCaseAlreadyProcessing,
					"a new submission is only allowed once the current analysis reaches a terminal state")
			}
			return current, invalidTransition(current, event)
		}
		return CaseLifecycle{Status: CaseProcessing, HitlStage: stageForTask(event.Task)}, nil

	case LifecycleEventJobStarted:
		if current.Status != CaseProcessing {
			return current, invalidTransition(current, event)
		}
		return CaseLifecycle{Status: CaseProcessing, HitlStage: stageForTask(event.Task)}, nil

	case LifecycleEventJobSucceeded:
		if current.Status != CaseProcessing {
			return current, invalidTransition(current, event)
		}
		if event.Task == TaskInitialParse {
			if !event.ExtractionOk {
				return CaseLifecycle{Status: CaseFailed}, nil
			}
			return CaseLifecycle{Status: CaseReview, HitlStage: HitlStageReview}, nil
		}
		return CaseLifecycle{Status: CaseReady}, nil

	case LifecycleEventJobFailed:
		if current.Status != CaseProcessing {
			return current, invalidTransition(current, event)
		}
		return CaseLifecycle{Status: CaseFailed}, nil

	case LifecycleEventProceedToFinal:
		if current.Status != CaseReview {
			return current, errors.WithDetail(ErrCaseNotInReview,
				"final analysis can only be requested from a case in review")
		}
		return CaseLifecycle{Status: CaseProcessing, HitlStage: HitlStageFinalAnalysis}, nil

	case LifecycleEventWatchdogExpired:
		if current.Status != CaseProcessing {
			return current, invalidTransition(current, event)
		}
		return CaseLifecycle{Status: CaseTimeout}, nil

	case LifecycleEventArchive:
		if !slices.Contains([]CaseStatus{CaseActive, CaseReady, CaseFailed, CaseTimeout}, current.Status) {
			return current, invalidTransition(current, event)
		}
		return CaseLifecycle{Status: CaseArchived}, nil

	case LifecycleEventUnarchive:
		if current.Status != CaseArchived {
			return current, invalidTransition(current, event)
		}
		return CaseLifecycle{Status: CaseActive}, nil
	}

	return current, invalidTransition(current, event)
}

func stageForTask(task TaskType) HitlStage {
	switch task {
	case TaskInitialParse:
		return HitlStageInitialParse
	case TaskFinalAnalysis:
		return HitlStageFinalAnalysis
	default:
		return HitlStageNone
	}
}

func invalidTransition(current CaseLifecycle, event CaseLifecycleEvent) error {
	return errors.Wrapf(ErrInvalidCaseTransition,
		"no transition from status=%s stage=%s on event=%s task=%s",
		current.Status, current.HitlStage, event.Kind, event.Task)
}
