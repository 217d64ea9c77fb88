package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextCaseLifecycle_submitFiles(t *testing.T) {
	for _, status := range []CaseStatus{CaseActive, CaseReady, CaseFailed, CaseTimeout} {
		t.Run(string(status), func(t *testing.T) {
			next, err := NextCaseLifecycle(
				CaseLifecycle{Status: status},
				CaseLifecycleEvent{Kind: LifecycleEventSubmitFiles, Task: TaskInitialParse},
			)
			assert.NoError(t, err)
			assert.Equal(t, CaseLifecycle{Status: CaseProcessing, HitlStage: HitlStageInitialParse}, next)
		})
	}

	t.Run("without hitl the stage stays empty", func(t *testing.T) {
		next, err := NextCaseLifecycle(
			CaseLifecycle{Status: CaseActive},
			CaseLifecycleEvent{Kind: LifecycleEventSubmitFiles, Task: TaskParseStatements},
		)
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseProcessing, HitlStage: HitlStageNone}, next)
	})

	t.Run("rejected while an analysis is in flight", func(t *testing.T) {
		for _, status := range []CaseStatus{CaseProcessing, CaseReview} {
			current := CaseLifecycle{Status: status}
			next, err := NextCaseLifecycle(current,
				CaseLifecycleEvent{Kind: LifecycleEventSubmitFiles, Task: TaskInitialParse})
			assert.ErrorIs(t, err, ErrCaseAlreadyProcessing)
			assert.ErrorIs(t, err, ConflictError)
			assert.Equal(t, current, next)
		}
	})

	t.Run("rejected on an archived case", func(t *testing.T) {
		_, err := NextCaseLifecycle(CaseLifecycle{Status: CaseArchived},
			CaseLifecycleEvent{Kind: LifecycleEventSubmitFiles, Task: TaskInitialParse})
		assert.ErrorIs(t, err, ErrInvalidCaseTransition)
	})
}

func TestNextCaseLifecycle_jobEvents(t *testing.T) {
	processing := CaseLifecycle{Status: CaseProcessing, HitlStage: HitlStageInitialParse}

	t.Run("started keeps the case processing", func(t *testing.T) {
		next, err := NextCaseLifecycle(processing,
			CaseLifecycleEvent{Kind: LifecycleEventJobStarted, Task: TaskInitialParse})
		assert.NoError(t, err)
		assert.Equal(t, processing, next)
	})

	t.Run("initial parse success moves to review", func(t *testing.T) {
		next, err := NextCaseLifecycle(processing, CaseLifecycleEvent{
			Kind: LifecycleEventJobSucceeded, Task: TaskInitialParse, ExtractionOk: true,
		})
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseReview, HitlStage: HitlStageReview}, next)
	})

	t.Run("initial parse success without extracted entries fails the case", func(t *testing.T) {
		next, err := NextCaseLifecycle(processing, CaseLifecycleEvent{
			Kind: LifecycleEventJobSucceeded, Task: TaskInitialParse, ExtractionOk: false,
		})
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseFailed}, next)
	})

	t.Run("final analysis success moves to ready", func(t *testing.T) {
		next, err := NextCaseLifecycle(
			CaseLifecycle{Status: CaseProcessing, HitlStage: HitlStageFinalAnalysis},
			CaseLifecycleEvent{Kind: LifecycleEventJobSucceeded, Task: TaskFinalAnalysis})
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseReady}, next)
	})

	t.Run("statement parsing success moves to ready", func(t *testing.T) {
		next, err := NextCaseLifecycle(CaseLifecycle{Status: CaseProcessing},
			CaseLifecycleEvent{Kind: LifecycleEventJobSucceeded, Task: TaskParseStatements})
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseReady}, next)
	})

	t.Run("failure moves to failed", func(t *testing.T) {
		next, err := NextCaseLifecycle(processing,
			CaseLifecycleEvent{Kind: LifecycleEventJobFailed, Task: TaskInitialParse})
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseFailed}, next)
	})

	t.Run("job events are rejected outside of processing", func(t *testing.T) {
		for _, status := range []CaseStatus{CaseActive, CaseReview, CaseReady, CaseArchived, CaseFailed, CaseTimeout} {
			for _, kind := range []CaseLifecycleEventKind{
				LifecycleEventJobStarted, LifecycleEventJobSucceeded, LifecycleEventJobFailed,
			} {
				current := CaseLifecycle{Status: status}
				next, err := NextCaseLifecycle(current, CaseLifecycleEvent{Kind: kind, Task: TaskInitialParse})
				assert.ErrorIs(t, err, ErrInvalidCaseTransition)
				assert.Equal(t, current, next)
			}
		}
	})
}

func TestNextCaseLifecycle_review(t *testing.T) {
	t.Run("proceed to final analysis from review", func(t *testing.T) {
		next, err := NextCaseLifecycle(
			CaseLifecycle{Status: CaseReview, HitlStage: HitlStageReview},
			CaseLifecycleEvent{Kind: LifecycleEventProceedToFinal, Task: TaskFinalAnalysis})
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseProcessing, HitlStage: HitlStageFinalAnalysis}, next)
	})

	t.Run("proceed is rejected outside of review", func(t *testing.T) {
		_, err := NextCaseLifecycle(CaseLifecycle{Status: CaseActive},
			CaseLifecycleEvent{Kind: LifecycleEventProceedToFinal})
		assert.ErrorIs(t, err, ErrCaseNotInReview)
	})
}

func TestNextCaseLifecycle_watchdogAndArchival(t *testing.T) {
	t.Run("watchdog times out a processing case", func(t *testing.T) {
		next, err := NextCaseLifecycle(
			CaseLifecycle{Status: CaseProcessing, HitlStage: HitlStageInitialParse},
			CaseLifecycleEvent{Kind: LifecycleEventWatchdogExpired})
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseTimeout}, next)
	})

	t.Run("watchdog leaves settled cases alone", func(t *testing.T) {
		_, err := NextCaseLifecycle(CaseLifecycle{Status: CaseReady},
			CaseLifecycleEvent{Kind: LifecycleEventWatchdogExpired})
		assert.ErrorIs(t, err, ErrInvalidCaseTransition)
	})

	t.Run("archive and unarchive round trip", func(t *testing.T) {
		archived, err := NextCaseLifecycle(CaseLifecycle{Status: CaseReady},
			CaseLifecycleEvent{Kind: LifecycleEventArchive})
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseArchived}, archived)

		restored, err := NextCaseLifecycle(archived, CaseLifecycleEvent{Kind: LifecycleEventUnarchive})
		assert.NoError(t, err)
		assert.Equal(t, CaseLifecycle{Status: CaseActive}, restored)
	})

	t.Run("a processing case cannot be archived", func(t *testing.T) {
		_, err := NextCaseLifecycle(CaseLifecycle{Status: CaseProcessing},
			CaseLifecycleEvent{Kind: LifecycleEventArchive})
		assert.ErrorIs(t, err, ErrInvalidCaseTransition)
	})
}
