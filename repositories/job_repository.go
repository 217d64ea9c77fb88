package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories/dbmodels"
)

func (repo *CaseproofDbRepository) GetJobById(ctx context.Context, exec Executor, jobId string) (*models.AnalysisJob, error) {
	return SqlToOptionalModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectJobColumn...).
			From(dbmodels.TABLE_JOBS).
			Where(squirrel.Eq{"id": jobId}),
		dbmodels.AdaptAnalysisJob,
	)
}

func (repo *CaseproofDbRepository) InsertJob(ctx context.Context, exec Executor, update models.JobUpdate) error {
	_, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_JOBS).
			Columns(
				"id",
				"task",
				"case_id",
				"user_id",
				"input_url",
				"status",
				"result_url",
				"error_message",
				"idempotency_key",
			).
			Values(
				update.JobId,
				update.Task,
				update.CaseId,
				update.UserId,
				update.InputUrl,
				update.Status,
				nilIfEmpty(update.ResultUrl),
				nilIfEmpty(update.ErrorMessage),
				nilIfEmpty(update.IdempotencyKey),
			),
	)
	return err
}

func (repo *CaseproofDbRepository) UpdateJob(ctx context.Context, exec Executor, update models.JobUpdate) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_JOBS).
		Set("status", update.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": update.JobId})

	if update.ResultUrl != "" {
		query = query.Set("result_url", update.ResultUrl)
	}
	if update.ErrorMessage != "" {
		query = query.Set("error_message", update.ErrorMessage)
	}

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

// ListStaleProcessingCases returns the cases that have been in Processing since
// before the cutoff without any job row touched after it. They are the watchdog
// sweep candidates.
func (repo *CaseproofDbRepository) ListStaleProcessingCases(
	ctx context.Context,
	exec Executor,
	cutoff time.Time,
) ([]models.Case, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectCaseColumn...).
		From(dbmodels.TABLE_CASES).
		Where(squirrel.Eq{"status": models.CaseProcessing}).
		Where(squirrel.Lt{"updated_at": cutoff}).
		Where(squirrel.Expr(
			"NOT EXISTS (SELECT 1 FROM "+dbmodels.TABLE_JOBS+
				" j WHERE j.case_id = cases.id AND j.updated_at >= ?)", cutoff)).
		OrderBy("updated_at ASC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptCase)
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
