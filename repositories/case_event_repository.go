package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories/dbmodels"
)

func (repo *CaseproofDbRepository) CreateCaseEvent(
	ctx context.Context,
	exec Executor,
	attrs models.CreateCaseEventAttributes,
) error {
	return repo.BatchCreateCaseEvents(ctx, exec, []models.CreateCaseEventAttributes{attrs})
}

func (repo *CaseproofDbRepository) BatchCreateCaseEvents(
	ctx context.Context,
	exec Executor,
	attrs []models.CreateCaseEventAttributes,
) error {
	if len(attrs) == 0 {
		return nil
	}

	query := NewQueryBuilder().Insert(dbmodels.TABLE_CASE_EVENTS).
		Columns(
			"id",
			"case_id",
			"user_id",
			"event_type",
			"payload",
		)
	for _, attr := range attrs {
		query = query.Values(
			uuid.NewString(),
			attr.CaseId,
			attr.UserId,
			attr.EventType,
			attr.Payload,
		)
	}

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo *CaseproofDbRepository) ListCaseEvents(ctx context.Context, exec Executor, caseId string) ([]models.CaseEvent, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectCaseEventColumn...).
			From(dbmodels.TABLE_CASE_EVENTS).
			Where(squirrel.Eq{"case_id": caseId}).
			OrderBy("created_at ASC"),
		dbmodels.AdaptCaseEvent,
	)
}
