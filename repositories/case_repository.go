package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories/dbmodels"
)

func (repo *CaseproofDbRepository) ListOrganizationCases(
	ctx context.Context,
	exec Executor,
	filters models.CaseFilters,
) ([]models.Case, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectCaseColumn...).
		From(dbmodels.TABLE_CASES).
		OrderBy("created_at DESC")

	if filters.OrganizationId != "" {
		query = query.Where(squirrel.Eq{"org_id": filters.OrganizationId})
	} else {
		query = query.Where(squirrel.Eq{"owner_id": filters.OwnerId})
	}

	if len(filters.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"status": filters.Statuses})
	}

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptCase)
}

func (repo *CaseproofDbRepository) GetCaseById(ctx context.Context, exec Executor, caseId string) (models.Case, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectCaseColumn...).
			From(dbmodels.TABLE_CASES).
			Where(squirrel.Eq{"id": caseId}),
		dbmodels.AdaptCase,
	)
}

func (repo *CaseproofDbRepository) CreateCase(
	ctx context.Context,
	exec Executor,
	attrs models.CreateCaseAttributes,
	newCaseId string,
) error {
	var orgId *string
	if attrs.OrganizationId != "" {
		orgId = &attrs.OrganizationId
	}

	_, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_CASES).
			Columns(
				"id",
				"org_id",
				"owner_id",
				"name",
				"description",
				"tags",
				"color",
				"status",
			).
			Values(
				newCaseId,
				orgId,
				attrs.OwnerId,
				attrs.Name,
				attrs.Description,
				attrs.Tags,
				attrs.Color,
				models.CaseActive,
			),
	)
	return err
}

func (repo *CaseproofDbRepository) UpdateCase(ctx context.Context, exec Executor, attrs models.UpdateCaseAttributes) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_CASES).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": attrs.Id})

	if attrs.Name != "" {
		query = query.Set("name", attrs.Name)
	}
	if attrs.Description != nil {
		query = query.Set("description", *attrs.Description)
	}
	if attrs.Tags != nil {
		query = query.Set("tags", attrs.Tags)
	}
	if attrs.Color != "" {
		query = query.Set("color", attrs.Color)
	}

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

// CaseLifecycleUpdate carries the side-channel fields recorded together with a
// status change.
type CaseLifecycleUpdate struct {
	InputArchiveKey *string
	CsvZipUrl       *string
	ResultZipUrl    *string
}

func (repo *CaseproofDbRepository) UpdateCaseLifecycle(
	ctx context.Context,
	exec Executor,
	caseId string,
	lifecycle models.CaseLifecycle,
	update CaseLifecycleUpdate,
) error {
	var stage *string
	if lifecycle.HitlStage != models.HitlStageNone {
		stage = (*string)(&lifecycle.HitlStage)
	}

	query := NewQueryBuilder().
		Update(dbmodels.TABLE_CASES).
		Set("status", lifecycle.Status).
		Set("hitl_stage", stage).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": caseId})

	if update.InputArchiveKey != nil {
		query = query.Set("input_archive_key", *update.InputArchiveKey)
	}
	if update.CsvZipUrl != nil {
		query = query.Set("csv_zip_url", *update.CsvZipUrl)
	}
	if update.ResultZipUrl != nil {
		query = query.Set("result_zip_url", *update.ResultZipUrl)
	}

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

// DeleteCase removes the case row; files, CSV rows, jobs and events cascade
// through their foreign keys.
func (repo *CaseproofDbRepository) DeleteCase(ctx context.Context, exec Executor, caseId string) error {
	_, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Delete(dbmodels.TABLE_CASES).Where(squirrel.Eq{"id": caseId}),
	)
	return err
}
