package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories/dbmodels"
)

func (repo *CaseproofDbRepository) BatchCreateCaseCsvFiles(
	ctx context.Context,
	exec Executor,
	inputs []models.CreateCaseCsvFileInput,
) error {
	if len(inputs) == 0 {
		return nil
	}

	query := NewQueryBuilder().Insert(dbmodels.TABLE_CASE_CSV_FILES).
		Columns(
			"id",
			"case_id",
			"pdf_file_name",
			"original_file_ref",
		)
	for _, input := range inputs {
		query = query.Values(
			input.Id,
			input.CaseId,
			input.PdfFileName,
			input.OriginalFileRef,
		)
	}
	// Duplicate webhook deliveries replay the extraction: the
	// (case_id, pdf_file_name) unique index makes the replay a no-op.
	query = query.Suffix("ON CONFLICT (case_id, pdf_file_name) DO NOTHING")

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo *CaseproofDbRepository) ListCaseCsvFiles(ctx context.Context, exec Executor, caseId string) ([]models.CaseCsvFile, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectCaseCsvFileColumn...).
			From(dbmodels.TABLE_CASE_CSV_FILES).
			Where(squirrel.Eq{"case_id": caseId}).
			OrderBy("pdf_file_name ASC"),
		dbmodels.AdaptCaseCsvFile,
	)
}

func (repo *CaseproofDbRepository) GetCaseCsvFileById(ctx context.Context, exec Executor, csvFileId string) (models.CaseCsvFile, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectCaseCsvFileColumn...).
			From(dbmodels.TABLE_CASE_CSV_FILES).
			Where(squirrel.Eq{"id": csvFileId}),
		dbmodels.AdaptCaseCsvFile,
	)
}

func (repo *CaseproofDbRepository) UpdateCaseCsvFileCorrection(
	ctx context.Context,
	exec Executor,
	csvFileId string,
	correctedFileRef string,
) error {
	_, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Update(dbmodels.TABLE_CASE_CSV_FILES).
			Set("corrected_file_ref", correctedFileRef).
			Set("is_corrected", true).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": csvFileId}),
	)
	return err
}
