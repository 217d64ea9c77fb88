package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories/dbmodels"
)

func (repo *CaseproofDbRepository) CreateCaseFile(
	ctx context.Context,
	exec Executor,
	input models.CreateDbCaseFileInput,
) error {
	// The (case_id, file_name) unique index is the backstop for the usecase
	// level de-duplication: a concurrent re-upload of the same name is a
	// no-op, not an overwrite.
	_, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_CASE_FILES).
			Columns(
				"id",
				"case_id",
				"file_name",
				"file_reference",
				"uploader_id",
				"type",
			).
			Values(
				input.Id,
				input.CaseId,
				input.FileName,
				input.FileReference,
				input.UploaderId,
				input.Type,
			).
			Suffix("ON CONFLICT (case_id, file_name) DO NOTHING"),
	)
	return err
}

func (repo *CaseproofDbRepository) ListCaseFiles(ctx context.Context, exec Executor, caseId string) ([]models.CaseFile, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectCaseFileColumn...).
			From(dbmodels.TABLE_CASE_FILES).
			Where(squirrel.Eq{"case_id": caseId}).
			OrderBy("created_at ASC"),
		dbmodels.AdaptCaseFile,
	)
}

func (repo *CaseproofDbRepository) GetCaseFileById(ctx context.Context, exec Executor, fileId string) (models.CaseFile, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectCaseFileColumn...).
			From(dbmodels.TABLE_CASE_FILES).
			Where(squirrel.Eq{"id": fileId}),
		dbmodels.AdaptCaseFile,
	)
}
