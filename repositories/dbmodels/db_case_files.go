package dbmodels

import (
	"time"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/utils"
)

type DBCaseFile struct {
	Id            string    `db:"id"`
	CaseId        string    `db:"case_id"`
	FileName      string    `db:"file_name"`
	FileReference string    `db:"file_reference"`
	UploaderId    string    `db:"uploader_id"`
	Type          string    `db:"type"`
	CreatedAt     time.Time `db:"created_at"`
}

const TABLE_CASE_FILES = "case_files"

var SelectCaseFileColumn = utils.ColumnList[DBCaseFile]()

func AdaptCaseFile(db DBCaseFile) (models.CaseFile, error) {
	return models.CaseFile{
		Id:            db.Id,
		CaseId:        db.CaseId,
		FileName:      db.FileName,
		FileReference: db.FileReference,
		UploaderId:    db.UploaderId,
		Type:          models.CaseFileType(db.Type),
		CreatedAt:     db.CreatedAt,
	}, nil
}
