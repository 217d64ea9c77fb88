package dbmodels

import (
	"time"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/utils"
)

type DBCaseCsvFile struct {
	Id               string    `db:"id"`
	CaseId           string    `db:"case_id"`
	PdfFileName      string    `db:"pdf_file_name"`
	OriginalFileRef  string    `db:"original_file_ref"`
	CorrectedFileRef *string   `db:"corrected_file_ref"`
	IsCorrected      bool      `db:"is_corrected"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

const TABLE_CASE_CSV_FILES = "case_csv_files"

var SelectCaseCsvFileColumn = utils.ColumnList[DBCaseCsvFile]()

func AdaptCaseCsvFile(db DBCaseCsvFile) (models.CaseCsvFile, error) {
	return models.CaseCsvFile{
		Id:               db.Id,
		CaseId:           db.CaseId,
		PdfFileName:      db.PdfFileName,
		OriginalFileRef:  db.OriginalFileRef,
		CorrectedFileRef: db.CorrectedFileRef,
		IsCorrected:      db.IsCorrected,
		CreatedAt:        db.CreatedAt,
		UpdatedAt:        db.UpdatedAt,
	}, nil
}
