package dbmodels

import (
	"time"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/utils"
)

type DBCase struct {
	Id              string    `db:"id"`
	OrganizationId  *string   `db:"org_id"`
	OwnerId         string    `db:"owner_id"`
	Name            string    `db:"name"`
	Description     string    `db:"description"`
	Tags            []string  `db:"tags"`
	Color           string    `db:"color"`
	Status          string    `db:"status"`
	HitlStage       *string   `db:"hitl_stage"`
	InputArchiveKey *string   `db:"input_archive_key"`
	CsvZipUrl       *string   `db:"csv_zip_url"`
	ResultZipUrl    *string   `db:"result_zip_url"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

const TABLE_CASES = "cases"

var SelectCaseColumn = utils.ColumnList[DBCase]()

func AdaptCase(db DBCase) (models.Case, error) {
	c := models.Case{
		Id:          db.Id,
		OwnerId:     db.OwnerId,
		Name:        db.Name,
		Description: db.Description,
		Tags:        db.Tags,
		Color:       db.Color,
		Status:      models.CaseStatus(db.Status),
		CreatedAt:   db.CreatedAt,
		UpdatedAt:   db.UpdatedAt,
	}
	if db.OrganizationId != nil {
		c.OrganizationId = *db.OrganizationId
	}
	if db.HitlStage != nil {
		c.HitlStage = models.HitlStage(*db.HitlStage)
	}
	if db.InputArchiveKey != nil {
		c.InputArchiveKey = *db.InputArchiveKey
	}
	if db.CsvZipUrl != nil {
		c.CsvZipUrl = *db.CsvZipUrl
	}
	if db.ResultZipUrl != nil {
		c.ResultZipUrl = *db.ResultZipUrl
	}
	return c, nil
}
