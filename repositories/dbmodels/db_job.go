package dbmodels

import (
	"time"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/utils"
)

type DBAnalysisJob struct {
	Id             string    `db:"id"`
	Task           string    `db:"task"`
	CaseId         string    `db:"case_id"`
	UserId         string    `db:"user_id"`
	InputUrl       string    `db:"input_url"`
	Status         string    `db:"status"`
	ResultUrl      *string   `db:"result_url"`
	ErrorMessage   *string   `db:"error_message"`
	IdempotencyKey *string   `db:"idempotency_key"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

const TABLE_JOBS = "jobs"

var SelectJobColumn = utils.ColumnList[DBAnalysisJob]()

func AdaptAnalysisJob(db DBAnalysisJob) (models.AnalysisJob, error) {
	job := models.AnalysisJob{
		Id:        db.Id,
		Task:      models.TaskTypeFrom(db.Task),
		CaseId:    db.CaseId,
		UserId:    db.UserId,
		InputUrl:  db.InputUrl,
		Status:    models.JobStatus(db.Status),
		CreatedAt: db.CreatedAt,
		UpdatedAt: db.UpdatedAt,
	}
	if db.ResultUrl != nil {
		job.ResultUrl = *db.ResultUrl
	}
	if db.ErrorMessage != nil {
		job.ErrorMessage = *db.ErrorMessage
	}
	if db.IdempotencyKey != nil {
		job.IdempotencyKey = *db.IdempotencyKey
	}
	return job, nil
}
