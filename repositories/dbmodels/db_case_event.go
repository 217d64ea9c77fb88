package dbmodels

import (
	"time"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/utils"
)

type DBCaseEvent struct {
	Id        string    `db:"id"`
	CaseId    string    `db:"case_id"`
	UserId    string    `db:"user_id"`
	EventType string    `db:"event_type"`
	Payload   string    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

const TABLE_CASE_EVENTS = "events"

var SelectCaseEventColumn = utils.ColumnList[DBCaseEvent]()

func AdaptCaseEvent(db DBCaseEvent) (models.CaseEvent, error) {
	return models.CaseEvent{
		Id:        db.Id,
		CaseId:    db.CaseId,
		UserId:    db.UserId,
		EventType: models.CaseEventTypeFrom(db.EventType),
		Payload:   db.Payload,
		CreatedAt: db.CreatedAt,
	}, nil
}
