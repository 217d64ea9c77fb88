package models

import (
	"time"
)

// CaseCsvFile is one intermediate per-document CSV produced by the initial
// parse stage, awaiting human correction. Once IsCorrected is set, the
// corrected reference is authoritative downstream; the original is retained
// for audit.
type CaseCsvFile struct {
	Id               string
	CaseId           string
	PdfFileName      string
	OriginalFileRef  string
	CorrectedFileRef *string
	IsCorrected      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (f CaseCsvFile) EffectiveFileRef() string {
	if f.IsCorrected && f.CorrectedFileRef != nil {
		return *f.CorrectedFileRef
	}
	return f.OriginalFileRef
}

type CreateCaseCsvFileInput struct {
	Id              string
	CaseId          string
	PdfFileName     string
	OriginalFileRef string
}
