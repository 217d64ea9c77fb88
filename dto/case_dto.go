package dto

import (
	"time"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/pure_utils"
)

type APICase struct {
	Id              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Tags            []string         `json:"tags"`
	Color           string           `json:"color"`
	Status          string           `json:"status"`
	HitlStage       string           `json:"hitl_stage,omitempty"`
	InputArchiveKey string           `json:"input_archive_key,omitempty"`
	CsvZipUrl       string           `json:"csv_zip_url,omitempty"`
	ResultZipUrl    string           `json:"result_zip_url,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Files           []APICaseFile    `json:"files,omitempty"`
	CsvFiles        []APICaseCsvFile `json:"csv_files,omitempty"`
	Events          []APICaseEvent   `json:"events,omitempty"`
}

func AdaptCaseDto(c models.Case) APICase {
	return APICase{
		Id:              c.Id,
		Name:            c.Name,
		Description:     c.Description,
		Tags:            c.Tags,
		Color:           c.Color,
		Status:          string(c.Status),
		HitlStage:       string(c.HitlStage),
		InputArchiveKey: c.InputArchiveKey,
		CsvZipUrl:       c.CsvZipUrl,
		ResultZipUrl:    c.ResultZipUrl,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Files:           pure_utils.Map(c.Files, AdaptCaseFileDto),
		CsvFiles:        pure_utils.Map(c.CsvFiles, AdaptCaseCsvFileDto),
		Events:          pure_utils.Map(c.Events, AdaptCaseEventDto),
	}
}

type APICaseFile struct {
	Id        string    `json:"id"`
	CaseId    string    `json:"case_id"`
	FileName  string    `json:"file_name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func AdaptCaseFileDto(f models.CaseFile) APICaseFile {
	return APICaseFile{
		Id:        f.Id,
		CaseId:    f.CaseId,
		FileName:  f.FileName,
		Type:      string(f.Type),
		CreatedAt: f.CreatedAt,
	}
}

type APICaseCsvFile struct {
	Id          string    `json:"id"`
	CaseId      string    `json:"case_id"`
	PdfFileName string    `json:"pdf_file_name"`
	IsCorrected bool      `json:"is_corrected"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func AdaptCaseCsvFileDto(f models.CaseCsvFile) APICaseCsvFile {
	return APICaseCsvFile{
		Id:          f.Id,
		CaseId:      f.CaseId,
		PdfFileName: f.PdfFileName,
		IsCorrected: f.IsCorrected,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

type APICaseEvent struct {
	Id        string    `json:"id"`
	CaseId    string    `json:"case_id"`
	UserId    string    `json:"user_id"`
	EventType string    `json:"event_type"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func AdaptCaseEventDto(e models.CaseEvent) APICaseEvent {
	return APICaseEvent{
		Id:        e.Id,
		CaseId:    e.CaseId,
		UserId:    e.UserId,
		EventType: string(e.EventType),
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
}

type CreateCaseBody struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Color       string   `json:"color"`
}

type UpdateCaseBody struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Color       string   `json:"color"`
}

type CaseNoteBody struct {
	Note string `json:"note" binding:"required"`
}
