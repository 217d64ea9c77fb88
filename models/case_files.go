package models

import (
	"mime/multipart"
	"time"
)

type CaseFileType string

const (
	CaseFileUpload CaseFileType = "upload"
	CaseFileResult CaseFileType = "result"
)

// CaseFile is one document belonging to a case. FileName is the sanitized name
// used both as the blob key segment and as the archive entry name, so that
// archive entries map 1:1 to persisted blobs.
type CaseFile struct {
	Id            string
	CaseId        string
	FileName      string
	FileReference string
	UploaderId    string
	Type          CaseFileType
	CreatedAt     time.Time
}

type CreateCaseFilesInput struct {
	CaseId    string
	Files     []multipart.FileHeader
	Passwords map[string]string
}

type CreateDbCaseFileInput struct {
	Id            string
	CaseId        string
	FileName      string
	FileReference string
	UploaderId    string
	Type          CaseFileType
}
