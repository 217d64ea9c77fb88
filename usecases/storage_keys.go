package usecases

import (
	"fmt"
	"time"
)

// Blob key layout. Everything belonging to a case lives under the owner id so
// that deleting a case is a single prefix sweep.
//
//	{owner}/{case}/{file}                 uploaded source documents
//	{owner}/{case}/csv/original/{file}    extracted per-document CSVs
//	{owner}/{case}/csv/corrected/{file}   analyst corrected CSVs
//	{owner}/zips/{case}_{suffix}.zip      archives shipped to the backend

func caseFileKey(ownerId, caseId, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", ownerId, caseId, fileName)
}

func casePrefix(ownerId, caseId string) string {
	return fmt.Sprintf("%s/%s/", ownerId, caseId)
}

func csvOriginalKey(ownerId, caseId, csvName string) string {
	return fmt.Sprintf("%s/%s/csv/original/%s", ownerId, caseId, csvName)
}

func csvCorrectedKey(ownerId, caseId, csvName string) string {
	return fmt.Sprintf("%s/%s/csv/corrected/%s", ownerId, caseId, csvName)
}

func inputArchiveKey(ownerId, caseId string, now time.Time) string {
	return fmt.Sprintf("%s/zips/%s_%d.zip", ownerId, caseId, now.Unix())
}

func reviewArchiveKey(ownerId, caseId string, now time.Time) string {
	return fmt.Sprintf("%s/zips/%s_review_%d.zip", ownerId, caseId, now.Unix())
}
