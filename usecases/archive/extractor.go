package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/caseproof/caseproof-backend/models"
)

// ExtractionResult reports what a result archive yielded. Candidates counts
// the entries matching the expected output naming convention; Entries holds
// the ones that could actually be read.
type ExtractionResult struct {
	Candidates int
	Entries    []models.ArchiveEntry
	Skipped    []string
}

// ExtractCsvEntries unpacks the per-document CSV outputs of an analysis result
// archive. A single malformed entry does not block an otherwise usable set: it
// is recorded in Skipped and extraction continues. The caller decides, via
// ExtractionResult.Ok, whether the overall outcome is acceptable.
func ExtractCsvEntries(archiveContent []byte) (ExtractionResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(archiveContent), int64(len(archiveContent)))
	if err != nil {
		return ExtractionResult{}, errors.Wrap(err, "could not open result archive")
	}

	var result ExtractionResult
	for _, file := range reader.File {
		name := path.Base(file.Name)
		if file.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		result.Candidates++

		rc, err := file.Open()
		if err != nil {
			result.Skipped = append(result.Skipped, file.Name)
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			result.Skipped = append(result.Skipped, file.Name)
			continue
		}

		result.Entries = append(result.Entries, models.ArchiveEntry{
			Name:    name,
			Content: content,
		})
	}

	return result, nil
}

// MinSuccessPolicy is the number of readable entries below which a result
// archive counts as unusable.
type MinSuccessPolicy int

// At least one readable CSV: partial extraction still lets a reviewer work,
// an empty result set must never surface a Review state.
const AtLeastOne MinSuccessPolicy = 1

func (r ExtractionResult) Meets(policy MinSuccessPolicy) bool {
	return len(r.Entries) >= int(policy)
}

// Ok applies the default extraction policy.
func (r ExtractionResult) Ok() bool {
	return r.Meets(AtLeastOne)
}
