// Package archive builds the input archives shipped to the analysis backend
// and unpacks the result archives it produces. It is pure: no storage or
// network access, only bytes in and bytes out.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/caseproof/caseproof-backend/models"
)

const passwordManifestVersion = 1

// Build bundles the given entries into a single zip archive. Entry names must
// already be the sanitized names used for blob storage, so that archive
// entries map 1:1 to persisted blobs. When passwords are provided, a
// password.txt manifest is embedded so the backend can open protected source
// documents.
//
// The build is fail-fast: an error on any entry aborts the whole archive.
func Build(entries []models.ArchiveEntry, passwords map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, entry := range entries {
		if entry.Name == "" {
			return nil, errors.Wrap(models.BadParameterError, "archive entry without a name")
		}
		w, err := writer.Create(entry.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create archive entry %s", entry.Name)
		}
		if _, err := w.Write(entry.Content); err != nil {
			return nil, errors.Wrapf(err, "could not write archive entry %s", entry.Name)
		}
	}

	if len(passwords) > 0 {
		manifest := models.PasswordManifest{Version: passwordManifestVersion}
		for _, entry := range entries {
			if password, ok := passwords[entry.Name]; ok {
				manifest.ProtectedFiles = append(manifest.ProtectedFiles, models.ProtectedFile{
					Filename: entry.Name,
					Password: password,
				})
			}
		}

		manifestJson, err := json.Marshal(manifest)
		if err != nil {
			return nil, errors.Wrap(err, "could not marshal password manifest")
		}
		w, err := writer.Create(models.PasswordManifestName)
		if err != nil {
			return nil, errors.Wrap(err, "could not create password manifest entry")
		}
		if _, err := w.Write(manifestJson); err != nil {
			return nil, errors.Wrap(err, "could not write password manifest entry")
		}
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "could not finalize archive")
	}
	return buf.Bytes(), nil
}
