package models

// ArchiveEntry is one named file inside an input or result archive. Content is
// read once into memory and reused for both individual blob upload and archive
// construction.
type ArchiveEntry struct {
	Name    string
	Content []byte
}

const PasswordManifestName = "password.txt"

// PasswordManifest is embedded in input archives as password.txt so the
// analysis backend can open protected source documents.
type PasswordManifest struct {
	Version        int             `json:"version"`
	ProtectedFiles []ProtectedFile `json:"protected_files"`
}

type ProtectedFile struct {
	Filename string `json:"filename"`
	Password string `json:"password"`
}
