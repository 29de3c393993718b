package models

import "time"

// FileRecord is the canonical file entity. FileName is always the
// human-decoded form, FileType is always a full type/subtype MIME string,
// and FileSize is never negative (0 when unknown).
type FileRecord struct {
	ID               string
	FileName         string
	FileType         string
	FileSize         int64
	OwnerID          string
	OwnerDisplayName string
	UploadedAt       time.Time
	DownloadRef      string
}

// PickedFile describes a local file selected for upload by the picker
// collaborator. LocalRef is an opaque handle resolved by a picker.Opener.
type PickedFile struct {
	LocalRef string
	Name     string
	MimeHint string
	SizeHint int64
}
