package models

// UploadFailure records one file that could not be uploaded.
type UploadFailure struct {
	Name string
	Err  error
}

// UploadBatchResult aggregates per-file outcomes of a batch upload. Every
// attempted file lands in exactly one of the two lists.
type UploadBatchResult struct {
	Saved  []FileRecord
	Failed []UploadFailure
}
