package services

import (
	"context"
	"errors"

	"github.com/vkozyrev/sharebox/internal/client/models"
	"github.com/vkozyrev/sharebox/internal/logging"
)

// Decision is the user's answer to a duplicate prompt.
type Decision int

const (
	// DecisionSkip drops the file from the batch entirely; it appears in
	// neither the saved nor the failed list.
	DecisionSkip Decision = iota
	// DecisionUpload sends the file anyway.
	DecisionUpload
)

// DuplicatePrompt asks whether a picked file that collides with an
// existing one should still be uploaded.
type DuplicatePrompt struct {
	File     models.PickedFile
	Existing models.FileRecord
}

// ErrNoPendingPrompt reports a Decide call without an outstanding prompt.
var ErrNoPendingPrompt = errors.New("no duplicate prompt is pending")

// BatchUpload walks a set of picked files through duplicate screening and
// sequential upload. The flow is an explicit cursor, not recursion, so a
// long batch with many duplicates cannot grow the stack:
//
//	b := NewBatchUpload(files, ownerID, svc, log)
//	for {
//	    prompt, err := b.Next(ctx)
//	    if err != nil || prompt == nil {
//	        break
//	    }
//	    b.Decide(askUser(prompt))
//	}
//	result, _ := b.Upload(ctx)
//
// Every approved file lands in exactly one of result.Saved or
// result.Failed; skipped files appear in neither.
type BatchUpload struct {
	files   []models.PickedFile
	ownerID string
	svc     FileService
	log     logging.Logger

	cursor   int
	pending  *DuplicatePrompt
	approved []models.PickedFile
}

func NewBatchUpload(files []models.PickedFile, ownerID string, svc FileService, log logging.Logger) *BatchUpload {
	return &BatchUpload{
		files:    files,
		ownerID:  ownerID,
		svc:      svc,
		log:      log,
		approved: make([]models.PickedFile, 0, len(files)),
	}
}

// Next advances the screening cursor until a duplicate needs a decision or
// the batch is exhausted. It returns (nil, nil) once every file has been
// screened. A failed duplicate check approves the file and moves on: a
// flaky check endpoint must not block uploads.
func (b *BatchUpload) Next(ctx context.Context) (*DuplicatePrompt, error) {
	if b.pending != nil {
		return b.pending, nil
	}

	for b.cursor < len(b.files) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file := b.files[b.cursor]
		b.cursor++

		existing, err := b.svc.CheckDuplicate(ctx, file.Name, b.ownerID)
		if err != nil {
			b.log.Warn(ctx, "duplicate check failed, uploading anyway", "name", file.Name, "err", err)
			b.approved = append(b.approved, file)
			continue
		}
		if existing == nil {
			b.approved = append(b.approved, file)
			continue
		}

		b.pending = &DuplicatePrompt{File: file, Existing: *existing}
		return b.pending, nil
	}
	return nil, nil
}

// Decide resolves the outstanding prompt. Screening of the remaining files
// continues on the following Next call regardless of the answer.
func (b *BatchUpload) Decide(d Decision) error {
	if b.pending == nil {
		return ErrNoPendingPrompt
	}
	if d == DecisionUpload {
		b.approved = append(b.approved, b.pending.File)
	}
	b.pending = nil
	return nil
}

// Upload sends every approved file sequentially. One file's failure never
// aborts the rest; it is recorded and the batch moves on. After the last
// attempt the owner's listing is re-fetched so placeholder records are
// replaced with the server's versions; when that refresh fails, the local
// records stand.
func (b *BatchUpload) Upload(ctx context.Context) (models.UploadBatchResult, error) {
	var result models.UploadBatchResult
	if b.pending != nil {
		return result, ErrNoPendingPrompt
	}

	for _, file := range b.approved {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		outcome := b.svc.UploadOne(ctx, file, b.ownerID)
		if !outcome.Success {
			b.log.Warn(ctx, "upload failed", "name", file.Name, "err", outcome.Err)
			result.Failed = append(result.Failed, models.UploadFailure{Name: file.Name, Err: outcome.Err})
			continue
		}
		result.Saved = append(result.Saved, outcome.File)
	}

	if len(result.Saved) > 0 {
		result.Saved = b.refresh(ctx, result.Saved)
	}
	return result, nil
}

// refresh swaps locally synthesized records for the backend's canonical
// ones, matched by file name.
func (b *BatchUpload) refresh(ctx context.Context, saved []models.FileRecord) []models.FileRecord {
	listed, err := b.svc.ListMyFiles(ctx, b.ownerID)
	if err != nil {
		b.log.Warn(ctx, "post-upload refresh failed, keeping local records", "err", err)
		return saved
	}

	byName := make(map[string]models.FileRecord, len(listed))
	for _, rec := range listed {
		byName[rec.FileName] = rec
	}
	for i, rec := range saved {
		if server, ok := byName[rec.FileName]; ok {
			saved[i] = server
		}
	}
	return saved
}

// Run drives the whole flow with a synchronous decision callback, for
// callers that do not need to interleave prompts with other work.
func (b *BatchUpload) Run(ctx context.Context, decide func(DuplicatePrompt) Decision) (models.UploadBatchResult, error) {
	for {
		prompt, err := b.Next(ctx)
		if err != nil {
			return models.UploadBatchResult{}, err
		}
		if prompt == nil {
			break
		}
		if err := b.Decide(decide(*prompt)); err != nil {
			return models.UploadBatchResult{}, err
		}
	}
	return b.Upload(ctx)
}
