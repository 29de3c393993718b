package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/vkozyrev/sharebox/internal/client/adapt"
	"github.com/vkozyrev/sharebox/internal/client/apperr"
	"github.com/vkozyrev/sharebox/internal/client/models"
	"github.com/vkozyrev/sharebox/internal/client/picker"
	"github.com/vkozyrev/sharebox/internal/client/transport"
	"github.com/vkozyrev/sharebox/internal/logging"
)

// UploadOutcome is the result of sending one file.
type UploadOutcome struct {
	Success bool
	File    models.FileRecord
	Err     error
}

// FileService covers the file operations: uploads, listings, detail
// lookups, deletion, sharing, and the shared-files inbox.
type FileService interface {
	UploadOne(ctx context.Context, file models.PickedFile, ownerID string) UploadOutcome
	ListMyFiles(ctx context.Context, ownerID string) ([]models.FileRecord, error)
	GetFileDetails(ctx context.Context, id string) (*models.FileRecord, error)
	DeleteFile(ctx context.Context, id string) error
	CheckDuplicate(ctx context.Context, name, ownerID string) (*models.FileRecord, error)

	ShareFile(ctx context.Context, fileID, recipientID string) (*models.ShareRecord, error)
	ListInbox(ctx context.Context) ([]models.ShareRecord, error)
	MarkShareRead(ctx context.Context, id string)
}

type fileService struct {
	client transport.Client
	opener picker.Opener
	log    logging.Logger
}

func NewFileService(client transport.Client, opener picker.Opener, log logging.Logger) FileService {
	return &fileService{client: client, opener: opener, log: log}
}

// UploadOne streams one picked file to the backend and adapts the reply
// into a FileRecord. When the backend acknowledges the upload but returns
// no usable identifier, a placeholder record is synthesized so the caller
// can still display the file.
func (f *fileService) UploadOne(ctx context.Context, file models.PickedFile, ownerID string) UploadOutcome {
	content, size, err := f.opener.Open(file.LocalRef)
	if err != nil {
		return UploadOutcome{Err: fmt.Errorf("opening %s: %w", file.Name, err)}
	}
	defer content.Close()

	if size <= 0 {
		size = file.SizeHint
	}
	mimeType := adapt.NormalizeMIME(file.MimeHint, file.Name)

	raw, err := f.client.UploadFile(ctx, transport.Upload{
		Name:     file.Name,
		MimeType: mimeType,
		Size:     size,
		Content:  content,
		UserID:   ownerID,
	})
	if err != nil {
		return UploadOutcome{Err: err}
	}

	rec := adapt.File(raw)
	if rec.ID == "" {
		rec.ID = "local-" + uuid.NewString()
		rec.FileName = file.Name
		rec.FileType = mimeType
		rec.FileSize = size
		rec.OwnerID = ownerID
		f.log.Debug(ctx, "upload acknowledged without an id, using placeholder", "name", file.Name)
	}
	return UploadOutcome{Success: true, File: rec}
}

func (f *fileService) ListMyFiles(ctx context.Context, ownerID string) ([]models.FileRecord, error) {
	raw, err := f.client.ListFiles(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return adapt.Files(raw), nil
}

// GetFileDetails returns (nil, nil) when the file no longer exists.
func (f *fileService) GetFileDetails(ctx context.Context, id string) (*models.FileRecord, error) {
	raw, err := f.client.GetFile(ctx, id)
	if err != nil {
		if n := apperr.Normalize(err); n.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	rec := adapt.File(raw)
	return &rec, nil
}

// DeleteFile removes a file. A 404 is rewritten into a user-facing message
// because backend versions without the delete endpoint answer exactly that.
func (f *fileService) DeleteFile(ctx context.Context, id string) error {
	if err := f.client.DeleteFile(ctx, id); err != nil {
		if n := apperr.Normalize(err); n.Status == http.StatusNotFound {
			return fmt.Errorf("delete not available: %w", err)
		}
		return err
	}
	return nil
}

// CheckDuplicate asks the backend whether the owner already has a file
// with this name. (nil, nil) means no duplicate.
func (f *fileService) CheckDuplicate(ctx context.Context, name, ownerID string) (*models.FileRecord, error) {
	raw, err := f.client.FindFileByName(ctx, name, ownerID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	rec := adapt.File(raw)
	if rec.ID == "" && rec.FileName == adapt.UnknownName {
		return nil, nil
	}
	return &rec, nil
}

func (f *fileService) ShareFile(ctx context.Context, fileID, recipientID string) (*models.ShareRecord, error) {
	raw, err := f.client.ShareFile(ctx, fileID, recipientID)
	if err != nil {
		return nil, err
	}
	rec := adapt.Share(raw)
	return &rec, nil
}

func (f *fileService) ListInbox(ctx context.Context) ([]models.ShareRecord, error) {
	raw, err := f.client.ListInbox(ctx)
	if err != nil {
		return nil, err
	}
	return adapt.Shares(raw), nil
}

// MarkShareRead is best-effort: a failed read receipt must not disturb the
// inbox flow, so the error is only logged.
func (f *fileService) MarkShareRead(ctx context.Context, id string) {
	if err := f.client.MarkShareRead(ctx, id); err != nil {
		f.log.Warn(ctx, "marking share as read failed", "share_id", id, "err", err)
	}
}
