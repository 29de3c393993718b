// Package transport talks to the sharebox backend. It returns raw decoded
// JSON payloads (any); converting them into canonical entities is the
// orchestration layer's job, so adapters stay out of the wire code.
package transport

import (
	"context"
	"io"
)

// TokenSource supplies a live bearer credential for outbound requests.
// Implementations must never return an expired token; returning "" means
// the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Upload describes one multipart file upload.
type Upload struct {
	Name     string
	MimeType string
	Size     int64
	Content  io.Reader
	UserID   string
}

// SignUp carries the create-account fields.
type SignUp struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Client is the backend API surface consumed by the services layer.
// Every payload-returning call yields the decoded JSON body as-is.
type Client interface {
	SignUp(ctx context.Context, req SignUp) (any, error)
	SignIn(ctx context.Context, username, password string) (any, error)
	SignOut(ctx context.Context) error
	Me(ctx context.Context) (any, error)

	ListFiles(ctx context.Context, userID string) (any, error)
	GetFile(ctx context.Context, id string) (any, error)
	DeleteFile(ctx context.Context, id string) error
	FindFileByName(ctx context.Context, name, userID string) (any, error)
	UploadFile(ctx context.Context, up Upload) (any, error)

	ShareFile(ctx context.Context, fileID, recipientID string) (any, error)
	ListInbox(ctx context.Context) (any, error)
	MarkShareRead(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}
