package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/vkozyrev/sharebox/internal/client/transport"
)

// fakeClient implements transport.Client with per-call hooks. Calls without
// a hook fail loudly so tests notice unexpected traffic.
type fakeClient struct {
	signUpFn   func(ctx context.Context, req transport.SignUp) (any, error)
	signInFn   func(ctx context.Context, username, password string) (any, error)
	signOutFn  func(ctx context.Context) error
	meFn       func(ctx context.Context) (any, error)
	listFn     func(ctx context.Context, userID string) (any, error)
	getFn      func(ctx context.Context, id string) (any, error)
	deleteFn   func(ctx context.Context, id string) error
	findFn     func(ctx context.Context, name, userID string) (any, error)
	uploadFn   func(ctx context.Context, up transport.Upload) (any, error)
	shareFn    func(ctx context.Context, fileID, recipientID string) (any, error)
	inboxFn    func(ctx context.Context) (any, error)
	markReadFn func(ctx context.Context, id string) error

	calls []string
}

var errUnexpectedCall = errors.New("unexpected backend call")

func (f *fakeClient) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeClient) SignUp(ctx context.Context, req transport.SignUp) (any, error) {
	f.record("SignUp")
	if f.signUpFn == nil {
		return nil, errUnexpectedCall
	}
	return f.signUpFn(ctx, req)
}

func (f *fakeClient) SignIn(ctx context.Context, username, password string) (any, error) {
	f.record("SignIn")
	if f.signInFn == nil {
		return nil, errUnexpectedCall
	}
	return f.signInFn(ctx, username, password)
}

func (f *fakeClient) SignOut(ctx context.Context) error {
	f.record("SignOut")
	if f.signOutFn == nil {
		return nil
	}
	return f.signOutFn(ctx)
}

func (f *fakeClient) Me(ctx context.Context) (any, error) {
	f.record("Me")
	if f.meFn == nil {
		return nil, errUnexpectedCall
	}
	return f.meFn(ctx)
}

func (f *fakeClient) ListFiles(ctx context.Context, userID string) (any, error) {
	f.record("ListFiles")
	if f.listFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listFn(ctx, userID)
}

func (f *fakeClient) GetFile(ctx context.Context, id string) (any, error) {
	f.record("GetFile")
	if f.getFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getFn(ctx, id)
}

func (f *fakeClient) DeleteFile(ctx context.Context, id string) error {
	f.record("DeleteFile")
	if f.deleteFn == nil {
		return errUnexpectedCall
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeClient) FindFileByName(ctx context.Context, name, userID string) (any, error) {
	f.record("FindFileByName")
	if f.findFn == nil {
		return nil, errUnexpectedCall
	}
	return f.findFn(ctx, name, userID)
}

func (f *fakeClient) UploadFile(ctx context.Context, up transport.Upload) (any, error) {
	f.record("UploadFile")
	if f.uploadFn == nil {
		return nil, errUnexpectedCall
	}
	return f.uploadFn(ctx, up)
}

func (f *fakeClient) ShareFile(ctx context.Context, fileID, recipientID string) (any, error) {
	f.record("ShareFile")
	if f.shareFn == nil {
		return nil, errUnexpectedCall
	}
	return f.shareFn(ctx, fileID, recipientID)
}

func (f *fakeClient) ListInbox(ctx context.Context) (any, error) {
	f.record("ListInbox")
	if f.inboxFn == nil {
		return nil, errUnexpectedCall
	}
	return f.inboxFn(ctx)
}

func (f *fakeClient) MarkShareRead(ctx context.Context, id string) error {
	f.record("MarkShareRead")
	if f.markReadFn == nil {
		return errUnexpectedCall
	}
	return f.markReadFn(ctx, id)
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }
func (f *fakeClient) Close() error                   { return nil }

// fakeOpener serves in-memory content for any local reference.
type fakeOpener struct {
	content map[string]string
	failOn  map[string]error
}

func (o *fakeOpener) Open(localRef string) (io.ReadCloser, int64, error) {
	if err, ok := o.failOn[localRef]; ok {
		return nil, 0, err
	}
	s, ok := o.content[localRef]
	if !ok {
		s = "default content"
	}
	return io.NopCloser(strings.NewReader(s)), int64(len(s)), nil
}
