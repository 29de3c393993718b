package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkozyrev/sharebox/internal/client/apperr"
	"github.com/vkozyrev/sharebox/internal/common"
)

type staticTokens string

func (s staticTokens) Token(ctx context.Context) (string, error) { return string(s), nil }

func TestHTTPClient_AttachesBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, WithTokenSource(staticTokens("tok-1")))
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-1", gotAuth)
}

func TestHTTPClient_NoTokenMeansNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, WithTokenSource(staticTokens("")))
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestHTTPClient_401TriggersAuthFailureHookBeforeReturn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	t.Cleanup(srv.Close)

	fired := false
	c := NewHTTPClient(srv.URL, WithAuthFailureHook(func(ctx context.Context) { fired = true }))

	_, err := c.ListFiles(context.Background(), "u1")
	require.Error(t, err)
	require.True(t, fired, "auth failure hook must run before the error reaches the caller")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	n := apperr.Normalize(err)
	require.Equal(t, 401, n.Status)
	require.Equal(t, "token expired", n.Message)
}

func TestHTTPClient_ErrorBodyBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"name taken","code":"USERNAME_TAKEN"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL)
	_, err := c.SignUp(context.Background(), SignUp{Username: "x", Password: "y"})
	require.Error(t, err)

	n := apperr.Normalize(err)
	require.Equal(t, 409, n.Status)
	require.Equal(t, "USERNAME_TAKEN", n.Code)
	require.Equal(t, "name taken", n.Message)
}

func TestHTTPClient_NetworkFailureIsUnavailable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1") // nothing listens here
	_, err := c.Me(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, common.ErrorUnavailable)
}

func TestHTTPClient_FindFileByName404MeansAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL)
	raw, err := c.FindFileByName(context.Background(), "report.pdf", "u1")
	require.NoError(t, err)
	require.Nil(t, raw)
}

func TestHTTPClient_UploadSendsMultipart(t *testing.T) {
	var (
		gotName    string
		gotContent string
		gotUserID  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		gotName = fh.Filename
		gotContent = string(content)
		gotUserID = r.FormValue("user_id")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "file_name": fh.Filename})
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL)
	raw, err := c.UploadFile(context.Background(), Upload{
		Name:     "hello.txt",
		MimeType: "text/plain",
		Content:  strings.NewReader("hi there"),
		UserID:   "u7",
	})
	require.NoError(t, err)
	require.Equal(t, "hello.txt", gotName)
	require.Equal(t, "hi there", gotContent)
	require.Equal(t, "u7", gotUserID)
	require.NotNil(t, raw)
}

func TestHTTPClient_InterceptorsRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "1", r.Header.Get("X-Test"))
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	stamp := func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r.Header.Set("X-Test", "1")
			return next.RoundTrip(r)
		})
	}

	c := NewHTTPClient(srv.URL, WithInterceptors(stamp))
	err := c.Ping(context.Background())
	require.NoError(t, err)
}

func TestHTTPClient_EmptyBodyDecodesToNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL)
	require.NoError(t, c.MarkShareRead(context.Background(), "s1"))
}
