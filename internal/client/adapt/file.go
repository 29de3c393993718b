package adapt

import (
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/vkozyrev/sharebox/internal/client/models"
)

// Defaults used when no candidate key resolves.
const (
	UnknownName     = "Unknown"
	DefaultMIMEType = "application/octet-stream"
)

var fileNameKeys = []string{"fileName", "file_name", "filename", "name", "originalName", "original_name", "title"}

// File maps a raw backend file payload into the canonical FileRecord.
// It never fails: missing or malformed fields resolve to documented
// defaults (UnknownName, 0 size, DefaultMIMEType, current time).
func File(raw any) models.FileRecord {
	m := asMap(raw)
	if inner := pickMap(m, "file", "data", "fileInfo", "file_info"); inner != nil {
		m = inner
	}

	name := pickString(m, fileNameKeys...)
	if decoded, err := url.PathUnescape(name); err == nil && decoded != "" {
		name = decoded
	}
	if name == "" {
		name = UnknownName
	}

	uploadedAt := pickTime(m, "uploadedAt", "uploaded_at", "createdAt", "created_at", "uploadDate", "upload_date", "timestamp", "date")
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	return models.FileRecord{
		ID:               pickID(m, "id", "fileId", "file_id", "_id", "uuid"),
		FileName:         name,
		FileType:         NormalizeMIME(pickString(m, "fileType", "file_type", "mimeType", "mime_type", "contentType", "content_type", "type", "ext", "extension"), name),
		FileSize:         pickInt(m, "fileSize", "file_size", "size", "sizeBytes", "size_bytes", "length"),
		OwnerID:          pickID(m, "ownerId", "owner_id", "owner", "userId", "user_id", "uploadedBy", "uploaded_by", "user"),
		OwnerDisplayName: ownerName(m),
		UploadedAt:       uploadedAt,
		DownloadRef:      pickString(m, "downloadRef", "download_ref", "downloadUrl", "download_url", "url", "path"),
	}
}

// Files maps a list payload, tolerating both a bare array and the common
// wrapper objects. Unparseable input yields an empty slice.
func Files(raw any) []models.FileRecord {
	items := listOf(raw, "files", "data", "items", "results", "records", "value")
	out := make([]models.FileRecord, 0, len(items))
	for _, item := range items {
		out = append(out, File(item))
	}
	return out
}

func ownerName(m map[string]any) string {
	name := pickString(m, "ownerName", "owner_name", "ownerDisplayName", "owner_display_name", "uploaderName", "uploader_name")
	if name == "" {
		if om := pickMap(m, "owner", "user", "uploadedBy", "uploaded_by"); om != nil {
			name = pickString(om, "fullName", "full_name", "displayName", "display_name", "username", "user_name", "name")
		}
	}
	if name == "" {
		name = UnknownName
	}
	return name
}

// mimeByExtension covers extensions the stdlib table misses on a bare
// platform.
var mimeByExtension = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".heic": "image/heic",
}

// NormalizeMIME turns whatever the backend sent under the type field into a
// full type/subtype string. Bare extensions ("pdf", ".pdf") are looked up;
// when nothing resolves, the file name's extension is tried, and the final
// fallback is DefaultMIMEType.
func NormalizeMIME(raw, fileName string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))

	if strings.Contains(raw, "/") {
		// Already type/subtype; strip any parameters.
		if i := strings.Index(raw, ";"); i >= 0 {
			raw = strings.TrimSpace(raw[:i])
		}
		return raw
	}

	if raw != "" {
		if full := byExtension("." + strings.TrimPrefix(raw, ".")); full != "" {
			return full
		}
	}

	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" {
		if full := byExtension(ext); full != "" {
			return full
		}
	}

	return DefaultMIMEType
}

func byExtension(ext string) string {
	if full, ok := mimeByExtension[ext]; ok {
		return full
	}
	full := mime.TypeByExtension(ext)
	if i := strings.Index(full, ";"); i >= 0 {
		full = strings.TrimSpace(full[:i])
	}
	return full
}

// listOf extracts the item array from raw, which may be a bare array or an
// object wrapping the array under one of the given keys.
func listOf(raw any, keys ...string) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		return pickList(v, keys...)
	case nil:
		return nil
	default:
		return nil
	}
}
