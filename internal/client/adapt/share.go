package adapt

import (
	"time"

	"github.com/vkozyrev/sharebox/internal/client/models"
)

// Share maps a raw share payload into the canonical ShareRecord. The
// embedded file goes through the File adapter rather than duplicating
// field resolution. Both wire variants are accepted: nested file+sender
// objects and the flat rows where file fields sit inline on the share.
func Share(raw any) models.ShareRecord {
	m := asMap(raw)

	var file models.FileRecord
	if fm := pickMap(m, "file", "fileInfo", "file_info", "sharedFile", "shared_file", "document"); fm != nil {
		file = File(fm)
	} else {
		file = File(m)
	}

	sharedAt := pickTime(m, "sharedAt", "shared_at", "sentAt", "sent_at", "createdAt", "created_at", "timestamp", "date")
	if sharedAt.IsZero() {
		sharedAt = time.Now().UTC()
	}

	return models.ShareRecord{
		ID:            pickID(m, "id", "shareId", "share_id", "_id", "uuid"),
		File:          file,
		SenderName:    partyName(m, "senderName", "sender_name", "sender", "sharedBy", "shared_by", "from", "fromUser", "from_user"),
		RecipientName: partyName(m, "recipientName", "recipient_name", "recipient", "sharedWith", "shared_with", "to", "toUser", "to_user"),
		SharedAt:      sharedAt,
		IsRead:        pickBool(m, "isRead", "is_read", "read", "seen", "viewed"),
	}
}

// Shares maps an inbox listing, tolerating bare arrays and wrappers.
func Shares(raw any) []models.ShareRecord {
	items := listOf(raw, "shares", "inbox", "data", "items", "results", "records", "value")
	out := make([]models.ShareRecord, 0, len(items))
	for _, item := range items {
		out = append(out, Share(item))
	}
	return out
}

// partyName resolves a sender/recipient reference that may be a plain name
// string or a nested user object.
func partyName(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := pick(m, k)
		if !ok {
			continue
		}
		switch p := v.(type) {
		case string:
			if p != "" {
				return p
			}
		case map[string]any:
			if name := pickString(p, "fullName", "full_name", "displayName", "display_name", "username", "user_name", "name"); name != "" {
				return name
			}
		}
	}
	return UnknownName
}
