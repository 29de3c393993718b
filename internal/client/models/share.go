package models

import "time"

// ShareRecord is the canonical inbox entry. IsRead is monotonic: once true
// it is never reverted by normal client flow.
type ShareRecord struct {
	ID            string
	File          FileRecord
	SenderName    string
	RecipientName string
	SharedAt      time.Time
	IsRead        bool
}
