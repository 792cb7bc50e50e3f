// Package modelstorage provides types for querying relational DB.
package modelstorage

type UserStorageEntry struct {
	ID           int64  `db:"id"`
	Login        string `db:"login"`
	PasswordHash string `db:"password_hash"`
}

type EntryStorageEntry struct {
	ID             int64   `db:"id"`
	Amount         float64 `db:"amount"`
	Date           int64   `db:"entry_date"`
	Destination    string  `db:"destination"`
	Description    string  `db:"description"`
	HasAttachments bool    `db:"has_attachments"`
	RelatedUserID  int64   `db:"related_user_id"`
}

type AttachmentStorageEntry struct {
	ID             int64  `db:"id"`
	RelatedEntryID int64  `db:"related_entry_id"`
	Content        string `db:"content"`
}
