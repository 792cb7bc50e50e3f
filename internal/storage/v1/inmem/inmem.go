// Package inmem provides an in-memory storage implementing the Storage
// interface, mirroring the PSQL semantics for tests and local runs without a DB.
package inmem

import (
	"context"
	"sort"
	"sync"

	storageErrors "github.com/danilovkiri/dk-go-finances/internal/storage/v1/errors"
	"github.com/danilovkiri/dk-go-finances/internal/storage/v1/modelstorage"
)

// Storage defines object structure and its attributes.
type Storage struct {
	mu               sync.Mutex
	users            map[int64]modelstorage.UserStorageEntry
	logins           map[string]int64
	entries          map[int64]modelstorage.EntryStorageEntry
	attachments      map[int64]modelstorage.AttachmentStorageEntry
	nextUserID       int64
	nextEntryID      int64
	nextAttachmentID int64
}

// InitStorage initializes an empty in-memory storage.
func InitStorage() *Storage {
	return &Storage{
		users:       make(map[int64]modelstorage.UserStorageEntry),
		logins:      make(map[string]int64),
		entries:     make(map[int64]modelstorage.EntryStorageEntry),
		attachments: make(map[int64]modelstorage.AttachmentStorageEntry),
	}
}

// AddNewUser inserts a login/hash pair enforcing login uniqueness.
func (s *Storage) AddNewUser(_ context.Context, login string, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logins[login]; ok {
		return 0, &storageErrors.AlreadyExistsError{ID: login}
	}
	s.nextUserID++
	id := s.nextUserID
	s.users[id] = modelstorage.UserStorageEntry{ID: id, Login: login, PasswordHash: passwordHash}
	s.logins[login] = id
	return id, nil
}

// GetUserByID retrieves a user row by its identifier.
func (s *Storage) GetUserByID(_ context.Context, id int64) (modelstorage.UserStorageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return modelstorage.UserStorageEntry{}, &storageErrors.NotFoundError{}
	}
	return user, nil
}

// GetUserByLogin retrieves a user row by its unique login.
func (s *Storage) GetUserByLogin(_ context.Context, login string) (modelstorage.UserStorageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.logins[login]
	if !ok {
		return modelstorage.UserStorageEntry{}, &storageErrors.NotFoundError{}
	}
	return s.users[id], nil
}

// UpdatePasswordByID overwrites the stored hash requiring the row to exist.
func (s *Storage) UpdatePasswordByID(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return &storageErrors.NotUpdatedError{}
	}
	user.PasswordHash = passwordHash
	s.users[id] = user
	return nil
}

// CheckUserExistenceByID verifies that a user row exists.
func (s *Storage) CheckUserExistenceByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return &storageErrors.NotFoundError{}
	}
	return nil
}

// AddNewEntry inserts an entry row enforcing the related user FK.
func (s *Storage) AddNewEntry(_ context.Context, entry modelstorage.EntryStorageEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[entry.RelatedUserID]; !ok {
		return 0, &storageErrors.NotFoundError{}
	}
	s.nextEntryID++
	entry.ID = s.nextEntryID
	s.entries[entry.ID] = entry
	return entry.ID, nil
}

// GetAllEntries retrieves every stored entry ordered by identifier.
func (s *Storage) GetAllEntries(_ context.Context) ([]modelstorage.EntryStorageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var queryOutput []modelstorage.EntryStorageEntry
	for _, entry := range s.entries {
		queryOutput = append(queryOutput, entry)
	}
	sort.Slice(queryOutput, func(i, j int) bool { return queryOutput[i].ID < queryOutput[j].ID })
	return queryOutput, nil
}

// GetEntriesByUserID retrieves entries owned by one user ordered by identifier.
func (s *Storage) GetEntriesByUserID(_ context.Context, userID int64) ([]modelstorage.EntryStorageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var queryOutput []modelstorage.EntryStorageEntry
	for _, entry := range s.entries {
		if entry.RelatedUserID == userID {
			queryOutput = append(queryOutput, entry)
		}
	}
	sort.Slice(queryOutput, func(i, j int) bool { return queryOutput[i].ID < queryOutput[j].ID })
	return queryOutput, nil
}

// CheckEntryExistenceByID verifies that an entry row exists.
func (s *Storage) CheckEntryExistenceByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return &storageErrors.NotFoundError{}
	}
	return nil
}

// AddNewAttachment inserts an attachment row enforcing the related entry FK.
func (s *Storage) AddNewAttachment(_ context.Context, attachment modelstorage.AttachmentStorageEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[attachment.RelatedEntryID]; !ok {
		return 0, &storageErrors.NotFoundError{}
	}
	s.nextAttachmentID++
	attachment.ID = s.nextAttachmentID
	s.attachments[attachment.ID] = attachment
	return attachment.ID, nil
}

// GetAttachmentsByEntryID retrieves attachments bound to one entry.
func (s *Storage) GetAttachmentsByEntryID(_ context.Context, entryID int64) ([]modelstorage.AttachmentStorageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var queryOutput []modelstorage.AttachmentStorageEntry
	for _, attachment := range s.attachments {
		if attachment.RelatedEntryID == entryID {
			queryOutput = append(queryOutput, attachment)
		}
	}
	sort.Slice(queryOutput, func(i, j int) bool { return queryOutput[i].ID < queryOutput[j].ID })
	return queryOutput, nil
}

// GetAttachmentsByUserID retrieves attachments bound to any entry owned by one user.
func (s *Storage) GetAttachmentsByUserID(_ context.Context, userID int64) ([]modelstorage.AttachmentStorageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var queryOutput []modelstorage.AttachmentStorageEntry
	for _, attachment := range s.attachments {
		entry, ok := s.entries[attachment.RelatedEntryID]
		if ok && entry.RelatedUserID == userID {
			queryOutput = append(queryOutput, attachment)
		}
	}
	sort.Slice(queryOutput, func(i, j int) bool { return queryOutput[i].ID < queryOutput[j].ID })
	return queryOutput, nil
}
