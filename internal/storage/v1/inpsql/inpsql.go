// Package inpsql provides PSQL-based storage implementing the Storage interface.
package inpsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danilovkiri/dk-go-finances/internal/config"
	storageErrors "github.com/danilovkiri/dk-go-finances/internal/storage/v1/errors"
	"github.com/danilovkiri/dk-go-finances/internal/storage/v1/modelstorage"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog"
)

// Storage defines object structure and its attributes.
type Storage struct {
	Cfg *config.StorageConfig
	DB  *sql.DB
	log *zerolog.Logger
}

// serializable is used for every operation, check-then-act sequences on the
// unique login and the FK-dependent inserts are race-free only at this level.
var serializable = sql.TxOptions{Isolation: sql.LevelSerializable}

// InitStorage establishes a bounded PSQL connection pool and prepares the schema.
func InitStorage(ctx context.Context, cfg *config.StorageConfig, log *zerolog.Logger) (*Storage, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open a PSQL DB connection")
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	st := Storage{
		Cfg: cfg,
		DB:  db,
		log: log,
	}
	err = st.createTables(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create PSQL DB tables")
	}
	log.Info().Msg("PSQL DB connection was established")
	return &st, nil
}

// AddNewUser inserts a login/hash pair and returns the assigned identifier.
func (s *Storage) AddNewUser(ctx context.Context, login string, passwordHash string) (int64, error) {
	chanOk := make(chan int64, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		var id int64
		err = tx.QueryRowContext(ctx, "INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id", login, passwordHash).Scan(&id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				chanEr <- &storageErrors.AlreadyExistsError{Err: err, ID: login}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- id
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("adding new user failed for %s", login))
		return 0, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("adding new user failed for %s", login))
		return 0, methodErr
	case id := <-chanOk:
		s.log.Info().Msg(fmt.Sprintf("adding new user done for %s", login))
		return id, nil
	}
}

// GetUserByID retrieves a full user row by its identifier.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (modelstorage.UserStorageEntry, error) {
	chanOk := make(chan modelstorage.UserStorageEntry, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		var queryOutput modelstorage.UserStorageEntry
		err = tx.QueryRowContext(ctx, "SELECT id, login, password_hash FROM users WHERE id = $1", id).Scan(&queryOutput.ID, &queryOutput.Login, &queryOutput.PasswordHash)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				chanEr <- &storageErrors.NotFoundError{Err: err}
			default:
				chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			}
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("getting user failed for ID %d", id))
		return modelstorage.UserStorageEntry{}, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("getting user failed for ID %d", id))
		return modelstorage.UserStorageEntry{}, methodErr
	case user := <-chanOk:
		return user, nil
	}
}

// GetUserByLogin retrieves a full user row by its unique login.
func (s *Storage) GetUserByLogin(ctx context.Context, login string) (modelstorage.UserStorageEntry, error) {
	chanOk := make(chan modelstorage.UserStorageEntry, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		var queryOutput modelstorage.UserStorageEntry
		err = tx.QueryRowContext(ctx, "SELECT id, login, password_hash FROM users WHERE login = $1", login).Scan(&queryOutput.ID, &queryOutput.Login, &queryOutput.PasswordHash)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				chanEr <- &storageErrors.NotFoundError{Err: err}
			default:
				chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			}
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting user by login failed")
		return modelstorage.UserStorageEntry{}, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting user by login failed")
		return modelstorage.UserStorageEntry{}, methodErr
	case user := <-chanOk:
		return user, nil
	}
}

// UpdatePasswordByID overwrites the stored hash and requires exactly one
// affected row, zero rows yield a NotUpdatedError.
func (s *Storage) UpdatePasswordByID(ctx context.Context, id int64, passwordHash string) error {
	chanOk := make(chan bool, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		res, err := tx.ExecContext(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, id)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		affected, err := res.RowsAffected()
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		if affected != 1 {
			chanEr <- &storageErrors.NotUpdatedError{}
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("updating password failed for ID %d", id))
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("updating password failed for ID %d", id))
		return methodErr
	case <-chanOk:
		s.log.Info().Msg(fmt.Sprintf("updating password done for ID %d", id))
		return nil
	}
}

// CheckUserExistenceByID verifies that a user row exists for the identifier.
func (s *Storage) CheckUserExistenceByID(ctx context.Context, id int64) error {
	chanOk := make(chan bool, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		var exists bool
		err = tx.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", id).Scan(&exists)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		if !exists {
			chanEr <- &storageErrors.NotFoundError{}
			return
		}
		chanOk <- true
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("checking user existence failed for ID %d", id))
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		return methodErr
	case <-chanOk:
		return nil
	}
}

// AddNewEntry inserts an entry row and returns the assigned identifier. A FK
// violation on the related user maps to a NotFoundError, closing the race
// between an upstream existence check and this insert.
func (s *Storage) AddNewEntry(ctx context.Context, entry modelstorage.EntryStorageEntry) (int64, error) {
	chanOk := make(chan int64, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		var id int64
		err = tx.QueryRowContext(
			ctx,
			"INSERT INTO entries (amount, entry_date, destination, description, has_attachments, related_user_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
			entry.Amount, entry.Date, entry.Destination, entry.Description, entry.HasAttachments, entry.RelatedUserID,
		).Scan(&id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				chanEr <- &storageErrors.NotFoundError{Err: err}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- id
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("adding new entry failed for user ID %d", entry.RelatedUserID))
		return 0, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("adding new entry failed for user ID %d", entry.RelatedUserID))
		return 0, methodErr
	case id := <-chanOk:
		s.log.Info().Msg(fmt.Sprintf("adding new entry done for user ID %d", entry.RelatedUserID))
		return id, nil
	}
}

// GetAllEntries retrieves every stored entry, zero rows are not an error.
func (s *Storage) GetAllEntries(ctx context.Context) ([]modelstorage.EntryStorageEntry, error) {
	chanOk := make(chan []modelstorage.EntryStorageEntry, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		rows, err := tx.QueryContext(ctx, "SELECT id, amount, entry_date, destination, description, has_attachments, related_user_id FROM entries")
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()
		queryOutput, err := scanEntries(rows)
		if err != nil {
			chanEr <- err
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting all entries failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting all entries failed")
		return nil, methodErr
	case entries := <-chanOk:
		return entries, nil
	}
}

// GetEntriesByUserID retrieves entries owned by one user, zero rows are not an error.
func (s *Storage) GetEntriesByUserID(ctx context.Context, userID int64) ([]modelstorage.EntryStorageEntry, error) {
	chanOk := make(chan []modelstorage.EntryStorageEntry, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		rows, err := tx.QueryContext(ctx, "SELECT id, amount, entry_date, destination, description, has_attachments, related_user_id FROM entries WHERE related_user_id = $1", userID)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()
		queryOutput, err := scanEntries(rows)
		if err != nil {
			chanEr <- err
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("getting entries failed for user ID %d", userID))
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("getting entries failed for user ID %d", userID))
		return nil, methodErr
	case entries := <-chanOk:
		return entries, nil
	}
}

// CheckEntryExistenceByID verifies that an entry row exists for the identifier.
func (s *Storage) CheckEntryExistenceByID(ctx context.Context, id int64) error {
	chanOk := make(chan bool, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		var exists bool
		err = tx.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM entries WHERE id = $1)", id).Scan(&exists)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		if !exists {
			chanEr <- &storageErrors.NotFoundError{}
			return
		}
		chanOk <- true
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("checking entry existence failed for ID %d", id))
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		return methodErr
	case <-chanOk:
		return nil
	}
}

// AddNewAttachment inserts an attachment row bound to one entry. A FK
// violation on the related entry maps to a NotFoundError.
func (s *Storage) AddNewAttachment(ctx context.Context, attachment modelstorage.AttachmentStorageEntry) (int64, error) {
	chanOk := make(chan int64, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		var id int64
		err = tx.QueryRowContext(
			ctx,
			"INSERT INTO attachments (related_entry_id, content) VALUES ($1, $2) RETURNING id",
			attachment.RelatedEntryID, attachment.Content,
		).Scan(&id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				chanEr <- &storageErrors.NotFoundError{Err: err}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- id
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("adding new attachment failed for entry ID %d", attachment.RelatedEntryID))
		return 0, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("adding new attachment failed for entry ID %d", attachment.RelatedEntryID))
		return 0, methodErr
	case id := <-chanOk:
		s.log.Info().Msg(fmt.Sprintf("adding new attachment done for entry ID %d", attachment.RelatedEntryID))
		return id, nil
	}
}

// GetAttachmentsByEntryID retrieves attachments bound to one entry.
func (s *Storage) GetAttachmentsByEntryID(ctx context.Context, entryID int64) ([]modelstorage.AttachmentStorageEntry, error) {
	chanOk := make(chan []modelstorage.AttachmentStorageEntry, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		rows, err := tx.QueryContext(ctx, "SELECT id, related_entry_id, content FROM attachments WHERE related_entry_id = $1", entryID)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()
		queryOutput, err := scanAttachments(rows)
		if err != nil {
			chanEr <- err
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("getting attachments failed for entry ID %d", entryID))
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("getting attachments failed for entry ID %d", entryID))
		return nil, methodErr
	case attachments := <-chanOk:
		return attachments, nil
	}
}

// GetAttachmentsByUserID retrieves attachments bound to any entry owned by one
// user via a users-entries-attachments join.
func (s *Storage) GetAttachmentsByUserID(ctx context.Context, userID int64) ([]modelstorage.AttachmentStorageEntry, error) {
	chanOk := make(chan []modelstorage.AttachmentStorageEntry, 1)
	chanEr := make(chan error, 1)
	go func() {
		tx, err := s.DB.BeginTx(ctx, &serializable)
		if err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		defer tx.Rollback()
		rows, err := tx.QueryContext(
			ctx,
			`SELECT a.id, a.related_entry_id, a.content
			 FROM attachments a
			 JOIN entries e ON a.related_entry_id = e.id
			 JOIN users u ON e.related_user_id = u.id
			 WHERE u.id = $1`,
			userID,
		)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()
		queryOutput, err := scanAttachments(rows)
		if err != nil {
			chanEr <- err
			return
		}
		if err = tx.Commit(); err != nil {
			chanEr <- &storageErrors.TransactionPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()
	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("getting attachments failed for user ID %d", userID))
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("getting attachments failed for user ID %d", userID))
		return nil, methodErr
	case attachments := <-chanOk:
		return attachments, nil
	}
}

func scanEntries(rows *sql.Rows) ([]modelstorage.EntryStorageEntry, error) {
	var queryOutput []modelstorage.EntryStorageEntry
	for rows.Next() {
		var queryOutputRow modelstorage.EntryStorageEntry
		err := rows.Scan(&queryOutputRow.ID, &queryOutputRow.Amount, &queryOutputRow.Date, &queryOutputRow.Destination, &queryOutputRow.Description, &queryOutputRow.HasAttachments, &queryOutputRow.RelatedUserID)
		if err != nil {
			return nil, &storageErrors.ScanningPSQLError{Err: err}
		}
		queryOutput = append(queryOutput, queryOutputRow)
	}
	if err := rows.Err(); err != nil {
		return nil, &storageErrors.ScanningPSQLError{Err: err}
	}
	return queryOutput, nil
}

func scanAttachments(rows *sql.Rows) ([]modelstorage.AttachmentStorageEntry, error) {
	var queryOutput []modelstorage.AttachmentStorageEntry
	for rows.Next() {
		var queryOutputRow modelstorage.AttachmentStorageEntry
		err := rows.Scan(&queryOutputRow.ID, &queryOutputRow.RelatedEntryID, &queryOutputRow.Content)
		if err != nil {
			return nil, &storageErrors.ScanningPSQLError{Err: err}
		}
		queryOutput = append(queryOutput, queryOutputRow)
	}
	if err := rows.Err(); err != nil {
		return nil, &storageErrors.ScanningPSQLError{Err: err}
	}
	return queryOutput, nil
}

func (s *Storage) createTables(ctx context.Context) error {
	var queries []string
	query := `CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		login         TEXT      NOT NULL UNIQUE,
		password_hash TEXT      NOT NULL
	);`
	queries = append(queries, query)
	query = `CREATE TABLE IF NOT EXISTS entries (
		id              BIGSERIAL        PRIMARY KEY,
		amount          DOUBLE PRECISION NOT NULL,
		entry_date      BIGINT           NOT NULL,
		destination     TEXT             NOT NULL,
		description     TEXT             NOT NULL,
		has_attachments BOOLEAN          NOT NULL,
		related_user_id BIGINT           NOT NULL REFERENCES users (id)
	);`
	queries = append(queries, query)
	query = `CREATE TABLE IF NOT EXISTS attachments (
		id               BIGSERIAL PRIMARY KEY,
		related_entry_id BIGINT    NOT NULL REFERENCES entries (id),
		content          TEXT      NOT NULL
	);`
	queries = append(queries, query)
	for _, subquery := range queries {
		_, err := s.DB.ExecContext(ctx, subquery)
		if err != nil {
			return err
		}
	}
	return nil
}
