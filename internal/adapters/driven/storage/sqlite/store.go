package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/growthpilot-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
	"github.com/custodia-labs/growthpilot-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is the SQLite-backed document set persistence.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.growthpilot/data/store.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".growthpilot", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "store.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// LoadAll returns every persisted document with its embedding.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, metadata, embedding
		FROM documents
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", wrapStorage(err))
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", wrapStorage(err))
	}

	return docs, nil
}

// Append adds documents to the persisted set.
func (s *Store) Append(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", wrapStorage(err))
	}
	defer tx.Rollback()

	if err := insertDocuments(ctx, tx, docs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing append: %w", wrapStorage(err))
	}
	return nil
}

// ReplaceAll atomically swaps the entire persisted set for docs.
// SQLite's transactional journal guarantees the previous set survives a
// failure anywhere before commit.
func (s *Store) ReplaceAll(ctx context.Context, docs []domain.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", wrapStorage(err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clearing documents: %w", wrapStorage(err))
	}

	if err := insertDocuments(ctx, tx, docs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace: %w", wrapStorage(err))
	}
	return nil
}

// Count returns the number of persisted documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", wrapStorage(err))
	}
	return count, nil
}

// Clear removes all persisted documents.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clearing documents: %w", wrapStorage(err))
	}
	return nil
}

// insertDocuments writes docs within the given transaction, assigning IDs
// to documents that arrive without one.
func insertDocuments(ctx context.Context, tx *sql.Tx, docs []domain.Document) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, content, metadata, embedding)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", wrapStorage(err))
	}
	defer stmt.Close()

	for i := range docs {
		doc := docs[i]
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}

		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for %s: %w", doc.ID, err)
		}

		embeddingBlob := float32SliceToBytes(doc.Embedding)
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Content, string(metadataJSON), embeddingBlob); err != nil {
			return fmt.Errorf("inserting document %s: %w", doc.ID, wrapStorage(err))
		}
	}

	return nil
}

// scanDocument reads one row into a domain.Document.
func scanDocument(rows *sql.Rows) (domain.Document, error) {
	var doc domain.Document
	var metadataJSON string
	var embeddingBlob []byte

	if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &embeddingBlob); err != nil {
		return domain.Document{}, fmt.Errorf("scanning document: %w", wrapStorage(err))
	}

	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshalling metadata for %s: %w", doc.ID, err)
	}

	doc.Embedding = bytesToFloat32Slice(embeddingBlob)
	return doc, nil
}

// wrapStorage tags infrastructure failures with the domain storage error
// so callers can match with errors.Is.
func wrapStorage(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
