// Package sqlite provides a persisted vector store backed by SQLite.
// Embeddings are stored as little-endian float32 blobs; similarity search is
// a brute-force scan with the equality filter pushed down to SQL where
// possible. The corpus sizes this system handles (thousands of short
// documents) do not justify an ANN index.
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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/felt-labs/tellscan-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/felt-labs/tellscan-cli/internal/core/domain"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed implementation of driven.VectorStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.tellscan/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tellscan", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode for better concurrency between upserts and queries.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

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

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

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
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for i, name := range upFiles {
		version := i + 1
		if version <= currentVersion {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert stores the document, replacing any prior row with the same
// (collection, id) pair.
func (s *Store) Upsert(ctx context.Context, collection domain.Collection, doc domain.Document, embedding []float32) error {
	if !domain.KnownCollection(collection) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: document has no id", domain.ErrInvalidInput)
	}

	metadataJSON, err := marshalMetadata(doc)
	if err != nil {
		return fmt.Errorf("encoding metadata for %q: %w", doc.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, game_id, participant_id, text, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			game_id = excluded.game_id,
			participant_id = excluded.participant_id,
			text = excluded.text,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`, string(collection), doc.ID, doc.GameID, doc.ParticipantID, doc.Text,
		metadataJSON, float32SliceToBytes(embedding))
	if err != nil {
		return fmt.Errorf("upserting document %q: %w", doc.ID, err)
	}
	return nil
}

// Query returns up to k filtered documents nearest to the query vector,
// ascending by cosine distance, ties broken by document id.
func (s *Store) Query(ctx context.Context, collection domain.Collection, query []float32, filter domain.Filter, k int) ([]driven.Hit, error) {
	rows, err := s.scan(ctx, collection, filter)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.Hit, 0, len(rows))
	for _, r := range rows {
		if !filter.Matches(r.doc) {
			continue
		}
		hits = append(hits, driven.Hit{
			Document: r.doc,
			Distance: domain.CosineDistance(query, r.vec),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Document.ID < hits[j].Document.ID
	})

	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Get returns every document matching the filter, ordered by id ascending.
func (s *Store) Get(ctx context.Context, collection domain.Collection, filter domain.Filter) ([]domain.Document, error) {
	rows, err := s.scan(ctx, collection, filter)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, r := range rows {
		if filter.Matches(r.doc) {
			docs = append(docs, r.doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

type row struct {
	doc domain.Document
	vec []float32
}

// scan loads the collection's rows, pushing participant_id and game_id
// equality down to SQL. Remaining filter keys are applied by the caller
// against the decoded metadata.
func (s *Store) scan(ctx context.Context, collection domain.Collection, filter domain.Filter) ([]row, error) {
	if !domain.KnownCollection(collection) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}

	query := `SELECT id, game_id, participant_id, text, metadata, embedding
		FROM documents WHERE collection = ?`
	args := []any{string(collection)}

	if v, ok := filter["participant_id"]; ok {
		query += " AND participant_id = ?"
		args = append(args, v)
	}
	if v, ok := filter["game_id"]; ok {
		query += " AND game_id = ?"
		args = append(args, v)
	}

	rs, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", collection, err)
	}
	defer rs.Close()

	var rows []row
	for rs.Next() {
		var (
			doc          domain.Document
			metadataJSON string
			blob         []byte
		)
		if err := rs.Scan(&doc.ID, &doc.GameID, &doc.ParticipantID, &doc.Text, &metadataJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := unmarshalMetadata(collection, metadataJSON, &doc); err != nil {
			return nil, fmt.Errorf("decoding metadata for %q: %w", doc.ID, err)
		}
		rows = append(rows, row{doc: doc, vec: bytesToFloat32Slice(blob)})
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return rows, nil
}

// marshalMetadata encodes the document's typed metadata variant as JSON.
func marshalMetadata(doc domain.Document) (string, error) {
	var v any
	switch {
	case doc.Action != nil:
		v = doc.Action
	case doc.Chat != nil:
		v = doc.Chat
	case doc.Summary != nil:
		v = doc.Summary
	default:
		return "", fmt.Errorf("%w: document has no metadata variant", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalMetadata decodes the JSON metadata into the variant implied by
// the collection.
func unmarshalMetadata(collection domain.Collection, data string, doc *domain.Document) error {
	switch collection {
	case domain.CollectionActions:
		doc.Action = &domain.ActionMetadata{}
		return json.Unmarshal([]byte(data), doc.Action)
	case domain.CollectionChat:
		doc.Chat = &domain.ChatMetadata{}
		return json.Unmarshal([]byte(data), doc.Chat)
	case domain.CollectionSummaries:
		doc.Summary = &domain.SummaryMetadata{}
		return json.Unmarshal([]byte(data), doc.Summary)
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
}

// float32SliceToBytes encodes a float32 slice as little-endian bytes.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice decodes little-endian bytes into a float32 slice.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
