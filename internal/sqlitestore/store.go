package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/paramgrid/internal/ctxlog"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// setOwner is the slots.owner of the parameter set's bag.
const setOwner = ""

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EditBlock is a row of the edit_blocks table.
type EditBlock struct {
	ID        uuid.UUID
	Label     string
	Mutations int
	Closed    bool
}

// Store implements propstore.Store on a SQLite database.
type Store struct {
	db *sql.DB

	mu        sync.Mutex
	now       float64
	open      *EditBlock
	depth     int
	mutations int
}

var _ propstore.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies
// pending migrations. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	// One connection: SQLite has a single writer and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Property store opened.", "path", path)
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("sqlitestore: enable foreign keys: %w", err)
	}
	if err := runMigrations(ctx, s.db, migrationsFS); err != nil {
		return err
	}
	for slot, v := range propstore.SetDefaults() {
		enc, err := encode(v)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO slots (owner, slot, value) VALUES (?, ?, ?)`,
			setOwner, string(slot), enc,
		); err != nil {
			return fmt.Errorf("sqlitestore: seed set properties: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) CreateProperty(ctx context.Context, name string, kind param.Type) (propstore.Handle, error) {
	if name == "" {
		return nil, fmt.Errorf("sqlitestore: parameter name must not be empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: begin create tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := kindOf(ctx, tx, name)
	switch {
	case err == nil:
		if existing != kind {
			return nil, &param.KindError{Err: param.ErrSchemaConflict, Name: name, Requested: kind, Actual: existing}
		}
		return &handle{s: s, name: name, kind: kind}, nil
	case !errors.Is(err, param.ErrNotFound):
		return nil, err
	}

	slots := propstore.Defaults(name, kind)
	var static sql.NullString
	if kind.HoldsValue() {
		enc, err := encode(slots[propstore.SlotDefault])
		if err != nil {
			return nil, err
		}
		static = sql.NullString{String: enc, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO params (name, kind, static) VALUES (?, ?, ?)`, name, kind.String(), static,
	); err != nil {
		return nil, fmt.Errorf("sqlitestore: insert %q: %w", name, err)
	}
	for slot, v := range slots {
		enc, err := encode(v)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO slots (owner, slot, value) VALUES (?, ?, ?)`, name, string(slot), enc,
		); err != nil {
			return nil, fmt.Errorf("sqlitestore: insert slot %s of %q: %w", slot, name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlitestore: commit create %q: %w", name, err)
	}
	s.mutated()
	ctxlog.FromContext(ctx).Debug("Property created.", "name", name, "type", kind.String())
	return &handle{s: s, name: name, kind: kind}, nil
}

func (s *Store) LookupProperty(ctx context.Context, name string) (propstore.Handle, error) {
	kind, err := kindOf(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	return &handle{s: s, name: name, kind: kind}, nil
}

func (s *Store) PropertyExists(ctx context.Context, name string) (bool, error) {
	_, err := kindOf(ctx, s.db, name)
	if errors.Is(err, param.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) PropertyType(ctx context.Context, name string) (param.Type, error) {
	return kindOf(ctx, s.db, name)
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM params ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) SetProperties() propstore.Properties {
	return &bag{s: s, owner: setOwner, kind: param.TypeDummy}
}

func (s *Store) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Store) SetTime(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t
}

func (s *Store) BeginEditBlock(ctx context.Context, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth > 0 {
		s.depth++
		return nil
	}
	block := &EditBlock{ID: uuid.New(), Label: label}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO edit_blocks (id, label) VALUES (?, ?)`, block.ID.String(), label,
	); err != nil {
		return fmt.Errorf("sqlitestore: open edit block: %w", err)
	}
	s.open, s.depth, s.mutations = block, 1, 0
	ctxlog.FromContext(ctx).Debug("Edit block opened.", "label", label, "id", block.ID.String())
	return nil
}

func (s *Store) EndEditBlock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth == 0 {
		return param.ErrNoEditBlock
	}
	s.depth--
	if s.depth > 0 {
		return nil
	}
	id := s.open.ID.String()
	s.open = nil
	if _, err := s.db.ExecContext(ctx,
		`UPDATE edit_blocks SET mutations = ?, closed_at = CURRENT_TIMESTAMP WHERE id = ?`, s.mutations, id,
	); err != nil {
		return fmt.Errorf("sqlitestore: close edit block: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Edit block closed.", "id", id, "mutations", s.mutations)
	return nil
}

// EditBlocks returns the recorded edit blocks, oldest first.
func (s *Store) EditBlocks(ctx context.Context) ([]EditBlock, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, mutations, closed_at IS NOT NULL FROM edit_blocks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list edit blocks: %w", err)
	}
	defer rows.Close()

	var out []EditBlock
	for rows.Next() {
		var (
			b  EditBlock
			id string
		)
		if err := rows.Scan(&id, &b.Label, &b.Mutations, &b.Closed); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan edit block: %w", err)
		}
		if b.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("sqlitestore: edit block id %q: %w", id, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) mutated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open != nil {
		s.mutations++
	}
}

func kindOf(ctx context.Context, q querier, name string) (param.Type, error) {
	var kind string
	err := q.QueryRowContext(ctx, `SELECT kind FROM params WHERE name = ?`, name).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return param.TypeDummy, fmt.Errorf("lookup %q: %w", name, param.ErrNotFound)
	}
	if err != nil {
		return param.TypeDummy, fmt.Errorf("sqlitestore: lookup %q: %w", name, err)
	}
	return param.ParseType(kind)
}

func encode(v cty.Value) (string, error) {
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", fmt.Errorf("sqlitestore: encode %s: %w", v.Type().FriendlyName(), err)
	}
	return string(b), nil
}

func decode(s string, ty cty.Type) (cty.Value, error) {
	v, err := ctyjson.Unmarshal([]byte(s), ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("sqlitestore: decode %s: %w", ty.FriendlyName(), err)
	}
	return v, nil
}
