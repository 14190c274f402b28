// Package store persists named macro definitions ("defs" in the
// original tool: `:s NAME = TERM`) across REPL sessions.
//
// The original keeps defs in an in-memory list for the lifetime of
// one process (original_source/main.py's Interaction.defs). This
// package generalizes that to an optional SQLite-backed store so a
// REPL invoked with --store PATH can pick up where a previous session
// left off; invoked without one, it falls back to the same
// process-lifetime, append-only list semantics as the original.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	migsqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/Joker-vD/onepass-lambda-compiler/parse"
	"github.com/Joker-vD/onepass-lambda-compiler/term"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MacroDef is one named macro: a source name bound by `:s` and the
// term it stands for.
type MacroDef struct {
	Name string
	Term term.Term
}

// Store holds the macro environment. The zero value, and the value
// returned by Open(""), are an in-memory store scoped to the
// process — nothing is written to disk.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	mem []MacroDef
}

// Open opens or creates the SQLite-backed macro store at path,
// running pending migrations. Open("") returns an in-memory store
// instead of touching disk, for a REPL invoked without --store.
func Open(path string) (*Store, error) {
	if path == "" {
		return &Store{}, nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := migsqlite.WithInstance(db, &migsqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("new migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close releases the underlying database connection, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Set binds name to t, appending a new entry — mirroring
// `:s`/cmd_set_macro in the original, which never overwrites: forget
// and re-add to replace a binding, same as here.
func (s *Store) Set(name string, t term.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		s.mem = append(s.mem, MacroDef{Name: name, Term: t})
		return nil
	}

	_, err := s.db.Exec(`INSERT INTO macros (name, term) VALUES (?, ?)`, name, term.String(t))
	if err != nil {
		return fmt.Errorf("store: set %s: %w", name, err)
	}
	return nil
}

// Forget removes every macro bound to name — cmd_forget_macro in the
// original removes *all* entries with that name, not just the most
// recent one, and this matches that.
func (s *Store) Forget(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		kept := s.mem[:0]
		for _, d := range s.mem {
			if d.Name != name {
				kept = append(kept, d)
			}
		}
		s.mem = kept
		return nil
	}

	_, err := s.db.Exec(`DELETE FROM macros WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("store: forget %s: %w", name, err)
	}
	return nil
}

// List returns every macro definition in insertion order, for `:l`.
func (s *Store) List() ([]MacroDef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		out := make([]MacroDef, len(s.mem))
		copy(out, s.mem)
		return out, nil
	}

	rows, err := s.db.Query(`SELECT name, term FROM macros ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []MacroDef
	for rows.Next() {
		var name, text string
		if err := rows.Scan(&name, &text); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		t, err := parse.Parse(text, noContinuation)
		if err != nil {
			return nil, fmt.Errorf("store: corrupt macro %s: %w", name, err)
		}
		out = append(out, MacroDef{Name: name, Term: t})
	}
	return out, rows.Err()
}

func noContinuation(bool) (string, bool) { return "", false }

// Build merges body with every macro definition via the usual
// let-to-λ conversion: `let x = e1 in e2` becomes `(λx. e2) e1`. Each
// macro is applied in reverse definition order, so the first-defined
// macro ends up as the outermost application — exactly
// Interaction.build_full_term in the original.
func (s *Store) Build(body term.Term) (term.Term, error) {
	defs, err := s.List()
	if err != nil {
		return nil, err
	}

	result := body
	for i := len(defs) - 1; i >= 0; i-- {
		d := defs[i]
		result = term.NewApp(term.NewLam(d.Name, result), d.Term)
	}
	return result, nil
}
