package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/hecate/internal/ir"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

const translationColumns = `id, seq, source, module_name, module_hash, options, output_hash, report, ir_version, generator_version`

// Lookup returns the most recent translation of moduleHash under options
// made by the current generator version, together with its assembly. It
// returns ErrNotFound if there is none.
func (s *Store) Lookup(ctx context.Context, moduleHash, options string) (*Translation, string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+translationColumns+`
		FROM translations
		WHERE module_hash = ? AND options = ? AND generator_version = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, moduleHash, options, ir.GeneratorVersion)

	tr, err := scanTranslation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup translation: %w", err)
	}

	assembly, err := s.Output(ctx, tr.OutputHash)
	if err != nil {
		return nil, "", fmt.Errorf("lookup translation: %w", err)
	}
	return tr, assembly, nil
}

// Output returns the assembly stored under outputHash.
func (s *Store) Output(ctx context.Context, outputHash string) (string, error) {
	var assembly string
	err := s.db.QueryRowContext(ctx, `
		SELECT assembly FROM outputs WHERE output_hash = ?
	`, outputHash).Scan(&assembly)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read output: %w", err)
	}
	return assembly, nil
}

// Get returns the translation with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Translation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+translationColumns+`
		FROM translations
		WHERE id = ?
	`, id)
	tr, err := scanTranslation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get translation: %w", err)
	}
	return tr, nil
}

// List returns recorded translations, newest first. A limit of zero or
// less returns all of them.
//
// Returns an empty slice (not nil) if nothing has been recorded.
func (s *Store) List(ctx context.Context, limit int) ([]Translation, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+translationColumns+`
		FROM translations
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	translations := []Translation{}
	for rows.Next() {
		tr, err := scanTranslation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		translations = append(translations, *tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translations: %w", err)
	}
	return translations, nil
}

// Count returns the number of recorded translations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count translations: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTranslation(row scanner) (*Translation, error) {
	var tr Translation
	var report string
	if err := row.Scan(
		&tr.ID,
		&tr.Seq,
		&tr.Source,
		&tr.ModuleName,
		&tr.ModuleHash,
		&tr.Options,
		&tr.OutputHash,
		&report,
		&tr.IRVersion,
		&tr.GeneratorVersion,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(report), &tr.Report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &tr, nil
}
