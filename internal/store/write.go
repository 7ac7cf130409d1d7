package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/hecate/internal/ir"
)

// Record appends a translation and stores its assembly.
//
// Empty ID, OutputHash and version fields are filled in; the assigned
// values are written back into tr along with Seq. A non-empty OutputHash
// must match the assembly.
//
// Assembly rows use ON CONFLICT DO NOTHING: identical output recorded twice
// is stored once. Recording the same translation ID twice is an error.
func (s *Store) Record(ctx context.Context, tr *Translation, assembly string) error {
	hash := ir.OutputHash([]byte(assembly))
	if tr.OutputHash == "" {
		tr.OutputHash = hash
	} else if tr.OutputHash != hash {
		return fmt.Errorf("record translation: output hash %s does not match assembly (%s)", tr.OutputHash, hash)
	}
	if tr.ID == "" {
		tr.ID = s.ids.Generate()
	}
	if tr.IRVersion == "" {
		tr.IRVersion = ir.IRVersion
	}
	if tr.GeneratorVersion == "" {
		tr.GeneratorVersion = ir.GeneratorVersion
	}

	report, err := json.Marshal(tr.Report)
	if err != nil {
		return fmt.Errorf("record translation: marshal report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record translation: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO outputs (output_hash, assembly)
		VALUES (?, ?)
		ON CONFLICT(output_hash) DO NOTHING
	`, tr.OutputHash, assembly); err != nil {
		return fmt.Errorf("record translation: write output: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM translations`).Scan(&seq); err != nil {
		return fmt.Errorf("record translation: next seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO translations
		(id, seq, source, module_name, module_hash, options, output_hash, report, ir_version, generator_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		tr.ID,
		seq,
		tr.Source,
		tr.ModuleName,
		tr.ModuleHash,
		tr.Options,
		tr.OutputHash,
		string(report),
		tr.IRVersion,
		tr.GeneratorVersion,
	); err != nil {
		return fmt.Errorf("record translation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record translation: commit: %w", err)
	}
	tr.Seq = seq
	return nil
}
