package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/propsel/internal/introspect"
	"github.com/roach88/propsel/internal/model"
	"github.com/roach88/propsel/internal/selector"
)

// WriteModel replaces the catalog with reg and its enumerated members.
//
// Members are enumerated with the selector engine so that effective
// visibility and override links in the catalog are exactly the ones the
// in-memory engine computes. Everything is written in one transaction.
func (s *Store) WriteModel(ctx context.Context, reg *introspect.Registry) error {
	types := reg.Types()
	if types == nil {
		types = []*model.Type{}
	}
	members, err := selector.New(reg).Types(types).Members()
	if err != nil {
		return fmt.Errorf("write model: enumerate members: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write model: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, table := range []string{"member_chain", "member_annotations", "members", "types", "annotation_types"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("write model: clear %s: %w", table, err)
		}
	}

	for i, a := range reg.Schema().Annotations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO annotation_types (module, name, inherited, seq)
			VALUES (?, ?, ?, ?)
		`, a.ID.Module, a.ID.Name, boolToInt(a.Inherited), i)
		if err != nil {
			return fmt.Errorf("write model: annotation %s: %w", a.ID, err)
		}
	}

	for i, t := range types {
		var baseModule, baseName sql.NullString
		if t.Base != nil {
			baseModule = sql.NullString{String: t.Base.ID.Module, Valid: true}
			baseName = sql.NullString{String: t.Base.ID.Name, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO types (module, name, base_module, base_name, seq)
			VALUES (?, ?, ?, ?, ?)
		`, t.ID.Module, t.ID.Name, baseModule, baseName, i)
		if err != nil {
			return fmt.Errorf("write model: type %s: %w", t.ID, err)
		}
	}

	seq := make(map[model.TypeID]int)
	for _, m := range members {
		if err := writeMember(ctx, tx, m, seq[m.Declaring.ID]); err != nil {
			return fmt.Errorf("write model: member %s: %w", m, err)
		}
		seq[m.Declaring.ID]++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write model: commit: %w", err)
	}
	return nil
}

func writeMember(ctx context.Context, tx *sql.Tx, m *model.Member, seq int) error {
	prop := declaredProperty(m)

	var overridesID sql.NullString
	if m.Overrides != nil {
		overridesID = sql.NullString{String: m.Overrides.ID(), Valid: true}
	}

	id := m.ID()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO members
		(id, type_module, type_name, name, seq, return_module, return_name,
		 getter, setter, visibility, modifiers, overrides_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		m.Declaring.ID.Module,
		m.Declaring.ID.Name,
		m.Name,
		seq,
		m.ReturnType.Module,
		m.ReturnType.Name,
		int(prop.Getter),
		int(prop.Setter),
		int(m.Visibility),
		int(m.Modifiers),
		overridesID,
	)
	if err != nil {
		return err
	}

	for i, a := range m.Annotations {
		value, err := marshalValue(a.Value)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO member_annotations
			(member_id, seq, annotation_module, annotation_name, inherited, value)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, i, a.Type.Module, a.Type.Name, boolToInt(a.Inherited), value)
		if err != nil {
			return err
		}
	}

	depth := 1
	for ancestor := m.Overrides; ancestor != nil; ancestor = ancestor.Overrides {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO member_chain (member_id, ancestor_id, depth)
			VALUES (?, ?, ?)
		`, id, ancestor.ID(), depth)
		if err != nil {
			return err
		}
		depth++
	}

	return nil
}

// declaredProperty finds the raw declaration behind m, for the accessor
// visibilities that Member folds into one.
func declaredProperty(m *model.Member) model.Property {
	for _, p := range m.Declaring.Properties {
		if p.Name == m.Name {
			return p
		}
	}
	return model.Property{Getter: m.Visibility}
}
