package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/propsel/internal/introspect"
	"github.com/roach88/propsel/internal/model"
	"github.com/roach88/propsel/internal/queryir"
	"github.com/roach88/propsel/internal/querysql"
)

// MemberRow is a member as selected from the catalog.
type MemberRow struct {
	ID         string           `json:"id"`
	Type       model.TypeID     `json:"type"`
	Name       string           `json:"name"`
	Seq        int              `json:"seq"`
	ReturnType model.TypeID     `json:"return_type"`
	Visibility model.Visibility `json:"visibility"`
	Modifiers  model.Modifiers  `json:"modifiers"`
}

// Key returns the (declaring type, name) identity of the row.
func (r MemberRow) Key() model.MemberKey {
	return model.MemberKey{Type: r.Type, Name: r.Name}
}

// Stats summarizes catalog contents.
type Stats struct {
	AnnotationTypes int `json:"annotation_types"`
	Types           int `json:"types"`
	Members         int `json:"members"`
	Annotations     int `json:"annotations"`
}

// SelectMembers evaluates plan against the catalog.
// Results follow plan type order, then declaration order.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) SelectMembers(ctx context.Context, plan queryir.Plan) ([]MemberRow, error) {
	query, params, err := querysql.NewSQLCompiler().Compile(plan)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	members := []MemberRow{}
	for rows.Next() {
		var (
			r                        MemberRow
			typeModule, typeName     string
			returnModule, returnName string
			visibility, modifiers    int
		)
		if err := rows.Scan(&r.ID, &typeModule, &typeName, &r.Name, &r.Seq,
			&returnModule, &returnName, &visibility, &modifiers); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		r.Type = model.TypeID{Module: typeModule, Name: typeName}
		r.ReturnType = model.TypeID{Module: returnModule, Name: returnName}
		r.Visibility = model.Visibility(visibility)
		r.Modifiers = model.Modifiers(modifiers)
		members = append(members, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// LoadRegistry rebuilds a Registry from the catalog.
//
// Types, properties and annotations come back in the order they were
// written, so selections over the loaded registry match selections over the
// original one.
func (s *Store) LoadRegistry(ctx context.Context) (*introspect.Registry, error) {
	schema, err := s.readSchema(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := introspect.Build(schema)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return reg, nil
}

func (s *Store) readSchema(ctx context.Context) (introspect.Schema, error) {
	var schema introspect.Schema

	annotations, err := s.readAnnotationTypes(ctx)
	if err != nil {
		return schema, err
	}
	schema.Annotations = annotations

	types, err := s.readTypes(ctx)
	if err != nil {
		return schema, err
	}

	byID := make(map[model.TypeID]int, len(types))
	for i, td := range types {
		byID[td.ID] = i
	}

	props, err := s.readProperties(ctx)
	if err != nil {
		return schema, err
	}
	for _, p := range props {
		i, ok := byID[p.declaring]
		if !ok {
			return schema, fmt.Errorf("read properties: member %s.%s has no type row", p.declaring, p.def.Name)
		}
		types[i].Properties = append(types[i].Properties, p.def)
	}

	schema.Types = types
	return schema, nil
}

func (s *Store) readAnnotationTypes(ctx context.Context) ([]model.AnnotationType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT module, name, inherited
		FROM annotation_types
		ORDER BY seq ASC, module ASC COLLATE BINARY, name ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("query annotation types: %w", err)
	}
	defer rows.Close()

	var out []model.AnnotationType
	for rows.Next() {
		var a model.AnnotationType
		if err := rows.Scan(&a.ID.Module, &a.ID.Name, &a.Inherited); err != nil {
			return nil, fmt.Errorf("scan annotation type: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotation types: %w", err)
	}
	return out, nil
}

func (s *Store) readTypes(ctx context.Context) ([]introspect.TypeDef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT module, name, base_module, base_name
		FROM types
		ORDER BY seq ASC, module ASC COLLATE BINARY, name ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("query types: %w", err)
	}
	defer rows.Close()

	var out []introspect.TypeDef
	for rows.Next() {
		var (
			td                   introspect.TypeDef
			baseModule, baseName sql.NullString
		)
		if err := rows.Scan(&td.ID.Module, &td.ID.Name, &baseModule, &baseName); err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		if baseName.Valid {
			td.Base = model.TypeID{Module: baseModule.String, Name: baseName.String}
		}
		out = append(out, td)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate types: %w", err)
	}
	return out, nil
}

type storedProperty struct {
	declaring model.TypeID
	def       introspect.PropertyDef
}

func (s *Store) readProperties(ctx context.Context) ([]storedProperty, error) {
	annotations, err := s.readMemberAnnotations(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.type_module, m.type_name, m.name,
		       m.return_module, m.return_name, m.getter, m.setter, m.modifiers
		FROM members m
		JOIN types t ON t.module = m.type_module AND t.name = m.type_name
		ORDER BY t.seq ASC, m.seq ASC, m.id ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var out []storedProperty
	for rows.Next() {
		var (
			id             string
			p              storedProperty
			getter, setter int
			modifiers      int
		)
		if err := rows.Scan(&id, &p.declaring.Module, &p.declaring.Name, &p.def.Name,
			&p.def.ReturnType.Module, &p.def.ReturnType.Name, &getter, &setter, &modifiers); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		p.def.Getter = model.Visibility(getter)
		p.def.Setter = model.Visibility(setter)
		p.def.Modifiers = model.Modifiers(modifiers)
		p.def.Annotations = annotations[id]
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}

func (s *Store) readMemberAnnotations(ctx context.Context) (map[string][]introspect.AnnotationRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, annotation_module, annotation_name, value
		FROM member_annotations
		ORDER BY member_id ASC COLLATE BINARY, seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query member annotations: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]introspect.AnnotationRef)
	for rows.Next() {
		var (
			memberID string
			ref      introspect.AnnotationRef
			raw      sql.NullString
		)
		if err := rows.Scan(&memberID, &ref.Type.Module, &ref.Type.Name, &raw); err != nil {
			return nil, fmt.Errorf("scan member annotation: %w", err)
		}
		ref.Value, err = unmarshalValue(raw)
		if err != nil {
			return nil, err
		}
		out[memberID] = append(out[memberID], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member annotations: %w", err)
	}
	return out, nil
}

// Stats counts the rows of each catalog table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	counts := []struct {
		table string
		dest  *int
	}{
		{"annotation_types", &st.AnnotationTypes},
		{"types", &st.Types},
		{"members", &st.Members},
		{"member_annotations", &st.Annotations},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return st, nil
}
