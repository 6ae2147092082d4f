package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TypeID identifies a type or an annotation type.
//
// Builtin types ("string", "int", ...) have an empty Module. Two TypeIDs are
// the same identity iff both fields are equal, so TypeID is usable as a map
// key and compared with ==.
type TypeID struct {
	Module string `json:"module,omitempty"`
	Name   string `json:"name"`
}

// NewTypeID builds a TypeID with both parts NFC normalized.
func NewTypeID(module, name string) TypeID {
	return TypeID{Module: norm.NFC.String(module), Name: norm.NFC.String(name)}
}

// Builtin returns the module-less identity for name.
func Builtin(name string) TypeID {
	return NewTypeID("", name)
}

// ParseTypeID splits a "module.Name" reference on its last dot.
// A reference without a dot yields a module-less identity.
func ParseTypeID(ref string) TypeID {
	i := strings.LastIndex(ref, ".")
	if i < 0 {
		return NewTypeID("", ref)
	}
	return NewTypeID(ref[:i], ref[i+1:])
}

// String returns "module.Name", or "Name" for module-less identities.
func (id TypeID) String() string {
	if id.Module == "" {
		return id.Name
	}
	return id.Module + "." + id.Name
}

// IsZero reports whether id is the zero TypeID.
func (id TypeID) IsZero() bool {
	return id.Module == "" && id.Name == ""
}

// Module is a named collection of types scanned as a unit.
type Module struct {
	Name string `json:"name"`
}

// Visibility is the accessibility of a property accessor.
//
// Values are ordered from least to most permissive so that the effective
// visibility of a property is the maximum over its accessors. Internal ranks
// above Protected: a member reachable from the whole module counts as more
// open than one reachable only from derived types.
type Visibility int

const (
	// VisibilityNone marks an absent accessor.
	VisibilityNone Visibility = iota
	VisibilityPrivate
	VisibilityProtected
	VisibilityInternal
	VisibilityPublic
)

var visibilityNames = map[Visibility]string{
	VisibilityNone:      "none",
	VisibilityPrivate:   "private",
	VisibilityProtected: "protected",
	VisibilityInternal:  "internal",
	VisibilityPublic:    "public",
}

func (v Visibility) String() string {
	if name, ok := visibilityNames[v]; ok {
		return name
	}
	return fmt.Sprintf("visibility(%d)", int(v))
}

// ParseVisibility maps an accessor keyword to a Visibility.
// The empty string parses as VisibilityNone.
func ParseVisibility(s string) (Visibility, error) {
	if s == "" {
		return VisibilityNone, nil
	}
	for v, name := range visibilityNames {
		if name == s {
			return v, nil
		}
	}
	return VisibilityNone, fmt.Errorf("invalid visibility %q: must be one of public, internal, protected, private", s)
}

// MostPermissive returns the more permissive of a and b.
func MostPermissive(a, b Visibility) Visibility {
	if a > b {
		return a
	}
	return b
}

// Modifiers is a bit set of property modifiers.
type Modifiers uint8

const (
	ModifierStatic Modifiers = 1 << iota
	ModifierVirtual
	ModifierAbstract
)

// Has reports whether every bit of m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

func (m Modifiers) String() string {
	var parts []string
	if m.Has(ModifierStatic) {
		parts = append(parts, "static")
	}
	if m.Has(ModifierVirtual) {
		parts = append(parts, "virtual")
	}
	if m.Has(ModifierAbstract) {
		parts = append(parts, "abstract")
	}
	return strings.Join(parts, "|")
}

// AnnotationType is the definition of an annotation.
//
// Inherited is fixed per definition and constant across every use.
type AnnotationType struct {
	ID        TypeID `json:"id"`
	Inherited bool   `json:"inherited"`
}

// Annotation is one annotation instance attached at a declaration site.
//
// Inherited is copied from the AnnotationType at registration. Value is an
// opaque payload never consulted by matching.
type Annotation struct {
	Type      TypeID `json:"type"`
	Inherited bool   `json:"inherited"`
	Value     any    `json:"value,omitempty"`
}

// Property is a property declaration as reported by an introspection
// facility, before effective visibility and override linkage are computed.
type Property struct {
	Name        string       `json:"name"`
	ReturnType  TypeID       `json:"return_type"`
	Getter      Visibility   `json:"getter"`
	Setter      Visibility   `json:"setter"`
	Modifiers   Modifiers    `json:"modifiers,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Visibility returns the effective visibility of p: the most permissive of
// its accessors.
func (p Property) Visibility() Visibility {
	return MostPermissive(p.Getter, p.Setter)
}

// Type is a type descriptor: identity, ordered declared properties and an
// optional base type.
type Type struct {
	ID         TypeID
	Properties []Property
	Base       *Type
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.ID.String()
}

// Member is a member descriptor produced by the enumerator.
//
// Overrides links to the nearest ancestor declaration of the same name and
// is a lookup relation, not ownership. Annotations holds only what is
// explicitly attached at this declaration site.
type Member struct {
	Declaring   *Type
	Name        string
	ReturnType  TypeID
	Visibility  Visibility
	Modifiers   Modifiers
	Overrides   *Member
	Annotations []Annotation
}

// MemberKey is the identity of a member within a candidate set.
type MemberKey struct {
	Type TypeID
	Name string
}

// Key returns the (declaring type, name) identity of m.
func (m *Member) Key() MemberKey {
	return MemberKey{Type: m.Declaring.ID, Name: m.Name}
}

// String returns "module.Type.Member".
func (m *Member) String() string {
	return m.Declaring.ID.String() + "." + m.Name
}

// HasAnnotation reports whether an annotation of type a is explicitly
// attached at m's own declaration site.
func (m *Member) HasAnnotation(a TypeID) bool {
	for _, ann := range m.Annotations {
		if ann.Type == a {
			return true
		}
	}
	return false
}
