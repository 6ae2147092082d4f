package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainMember prefixes member identity hashes. The version suffix leaves
// room for a future algorithm change.
const DomainMember = "propsel/member/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// MemberID computes the content-addressed identity of a member from its
// (declaring type, name) key. The ID is stable across processes, so the
// catalog store uses it as a primary key.
func MemberID(key MemberKey) string {
	canonical, err := MarshalCanonical(map[string]any{
		"module": key.Type.Module,
		"type":   key.Type.Name,
		"name":   key.Name,
	})
	if err != nil {
		// Only strings are marshaled above.
		panic("model: MemberID: " + err.Error())
	}
	return hashWithDomain(DomainMember, canonical)
}

// ID returns MemberID(m.Key()).
func (m *Member) ID() string {
	return MemberID(m.Key())
}
