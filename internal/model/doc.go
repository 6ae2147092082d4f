// Package model provides the descriptor types shared by every propsel package.
//
// This package contains type definitions and identity helpers only. All
// other internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - Descriptors are immutable snapshots once registered
//   - Identities (TypeID) are NFC normalized on construction
//   - Members carry only the annotations explicitly attached at their own
//     declaration site; inheritance is resolved by the selector, never here
//   - Member identity is (declaring type, member name)
package model
