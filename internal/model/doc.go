// Package model defines the typed records held in the AquaFlow document.
//
// This package contains type definitions only. Every other internal package
// imports model; model imports nothing internal.
//
// Key design constraints:
//   - Currency is whole PKR held in int64. No float fields are persisted.
//   - Status fields are closed enums. Unknown strings fail JSON decoding.
//   - JSON tags use camelCase to stay compatible with documents written
//     by earlier AquaFlow clients.
//   - Record ids are unique per collection and assigned as max(id)+1.
package model
