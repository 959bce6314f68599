// Package mutator implements every state-changing operation on the document.
//
// Each operation follows the same pattern:
//
//	validate → locate by id → apply → persist whole document → audit
//
// The audit entry is appended inside the same Store.Mutate call as the
// change, so a change and its audit line are written together or not at all.
//
// Failures are reported as *Error with a Code:
//   - CodeValidation: input rejected; Fields lists each failing field
//   - CodeNotFound: no record has the given id
//   - CodeNotConfirmed: a destructive call was made without confirmation
//   - CodeTransition: the state machine does not allow the move
//
// Use errors.Is against ErrNotFound, ErrValidation, ErrNotConfirmed and
// ErrInvalidTransition. A rejected operation never writes.
package mutator
