// Package seed provides the demo dataset a fresh store is initialised with.
//
// The dataset is embedded as JSON so it decodes through the same
// validating model types as a persisted document.
package seed
