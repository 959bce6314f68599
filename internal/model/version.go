package model

// Version constants for the persisted document and the application.
const (
	// SchemaVersion is the document layout version written by this build.
	// Documents without a schemaVersion field are version 0.
	SchemaVersion = 1

	// AppVersion is the AquaFlow core version.
	AppVersion = "0.3.0"
)
