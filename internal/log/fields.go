package log

// Canonical field names for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldQuestion  = "question"
	FieldPhase     = "phase"
	FieldPath      = "path"
	FieldSource    = "source"
	FieldFramework = "framework"
	FieldUI        = "ui"
)
