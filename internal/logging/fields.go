package logging

// Field names for structured log entries.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Pipeline fields.
	FieldStage  = "stage"
	FieldTokens = "tokens"
	FieldFormat = "format"
	FieldJobs   = "jobs"

	// Config fields.
	FieldConfigFiles = "config_files"

	// Batch statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesRendered   = "files_rendered"
	FieldFilesFailed     = "files_failed"
	FieldFilesChanged    = "files_changed"
	FieldFilesWritten    = "files_written"

	// Watch fields.
	FieldOp    = "op"
	FieldDirs  = "dirs"
	FieldDelay = "delay"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
