package logging

// Field names shared by every component so that log output stays filterable.
const (
	FieldFile       = "file_path"
	FieldSource     = "source"
	FieldLoadID     = "load_id"
	FieldCategory   = "category"
	FieldRule       = "rule"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldDropped    = "dropped"
	FieldDelimiter  = "delimiter"
	FieldReportKind = "report_kind"
	FieldOutputFile = "output_file"
	FieldSynthetic  = "synthetic"
	FieldAddress    = "address"
	FieldDirectory  = "directory"
)
