package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUID         = "uid"
	FieldEntryID     = "entry_id"
	FieldDate        = "date"
	FieldValues      = "values"
	FieldCategoryID  = "category_id"
	FieldSubcategory = "subcategory_id"
	FieldTopic       = "topic"
	FieldDuration    = "duration_ms"
	FieldDBPath      = "db_path"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentCLI        = "cli"
	ComponentEntries    = "entries"
	ComponentCategories = "categories"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentListener   = "listener"
	ComponentBackend    = "backend"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpAggregate = "aggregate"
	OpPublish   = "publish"
	OpMigrate   = "migrate"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntry adds the owner and identifier of an entry
func (f LogFields) WithEntry(uid, entryID int64) LogFields {
	f[FieldUID] = uid
	if entryID != 0 {
		f[FieldEntryID] = entryID
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
