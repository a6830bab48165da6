package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldBackend     = "backend"
	FieldPath        = "path"
	FieldExpenseID   = "expense_id"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldOriginal    = "original_amount"
	FieldCategory    = "category"
	FieldCurrency    = "currency"
	FieldRate        = "conversion_rate"
	FieldMonth       = "month"
	FieldKeyword     = "keyword"
	FieldCount       = "count"
	FieldRemoved     = "removed"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentSheets  = "sheets"
	ComponentAMQP    = "amqp"
	ComponentBackend = "backend"
	ComponentMirror  = "mirror"
)

// Operations defines standard operation names
const (
	OpAdd     = "add"
	OpEdit    = "edit"
	OpDelete  = "delete"
	OpList    = "list"
	OpSummary = "summary"
	OpSearch  = "search"
	OpLoad    = "load"
	OpSave    = "save"
	OpPublish = "publish"
	OpMigrate = "migrate"
	OpApply   = "apply"
	OpResync  = "resync"
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

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id int64, desc, amount, original, category, currency string) LogFields {
	f[FieldExpenseID] = id
	f[FieldDescription] = desc
	f[FieldAmount] = amount
	f[FieldOriginal] = original
	f[FieldCategory] = category
	f[FieldCurrency] = currency
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
