package recipient

// RowRef is an opaque location token identifying a record inside the
// external source for the lifetime of a run. For the sheets source it is
// the 1-based row number; for the postgres source it is the primary key.
// Core logic never interprets it, only hands it back for writebacks.
type RowRef int64

// DeliveryStatus is the per-record outcome written back to the source.
// It transitions UNSET -> {SENT, FAILED} exactly once per run.
type DeliveryStatus string

const (
	StatusUnset  DeliveryStatus = ""
	StatusSent   DeliveryStatus = "SENT"
	StatusFailed DeliveryStatus = "FAILED"
)

// Accepted field keys for extracting record attributes from a RawRow.
// First non-empty wins.
var (
	PhoneFieldKeys = []string{"phone", "phone_number", "mobile", "msisdn"}
	NameFieldKeys  = []string{"full_name", "name"}
	OptInFieldKeys = []string{"opt_in_status", "opt_in", "optin"}
)

// RawRow is one unprocessed row from the external source. Fields maps
// lower-cased column names to cell values; sources without a header row
// fill in their default column names.
type RawRow struct {
	Ref    RowRef
	Fields map[string]string
}

// Field returns the first non-empty value among the given keys.
func (r RawRow) Field(keys ...string) string {
	for _, k := range keys {
		if v := r.Fields[k]; v != "" {
			return v
		}
	}
	return ""
}

// HasField reports whether any of the given keys exists in the row's
// schema, regardless of the cell being empty.
func (r RawRow) HasField(keys ...string) bool {
	for _, k := range keys {
		if _, ok := r.Fields[k]; ok {
			return true
		}
	}
	return false
}

// Record is a recipient after filtering. A Record only exists for rows
// that passed normalization and opt-in checks; Normalized is never empty.
type Record struct {
	Ref        RowRef
	FullName   string
	RawPhone   string
	Normalized string
	Status     DeliveryStatus
}
