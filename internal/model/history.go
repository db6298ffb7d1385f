package model

// HistoryCita is an immutable audit entry produced by the backend on every
// cita update. FormID points back at the mutated record without owning it;
// Changes maps each touched field name to its new value. Entries are
// read-only from the console's perspective.
type HistoryCita struct {
	ID        int64             `json:"id"`
	FormID    int64             `json:"formId"`
	Author    string            `json:"author"`
	Changes   map[string]string `json:"changes"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}
