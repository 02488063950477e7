package domain

// CacheKind names one of the process-wide reference caches.
type CacheKind string

const (
	CacheUsers  CacheKind = "users"
	CacheGroups CacheKind = "groups"
	CacheFields CacheKind = "fields"
	CacheHouses CacheKind = "houses"
)

// FieldOption is one entry of a dropdown custom field's option table.
type FieldOption struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FieldDefinition describes a helpdesk custom field and, for dropdown
// fields, its full option set.
type FieldDefinition struct {
	ID      int64         `json:"id"`
	Title   string        `json:"title"`
	Type    string        `json:"type"`
	Options []FieldOption `json:"custom_field_options"`
}

// OptionName resolves an enum code to its display label, falling back to the
// raw value when the code is not part of the option set.
func (d *FieldDefinition) OptionName(raw string) string {
	for _, o := range d.Options {
		if o.Value == raw {
			return o.Name
		}
	}
	return raw
}

// UserRecord is the subset of a helpdesk user this service cares about.
type UserRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GroupRecord is the subset of a helpdesk group this service cares about.
type GroupRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
