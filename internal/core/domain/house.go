package domain

import "github.com/google/uuid"

// House is a property record from the document store. ExternalName is the
// best fuzzy match against the helpdesk's configured home-field values and is
// derived at read time, never stored.
type House struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	HID          string    `json:"hid"`
	IsTestHome   bool      `json:"is_test_home"`
	ExternalName string    `json:"external_name,omitempty"`
}
