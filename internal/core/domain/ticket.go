package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// TicketStatus represents the lifecycle state reported by the helpdesk.
type TicketStatus string

const (
	StatusNew     TicketStatus = "new"
	StatusOpen    TicketStatus = "open"
	StatusPending TicketStatus = "pending"
	StatusHold    TicketStatus = "hold"
	StatusSolved  TicketStatus = "solved"
	StatusClosed  TicketStatus = "closed"
)

// KnownStatuses lists every status the dashboard breaks out into its own counter.
var KnownStatuses = []TicketStatus{
	StatusNew, StatusOpen, StatusPending, StatusHold, StatusSolved, StatusClosed,
}

// IsKnown reports whether the status maps to one of the six per-status counters.
// Tickets with any other status still count toward totals.
func (s TicketStatus) IsKnown() bool {
	switch s {
	case StatusNew, StatusOpen, StatusPending, StatusHold, StatusSolved, StatusClosed:
		return true
	}
	return false
}

// FieldValueKind discriminates the heterogeneous custom-field payloads the
// helpdesk sends: free text, enum codes, numbers, booleans or null.
type FieldValueKind int

const (
	FieldAbsent FieldValueKind = iota
	FieldString
	FieldNumber
	FieldBool
)

// FieldValue is the tagged union for a custom-field value. It is resolved to a
// display string only at formatting time.
type FieldValue struct {
	Kind FieldValueKind
	Str  string
	Num  float64
	Bool bool
}

// UnmarshalJSON accepts string, number, boolean or null values.
func (v *FieldValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = FieldValue{Kind: FieldAbsent}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = FieldValue{Kind: FieldString, Str: s}
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*v = FieldValue{Kind: FieldNumber, Num: n}
		return nil
	}

	var t bool
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	*v = FieldValue{Kind: FieldBool, Bool: t}
	return nil
}

// MarshalJSON restores the original wire representation.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FieldString:
		return json.Marshal(v.Str)
	case FieldNumber:
		return json.Marshal(v.Num)
	case FieldBool:
		return json.Marshal(v.Bool)
	default:
		return []byte("null"), nil
	}
}

// IsAbsent reports whether the field carried no usable value.
func (v FieldValue) IsAbsent() bool {
	return v.Kind == FieldAbsent || (v.Kind == FieldString && v.Str == "")
}

// Raw returns the value as the string the dashboard shows when no option
// table entry matches it.
func (v FieldValue) Raw() string {
	switch v.Kind {
	case FieldString:
		return v.Str
	case FieldNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case FieldBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// CustomField pairs an opaque numeric field identifier with its value.
type CustomField struct {
	ID    int64      `json:"id"`
	Value FieldValue `json:"value"`
}

// Via carries channel metadata for a ticket, including the inline participant
// names some channels embed.
type Via struct {
	Channel string    `json:"channel"`
	Source  ViaSource `json:"source"`
}

// ViaSource identifies the endpoints of the channel a ticket arrived through.
type ViaSource struct {
	From ViaParticipant `json:"from"`
	To   ViaParticipant `json:"to"`
}

// ViaParticipant is one endpoint of a via channel.
type ViaParticipant struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Ticket is a raw helpdesk ticket as fetched upstream. It is never persisted
// by this service and is treated as immutable once fetched.
type Ticket struct {
	ID           int64         `json:"id"`
	Subject      string        `json:"subject"`
	Description  string        `json:"description"`
	Status       TicketStatus  `json:"status"`
	Priority     string        `json:"priority"`
	RequesterID  *int64        `json:"requester_id"`
	AssigneeID   *int64        `json:"assignee_id"`
	GroupID      *int64        `json:"group_id"`
	FollowerIDs  []int64       `json:"follower_ids"`
	Tags         []string      `json:"tags"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Via          *Via          `json:"via,omitempty"`
	CustomFields []CustomField `json:"custom_fields"`
}

// CustomFieldValue returns the value of the given custom field, or an absent
// value when the ticket does not carry it.
func (t *Ticket) CustomFieldValue(fieldID int64) FieldValue {
	for _, f := range t.CustomFields {
		if f.ID == fieldID {
			return f.Value
		}
	}
	return FieldValue{Kind: FieldAbsent}
}

// FormattedTicket is the normalized shape served to the dashboard: every
// opaque identifier resolved to a display name.
type FormattedTicket struct {
	ID            int64        `json:"id"`
	Subject       string       `json:"subject"`
	Description   string       `json:"description,omitempty"`
	Status        TicketStatus `json:"status"`
	Priority      string       `json:"priority,omitempty"`
	RequesterID   *int64       `json:"requester_id,omitempty"`
	RequesterName string       `json:"requester_name"`
	AssigneeName  string       `json:"assignee_name"`
	GroupName     string       `json:"group_name"`
	FollowerNames []string     `json:"followers"`
	Home          string       `json:"home"`
	Team          string       `json:"team,omitempty"`
	Area          string       `json:"area,omitempty"`
	Category      string       `json:"category,omitempty"`
	FixStatus     string       `json:"fix_status,omitempty"`
	Payer         string       `json:"payer,omitempty"`
	Approvals     string       `json:"approvals,omitempty"`
	CausalCode    string       `json:"causal_code,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
