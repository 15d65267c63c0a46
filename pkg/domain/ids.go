// Package domain holds typed identifiers shared across modules.
//
// Each identifier is a distinct named UUID type so a checklist id can never be
// passed where an item id is expected. Parse functions are the only way to
// build an id from untrusted input.
package domain

import (
	"github.com/google/uuid"

	dErrors "triplist/pkg/domain-errors"
)

type (
	ChecklistID uuid.UUID
	ItemID      uuid.UUID
	EventID     uuid.UUID
)

// canonicalUUIDLength is the length of the hyphenated 8-4-4-4-12 form. Braced
// and urn-prefixed forms accepted by uuid.Parse are rejected at the boundary.
const canonicalUUIDLength = 36

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) != canonicalUUIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" format")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind+" format")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be the nil UUID")
	}
	return u, nil
}

func ParseChecklistID(s string) (ChecklistID, error) {
	u, err := parseUUID("checklist id", s)
	return ChecklistID(u), err
}

func ParseItemID(s string) (ItemID, error) {
	u, err := parseUUID("item id", s)
	return ItemID(u), err
}

func NewChecklistID() ChecklistID { return ChecklistID(uuid.New()) }
func NewItemID() ItemID           { return ItemID(uuid.New()) }
func NewEventID() EventID         { return EventID(uuid.New()) }

func (id ChecklistID) String() string { return uuid.UUID(id).String() }
func (id ItemID) String() string      { return uuid.UUID(id).String() }
func (id EventID) String() string     { return uuid.UUID(id).String() }

func (id ChecklistID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ItemID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets ids serialize as plain UUID strings in JSON payloads and map keys.
func (id ChecklistID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ItemID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id EventID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }

func (id *ChecklistID) UnmarshalText(b []byte) error {
	parsed, err := ParseChecklistID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ItemID) UnmarshalText(b []byte) error {
	parsed, err := ParseItemID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EventID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = EventID(u)
	return nil
}
