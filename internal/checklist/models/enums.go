package models

import (
	dErrors "triplist/pkg/domain-errors"
)

// TripType categorizes a checklist. Values are the labels the frontend shows.
type TripType string

const (
	TripTypeBeach         TripType = "Praia"
	TripTypeBusiness      TripType = "Negócios"
	TripTypeInternational TripType = "Internacional"
	TripTypeCamping       TripType = "Camping"
	TripTypeCruise        TripType = "Cruzeiro"
	TripTypeCity          TripType = "Cidade"
	TripTypeOther         TripType = "Outro"
)

// TripTypeAll is the listing filter value meaning "no trip type filter".
const TripTypeAll = "Todos"

var tripTypes = []TripType{
	TripTypeBeach,
	TripTypeBusiness,
	TripTypeInternational,
	TripTypeCamping,
	TripTypeCruise,
	TripTypeCity,
	TripTypeOther,
}

// TripTypes returns the supported trip types in display order.
func TripTypes() []TripType {
	return append([]TripType(nil), tripTypes...)
}

func (t TripType) IsValid() bool {
	for _, v := range tripTypes {
		if t == v {
			return true
		}
	}
	return false
}

func (t TripType) String() string {
	return string(t)
}

// ParseTripType validates s as a trip type.
func ParseTripType(s string) (TripType, error) {
	t := TripType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid trip type: "+s)
	}
	return t, nil
}

// ItemStatus is the check state of an item.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pendente"
	ItemStatusVerified ItemStatus = "verificado"
)

// ItemStatusAll is the listing filter value meaning "no status filter".
const ItemStatusAll = "Todos"

func (s ItemStatus) IsValid() bool {
	return s == ItemStatusPending || s == ItemStatusVerified
}

// Toggled returns the opposite status.
func (s ItemStatus) Toggled() ItemStatus {
	if s == ItemStatusVerified {
		return ItemStatusPending
	}
	return ItemStatusVerified
}

func (s ItemStatus) String() string {
	return string(s)
}

// ParseItemStatus validates s as an item status.
func ParseItemStatus(s string) (ItemStatus, error) {
	st := ItemStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid item status: "+s)
	}
	return st, nil
}

// SortOrder selects how checklists are ordered in a listing.
type SortOrder string

const (
	SortNewest   SortOrder = "Mais recentes"
	SortOldest   SortOrder = "Mais antigos"
	SortNameAsc  SortOrder = "Alfabética (A-Z)"
	SortNameDesc SortOrder = "Alfabética (Z-A)"
	DefaultSort            = SortNewest
)

func (o SortOrder) IsValid() bool {
	switch o {
	case SortNewest, SortOldest, SortNameAsc, SortNameDesc:
		return true
	}
	return false
}

// ParseSortOrder validates s as a sort order; empty selects the default.
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return DefaultSort, nil
	}
	o := SortOrder(s)
	if !o.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid sort order: "+s)
	}
	return o, nil
}
