package models

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/hay-kot/criterio"

	dErrors "triplist/pkg/domain-errors"
)

const (
	ChecklistNameMin  = 3
	ChecklistNameMax  = 50
	ItemNameMin       = 2
	ItemNameMax       = 100
	MaxFreeTextLength = 200
)

var checklistNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)

// ChecklistName is a criterio validator for checklist names.
func ChecklistName(name string) error {
	if err := lengthBetween(name, ChecklistNameMin, ChecklistNameMax); err != nil {
		return err
	}
	if !checklistNamePattern.MatchString(name) {
		return fmt.Errorf("may only contain letters, digits, spaces, hyphens and underscores")
	}
	return nil
}

// ItemName is a criterio validator for item names.
func ItemName(name string) error {
	return lengthBetween(name, ItemNameMin, ItemNameMax)
}

// FreeText is a criterio validator for the optional description and observation fields.
func FreeText(text *string) error {
	if text == nil {
		return nil
	}
	if n := utf8.RuneCountInString(*text); n > MaxFreeTextLength {
		return fmt.Errorf("must be at most %d characters", MaxFreeTextLength)
	}
	return nil
}

// TripTypeValue is a criterio validator for trip types.
func TripTypeValue(t TripType) error {
	if !t.IsValid() {
		return fmt.Errorf("must be one of %v", TripTypes())
	}
	return nil
}

func lengthBetween(s string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(s)
	if n < minLen {
		return fmt.Errorf("must be at least %d characters", minLen)
	}
	if n > maxLen {
		return fmt.Errorf("must be at most %d characters", maxLen)
	}
	return nil
}

// ValidateChecklistFields checks the mutable checklist fields. Field names
// match the JSON keys so transport errors point at the offending input.
func ValidateChecklistFields(name string, tripType TripType, description *string) error {
	err := criterio.ValidateStruct(
		criterio.Run("nome", name, ChecklistName),
		criterio.Run("tipoViagem", tripType, TripTypeValue),
		criterio.Run("descricao", description, FreeText),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "invalid checklist")
	}
	return nil
}

// ValidateItemFields checks the mutable item fields.
func ValidateItemFields(name string, observation *string) error {
	err := criterio.ValidateStruct(
		criterio.Run("nome", name, ItemName),
		criterio.Run("observacao", observation, FreeText),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "invalid item")
	}
	return nil
}
