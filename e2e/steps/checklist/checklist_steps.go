package checklist

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	PUT(path string, body any) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	Save(name, value string)
	Expand(s string) string
	DeleteAfterScenario(path string)
}

// RegisterSteps registers checklist and item step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &checklistSteps{tc: tc}

	ctx.Step(`^I create a checklist named "([^"]*)" of type "([^"]*)"$`, steps.createChecklist)
	ctx.Step(`^a checklist named "([^"]*)" of type "([^"]*)" exists as "([^"]*)"$`, steps.checklistExists)
	ctx.Step(`^I rename checklist "([^"]*)" to "([^"]*)" of type "([^"]*)"$`, steps.renameChecklist)
	ctx.Step(`^I add an item named "([^"]*)" to checklist "([^"]*)"$`, steps.addItem)
	ctx.Step(`^an item named "([^"]*)" exists in checklist "([^"]*)" as "([^"]*)"$`, steps.itemExists)
	ctx.Step(`^I toggle item "([^"]*)"$`, steps.toggleItem)
}

type checklistSteps struct {
	tc TestContext
}

// createChecklist expands {run} in the name and schedules the created
// checklist for deletion when the scenario ends.
func (s *checklistSteps) createChecklist(_ context.Context, name, tripType string) error {
	err := s.tc.POST("/checklist", map[string]any{
		"nome":       s.tc.Expand(name),
		"tipoViagem": tripType,
	})
	if err != nil || s.tc.GetLastResponseStatus() != 201 {
		return err
	}
	created, err := s.tc.GetResponseField("data.id")
	if err != nil {
		return err
	}
	s.tc.DeleteAfterScenario(fmt.Sprintf("/checklist/%v", created))
	return nil
}

func (s *checklistSteps) checklistExists(ctx context.Context, name, tripType, alias string) error {
	if err := s.createChecklist(ctx, name, tripType); err != nil {
		return err
	}
	return s.saveCreatedID(alias)
}

func (s *checklistSteps) renameChecklist(_ context.Context, alias, name, tripType string) error {
	return s.tc.PUT(s.tc.Expand("/checklist/{"+alias+"}"), map[string]any{
		"nome":       s.tc.Expand(name),
		"tipoViagem": tripType,
	})
}

func (s *checklistSteps) addItem(_ context.Context, name, checklistAlias string) error {
	return s.tc.POST("/checklist-item", map[string]any{
		"checklistId": s.tc.Expand("{" + checklistAlias + "}"),
		"nome":        name,
	})
}

func (s *checklistSteps) itemExists(ctx context.Context, name, checklistAlias, alias string) error {
	if err := s.addItem(ctx, name, checklistAlias); err != nil {
		return err
	}
	return s.saveCreatedID(alias)
}

func (s *checklistSteps) toggleItem(_ context.Context, alias string) error {
	return s.tc.POST("/checklist-item/toggle-status", map[string]any{
		"itemId": s.tc.Expand("{" + alias + "}"),
	})
}

func (s *checklistSteps) saveCreatedID(alias string) error {
	if status := s.tc.GetLastResponseStatus(); status != 201 {
		return fmt.Errorf("expected status 201, got %d: %s", status, s.tc.GetLastResponseBody())
	}
	value, err := s.tc.GetResponseField("data.id")
	if err != nil {
		return err
	}
	s.tc.Save(alias, fmt.Sprint(value))
	return nil
}
