package e2e

import (
	"github.com/cucumber/godog"

	"triplist/e2e/steps/checklist"
	"triplist/e2e/steps/common"
	"triplist/e2e/steps/ratelimit"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (background, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	checklist.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
