package ratelimit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetLastResponseStatus() int
	GetLastResponseHeader(name string) string
}

// RegisterSteps registers rate-limiting step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &rateLimitSteps{tc: tc}

	ctx.Step(`^I send (\d+) GET requests to "([^"]*)" from IP "([^"]*)"$`, steps.sendRequestsFromIP)
	ctx.Step(`^at least one request should be rate limited$`, steps.atLeastOneRateLimited)
	ctx.Step(`^the last response should carry a Retry-After header$`, steps.lastHasRetryAfter)
}

type rateLimitSteps struct {
	tc      TestContext
	limited int
}

func (s *rateLimitSteps) sendRequestsFromIP(_ context.Context, count int, path, ip string) error {
	s.limited = 0
	headers := map[string]string{"X-Forwarded-For": ip}
	for i := 0; i < count; i++ {
		if err := s.tc.GET(path, headers); err != nil {
			return err
		}
		if s.tc.GetLastResponseStatus() == http.StatusTooManyRequests {
			s.limited++
			return nil
		}
	}
	return nil
}

func (s *rateLimitSteps) atLeastOneRateLimited(context.Context) error {
	if s.limited == 0 {
		return fmt.Errorf("expected at least one 429 response")
	}
	return nil
}

func (s *rateLimitSteps) lastHasRetryAfter(context.Context) error {
	if s.tc.GetLastResponseHeader("Retry-After") == "" {
		return fmt.Errorf("expected Retry-After header on rate limited response")
	}
	return nil
}
