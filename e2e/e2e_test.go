package e2e

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

const defaultBaseURL = "http://localhost:8080/api/v1/internal"

func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("TRIPLIST_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !reachable(baseURL) {
		t.Skipf("triplist server not reachable at %s", baseURL)
	}

	tc := NewTestContext(baseURL)
	suite := godog.TestSuite{
		Name: "triplist",
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				tc.Reset()
				return ctx, nil
			})
			ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
				return ctx, tc.Cleanup()
			})
			RegisterSteps(ctx, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Tags:     os.Getenv("GODOG_TAGS"),
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func reachable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/checklist")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
