// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/richie-crm/planning-backend/config"
	"github.com/richie-crm/planning-backend/internal/infra/dependency"
	"github.com/richie-crm/planning-backend/test/integration/mock"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	engine       *gin.Engine
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string

	// Backends
	redisClient *redis.Client

	// Config
	cfg *config.Config
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		// Set Gin to test mode and disable outbound integrations
		gin.SetMode(gin.TestMode)
		os.Setenv("ENV", "test")
		os.Setenv("GEMINI_API_KEY", "")
	})

	ctx.AfterSuite(func() {
		// The embedded Redis lives for the whole process
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		redisClient := mock.NewRedis()
		if err := mock.ClearRedis(redisClient); err != nil {
			return ctx, err
		}

		tc := &TestContext{
			requestHeaders: make(map[string]string),
			redisClient:    redisClient,
			cfg:            config.Load(),
		}

		injector := dependency.NewInjector(tc.cfg, redisClient, func() bool {
			return true // embedded Redis is always reachable
		})
		tc.engine = injector.Router.Setup("test")
		tc.server = httptest.NewServer(tc.engine)

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	// Register step definitions
	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerCacheSteps(ctx)
}
