// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
	"github.com/finance-tracker/ledger/test/integration/mock"
)

const (
	testJWTSecret    = "bdd-secret"
	emailSendPath    = "/emails"
	emailProviderID  = "re_bdd"
	testAPIKeyResend = "re_test_key"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string
	accessToken    string

	// Backing services
	injector *dependency.Injector
	db       *mock.Db
	redis    *mock.Redis
	emailAPI *mock.ApiMock

	// Seeded data, by email or name
	users      map[string]uuid.UUID
	categories map[string]uuid.UUID
	lastID     string
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
		gin.SetMode(gin.TestMode)
		mock.NewDb(model.All())
		mock.NewRedis()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc, err := newTestContext()
		if err != nil {
			return ctx, err
		}
		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc := GetTestContext(ctx); tc != nil {
			tc.close()
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerLedgerSteps(ctx)
	registerEmailSteps(ctx)
}

func newTestContext() (*TestContext, error) {
	db := mock.NewDb(model.All())
	if err := db.ClearDB(); err != nil {
		return nil, fmt.Errorf("failed to clear database: %w", err)
	}

	redisMock := mock.NewRedis()
	if err := redisMock.Clear(); err != nil {
		return nil, fmt.Errorf("failed to clear redis: %w", err)
	}

	emailAPI := mock.NewApiServer()
	emailAPI.Start()
	emailAPI.SetResponse(http.MethodPost, emailSendPath, http.StatusOK, map[string]any{"id": emailProviderID})

	cfg := config.Load()
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.Email.WorkerEnabled = true
	cfg.Email.ResendAPIKey = testAPIKeyResend
	cfg.Email.ResendBaseURL = emailAPI.GetUrl()
	cfg.Email.BatchSize = 10
	cfg.Report.CacheEnabled = true
	cfg.Report.CacheTTL = time.Minute
	cfg.RateLimit.Enabled = false

	injector, err := dependency.NewInjector(cfg, db.DbConn, dependency.WithRedisClient(redisMock.Client))
	if err != nil {
		emailAPI.Close()
		return nil, fmt.Errorf("failed to wire application: %w", err)
	}

	return &TestContext{
		server:         httptest.NewServer(injector.Router.Setup("test")),
		requestHeaders: make(map[string]string),
		injector:       injector,
		db:             db,
		redis:          redisMock,
		emailAPI:       emailAPI,
		users:          make(map[string]uuid.UUID),
		categories:     make(map[string]uuid.UUID),
	}, nil
}

func (tc *TestContext) close() {
	if tc.server != nil {
		tc.server.Close()
	}
	if tc.emailAPI != nil {
		tc.emailAPI.Close()
	}
}

// testContext fetches the scenario state or fails the step.
func testContext(ctx context.Context) (*TestContext, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return nil, fmt.Errorf("test context not found")
	}
	return tc, nil
}
