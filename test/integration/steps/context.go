//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quickmate/backend/config"
	"github.com/quickmate/backend/internal/infra/dependency"
	"github.com/quickmate/backend/internal/integration/persistence/model"
	"github.com/quickmate/backend/test/integration/mock"
)

const (
	testJWTSecret   = "test-jwt-secret-key-for-testing-purposes"
	testCloudName   = "quickmate-test"
	testIconURL     = "https://res.cloudinary.com/quickmate-test/image/upload/v1/quickmate_images/icon.png"
	testIconID      = "quickmate_images/icon"
	uploadPath      = "/v1_1/*/image/upload"
	destroyPath     = "/v1_1/*/image/destroy"
	loginRateLimit  = 5
	defaultPassword = "DefaultPass123!"
)

type testContext struct {
	uri         string
	headers     map[string]string
	client      *http.Client
	response    *response
	db          *mock.Db
	imageHost   *mock.ApiMock
	accessToken string
	categoryIDs map[string]uuid.UUID
}

type response struct {
	status int
	body   any
}

var (
	serverInit     sync.Once
	portInit       sync.Once
	testServerPort int
	testDB         *mock.Db
	testImageHost  *mock.ApiMock
)

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		// The rate limiter stands down when ENV is test, which would hide the login throttle.
		_ = os.Setenv("ENV", "integration")
	})
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

// InitializeTestSuite sets up resources shared by every scenario.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		testImageHost = mock.NewApiServer()
		testImageHost.Start()
		testImageHost.SetResponse(-1, http.MethodPost, uploadPath, http.StatusOK, map[string]any{
			"public_id":     testIconID,
			"secure_url":    testIconURL,
			"url":           testIconURL,
			"resource_type": "image",
			"format":        "png",
		})
		testImageHost.SetResponse(-1, http.MethodPost, destroyPath, http.StatusOK, map[string]any{"result": "ok"})
	})

	ctx.AfterSuite(func() {
		if testImageHost != nil {
			testImageHost.Close()
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:       fmt.Sprintf("http://localhost:%d", testServerPort),
		client:    &http.Client{Timeout: 10 * time.Second},
		imageHost: testImageHost,
		db: mock.NewDb(map[string]any{
			"users":            &model.UserModel{},
			"categories":       &model.CategoryModel{},
			"commission_rules": &model.CommissionRuleModel{},
		}, []string{"commission_rules", "categories", "users"}),
	}
	testDB = test.db

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// User setup steps
	ctx.Given(`^a user exists with email "([^"]*)" and role "([^"]*)"$`, test.aUserExistsWithEmailAndRole)
	ctx.Given(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)
	ctx.Given(`^I am logged in as an admin$`, test.iAmLoggedInAsAnAdmin)

	// Category setup steps
	ctx.Given(`^a category "([^"]*)" exists$`, test.aCategoryExists)
	ctx.Given(`^a category "([^"]*)" exists with a "([^"]*)" commission of "([^"]*)"$`, test.aCategoryExistsWithCommission)
	ctx.Given(`^a subcategory "([^"]*)" exists under "([^"]*)"$`, test.aSubcategoryExistsUnder)

	// Image host steps
	ctx.Given(`^the image host rejects the next upload$`, test.theImageHostRejectsTheNextUpload)
	ctx.Then(`^the image host should have received (\d+) uploads?$`, test.theImageHostShouldHaveReceivedUploads)
	ctx.Then(`^the image host should have received (\d+) deletions?$`, test.theImageHostShouldHaveReceivedDeletions)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^I send a multipart "([^"]*)" request to "([^"]*)" with fields:$`, test.iSendAMultipartRequestWithFields)
	ctx.When(`^I send a multipart "([^"]*)" request to "([^"]*)" with icon "([^"]*)" and fields:$`, test.iSendAMultipartRequestWithIconAndFields)
	ctx.When(`^I send (\d+) "([^"]*)" requests to "([^"]*)" with body:$`, test.iSendRequestsToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should be null$`, test.theResponseFieldShouldBeNull)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, test.theResponseFieldShouldHaveItems)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.response = nil
	t.categoryIDs = make(map[string]uuid.UUID)

	if t.imageHost != nil {
		t.imageHost.Reset()
	}
	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return err
	}
	if t.db != nil {
		return t.db.ClearDB()
	}
	return nil
}

func testConfig() *config.Config {
	tempDir, err := os.MkdirTemp("", "quickmate-uploads-")
	if err != nil {
		panic(err)
	}

	return &config.Config{
		Server: config.ServerConfig{
			Port:        testServerPort,
			Environment: "integration",
		},
		JWT: config.JWTConfig{
			Secret:            testJWTSecret,
			AccessTokenExpiry: time.Hour,
		},
		Auth: config.AuthConfig{
			BcryptCost: bcrypt.MinCost,
		},
		Cloudinary: config.CloudinaryConfig{
			URL:          "cloudinary://test-key:test-secret@" + testCloudName,
			Folder:       "quickmate_images",
			UploadPrefix: testImageHost.GetUrl(),
		},
		Upload: config.UploadConfig{
			TempDir:      tempDir,
			MaxFileBytes: 1 << 20,
		},
		RateLimit: config.RateLimitConfig{
			LoginAttempts: loginRateLimit,
			LoginWindow:   time.Minute,
			APIRequests:   10000,
			APIWindow:     time.Minute,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
	}
}

func (t *testContext) startServer() error {
	var startErr error
	serverInit.Do(func() {
		cfg := testConfig()

		uploader, err := dependency.NewImageUploader(&cfg.Cloudinary)
		if err != nil {
			startErr = err
			return
		}

		injector := dependency.NewInjector(cfg, dependency.NewGormStorage(testDB.Database), uploader, mock.NewRedis())
		engine := injector.Router.Setup(cfg.Server.Environment)

		server := &http.Server{
			Addr:              ":" + strconv.Itoa(testServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			_ = server.ListenAndServe()
		}()
	})
	if startErr != nil {
		return startErr
	}

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not start on port %d", testServerPort)
}
