package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/zeroclasses/coaching-service/internal/api/http"
	"github.com/zeroclasses/coaching-service/internal/config"
	"github.com/zeroclasses/coaching-service/internal/notify"
	"github.com/zeroclasses/coaching-service/internal/observability"
	"github.com/zeroclasses/coaching-service/internal/otp"
	"github.com/zeroclasses/coaching-service/internal/rate"
	"github.com/zeroclasses/coaching-service/internal/repository/memstore"
)

const fixedCode = "123456"

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "coaching-service", Version: "test", CORSAllowOrigins: "*"},
		Auth: config.AuthConfig{
			JWTSecret:                   "test-secret",
			AccessTokenTTLMinutes:       60,
			VerificationTokenTTLMinutes: 10,
			PasswordMode:                "plain",
			AllowAdminSignup:            true,
		},
		Notification: config.NotificationConfig{AdminInbox: "admin@zero.classes"},
		Payment:      config.PaymentConfig{DestinationAccount: "9661778393@ikwik", DefaultCurrency: "INR"},
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	ledger := otp.NewMemoryLedger(otp.Options{
		TTL:       5 * time.Minute,
		Generator: func(int) (string, error) { return fixedCode, nil },
	})

	app, err := httptransport.NewApp(httptransport.Dependencies{
		Config:  testConfig(),
		Logger:  logger,
		Metrics: observability.NewMetrics(),
		Store:   memstore.New(),
		Ledger:  ledger,
		Limiter: rate.Unlimited{},
		Email:   notify.NewLogSender(logger),
		SMS:     notify.NewLogSMS(logger),
	})
	require.NoError(t, err)
	return app
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

type authData struct {
	User struct {
		ID                string   `json:"id"`
		Phone             string   `json:"phone"`
		Role              string   `json:"role"`
		EnrolledCourseIDs []string `json:"enrolledCourseIds"`
	} `json:"user"`
	Auth struct {
		Token string `json:"token"`
	} `json:"auth"`
}

func register(t *testing.T, app *fiber.App, email, phone, role string) authData {
	t.Helper()
	status, _ := call(t, app, http.MethodPost, "/api/auth/send-otp", "", map[string]string{"identifier": phone, "type": "phone"})
	require.Equal(t, http.StatusOK, status)

	status, env := call(t, app, http.MethodPost, "/api/auth/verify-otp", "", map[string]string{"identifier": phone, "otp": fixedCode})
	require.Equal(t, http.StatusOK, status)
	var verified struct {
		VerificationToken string `json:"verificationToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &verified))
	require.NotEmpty(t, verified.VerificationToken)

	status, env = call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":              "Test",
		"email":             email,
		"phone":             phone,
		"password":          "pass123",
		"role":              role,
		"verificationToken": verified.VerificationToken,
	})
	require.Equal(t, http.StatusCreated, status)
	var out authData
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestRegistrationAndCheckoutFlow(t *testing.T) {
	app := newTestApp(t)

	admin := register(t, app, "admin@x.com", "9000000001", "ADMIN")
	student := register(t, app, "b@x.com", "98765 43210", "")
	assert.Equal(t, "+919876543210", student.User.Phone)
	assert.Equal(t, "STUDENT", student.User.Role)

	status, env := call(t, app, http.MethodPost, "/api/courses", admin.Auth.Token, map[string]any{
		"title":          "Introduction to React",
		"instructorName": "Dr. Smith",
		"price":          49.99,
		"duration":       "4 weeks",
	})
	require.Equal(t, http.StatusCreated, status)
	var course struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &course))

	status, env = call(t, app, http.MethodPost, "/api/payments/checkout", student.Auth.Token, map[string]any{
		"courseId":      course.ID,
		"amount":        49.99,
		"paymentMethod": "UPI",
		"upiId":         "b@okbank",
	})
	require.Equal(t, http.StatusOK, status)
	var checkout struct {
		Success           bool     `json:"success"`
		EnrolledCourseIDs []string `json:"enrolledCourseIds"`
		Transaction       struct {
			TransactionID      string `json:"transactionId"`
			DestinationAccount string `json:"destinationAccount"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &checkout))
	assert.True(t, checkout.Success)
	assert.Equal(t, []string{course.ID}, checkout.EnrolledCourseIDs)
	assert.True(t, strings.HasPrefix(checkout.Transaction.TransactionID, "txn_"))
	assert.Equal(t, "9661778393@ikwik", checkout.Transaction.DestinationAccount)

	status, env = call(t, app, http.MethodGet, "/api/auth/me", student.Auth.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var me struct {
		EnrolledCourseIDs []string `json:"enrolledCourseIds"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, []string{course.ID}, me.EnrolledCourseIDs)
}

func TestCapabilityChecks(t *testing.T) {
	app := newTestApp(t)
	student := register(t, app, "b@x.com", "9876543210", "STUDENT")
	instructor := register(t, app, "i@x.com", "9876543211", "INSTRUCTOR")

	status, env := call(t, app, http.MethodPost, "/api/courses", student.Auth.Token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, _ = call(t, app, http.MethodPost, "/api/materials", instructor.Auth.Token, map[string]any{"title": "Slides", "type": "SLIDE", "url": "https://files/1"})
	assert.Equal(t, http.StatusCreated, status)

	status, _ = call(t, app, http.MethodPost, "/api/payments/checkout", instructor.Auth.Token, map[string]any{"courseId": "c1", "paymentMethod": "CARD"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodGet, "/api/users", instructor.Auth.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodGet, "/api/courses", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestVerifyOTPFailure(t *testing.T) {
	app := newTestApp(t)

	status, env := call(t, app, http.MethodPost, "/api/auth/verify-otp", "", map[string]string{"identifier": "a@x.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "OTP_INVALID_OR_EXPIRED", env.Error.Code)
	assert.Equal(t, "Invalid or Expired OTP", env.Error.Message)
}

func TestRegisterWithoutVerification(t *testing.T) {
	app := newTestApp(t)

	status, env := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "S", "email": "s@x.com", "phone": "9876543210", "password": "p",
	})
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VERIFICATION_REQUIRED", env.Error.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "b@x.com", "9876543210", "")

	call(t, app, http.MethodPost, "/api/auth/send-otp", "", map[string]string{"identifier": "9123456789"})
	status, env := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "S", "email": "b@x.com", "phone": "9123456789", "password": "p", "otp": fixedCode,
	})
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_IDENTITY", env.Error.Code)
	assert.Equal(t, "email", env.Error.Details["field"])
}

func TestLoginAndPhoneLogin(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "b@x.com", "9876543210", "")

	status, _ := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "b@x.com", "password": "pass123"})
	assert.Equal(t, http.StatusOK, status)

	status, env := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "b@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	call(t, app, http.MethodPost, "/api/auth/send-otp", "", map[string]string{"identifier": "+919876543210"})
	status, _ = call(t, app, http.MethodPost, "/api/auth/login-via-phone", "", map[string]string{"phone": "9876543210", "otp": fixedCode})
	assert.Equal(t, http.StatusOK, status)

	call(t, app, http.MethodPost, "/api/auth/send-otp", "", map[string]string{"identifier": "9000000000"})
	status, env = call(t, app, http.MethodPost, "/api/auth/login-via-phone", "", map[string]string{"phone": "9000000000", "otp": fixedCode})
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "USER_NOT_REGISTERED", env.Error.Code)
}

func TestValidationErrors(t *testing.T) {
	app := newTestApp(t)

	status, env := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"name": "S", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "email", env.Error.Details["email"])
	assert.Equal(t, "required", env.Error.Details["phone"])
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	status, _ := call(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "http_requests_total")
}
