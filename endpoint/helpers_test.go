package endpoint_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pragun3669/DERMIFY/config"
	"github.com/pragun3669/DERMIFY/endpoint"
	"github.com/pragun3669/DERMIFY/middleware"
	"github.com/pragun3669/DERMIFY/ml"
	"github.com/pragun3669/DERMIFY/model"
	"github.com/pragun3669/DERMIFY/util"
	"gorm.io/gorm"
)

// apiResp mirrors the API envelope with Data kept raw for per-test decoding.
type apiResp struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// doRequest executes an HTTP request against the router and returns the response recorder.
func doRequest(r http.Handler, method, path string, body []byte, headers map[string]string) (*httptest.ResponseRecorder, error) {
	req, err := http.NewRequest(method, path, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr, nil
}

// stubClassifier implements ml.Classifier with canned responses for tests.
type stubClassifier struct {
	imageBody   []byte
	symptomBody []byte
	err         error
	lastImage   ml.ImageInput
	lastSymptom ml.SymptomInput
}

func (s *stubClassifier) ClassifyImage(_ context.Context, input ml.ImageInput) ([]byte, error) {
	s.lastImage = input
	if s.err != nil {
		return nil, s.err
	}
	return s.imageBody, nil
}

func (s *stubClassifier) ClassifySymptoms(_ context.Context, input ml.SymptomInput) ([]byte, error) {
	s.lastSymptom = input
	if s.err != nil {
		return nil, s.err
	}
	return s.symptomBody, nil
}

// setupTestEnv migrates a fresh schema in the shared test database, seeds
// roles and returns the DB handle. Tables are dropped on cleanup so tests
// never see each other's rows.
func setupTestEnv(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.ConnectMySQL()
	if err != nil {
		t.Fatalf("failed to connect test DB: %v", err)
	}

	testModels := []interface{}{
		&model.User{}, &model.Role{}, &model.Session{},
		&model.Disease{}, &model.DiseaseAlias{},
		&model.Report{}, &model.SecurityLog{},
	}

	t.Cleanup(func() {
		if err := db.Migrator().DropTable(testModels...); err != nil {
			t.Errorf("Failed to drop tables during cleanup: %v", err)
		}
	})

	if err := db.AutoMigrate(testModels...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	if err := model.SeedRoles(db); err != nil {
		t.Fatalf("seeding roles failed: %v", err)
	}

	util.InitDiseaseCache(100)

	return db
}

// routerOptions configures which handlers newTestRouter wires up.
type routerOptions struct {
	classifier     ml.Classifier
	imageRoot      string
	reportDir      string
	maxUploadBytes int64
}

func newTestRouter(db *gorm.DB, opts routerOptions) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.DatabaseMiddleware(db))

	r.POST("/api/signup", endpoint.Signup)
	r.POST("/api/login", endpoint.Login)
	r.GET("/api/token/validate", endpoint.ValidateToken)
	r.GET("/api/diseases", endpoint.ListDiseases)
	r.GET("/api/disease-info/:diseaseName", endpoint.GetDiseaseInfo)

	auth := r.Group("/api")
	auth.Use(middleware.ValidateLoginToken())
	{
		if opts.classifier != nil {
			auth.POST("/predict", endpoint.Predict(opts.classifier, opts.maxUploadBytes))
			auth.POST("/predict-symptoms", endpoint.PredictSymptoms(opts.classifier))
		}
		auth.POST("/generate-pdf", endpoint.GeneratePDF(opts.imageRoot, opts.reportDir))
		auth.GET("/reports", endpoint.ListReports)
		auth.GET("/doctor/reports", middleware.RequireRole(model.RoleDoctor), endpoint.ListAllReports)
		auth.DELETE("/logout", endpoint.Logout)
	}

	return r
}

// signupAndLogin registers a patient account and logs it in, returning the
// session token and user ID.
func signupAndLogin(t *testing.T, r http.Handler, name, email, password string) (string, uint) {
	t.Helper()
	return signupAndLoginAs(t, r, name, email, password, "")
}

// signupAndLoginAs registers an account with the given role and logs it in.
func signupAndLoginAs(t *testing.T, r http.Handler, name, email, password, role string) (string, uint) {
	t.Helper()

	signupBody := map[string]string{"name": name, "email": email, "password": password, "role": role}
	b, _ := json.Marshal(signupBody)
	rr, err := doRequest(r, "POST", "/api/signup", b, nil)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("signup returned non-200: %d %s", rr.Code, rr.Body.String())
	}

	loginBody := map[string]string{"email": email, "password": password}
	b, _ = json.Marshal(loginBody)
	rr, err = doRequest(r, "POST", "/api/login", b, nil)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("login returned non-200: %d %s", rr.Code, rr.Body.String())
	}

	var resp apiResp
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login resp failed: %v", err)
	}
	var data struct {
		Token  string `json:"token"`
		UserID uint   `json:"user_id"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("parse login data failed: %v", err)
	}
	if data.Token == "" {
		t.Fatalf("login returned empty token")
	}
	return data.Token, data.UserID
}

func seedDisease(t *testing.T, db *gorm.DB, d model.Disease) {
	t.Helper()
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("failed to seed disease %s: %v", d.Name, err)
	}
}
