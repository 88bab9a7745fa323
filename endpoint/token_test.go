package endpoint_test

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestValidateTokenMissing(t *testing.T) {
	db := setupTestEnv(t)
	r := newTestRouter(db, routerOptions{})

	rr, _ := doRequest(r, "GET", "/api/token/validate", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	db := setupTestEnv(t)
	r := newTestRouter(db, routerOptions{})

	rr, _ := doRequest(r, "GET", "/api/token/validate", nil, map[string]string{"session-token": "bogus"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestValidateTokenValid(t *testing.T) {
	db := setupTestEnv(t)
	r := newTestRouter(db, routerOptions{})

	token, userID := signupAndLogin(t, r, "V", "validate@example.com", "password123")

	rr, _ := doRequest(r, "GET", "/api/token/validate", nil, map[string]string{"session-token": token})
	if rr.Code != http.StatusOK {
		t.Fatalf("validate non-200: %d %s", rr.Code, rr.Body.String())
	}

	var resp apiResp
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode resp failed: %v", err)
	}
	var data struct {
		Valid  bool   `json:"valid"`
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("parse data failed: %v", err)
	}
	if !data.Valid {
		t.Fatal("expected valid=true")
	}
	if data.UserID != userID {
		t.Fatalf("expected user id %d, got %d", userID, data.UserID)
	}
	if data.Role != "Patient" {
		t.Fatalf("expected Patient role, got %s", data.Role)
	}
}

func TestValidateTokenAfterLogout(t *testing.T) {
	db := setupTestEnv(t)
	r := newTestRouter(db, routerOptions{})

	token, _ := signupAndLogin(t, r, "V", "validate-out@example.com", "password123")

	rr, _ := doRequest(r, "DELETE", "/api/logout", nil, map[string]string{"session-token": token})
	if rr.Code != http.StatusOK {
		t.Fatalf("logout non-200: %d %s", rr.Code, rr.Body.String())
	}

	rr, _ = doRequest(r, "GET", "/api/token/validate", nil, map[string]string{"session-token": token})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d %s", rr.Code, rr.Body.String())
	}
}
