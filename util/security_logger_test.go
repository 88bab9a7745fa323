package util

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/pragun3669/DERMIFY/model"
)

func captureSecurityLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := GetSecurityLoggerForTest()
	SetSecurityLoggerForTest(log.New(&buf, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix))
	t.Cleanup(func() {
		SetSecurityLoggerForTest(orig)
	})
	return &buf
}

func TestLogSecurityEventWritesToLogger(t *testing.T) {
	buf := captureSecurityLog(t)

	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     "user@example.com",
		IP:        "10.0.0.1",
		Message:   "Login failed: invalid password",
	})

	out := buf.String()
	if !strings.Contains(out, "Event=LOGIN_FAILURE") {
		t.Fatalf("expected event type in log output, got %s", out)
	}
	if !strings.Contains(out, "Email=user@example.com") {
		t.Fatalf("expected email in log output, got %s", out)
	}
}

func TestLogSecurityEventSanitizesNewlines(t *testing.T) {
	buf := captureSecurityLog(t)

	LogSecurityEvent(SecurityEvent{
		EventType: EventSuspiciousActivity,
		Message:   "line1\nline2\rline3\tline4",
	})

	out := buf.String()
	if strings.Contains(out, "line1\nline2") {
		t.Fatalf("expected newlines to be sanitized, got %s", out)
	}
	if !strings.Contains(out, "line1 line2 line3 line4") {
		t.Fatalf("expected sanitized message, got %s", out)
	}
}

func TestLogSecurityEventTruncatesLongValues(t *testing.T) {
	buf := captureSecurityLog(t)

	LogSecurityEvent(SecurityEvent{
		EventType: EventSuspiciousActivity,
		Message:   strings.Repeat("a", 300),
	})

	out := buf.String()
	if !strings.Contains(out, strings.Repeat("a", 200)+"...") {
		t.Fatalf("expected message truncated to 200 chars, got %s", out)
	}
	if strings.Contains(out, strings.Repeat("a", 201)) {
		t.Fatalf("expected no more than 200 repeated chars, got %s", out)
	}
}

func TestLogSecurityEventPersistsToDB(t *testing.T) {
	captureSecurityLog(t)
	db := setupCacheTestDB(t, "seclog_persist")
	if err := db.AutoMigrate(&model.SecurityLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	SetSecurityLoggerDB(db)
	t.Cleanup(func() { SetSecurityLoggerDB(nil) })

	LogReportGenerated(42, "patient@example.com", "127.0.0.1", "Eczema")

	var entry model.SecurityLog
	if err := db.Where("event_type = ?", string(EventReportGenerated)).First(&entry).Error; err != nil {
		t.Fatalf("expected persisted security log row: %v", err)
	}
	if entry.UserID != "42" {
		t.Fatalf("expected user id 42, got %s", entry.UserID)
	}
	if !strings.Contains(entry.Message, "Eczema") {
		t.Fatalf("expected disease name in message, got %s", entry.Message)
	}
}

func TestLogHelpersEmitExpectedEvents(t *testing.T) {
	buf := captureSecurityLog(t)

	LogLoginSuccess(1, "a@example.com", "ip", "agent")
	LogLoginFailure("b@example.com", "ip", "agent", "user not found")
	LogLogout(1, "a@example.com", "ip", "agent")
	LogAccountLocked(1, "a@example.com", "ip", "too many failed login attempts")
	LogRateLimitExceeded("", "ip", "/api/login")

	out := buf.String()
	for _, want := range []string{
		"Event=LOGIN_SUCCESS",
		"Event=LOGIN_FAILURE",
		"Event=LOGOUT",
		"Event=ACCOUNT_LOCKED",
		"Event=RATE_LIMIT_EXCEEDED",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output, got %s", want, out)
		}
	}
}
