package util

import (
	"fmt"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/pragun3669/DERMIFY/config"
)

func TestAddSessionToUserSet_NoClient(t *testing.T) {
	config.ResetRedisClientForTest()

	if err := AddSessionToUserSet(1, "token"); err != nil {
		t.Fatalf("expected nil error without Redis client, got %v", err)
	}
}

func TestAddSessionToUserSet_Success(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	config.SetRedisClientForTest(db)
	defer config.ResetRedisClientForTest()

	userID := uint(123)
	token := "test-token-123"
	userSetKey := fmt.Sprintf("user_sessions:%d", userID)

	mock.ExpectSAdd(userSetKey, token).SetVal(1)
	mock.ExpectPersist(userSetKey).SetVal(true)

	if err := AddSessionToUserSet(userID, token); err != nil {
		t.Fatalf("AddSessionToUserSet returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAddSessionToUserSet_SAddError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	config.SetRedisClientForTest(db)
	defer config.ResetRedisClientForTest()

	userSetKey := "user_sessions:123"
	mock.ExpectSAdd(userSetKey, "tok").SetErr(fmt.Errorf("redis connection error"))

	if err := AddSessionToUserSet(123, "tok"); err == nil {
		t.Fatal("expected error from SAdd, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestInvalidateUserSessions(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	config.SetRedisClientForTest(db)
	defer config.ResetRedisClientForTest()

	userID := uint(7)
	userSetKey := fmt.Sprintf("user_sessions:%d", userID)

	mock.ExpectSMembers(userSetKey).SetVal([]string{"tok1", "tok2"})
	mock.ExpectDel("session:tok1").SetVal(1)
	mock.ExpectDel("session:tok2").SetVal(1)
	mock.ExpectDel(userSetKey).SetVal(1)

	if err := InvalidateUserSessions(userID); err != nil {
		t.Fatalf("InvalidateUserSessions returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestRemoveSessionTokenFromUserSet_NoClient(t *testing.T) {
	config.ResetRedisClientForTest()

	if err := RemoveSessionTokenFromUserSet(1, "token"); err != nil {
		t.Fatalf("expected nil error without Redis client, got %v", err)
	}
}
