//go:build integration

package integration

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
)

func TestRegister_ReturnsSession(t *testing.T) {
	session := registerUser(t)

	if session.Token == "" {
		t.Fatal("expected a session token")
	}
	if session.UserID == 0 {
		t.Fatal("expected a user ID")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	resp := doPost(t, "/register", "", map[string]string{
		"username": "dupe-check",
		"email":    "dupe-check@example.com",
		"password": "integration-pass",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", resp.StatusCode)
	}

	resp = doPost(t, "/register", "", map[string]string{
		"username": "dupe-check-2",
		"email":    "dupe-check@example.com",
		"password": "integration-pass",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	resp := doPost(t, "/register", "", map[string]string{
		"username": "incomplete",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	resp := doPost(t, "/register", "", map[string]string{
		"username": "login-roundtrip",
		"email":    "login-roundtrip@example.com",
		"password": "integration-pass",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp = doPost(t, "/login", "", map[string]string{
		"email":    "login-roundtrip@example.com",
		"password": "integration-pass",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	session := decodeJSON[sessionResponse](t, resp)
	if session.Username != "login-roundtrip" {
		t.Errorf("username: got %q, want %q", session.Username, "login-roundtrip")
	}
	if session.Token == "" {
		t.Error("expected a session token")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	resp := doPost(t, "/login", "", map[string]string{
		"email":    "nobody-here@example.com",
		"password": "wrong",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestGetUser_Self(t *testing.T) {
	session := registerUser(t)

	resp := doGet(t, "/users/"+strconv.FormatInt(session.UserID, 10), session.Token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	u := decodeJSON[userResponse](t, resp)
	if u.UserID != session.UserID {
		t.Errorf("user_id: got %d, want %d", u.UserID, session.UserID)
	}
	if !strings.Contains(u.Email, "@example.com") {
		t.Errorf("unexpected email %q", u.Email)
	}
}

func TestGetUser_ForeignID(t *testing.T) {
	alice := registerUser(t)
	bob := registerUser(t)

	resp := doGet(t, "/users/"+strconv.FormatInt(alice.UserID, 10), bob.Token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestGetUser_NoToken(t *testing.T) {
	session := registerUser(t)

	resp := doGet(t, "/users/"+strconv.FormatInt(session.UserID, 10), "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
