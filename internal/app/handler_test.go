package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smallwat3r/textdrop/internal/domain"
)

type mockTextStore struct {
	SetFunc          func(ctx context.Context, key, value string, ttl time.Duration) error
	GetAndDeleteFunc func(ctx context.Context, key string) (string, error)
	setCalls         int
}

func (m *mockTextStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.setCalls++
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockTextStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	if m.GetAndDeleteFunc != nil {
		return m.GetAndDeleteFunc(ctx, key)
	}
	return "", domain.ErrNotFound
}

type fixedCodes struct {
	code string
	err  error
}

func (f fixedCodes) Generate() (string, error) { return f.code, f.err }

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("could not decode error body: %v", err)
	}
	return body["error"]
}

func TestHandler_HandleHealth(t *testing.T) {
	handler := NewHandler(nil, nil, Options{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	handler.HandleHealth(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if body := rr.Body.String(); body != "ok" {
		t.Errorf("handler returned unexpected body: got %v want %v", body, "ok")
	}
}

func TestHandler_HandleShare(t *testing.T) {
	mockStore := &mockTextStore{}
	handler := NewHandler(mockStore, fixedCodes{code: "Ab3xYz1"}, Options{TTL: 10 * time.Minute, MaxTextSize: 32})

	t.Run("successful share", func(t *testing.T) {
		var gotKey, gotValue string
		var gotTTL time.Duration
		mockStore.SetFunc = func(ctx context.Context, key, value string, ttl time.Duration) error {
			gotKey, gotValue, gotTTL = key, value, ttl
			return nil
		}
		req := httptest.NewRequest(http.MethodPost, "/api/share", strings.NewReader(`{"text":"hello"}`))
		rr := httptest.NewRecorder()

		handler.HandleShare(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
		var res domain.ShareRes
		if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
			t.Fatalf("could not decode response: %v", err)
		}
		if res.Code != "Ab3xYz1" {
			t.Errorf("expected code Ab3xYz1, got %q", res.Code)
		}
		if gotKey != "Ab3xYz1" || gotValue != "hello" {
			t.Errorf("unexpected store write: key=%q value=%q", gotKey, gotValue)
		}
		if gotTTL != 10*time.Minute {
			t.Errorf("expected ttl 10m, got %v", gotTTL)
		}
	})

	t.Run("text is stored untrimmed", func(t *testing.T) {
		var gotValue string
		mockStore.SetFunc = func(ctx context.Context, key, value string, ttl time.Duration) error {
			gotValue = value
			return nil
		}
		req := httptest.NewRequest(http.MethodPost, "/api/share", strings.NewReader(`{"text":"  indented\n"}`))
		rr := httptest.NewRecorder()

		handler.HandleShare(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if gotValue != "  indented\n" {
			t.Errorf("expected text to be stored verbatim, got %q", gotValue)
		}
	})

	badRequests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing text", `{}`, "text required"},
		{"empty text", `{"text":""}`, "text required"},
		{"whitespace text", `{"text":"   \n\t"}`, "text required"},
		{"null text", `{"text":null}`, "text required"},
		{"number text", `{"text":42}`, "text required"},
		{"object text", `{"text":{"a":1}}`, "text required"},
		{"too large", `{"text":"` + strings.Repeat("x", 33) + `"}`, "text too large"},
		{"invalid json", `{"text":`, "invalid JSON body"},
		{"empty body", ``, "invalid JSON body"},
	}
	for _, tc := range badRequests {
		t.Run("bad request - "+tc.name, func(t *testing.T) {
			mockStore.setCalls = 0
			req := httptest.NewRequest(http.MethodPost, "/api/share", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			handler.HandleShare(rr, req)

			if status := rr.Code; status != http.StatusBadRequest {
				t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
			}
			if msg := decodeError(t, rr); msg != tc.wantMsg {
				t.Errorf("expected error %q, got %q", tc.wantMsg, msg)
			}
			if mockStore.setCalls != 0 {
				t.Errorf("expected no store write, got %d", mockStore.setCalls)
			}
		})
	}

	t.Run("internal server error - store write fails", func(t *testing.T) {
		mockStore.SetFunc = func(ctx context.Context, key, value string, ttl time.Duration) error {
			return &domain.StoreError{Op: "set", Err: errors.New("connection refused")}
		}
		req := httptest.NewRequest(http.MethodPost, "/api/share", strings.NewReader(`{"text":"hello"}`))
		rr := httptest.NewRecorder()

		handler.HandleShare(rr, req)

		if status := rr.Code; status != http.StatusInternalServerError {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
		}
		if msg := decodeError(t, rr); strings.Contains(msg, "connection refused") {
			t.Errorf("store details leaked to client: %q", msg)
		}
	})

	t.Run("internal server error - code generation fails", func(t *testing.T) {
		failing := NewHandler(&mockTextStore{}, fixedCodes{err: errors.New("entropy")}, Options{})
		req := httptest.NewRequest(http.MethodPost, "/api/share", strings.NewReader(`{"text":"hello"}`))
		rr := httptest.NewRecorder()

		failing.HandleShare(rr, req)

		if status := rr.Code; status != http.StatusInternalServerError {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
		}
	})
}

func TestHandler_HandleGet(t *testing.T) {
	mockStore := &mockTextStore{}
	handler := NewHandler(mockStore, fixedCodes{code: "unused"}, Options{})

	t.Run("successful get", func(t *testing.T) {
		mockStore.GetAndDeleteFunc = func(ctx context.Context, key string) (string, error) {
			if key == "Ab3xYz1" {
				return "hello", nil
			}
			return "", domain.ErrNotFound
		}
		req := httptest.NewRequest(http.MethodGet, "/api/get?code=Ab3xYz1", nil)
		rr := httptest.NewRecorder()

		handler.HandleGet(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
		var res domain.GetRes
		if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
			t.Fatalf("could not decode response: %v", err)
		}
		if res.Text != "hello" {
			t.Errorf("handler returned wrong text: got %v want %v", res.Text, "hello")
		}
	})

	t.Run("not found", func(t *testing.T) {
		mockStore.GetAndDeleteFunc = func(ctx context.Context, key string) (string, error) {
			return "", domain.ErrNotFound
		}
		req := httptest.NewRequest(http.MethodGet, "/api/get?code=nope123", nil)
		rr := httptest.NewRecorder()

		handler.HandleGet(rr, req)

		if status := rr.Code; status != http.StatusNotFound {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
		}
		if msg := decodeError(t, rr); msg != "not found" {
			t.Errorf("expected error %q, got %q", "not found", msg)
		}
	})

	for _, target := range []string{"/api/get", "/api/get?code=", "/api/get?other=1"} {
		t.Run("bad request - "+target, func(t *testing.T) {
			called := false
			mockStore.GetAndDeleteFunc = func(ctx context.Context, key string) (string, error) {
				called = true
				return "", nil
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rr := httptest.NewRecorder()

			handler.HandleGet(rr, req)

			if status := rr.Code; status != http.StatusBadRequest {
				t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
			}
			if msg := decodeError(t, rr); msg != "code required" {
				t.Errorf("expected error %q, got %q", "code required", msg)
			}
			if called {
				t.Error("store must not be touched for an invalid code")
			}
		})
	}

	t.Run("internal server error - store fails", func(t *testing.T) {
		mockStore.GetAndDeleteFunc = func(ctx context.Context, key string) (string, error) {
			return "", &domain.StoreError{Op: "getdel", Err: errors.New("i/o timeout")}
		}
		req := httptest.NewRequest(http.MethodGet, "/api/get?code=Ab3xYz1", nil)
		rr := httptest.NewRecorder()

		handler.HandleGet(rr, req)

		if status := rr.Code; status != http.StatusInternalServerError {
			t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
		}
		if msg := decodeError(t, rr); msg != "internal server error" {
			t.Errorf("expected generic error, got %q", msg)
		}
	})
}
