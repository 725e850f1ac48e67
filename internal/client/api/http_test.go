package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/api/v1/app/auth/login", h)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

var testCred = Credentials{
	StudentID: "20231234",
	Password:  []byte("s3cret"),
	Device:    Device{OS: "linux", Model: "lab-pc", Serial: "abc-123"},
}

func TestHTTPClient_Login_SendsDocumentedBody(t *testing.T) {
	var got map[string]string
	var contentType string

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"jwt-token","userData":{"name":"Sara","studentId":"20231234"}}`))
	})

	c := NewHTTPClient(srv.URL+"/api/v1/app/", time.Second)
	resp, err := c.Login(context.Background(), testCred)
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]string{
		"userId":       "20231234",
		"password":     "s3cret",
		"deviceOs":     "linux",
		"deviceModel":  "lab-pc",
		"deviceSerial": "abc-123",
	}, got)
	assert.Equal(t, "jwt-token", resp.Token)
	assert.JSONEq(t, `{"name":"Sara","studentId":"20231234"}`, string(resp.UserData))
}

func TestHTTPClient_Login_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server message", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"error field", http.StatusBadRequest, `{"error":"User not found"}`, "User not found"},
		{"plain body", http.StatusInternalServerError, `oops`, "HTTP error! status: 500"},
		{"empty body", http.StatusBadGateway, ``, "HTTP error! status: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := NewHTTPClient(srv.URL+"/api/v1/app", time.Second).Login(context.Background(), testCred)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestHTTPClient_Login_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"not json":      `<html>`,
		"missing token": `{"userData":{}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := NewHTTPClient(srv.URL+"/api/v1/app", time.Second).Login(context.Background(), testCred)
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestHTTPClient_Login_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, time.Second).Login(context.Background(), testCred)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Login_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := NewHTTPClient(srv.URL+"/api/v1/app", 50*time.Millisecond).Login(context.Background(), testCred)
	require.ErrorIs(t, err, ErrUnavailable)
}
