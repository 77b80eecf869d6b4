package utils

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggingTransportMasksCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	httpClient := &http.Client{Transport: LoggingTransport(nil, logger)}

	req, err := http.NewRequest(http.MethodPost, server.URL+"/users/login/", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Cookie", "users_access_token=secret")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	logged := out.String()
	if strings.Contains(logged, "secret") {
		t.Errorf("expected cookie to be masked, got %s", logged)
	}
	if !strings.Contains(logged, "418") {
		t.Errorf("expected status in log, got %s", logged)
	}
}
