package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/stackfetch/pkg/artifacts"
	"github.com/matzehuels/stackfetch/pkg/engine/enginetest"
)

func newTestServer(t *testing.T, e *enginetest.Engine) *httptest.Server {
	t.Helper()
	s := New(Options{
		Runner:   artifacts.NewRunner(e, nil),
		Versions: artifacts.DefaultVersions(),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/fetch", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestFetch(t *testing.T) {
	e := enginetest.New().Add("org.example:app:1.0", "org.example:lib:2.0")
	ts := newTestServer(t, e)

	resp := post(t, ts, `{"dependencies": ["org.example:app:1.0"], "runner": true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("response should carry a request ID")
	}

	var body FetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.ID != resp.Header.Get(requestIDHeader) {
		t.Errorf("body ID %q != header ID %q", body.ID, resp.Header.Get(requestIDHeader))
	}
	if len(body.Artifacts) != 2 {
		t.Errorf("artifacts = %v, want app and lib", body.Artifacts)
	}
	if !body.HasJVMRunner || len(body.ClassPath) != 3 {
		t.Errorf("class path = %v, runner = %v", body.ClassPath, body.HasJVMRunner)
	}
	if len(body.UserClassPath) != 2 {
		t.Errorf("user class path = %v, want app and lib", body.UserClassPath)
	}
}

func TestFetchKeepsRequestID(t *testing.T) {
	ts := newTestServer(t, enginetest.New())
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/fetch", bytes.NewBufferString(`{"dependencies": []}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, "build-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "build-42" {
		t.Errorf("request ID = %q, want build-42", got)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fail       string
		wantStatus int
		wantCode   string
	}{
		{"bad json", `{"dependencies": `, "", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"deps": ["a:b:1"]}`, "", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad dependency", `{"dependencies": ["nope"]}`, "", http.StatusBadRequest, "INVALID_DEPENDENCY"},
		{"bad repository", `{"dependencies": ["a:b:1"], "repositories": ["ftp://x"]}`, "", http.StatusBadRequest, "REPOSITORY_FORMAT"},
		{"engine failure", `{"dependencies": ["a:b:1"]}`, "a:b", http.StatusBadGateway, "FETCHING_DEPENDENCIES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := enginetest.New()
			if tt.fail != "" {
				e.Fail(tt.fail, stderrors.New("connection reset"))
			}
			resp := post(t, newTestServer(t, e), tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if len(body.Details) == 0 {
				t.Error("details should list the failure")
			}
		})
	}
}

func TestFetchRecover(t *testing.T) {
	e := enginetest.New().Fail("a:b", stderrors.New("connection reset"))
	resp := post(t, newTestServer(t, e), `{"dependencies": ["a:b:1"], "recover": ["FETCHING_DEPENDENCIES"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, enginetest.New())
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body.Status)
	}
}
