package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithAPIKey("test-key"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Database: "ok", Version: "11.0.0"})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Database != "ok" {
		t.Errorf("got database %q, want ok", resp.Database)
	}
	if resp.Version != "11.0.0" {
		t.Errorf("got version %q, want 11.0.0", resp.Version)
	}
}

func TestFoldersList(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/folders": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, []Folder{
				{UID: "infra", Title: "Infrastructure"},
				{UID: "apps", Title: "Applications"},
			})
		},
	})
	folders, err := c.Folders.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("got %d folders, want 2", len(folders))
	}
	if folders[0].UID != "infra" || folders[0].Title != "Infrastructure" {
		t.Errorf("folder[0]: got %+v", folders[0])
	}
}

func TestSearchAll(t *testing.T) {
	var gotQuery string
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/search": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			jsonResponse(w, 200, []SearchHit{
				{UID: "d1", Title: "Node Overview", Type: SearchTypeDashboard, FolderUID: "infra"},
				{UID: "sub1", Title: "Kubernetes", Type: SearchTypeFolder, FolderUID: "infra"},
			})
		},
	})
	hits, err := c.Search.All(context.Background(), "")
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if gotQuery != "query=" {
		t.Errorf("query string: got %q, want %q", gotQuery, "query=")
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Type != SearchTypeDashboard || hits[1].Type != SearchTypeFolder {
		t.Errorf("hit types: got %q, %q", hits[0].Type, hits[1].Type)
	}
}

func TestDashboardsGetByUID(t *testing.T) {
	// Raw body so the dashboard's key order can be asserted verbatim.
	body := `{"meta":{"slug":"node-overview","folderUid":"infra"},"dashboard":{"uid":"d1","title":"Node Overview","panels":[]}}`
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/dashboards/uid/d1": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body)) //nolint:errcheck
		},
	})
	resp, err := c.Dashboards.GetByUID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetByUID error: %v", err)
	}
	if resp.Meta.FolderUID != "infra" {
		t.Errorf("meta folderUid: got %q", resp.Meta.FolderUID)
	}
	want := `{"uid":"d1","title":"Node Overview","panels":[]}`
	if string(resp.Dashboard) != want {
		t.Errorf("raw dashboard body altered:\n got %s\nwant %s", resp.Dashboard, want)
	}
}

func TestAPIError(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/dashboards/uid/missing": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"message": "Dashboard not found"})
		},
		"GET /api/folders": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 401, map[string]string{"message": "Unauthorized"})
		},
	})

	ctx := context.Background()

	_, err := c.Dashboards.GetByUID(ctx, "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("expected not found, got: %v", err)
	}

	_, err = c.Folders.List(ctx)
	if !IsUnauthorized(err) {
		t.Errorf("expected unauthorized, got: %v", err)
	}
}

func TestAPIErrorNonJSONBody(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/folders": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(502)
			w.Write([]byte("bad gateway")) //nolint:errcheck
		},
	})
	_, err := c.Folders.List(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 502 || apiErr.Message != "bad gateway" {
		t.Errorf("got %+v", apiErr)
	}
}

func TestAuthHeader(t *testing.T) {
	var gotAuth, gotContentType string
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/health": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			jsonResponse(w, 200, HealthResponse{Database: "ok"})
		},
	})

	c.Health(context.Background()) //nolint:errcheck
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header: got %q, want %q", gotAuth, "Bearer test-key")
	}
	if gotContentType != "application/json" {
		t.Errorf("content type: got %q, want application/json", gotContentType)
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv, _ := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Database: "ok"})
		},
	})
	c := New(srv.URL + "/")
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health with trailing slash base URL: %v", err)
	}
}
