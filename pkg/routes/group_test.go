package routes_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/docman/pkg/routes"
)

func write(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	tagged := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Group", "folders")
			next.ServeHTTP(w, r)
		})
	}

	routes.Register(mux,
		routes.Group{
			Prefix: "/documents",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: write("list")},
				{Method: "GET", Pattern: "/{id}", Handler: write("find")},
			},
		},
		routes.Group{
			Prefix:     "/folders",
			Middleware: []func(http.Handler) http.Handler{tagged},
			Routes: []routes.Route{
				{Method: "DELETE", Pattern: "/{id}", Handler: write("delete")},
			},
			Children: []routes.Group{
				{Prefix: "/{id}/children", Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: write("children")},
				}},
			},
		},
	)

	tests := []struct {
		method    string
		path      string
		want      string
		wantGroup string
	}{
		{http.MethodGet, "/documents", "list", ""},
		{http.MethodGet, "/documents/123", "find", ""},
		{http.MethodDelete, "/folders/9", "delete", "folders"},
		{http.MethodGet, "/folders/9/children", "children", "folders"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			body, _ := io.ReadAll(w.Result().Body)
			if string(body) != tt.want {
				t.Errorf("body = %q, want %q", body, tt.want)
			}
			if got := w.Header().Get("X-Group"); got != tt.wantGroup {
				t.Errorf("X-Group = %q, want %q", got, tt.wantGroup)
			}
		})
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/documents/123", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
