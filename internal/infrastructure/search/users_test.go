package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

func fakeES(t *testing.T, handler http.HandlerFunc) *UserIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	es, err := NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return NewUserIndex(es, "users", helpers.NopLogger())
}

func TestUserDocument(t *testing.T) {
	doc := userDocument(&entity.User{ID: "u1", Email: "a@b.c", Username: "ab", FirstName: "Ann", LastName: "Bee", Role: entity.RoleAdmin})
	assert.Equal(t, "Ann Bee", doc["name"])
	assert.Equal(t, "ADMIN", doc["role"])
}

func TestUserIndex_Index(t *testing.T) {
	var gotPath string
	var gotDoc map[string]any
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotDoc)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := idx.Index(context.Background(), &entity.User{ID: "u1", Email: "a@b.c", Username: "ab"})
	require.NoError(t, err)
	assert.Equal(t, "/users/_doc/u1", gotPath)
	assert.Equal(t, "ab", gotDoc["username"])
}

func TestUserIndex_Suggest(t *testing.T) {
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/_search"))
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"u1","_source":{"email":"a@b.c"}}]}}`))
	})

	hits, err := idx.Suggest(context.Background(), "a@", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a@b.c", hits[0]["email"])
}
