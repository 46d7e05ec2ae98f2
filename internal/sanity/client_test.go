package sanity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return New(Config{
		ProjectID: "proj",
		Dataset:   "production",
		Token:     "secret",
		BaseURL:   baseURL,
	}, zap.NewNop())
}

func TestCreateDocument(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2024-01-01/data/mutate/production", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("returnIds"))
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var payload struct {
			Mutations []map[string]json.RawMessage `json:"mutations"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Mutations, 1)
		require.Contains(t, payload.Mutations[0], "create")

		_, _ = w.Write([]byte(`{"results":[{"id":"doc-abc"}]}`))
	}))
	defer srv.Close()

	id, err := newTestClient(srv.URL).CreateDocument(context.Background(), domain.Post{
		Type:  domain.TypePost,
		Title: "T",
	})
	require.NoError(t, err)
	require.Equal(t, "doc-abc", id)
}

func TestCreateDocument_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateDocument(context.Background(), domain.Post{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create document in sanity")
}

func TestCreateDocument_EmptyResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateDocument(context.Background(), domain.Post{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty mutation result")
}

func TestCategories(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2024-01-01/data/query/production", r.URL.Path)
		require.Contains(t, r.URL.Query().Get("query"), `_type == "category"`)
		_, _ = w.Write([]byte(`{"result":[{"_id":"category-go","title":"Go"},{"_id":"category-web","title":"Web"}]}`))
	}))
	defer srv.Close()

	categories, err := newTestClient(srv.URL).Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "category-go", categories[0].ID)
	require.Equal(t, "Web", categories[1].Title)
}

func TestCategories_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Categories(context.Background())
	require.Error(t, err)
}

func TestDefaultImage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Query().Get("query"), "sanity.imageAsset")
		_, _ = w.Write([]byte(`{"result":"image-xyz"}`))
	}))
	defer srv.Close()

	require.Equal(t, "image-xyz", newTestClient(srv.URL).DefaultImage(context.Background()))
}

func TestDefaultImage_AbsorbsFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	require.Empty(t, newTestClient(srv.URL).DefaultImage(context.Background()))
}

func TestDefaultImage_NullResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":null}`))
	}))
	defer srv.Close()

	require.Empty(t, newTestClient(srv.URL).DefaultImage(context.Background()))
}
