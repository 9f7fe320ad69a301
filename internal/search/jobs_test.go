// internal/search/jobs_test.go
package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

// newTestIndex backs the ES client with an httptest server so no cluster
// is needed.
func newTestIndex(t *testing.T, handler http.HandlerFunc) (*JobIndex, *[]*http.Request, *[]string) {
	var requests []*http.Request
	var bodies []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, r)
		bodies = append(bodies, string(body))
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return NewJobIndex(client, "jobs", logger.NewTestLogger(t)), &requests, &bodies
}

func okJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestJobIndex_IndexUpsertsByID(t *testing.T) {
	idx, requests, bodies := newTestIndex(t, okJSON(`{"result":"created"}`))

	job := &models.Job{ID: "job-1", Title: "Développeur Go", Description: "Backend", IsActive: true}
	err := idx.Index(context.Background(), job)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	assert.Contains(t, (*requests)[0].URL.Path, "/jobs/_doc/job-1")
	assert.Contains(t, (*bodies)[0], `"title":"Développeur Go"`)
	assert.Contains(t, (*bodies)[0], `"is_active":true`)
}

func TestJobIndex_DeleteToleratesMissingDocument(t *testing.T) {
	idx, _, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	assert.NoError(t, idx.Delete(context.Background(), "gone"))
}

func TestJobIndex_SearchReturnsIDsInOrder(t *testing.T) {
	response := `{"hits":{"hits":[{"_id":"job-2"},{"_id":"job-1"}]}}`
	idx, _, bodies := newTestIndex(t, okJSON(response))

	ids, err := idx.Search(context.Background(), "développeur")
	require.NoError(t, err)
	assert.Equal(t, []string{"job-2", "job-1"}, ids)

	var q map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte((*bodies)[0]), &q))
	assert.Contains(t, (*bodies)[0], `"is_active":true`, "search is filtered to active postings")
	assert.Contains(t, (*bodies)[0], "multi_match")
}

func TestJobIndex_SearchErrorCode(t *testing.T) {
	idx, _, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"shard failure"}`))
	})

	_, err := idx.Search(context.Background(), "x")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSearchQueryFailed))
}
