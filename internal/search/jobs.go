// Package search maintains the Elasticsearch index behind the public
// job browse page.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

type JobIndex struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewJobIndex(es *elasticsearch.Client, index string, log logger.Logger) *JobIndex {
	return &JobIndex{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "job-index"}),
	}
}

type jobDocument struct {
	Title        string `json:"title"`
	Department   string `json:"department"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	ContractType string `json:"contract_type"`
	IsActive     bool   `json:"is_active"`
}

// Index upserts the posting document. Called on create and update.
func (i *JobIndex) Index(ctx context.Context, job *models.Job) error {
	doc := jobDocument{
		Title:        job.Title,
		Department:   job.Department,
		Description:  job.Description,
		Location:     job.Location,
		ContractType: job.ContractType,
		IsActive:     job.IsActive,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal job document: %w", err)
	}

	res, err := i.es.Index(
		i.index,
		bytes.NewReader(body),
		i.es.Index.WithDocumentID(job.ID),
		i.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index job %s: %w", job.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index job %s: %s", job.ID, res.Status())
	}
	return nil
}

// Delete removes the posting from the index. Missing documents are fine.
func (i *JobIndex) Delete(ctx context.Context, jobID string) error {
	res, err := i.es.Delete(
		i.index,
		jobID,
		i.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete job %s from index: %w", jobID, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete job %s from index: %s", jobID, res.Status())
	}
	return nil
}

// Search runs a full-text query over active postings and returns matching
// job IDs, best match first.
func (i *JobIndex) Search(ctx context.Context, query string) ([]string, error) {
	searchBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"title^2", "description", "location", "department"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"is_active": true},
				},
			},
		},
	}

	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("search: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("decode response: %w", err))
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
