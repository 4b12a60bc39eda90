// Package workflowengine starts downstream document-processing runs over the
// engine's HTTP API.
package workflowengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chittyos/intake/internal/bootstrap/config"
	"github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/ports"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	profile    Profile
}

func NewClient(cfg config.WorkflowConfig) (*Client, error) {
	profile, err := LoadProfile(cfg.ProfileFile)
	if err != nil {
		return nil, errs.Wrap(err, "load workflow profile")
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		profile:    profile,
	}, nil
}

type startRunRequest struct {
	Workflow         string   `json:"workflow"`
	DocumentID       string   `json:"document_id"`
	StorageKey       string   `json:"storage_key"`
	ContentHash      string   `json:"content_hash"`
	FileName         string   `json:"file_name"`
	ContentType      string   `json:"content_type"`
	Source           string   `json:"source"`
	SourceRef        string   `json:"source_ref"`
	Reason           string   `json:"reason"`
	Score            float64  `json:"score"`
	MatchedCaseID    string   `json:"matched_case_id,omitempty"`
	MatchedEntityIDs []string `json:"matched_entity_ids,omitempty"`
	Priority         int      `json:"priority"`
}

type startRunResponse struct {
	RunID string `json:"run_id"`
}

func (c *Client) StartRun(ctx context.Context, input ports.WorkflowStartInput) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	workflow := strings.TrimSpace(input.Workflow)
	if workflow == "" {
		keyword, _ := intake.MatchDocType("", input.FileName)
		workflow = c.profile.Resolve(input.Priority, keyword)
	}

	body, err := json.Marshal(startRunRequest{
		Workflow:         workflow,
		DocumentID:       input.DocumentID,
		StorageKey:       input.StorageKey,
		ContentHash:      input.ContentHash,
		FileName:         input.FileName,
		ContentType:      input.ContentType,
		Source:           input.Source,
		SourceRef:        input.SourceRef,
		Reason:           input.Reason,
		Score:            input.Score,
		MatchedCaseID:    input.MatchedCaseID,
		MatchedEntityIDs: input.MatchedEntityIDs,
		Priority:         input.Priority,
	})
	if err != nil {
		return "", errs.Wrap(err, "marshal start run request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/runs", bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(err, "build start run request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.Wrap(err, "call workflow engine")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errs.Wrap(err, "read workflow engine response")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("workflow engine returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed startRunResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errs.Wrap(err, "decode workflow engine response")
	}
	if strings.TrimSpace(parsed.RunID) == "" {
		return "", errors.New("workflow engine response missing run_id")
	}
	return parsed.RunID, nil
}
