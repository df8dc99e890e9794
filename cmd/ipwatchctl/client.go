package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	api "ipwatch/internal/api"
)

type client struct {
	base  string
	actor string
	http  *http.Client
}

func newClient(base, actor string, timeout time.Duration) *client {
	return &client{
		base:  strings.TrimRight(base, "/"),
		actor: actor,
		http:  &http.Client{Timeout: timeout},
	}
}

// problemError is a non-2xx answer decoded from application/problem+json.
type problemError struct {
	api.Problem
}

func (e *problemError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Title, *e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Title)
}

func (c *client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return 0, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.actor != "" {
		req.Header.Set("X-Actor-ID", c.actor)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		p := &problemError{}
		if err := json.NewDecoder(resp.Body).Decode(&p.Problem); err != nil || p.Status == 0 {
			p.Status, p.Title = resp.StatusCode, http.StatusText(resp.StatusCode)
		}
		return resp.StatusCode, p
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *client) createJob(ctx context.Context, url, assetID string) (api.Job, error) {
	var job api.Job
	_, err := c.do(ctx, http.MethodPost, "/jobs", api.CreateJobRequest{Url: url, AssetId: assetID}, &job)
	return job, err
}

// execute runs the job inline when wait is set. Otherwise it returns a nil
// result once the server has queued the job.
func (c *client) execute(ctx context.Context, id string, wait bool) (*api.ExecutionResult, error) {
	path := "/jobs/" + id + "/execute"
	if wait {
		var res api.ExecutionResult
		if _, err := c.do(ctx, http.MethodPost, path+"?wait=true", nil, &res); err != nil {
			return nil, err
		}
		return &res, nil
	}
	_, err := c.do(ctx, http.MethodPost, path, nil, nil)
	return nil, err
}

func (c *client) job(ctx context.Context, id string) (api.JobDetail, error) {
	var d api.JobDetail
	_, err := c.do(ctx, http.MethodGet, "/jobs/"+id, nil, &d)
	return d, err
}

func (c *client) stats(ctx context.Context) (api.Stats, error) {
	var s api.Stats
	_, err := c.do(ctx, http.MethodGet, "/stats", nil, &s)
	return s, err
}
