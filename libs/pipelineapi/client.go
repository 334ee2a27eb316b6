package pipelineapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Settings struct {
	Endpoint       string `env:"PIPELINE_ENDPOINT,required"`
	JobToken       string `env:"PIPELINE_JOB_TOKEN"`
	TimeoutSeconds int    `env:"PIPELINE_TIMEOUT_SECONDS" envDefault:"30"`
}

type ServiceApi struct {
	Endpoint   string
	AuthToken  string
	HttpClient *http.Client
}

func NewServiceApi() (*ServiceApi, error) {
	settings, err := env.ParseAs[Settings]()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse pipeline service settings")
	}

	return &ServiceApi{
		Endpoint:  settings.Endpoint,
		AuthToken: settings.JobToken,
		HttpClient: &http.Client{
			Timeout: time.Duration(settings.TimeoutSeconds) * time.Second,
		},
	}, nil
}

func (a *ServiceApi) SubmitRun(ctx context.Context, spec RunSpec) (*RunStatus, error) {
	u, err := url.Parse(a.Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "not able to parse pipeline service url")
	}
	u.Path = path.Join(u.Path, "runs")

	jsonData, err := json.Marshal(spec)
	if err != nil {
		return nil, errors.Wrap(err, "not able to marshal run spec")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error while creating request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if a.AuthToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.AuthToken))
	}

	resp, err := a.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while sending request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status when submitting a run: %v, body: %v", resp.StatusCode, string(body))
	}

	var status RunStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, errors.Wrap(err, "not able to decode run status")
	}

	return &status, nil
}

func (a *ServiceApi) GetRunStatus(ctx context.Context, runId string) (*RunStatus, error) {
	u, err := url.Parse(a.Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "not able to parse pipeline service url")
	}
	u.Path = path.Join(u.Path, "runs", runId)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error while creating request: %v", err)
	}
	if a.AuthToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.AuthToken))
	}

	resp, err := a.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while sending request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status when fetching run %s: %v", runId, resp.StatusCode)
	}

	var status RunStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, errors.Wrap(err, "not able to decode run status")
	}

	return &status, nil
}
