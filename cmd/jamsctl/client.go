package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jamsd/pkg/types"
)

// httpClient is a thin wrapper around jamsd's HTTP surface, grounded on
// original_source/clients/go/jams/http/client.go's baseURL-plus-net/http
// shape.
type httpClient struct {
	baseURL string
	http.Client
}

func newHTTPClient(addr string) *httpClient {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &httpClient{baseURL: base, Client: http.Client{Timeout: 30 * time.Second}}
}

func (c *httpClient) ListModels(ctx context.Context) (types.ModelsResponse, error) {
	var out types.ModelsResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/models", nil)
	if err != nil {
		return out, err
	}
	res, err := c.Do(req)
	if err != nil {
		return out, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return out, fmt.Errorf("list models: %s", res.Status)
	}
	return out, json.NewDecoder(res.Body).Decode(&out)
}

func (c *httpClient) Predict(ctx context.Context, modelName, input string) (types.PredictResponse, error) {
	var out types.PredictResponse
	body, err := json.Marshal(types.PredictRequest{ModelName: modelName, Input: input})
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/predict", bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.Do(req)
	if err != nil {
		return out, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return out, fmt.Errorf("predict: %s", res.Status)
	}
	return out, json.NewDecoder(res.Body).Decode(&out)
}

func (c *httpClient) AddModel(ctx context.Context, modelName string) error {
	return c.postModelRequest(ctx, http.MethodPost, types.AddModelRequest{ModelName: modelName})
}

func (c *httpClient) UpdateModel(ctx context.Context, modelName string) error {
	return c.postModelRequest(ctx, http.MethodPut, types.UpdateModelRequest{ModelName: modelName})
}

func (c *httpClient) DeleteModel(ctx context.Context, modelName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/models?model_name="+modelName, nil)
	if err != nil {
		return err
	}
	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("delete model: %s", res.Status)
	}
	return nil
}

func (c *httpClient) postModelRequest(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/models", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s /api/models: %s", method, res.Status)
	}
	return nil
}
