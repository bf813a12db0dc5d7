package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slotly/pkg/model"
)

// EventClient resolves event type definitions from the events service.
type EventClient struct {
	httpClient *HttpClient
}

func NewEventClient(baseURL string) *EventClient {
	return &EventClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *EventClient) GetByID(ctx context.Context, id string) (*model.EventType, error) {
	path := "/api/v1/events/" + url.PathEscape(id)
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var body struct {
		Data model.EventType `json:"data"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode event type: %w", err)
	}
	return &body.Data, nil
}
