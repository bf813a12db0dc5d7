package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slotly/pkg/model"
)

// AvailabilityClient reads a host's weekly pattern and minimum-notice gap
// from the availability service. This is the bookings service's view of the
// availability store.
type AvailabilityClient struct {
	httpClient *HttpClient
}

func NewAvailabilityClient(baseURL string) *AvailabilityClient {
	return &AvailabilityClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *AvailabilityClient) GetWeekly(ctx context.Context, hostID string) (*model.WeeklyAvailability, error) {
	path := "/api/v1/hosts/" + url.PathEscape(hostID) + "/availability"
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("availability service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var body struct {
		Data model.WeeklyAvailability `json:"data"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weekly availability: %w", err)
	}
	return &body.Data, nil
}

func (c *AvailabilityClient) GetGap(ctx context.Context, hostID string) (*model.TimeGap, error) {
	path := "/api/v1/hosts/" + url.PathEscape(hostID) + "/availability/gap"
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("availability service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var body struct {
		Data model.TimeGap `json:"data"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, fmt.Errorf("failed to decode time gap: %w", err)
	}
	return &body.Data, nil
}
