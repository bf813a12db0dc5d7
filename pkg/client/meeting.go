package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// MeetingClient provisions a meeting link from an external scheduling
// provider. The returned URL is pass-through data; nothing here generates or
// interprets it.
type MeetingClient struct {
	httpClient *HttpClient
}

func NewMeetingClient(baseURL string) *MeetingClient {
	return &MeetingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

type meetingRequest struct {
	EventID    string    `json:"event_id"`
	GuestEmail string    `json:"guest_email"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

// Provision requests a meeting link for a confirmed booking. Callers treat
// failures as best-effort: the booking stands regardless.
func (c *MeetingClient) Provision(ctx context.Context, eventID, guestEmail string, start, end time.Time) (string, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/meetings", meetingRequest{
		EventID:    eventID,
		GuestEmail: guestEmail,
		StartTime:  start,
		EndTime:    end,
	})
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("meeting provider returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var body struct {
		JoinURL string `json:"join_url"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return "", fmt.Errorf("failed to decode meeting response: %w", err)
	}
	return body.JoinURL, nil
}
