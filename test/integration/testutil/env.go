package testutil

import (
	"os"
	"testing"
)

// TestEnv describes the externally running slotly stack the integration
// tests exercise. All three services plus Mongo must be up; the suite skips
// itself unless TEST_INTEGRATION is set so a plain `go test ./...` stays
// green without infrastructure.
type TestEnv struct {
	MongoURI        string
	DatabaseName    string
	AvailabilityURL string
	EventsURL       string
	BookingsURL     string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:        getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName:    getEnv("TEST_DB_NAME", DefaultDatabaseName),
		AvailabilityURL: getEnv("TEST_AVAILABILITY_URL", "http://localhost:8081"),
		EventsURL:       getEnv("TEST_EVENTS_URL", "http://localhost:8082"),
		BookingsURL:     getEnv("TEST_BOOKINGS_URL", "http://localhost:8083"),
	}
}

// Setup connects to Mongo, wipes the database and waits for every service to
// report healthy. Returns the Mongo helper plus one client per service.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *Clients) {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("set TEST_INTEGRATION=1 to run integration tests against a running stack")
	}

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	clients := &Clients{
		Availability: NewClient(e.AvailabilityURL),
		Events:       NewClient(e.EventsURL),
		Bookings:     NewClient(e.BookingsURL),
	}
	clients.Availability.WaitForHealthy(t, DefaultHealthCheckTimeout)
	clients.Events.WaitForHealthy(t, DefaultHealthCheckTimeout)
	clients.Bookings.WaitForHealthy(t, DefaultHealthCheckTimeout)

	return mongo, clients
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

// Clients groups one HTTP client per slotly service.
type Clients struct {
	Availability *Client
	Events       *Client
	Bookings     *Client
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

const (
	DefaultHealthCheckTimeout = 30 * ConnectionTimeout
)
