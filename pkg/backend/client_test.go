package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/railreserve/pkg/railway"
)

type recordedRequest struct {
	Path string
	Body map[string]any
}

type requestLog struct {
	mutex    sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) add(request recordedRequest) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.requests = append(l.requests, request)
}

func (l *requestLog) all() []recordedRequest {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]recordedRequest(nil), l.requests...)
}

func newTestBackend(t *testing.T, responses map[string]string) (*Client, *requestLog) {
	t.Helper()

	requests := &requestLog{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		json.Unmarshal(body, &decoded)
		requests.add(recordedRequest{Path: r.URL.Path, Body: decoded})

		response, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)

	return NewClient(server.URL+"/", 5*time.Second), requests
}

func TestFetchReservations(t *testing.T) {
	client, requests := newTestBackend(t, map[string]string{
		EndpointFetchReservations: `{"success": true, "reservations": [
			{"reservation_id": 1, "transit_line": "A1", "status": "active", "price": 20,
			 "schedule": {"transit_line": "A1", "departure": "2024-12-05T10:00:00"}}
		]}`,
	})

	reservations, err := client.FetchReservations(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "A1", reservations[0].TransitLine)
	assert.Equal(t, railway.Identifier("1"), reservations[0].ReservationID)

	require.Len(t, requests.all(), 1)
	assert.Equal(t, EndpointFetchReservations, requests.all()[0].Path)
	assert.Equal(t, "ada@example.com", requests.all()[0].Body["email"])
}

func TestApplicationError(t *testing.T) {
	client, _ := newTestBackend(t, map[string]string{
		EndpointCancelReservation: `{"success": false, "message": "already cancelled"}`,
	})

	err := client.CancelReservation(context.Background(), "9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOperationFailed))

	var applicationError *ApplicationError
	require.True(t, errors.As(err, &applicationError))
	assert.Equal(t, "already cancelled", applicationError.Message)
}

func TestTransportErrors(t *testing.T) {
	client, _ := newTestBackend(t, map[string]string{
		EndpointTrainStops: `not json`,
	})

	_, err := client.FetchStops(context.Background(), "A1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOperationFailed))

	var transportError *TransportError
	require.True(t, errors.As(err, &transportError))

	// Unknown path answers 404 with no body
	_, err = client.SearchSchedules(context.Background(), ScheduleSearch{Source: "A", Destination: "B"})
	require.True(t, errors.As(err, &transportError))
	assert.Equal(t, http.StatusNotFound, transportError.StatusCode)
	assert.True(t, errors.Is(err, ErrOperationFailed))
}

func TestUnreachableBackend(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)

	_, err := client.FetchReservations(context.Background(), "ada@example.com")
	assert.True(t, errors.Is(err, ErrOperationFailed))
}

func TestReserveTicketSendsNumericPrice(t *testing.T) {
	client, requests := newTestBackend(t, map[string]string{
		EndpointReserveTicket: `{"success": true}`,
	})

	err := client.ReserveTicket(context.Background(), ReserveTicketRequest{
		TransitLine:       "A1",
		CustomerEmail:     "ada@example.com",
		Price:             decimal.RequireFromString("42.50"),
		PassengerCategory: railway.PassengerCategoryChild,
	})
	require.NoError(t, err)

	body := requests.all()[0].Body
	assert.Equal(t, 42.5, body["price"])
	assert.Equal(t, "A1", body["transit_line"])
	assert.Equal(t, "ada@example.com", body["customer_email"])
	assert.Equal(t, "child", body["passenger_category"])
}

func TestCancelSendsNumericIdentifier(t *testing.T) {
	client, requests := newTestBackend(t, map[string]string{
		EndpointCancelReservation: `{"success": true}`,
	})

	require.NoError(t, client.CancelReservation(context.Background(), "17"))
	assert.Equal(t, float64(17), requests.all()[0].Body["reservation_id"])
}

func TestLogin(t *testing.T) {
	client, requests := newTestBackend(t, map[string]string{
		EndpointLogin: `{"success": true, "user": {"email": "ada@example.com", "firstname": "Ada", "lastname": "Lovelace"}}`,
	})

	user, err := client.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "secret", requests.all()[0].Body["password"])
}

func TestFetchMetadataDropsEnvelope(t *testing.T) {
	client, _ := newTestBackend(t, map[string]string{
		EndpointMetadata: `{"success": true, "stations": ["Newark", "Trenton"], "lines": 4}`,
	})

	metadata, err := client.FetchMetadata(context.Background())
	require.NoError(t, err)
	assert.Contains(t, metadata, "stations")
	assert.Contains(t, metadata, "lines")
	assert.NotContains(t, metadata, "success")
}

func TestFetchQueries(t *testing.T) {
	client, requests := newTestBackend(t, map[string]string{
		EndpointFetchQueries: `{"success": true, "queries": [{"query_id": 3, "question": "Pets allowed?"}]}`,
	})

	queries, err := client.FetchQueries(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "Pets allowed?", queries[0].Question)
	assert.Equal(t, "", requests.all()[0].Body["keyword"])
}
