package tickets

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/railway"
)

type MockReserver struct {
	mock.Mock
}

func (m *MockReserver) ReserveTicket(ctx context.Context, request backend.ReserveTicketRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) TicketRequested(ctx context.Context, request backend.ReserveTicketRequest) {
	m.Called(request)
}

var schedule = railway.Schedule{
	TransitLine:     "IC-204",
	OriginName:      "Leeds",
	DestinationName: "York",
	Fare:            decimal.RequireFromString("100"),
}

func TestQuoteFollowsCategory(t *testing.T) {
	checkout := NewCheckout(&MockReserver{}, "ada@example.com", schedule, nil)

	assert.Equal(t, railway.PassengerCategoryRegular, checkout.Category())
	assert.Equal(t, "100.00", checkout.Quote().Display())

	checkout.SetCategory(railway.PassengerCategoryChild)
	assert.Equal(t, "75.00", checkout.Quote().Display())

	checkout.SetCategory(railway.PassengerCategoryDisabled)
	assert.Equal(t, "50.00", checkout.Quote().Display())
}

func TestSubmitSendsUndiscountedFare(t *testing.T) {
	expected := backend.ReserveTicketRequest{
		TransitLine:       "IC-204",
		CustomerEmail:     "ada@example.com",
		Price:             schedule.Fare,
		PassengerCategory: railway.PassengerCategoryElderly,
	}

	reserver := &MockReserver{}
	reserver.On("ReserveTicket", expected).Return(nil).Once()
	notifier := &MockNotifier{}
	notifier.On("TicketRequested", expected).Once()

	checkout := NewCheckout(reserver, "ada@example.com", schedule, notifier)
	checkout.SetCategory(railway.PassengerCategoryElderly)

	require.NoError(t, checkout.Submit(context.Background()))
	assert.Equal(t, railway.PassengerCategoryRegular, checkout.Category())

	reserver.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestFailedSubmitKeepsCategory(t *testing.T) {
	reserver := &MockReserver{}
	reserver.On("ReserveTicket", mock.Anything).Return(errors.New("backend down"))
	notifier := &MockNotifier{}

	checkout := NewCheckout(reserver, "ada@example.com", schedule, notifier)
	checkout.SetCategory(railway.PassengerCategoryChild)

	assert.Error(t, checkout.Submit(context.Background()))
	assert.Equal(t, railway.PassengerCategoryChild, checkout.Category())
	notifier.AssertNotCalled(t, "TicketRequested", mock.Anything)
}

func TestSubmitValidation(t *testing.T) {
	reserver := &MockReserver{}

	assert.ErrorIs(t, NewCheckout(reserver, "", schedule, nil).Submit(context.Background()), ErrNoCustomerEmail)
	assert.ErrorIs(t, NewCheckout(reserver, "ada@example.com", railway.Schedule{}, nil).Submit(context.Background()), ErrNoTransitLine)

	reserver.AssertNotCalled(t, "ReserveTicket", mock.Anything)
}
