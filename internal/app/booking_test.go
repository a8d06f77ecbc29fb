package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/metinatakli/hall-designer/api"
	"github.com/metinatakli/hall-designer/internal/domain"
	"github.com/metinatakli/hall-designer/internal/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	app        *application
	layoutRepo *mocks.MockLayoutRepo
	redisMock  *mocks.MockRedisClient
	pipeMock   *mocks.MockTxPipeline
	stored     *domain.HallLayout
}

func (s *BookingHandlerTestSuite) SetupTest() {
	s.layoutRepo = &mocks.MockLayoutRepo{}
	s.redisMock = &mocks.MockRedisClient{}
	s.pipeMock = &mocks.MockTxPipeline{}

	s.stored = hallFixture(s.T(), "Hall A", 3, 3).Template()

	s.layoutRepo.GetFunc = func(ctx context.Context, name string) (*domain.HallLayout, error) {
		return s.stored.Clone(), nil
	}

	s.app = newTestApplication(func(app *application) {
		app.layoutRepo = s.layoutRepo
		app.redis = s.redisMock
	})
}

func TestBookingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) expectLiveState(sold, selected []string) {
	sessionID := ""

	s.redisMock.On("SMembers", mock.Anything, soldSeatsKey("Hall A")).
		Return(redis.NewStringSliceResult(sold, nil))
	s.redisMock.On("SMembers", mock.Anything, selectionKey("Hall A", sessionID)).
		Return(redis.NewStringSliceResult(selected, nil))
}

func (s *BookingHandlerTestSuite) seatMapRequest(method, url string, params map[string]string) (w *httptest.ResponseRecorder, r *http.Request) {
	w, r = executeRequest(s.T(), method, url, nil)
	r = withURLParams(r, params)
	r = withSession(s.T(), s.app, r)

	return w, r
}

func (s *BookingHandlerTestSuite) TestGetSeatMap() {
	s.Run("sold and selected seats are layered onto the template", func() {
		s.SetupTest()
		s.expectLiveState([]string{"1-0"}, []string{"1-1"})

		w, r := s.seatMapRequest(http.MethodGet, "/bookings/Hall%20A/seats", map[string]string{"name": "Hall A"})
		s.app.GetSeatMap(w, r)

		require.Equal(s.T(), http.StatusOK, w.Code)

		var resp api.SeatMapResponse
		require.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))

		assert.Equal(s.T(), string(domain.StatusSold), resp.Layout.Grid[1][0].Status)
		assert.Equal(s.T(), string(domain.StatusSelected), resp.Layout.Grid[1][1].Status)
		assert.Equal(s.T(), string(domain.StatusAvailable), resp.Layout.Grid[2][2].Status)
		assert.Equal(s.T(), []string{"1-1"}, resp.SelectedSeats)
	})

	s.Run("stale selection members are dropped and evicted", func() {
		s.SetupTest()
		// one member points at a sold seat, the other at the screen
		s.expectLiveState([]string{"1-0"}, []string{"1-0", "0-0"})
		s.redisMock.On("SRem", mock.Anything, selectionKey("Hall A", ""), []any{"0-0", "1-0"}).
			Return(redis.NewIntResult(2, nil))

		w, r := s.seatMapRequest(http.MethodGet, "/bookings/Hall%20A/seats", map[string]string{"name": "Hall A"})
		s.app.GetSeatMap(w, r)

		require.Equal(s.T(), http.StatusOK, w.Code)

		var resp api.SeatMapResponse
		require.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))

		assert.Empty(s.T(), resp.SelectedSeats)
		assert.Equal(s.T(), string(domain.StatusSold), resp.Layout.Grid[1][0].Status)
		s.redisMock.AssertExpectations(s.T())
	})

	s.Run("unknown layout", func() {
		s.SetupTest()
		s.layoutRepo.GetFunc = func(ctx context.Context, name string) (*domain.HallLayout, error) {
			return nil, domain.ErrRecordNotFound
		}

		w, r := s.seatMapRequest(http.MethodGet, "/bookings/Nope/seats", map[string]string{"name": "Nope"})
		s.app.GetSeatMap(w, r)

		require.Equal(s.T(), http.StatusNotFound, w.Code)
	})
}

func (s *BookingHandlerTestSuite) TestToggleSeat() {
	selKey := selectionKey("Hall A", "")

	s.Run("selecting a free seat persists it with a TTL", func() {
		s.SetupTest()
		s.expectLiveState(nil, nil)
		s.redisMock.On("TxPipeline").Return(s.pipeMock)
		s.pipeMock.On("SAdd", mock.Anything, selKey, []any{"1-1"}).
			Return(redis.NewIntResult(1, nil))
		s.pipeMock.On("Expire", mock.Anything, selKey, selectionTTL).
			Return(redis.NewBoolResult(true, nil))
		s.pipeMock.On("Exec", mock.Anything).Return(nil, nil)

		w, r := s.seatMapRequest(http.MethodPost, "/bookings/Hall%20A/seats/1/1",
			map[string]string{"name": "Hall A", "row": "1", "col": "1"})
		s.app.ToggleSeat(w, r)

		require.Equal(s.T(), http.StatusOK, w.Code)

		var resp api.SeatMapResponse
		require.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))

		assert.Equal(s.T(), string(domain.StatusSelected), resp.Layout.Grid[1][1].Status)
		assert.Equal(s.T(), []string{"1-1"}, resp.SelectedSeats)
		s.pipeMock.AssertExpectations(s.T())
	})

	s.Run("toggling a selected seat releases it", func() {
		s.SetupTest()
		s.expectLiveState(nil, []string{"1-1"})
		s.redisMock.On("SRem", mock.Anything, selKey, []any{"1-1"}).
			Return(redis.NewIntResult(1, nil))

		w, r := s.seatMapRequest(http.MethodPost, "/bookings/Hall%20A/seats/1/1",
			map[string]string{"name": "Hall A", "row": "1", "col": "1"})
		s.app.ToggleSeat(w, r)

		require.Equal(s.T(), http.StatusOK, w.Code)

		var resp api.SeatMapResponse
		require.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))

		assert.Equal(s.T(), string(domain.StatusAvailable), resp.Layout.Grid[1][1].Status)
		assert.Empty(s.T(), resp.SelectedSeats)
		s.redisMock.AssertExpectations(s.T())
	})

	s.Run("sold seats are inert", func() {
		s.SetupTest()
		s.expectLiveState([]string{"1-1"}, nil)

		w, r := s.seatMapRequest(http.MethodPost, "/bookings/Hall%20A/seats/1/1",
			map[string]string{"name": "Hall A", "row": "1", "col": "1"})
		s.app.ToggleSeat(w, r)

		require.Equal(s.T(), http.StatusOK, w.Code)

		var resp api.SeatMapResponse
		require.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))

		assert.Equal(s.T(), string(domain.StatusSold), resp.Layout.Grid[1][1].Status)
		assert.Empty(s.T(), resp.SelectedSeats)
		s.redisMock.AssertNotCalled(s.T(), "TxPipeline")
	})

	s.Run("screen cells are inert", func() {
		s.SetupTest()
		s.expectLiveState(nil, nil)

		w, r := s.seatMapRequest(http.MethodPost, "/bookings/Hall%20A/seats/0/0",
			map[string]string{"name": "Hall A", "row": "0", "col": "0"})
		s.app.ToggleSeat(w, r)

		require.Equal(s.T(), http.StatusOK, w.Code)
		s.redisMock.AssertNotCalled(s.T(), "TxPipeline")
		s.redisMock.AssertNotCalled(s.T(), "SRem")
	})

	s.Run("out of range position is rejected", func() {
		s.SetupTest()
		s.expectLiveState(nil, nil)

		w, r := s.seatMapRequest(http.MethodPost, "/bookings/Hall%20A/seats/9/9",
			map[string]string{"name": "Hall A", "row": "9", "col": "9"})
		s.app.ToggleSeat(w, r)

		require.Equal(s.T(), http.StatusBadRequest, w.Code)
	})
}

func (s *BookingHandlerTestSuite) TestConfirmPurchase() {
	selKey := selectionKey("Hall A", "")

	s.Run("selected seats become sold and priced tickets are issued", func() {
		s.SetupTest()

		// make one of the selected seats premium
		upgraded, err := s.stored.ApplyTool(1, 1, domain.ToolSeat, domain.CategoryPremium)
		require.NoError(s.T(), err)
		s.stored = upgraded.Template()

		s.redisMock.On("SMembers", mock.Anything, soldSeatsKey("Hall A")).
			Return(redis.NewStringSliceResult(nil, nil)).Once()
		s.redisMock.On("SMembers", mock.Anything, selKey).
			Return(redis.NewStringSliceResult([]string{"1-0", "1-1"}, nil)).Once()
		s.redisMock.On("TxPipeline").Return(s.pipeMock)
		s.pipeMock.On("SAdd", mock.Anything, soldSeatsKey("Hall A"), []any{"1-0", "1-1"}).
			Return(redis.NewIntResult(2, nil))
		s.pipeMock.On("Del", mock.Anything, []string{selKey}).
			Return(redis.NewIntResult(1, nil))
		s.pipeMock.On("Exec", mock.Anything).Return(nil, nil)

		w, r := s.seatMapRequest(http.MethodPost, "/bookings/Hall%20A/purchase", map[string]string{"name": "Hall A"})
		s.app.ConfirmPurchase(w, r)

		require.Equal(s.T(), http.StatusOK, w.Code)

		var resp api.PurchaseResponse
		require.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))

		require.Len(s.T(), resp.Tickets, 2)
		assert.Equal(s.T(), "1-0", resp.Tickets[0].SeatId)
		assert.Equal(s.T(), "Hall A", resp.Tickets[0].HallName)
		assert.NotEmpty(s.T(), resp.Tickets[0].Id)
		assert.True(s.T(), resp.Tickets[0].Price.Equal(decimal.NewFromFloat(12.00)),
			"standard ticket price = %s", resp.Tickets[0].Price)
		assert.True(s.T(), resp.Tickets[1].Price.Equal(decimal.NewFromFloat(16.50)),
			"premium ticket price = %s", resp.Tickets[1].Price)
		assert.True(s.T(), resp.TotalPrice.Equal(decimal.NewFromFloat(28.50)),
			"total price = %s", resp.TotalPrice)

		s.pipeMock.AssertExpectations(s.T())

		// the sold set is the system of record: the next materialization
		// of the hall shows the purchased seats as sold, selection gone
		s.redisMock.On("SMembers", mock.Anything, soldSeatsKey("Hall A")).
			Return(redis.NewStringSliceResult([]string{"1-0", "1-1"}, nil)).Once()
		s.redisMock.On("SMembers", mock.Anything, selKey).
			Return(redis.NewStringSliceResult(nil, nil)).Once()

		w, r = s.seatMapRequest(http.MethodGet, "/bookings/Hall%20A/seats", map[string]string{"name": "Hall A"})
		s.app.GetSeatMap(w, r)

		require.Equal(s.T(), http.StatusOK, w.Code)

		var seatMap api.SeatMapResponse
		require.NoError(s.T(), json.NewDecoder(w.Body).Decode(&seatMap))

		assert.Equal(s.T(), string(domain.StatusSold), seatMap.Layout.Grid[1][0].Status)
		assert.Equal(s.T(), string(domain.StatusSold), seatMap.Layout.Grid[1][1].Status)
		assert.Empty(s.T(), seatMap.SelectedSeats)
	})

	s.Run("empty selection yields an empty purchase", func() {
		s.SetupTest()
		s.expectLiveState(nil, nil)
		s.redisMock.On("TxPipeline").Return(s.pipeMock)
		s.pipeMock.On("Del", mock.Anything, []string{selKey}).
			Return(redis.NewIntResult(0, nil))
		s.pipeMock.On("Exec", mock.Anything).Return(nil, nil)

		w, r := s.seatMapRequest(http.MethodPost, "/bookings/Hall%20A/purchase", map[string]string{"name": "Hall A"})
		s.app.ConfirmPurchase(w, r)

		require.Equal(s.T(), http.StatusOK, w.Code)

		var resp api.PurchaseResponse
		require.NoError(s.T(), json.NewDecoder(w.Body).Decode(&resp))

		assert.Empty(s.T(), resp.Tickets)
		assert.True(s.T(), resp.TotalPrice.IsZero())
		s.pipeMock.AssertNotCalled(s.T(), "SAdd", mock.Anything, mock.Anything, mock.Anything)
	})
}

func (s *BookingHandlerTestSuite) TestClearSelection() {
	s.redisMock.On("Del", mock.Anything, []string{selectionKey("Hall A", "")}).
		Return(redis.NewIntResult(1, nil))

	w, r := s.seatMapRequest(http.MethodDelete, "/bookings/Hall%20A/selection", map[string]string{"name": "Hall A"})
	s.app.ClearSelection(w, r)

	require.Equal(s.T(), http.StatusNoContent, w.Code)
	s.redisMock.AssertExpectations(s.T())
}
