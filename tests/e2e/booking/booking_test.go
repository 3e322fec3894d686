//go:build e2e

package booking_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"smart-parking/internal/domain/auth"
	"smart-parking/internal/domain/promo"
	"smart-parking/internal/handler/dto/response"
	"smart-parking/tests/common/authtest"
	"smart-parking/tests/common/builder"
	"smart-parking/tests/common/dbtest"
	"smart-parking/tests/common/httptest"
	"smart-parking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL = "/api/bookings"
	quoteURL    = "/api/bookings/quote"
	expireURL   = "/api/admin/bookings/expire"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) seed() (*builder.ParkingFixture, string) {
	t := s.T()
	f := builder.NewParkingFixture()
	dbtest.SeedParking(t, s.DB, f)
	token := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, f.UserID, auth.RoleUser)
	return f, token
}

func (s *BookingSuite) slotReserved(slotID uuid.UUID) bool {
	var reserved bool
	err := s.DB.QueryRow(context.Background(), "SELECT is_reserved FROM parking_slots WHERE id = $1", slotID).Scan(&reserved)
	require.NoError(s.T(), err)
	return reserved
}

func (s *BookingSuite) count(query string, args ...any) int {
	var n int
	err := s.DB.QueryRow(context.Background(), query, args...).Scan(&n)
	require.NoError(s.T(), err)
	return n
}

func (s *BookingSuite) TestHealth() {
	s.Run("Normal case: health endpoint answers without a token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/health", nil, "")
		require.Equal(s.T(), http.StatusOK, w.Code)
	})
}

// =============================================================================
// TestAdmitBooking - booking admission API tests
// =============================================================================

func (s *BookingSuite) TestAdmitBooking() {
	s.Run("Normal case: booking is admitted and the slot is held", func() {
		t := s.T()
		f, token := s.seed()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, f.Request(2*time.Hour+30*time.Minute), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		httptest.AssertHeaders(t, w, map[string]string{"Content-Type": "application/json; charset=utf-8"})

		var created response.CreateBookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Regexp(t, `^SPB-[0-9A-F]{8}$`, created.Reference)

		dw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+created.ID.String(), nil, token)
		require.Equal(t, http.StatusOK, dw.Code)

		var actual response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, dw.Body, &actual))

		expected := response.BookingResponse{
			ID:             created.ID,
			Reference:      created.Reference,
			UserID:         f.UserID,
			VehicleID:      f.Vehicle.ID,
			LicensePlate:   f.Vehicle.LicensePlate,
			VehicleType:    f.Vehicle.VehicleType,
			SlotID:         f.Slot.ID,
			SlotNumber:     f.Slot.Number,
			PlaceID:        f.PlaceID,
			PlaceName:      "Central Mall",
			PlaceAddress:   "Jl. Sudirman 1",
			ScheduledEntry: f.Entry,
			ScheduledExit:  f.Entry.Add(2*time.Hour + 30*time.Minute),
			Status:         "pending",
			EstimatedPrice: 9000,
		}
		opts := cmp.Options{
			cmpopts.IgnoreFields(response.BookingResponse{}, "QRCode", "CreatedAt", "UpdatedAt"),
			cmpopts.EquateApproxTime(time.Second),
		}
		if diff := cmp.Diff(expected, actual, opts); diff != "" {
			t.Errorf("booking mismatch (-want +got):\n%s", diff)
		}
		require.NotNil(t, actual.QRCode)

		require.True(t, s.slotReserved(f.Slot.ID))
		require.Equal(t, 1, s.count("SELECT count(*) FROM slot_availability WHERE booking_id = $1", created.ID))
		require.Equal(t, 1, s.count("SELECT count(*) FROM booking_status_logs WHERE booking_id = $1", created.ID))
		require.Equal(t, 1, s.count("SELECT count(*) FROM notification_jobs WHERE kind = 'booking.created'"))
	})

	s.Run("Error case: second booking for a held slot is a conflict", func() {
		t := s.T()
		f, token := s.seed()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, f.Request(time.Hour), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		req := f.Request(time.Hour)
		req.ScheduledEntry = req.ScheduledEntry.Add(24 * time.Hour)
		req.ScheduledExit = req.ScheduledExit.Add(24 * time.Hour)
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "already reserved")
	})

	s.Run("Concurrency: simultaneous requests for one slot admit exactly one", func() {
		t := s.T()
		f, token := s.seed()

		const n = 4
		codes := make([]int, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, f.Request(time.Hour), token)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		created := 0
		for _, c := range codes {
			if c == http.StatusCreated {
				created++
				continue
			}
			require.Equal(t, http.StatusConflict, c)
		}
		require.Equal(t, 1, created)
		require.Equal(t, 1, s.count("SELECT count(*) FROM bookings WHERE slot_id = $1", f.Slot.ID))
	})

	s.Run("Concurrency: a promo with one use left discounts exactly one booking", func() {
		t := s.T()
		limit := 1
		code := promo.PromoCode{
			ID:                 uuid.New(),
			DiscountType:       promo.DiscountFixed,
			DiscountHundredths: 100000,
			UsageLimit:         &limit,
			IsActive:           true,
		}
		dbtest.SeedPromo(t, s.DB, code)

		const n = 4
		codes := make([]int, n)
		var wg sync.WaitGroup
		for i := range n {
			f, token := s.seed()
			req := f.Request(time.Hour)
			req.PromoCodeID = &code.ID
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, token)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		for _, c := range codes {
			require.Equal(t, http.StatusCreated, c)
		}
		require.Equal(t, 1, s.count("SELECT count(*) FROM bookings WHERE promo_code_id = $1", code.ID))
		require.Equal(t, 1, s.count("SELECT usage_count FROM promo_codes WHERE id = $1", code.ID))
		require.Equal(t, 1, s.count("SELECT count(*) FROM bookings WHERE estimated_price = 4000"))
	})

	s.Run("Error case: vehicle of another user", func() {
		t := s.T()
		f, _ := s.seed()
		other := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, uuid.New(), auth.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, f.Request(time.Hour), other)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "vehicle not found")
		require.False(t, s.slotReserved(f.Slot.ID))
	})

	s.Run("Error case: expired token", func() {
		t := s.T()
		f, _ := s.seed()
		expired := authtest.NewJWTHelper(s.Config.JWT).CreateExpiredToken(t, f.UserID, auth.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, f.Request(time.Hour), expired)
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired token")
	})
}

// =============================================================================
// TestQuote - price quote API tests
// =============================================================================

func (s *BookingSuite) TestQuote() {
	s.Run("Normal case: quote does not hold the slot", func() {
		t := s.T()
		f, token := s.seed()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, f.Request(7*time.Hour), token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var quote response.QuoteResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &quote))
		// 5000 + 6 * 2000, no day rate configured
		require.Equal(t, int64(17000), quote.EstimatedPrice)
		require.Equal(t, int64(7), quote.DurationHours)
		require.Equal(t, f.Plan.ID, quote.PlanID)

		require.False(t, s.slotReserved(f.Slot.ID))
		require.Zero(t, s.count("SELECT count(*) FROM bookings"))
	})
}

// =============================================================================
// TestCancelBooking - cancellation API tests
// =============================================================================

func (s *BookingSuite) TestCancelBooking() {
	s.Run("Normal case: cancellation releases the slot", func() {
		t := s.T()
		f, token := s.seed()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, f.Request(time.Hour), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.CreateBookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		cw := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+created.ID.String()+"/cancel",
			map[string]string{"reason": "change of plans"}, token)
		require.Equal(t, http.StatusOK, cw.Code, cw.Body.String())

		var cancelled response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, cw.Body, &cancelled))
		require.Equal(t, "cancelled", cancelled.Status)
		require.NotNil(t, cancelled.CancellationReason)
		require.Equal(t, "change of plans", *cancelled.CancellationReason)

		require.False(t, s.slotReserved(f.Slot.ID))
		require.Zero(t, s.count("SELECT count(*) FROM slot_availability WHERE booking_id = $1", created.ID))
		require.Equal(t, 2, s.count("SELECT count(*) FROM booking_status_logs WHERE booking_id = $1", created.ID))

		again := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+created.ID.String()+"/cancel", nil, token)
		httptest.AssertErrorResponse(t, again, http.StatusConflict, "invalid status transition")
	})
}

// =============================================================================
// TestExpireStale - admin expiry API tests
// =============================================================================

func (s *BookingSuite) TestExpireStale() {
	s.Run("Normal case: stale pending bookings are expired", func() {
		t := s.T()
		f, token := s.seed()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, f.Request(time.Hour), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.CreateBookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		_, err := s.DB.Exec(context.Background(),
			"UPDATE bookings SET created_at = created_at - interval '1 hour' WHERE id = $1", created.ID)
		require.NoError(t, err)

		forbidden := httptest.PerformRequest(t, s.Router, http.MethodPost, expireURL, nil, token)
		httptest.AssertErrorResponse(t, forbidden, http.StatusForbidden, "Insufficient permissions")

		adminToken := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, uuid.New(), auth.RoleAdmin)
		ew := httptest.PerformRequest(t, s.Router, http.MethodPost, expireURL, nil, adminToken)
		require.Equal(t, http.StatusOK, ew.Code, ew.Body.String())

		var res response.ExpireResponse
		require.NoError(t, httptest.DecodeResponseBody(t, ew.Body, &res))
		require.Equal(t, 1, res.Expired)
		require.False(t, s.slotReserved(f.Slot.ID))
	})
}
