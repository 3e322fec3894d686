//go:build unit

package httperr_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/handler/httperr"
	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/errs"
	commonhttptest "smart-parking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		hidden     string
	}{
		{
			name:       "domain sentinel keeps its message",
			err:        errs.Wrap(booking.ErrBookingNotFound, "load booking"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "booking not found",
			hidden:     "load booking",
		},
		{
			name:       "unmapped repository not found hides its kind prefix",
			err:        infra.NotFound("booking not found"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "not found",
			hidden:     "NOT_FOUND",
		},
		{
			name: "repository conflict hides driver text",
			err: infra.WrapRepoErr("failed to insert booking",
				&pgconn.PgError{Code: pgerrcode.UniqueViolation, Message: "duplicate key value violates unique constraint \"bookings_reference_key\""}),
			wantStatus: http.StatusConflict,
			wantMsg:    "conflict",
			hidden:     "bookings_reference_key",
		},
		{
			name:       "internal failure",
			err:        errs.New("connection reset by peer"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
			hidden:     "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			httperr.Abort(c, tt.err)

			commonhttptest.AssertErrorResponse(t, w, tt.wantStatus, tt.wantMsg)
			assert.NotContains(t, w.Body.String(), tt.hidden)
			assert.True(t, c.IsAborted())
		})
	}
}
