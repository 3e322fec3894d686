package response

import (
	"time"

	"smart-parking/internal/usecase/commands"
	"smart-parking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CreateBookingResponse struct {
	ID        uuid.UUID `json:"id"`
	Reference string    `json:"bookingReference"`
}

type BookingResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Reference          string     `json:"bookingReference"`
	UserID             uuid.UUID  `json:"userId"`
	VehicleID          uuid.UUID  `json:"vehicleId"`
	LicensePlate       string     `json:"licensePlate"`
	VehicleType        string     `json:"vehicleType"`
	SlotID             uuid.UUID  `json:"slotId"`
	SlotNumber         string     `json:"slotNumber"`
	PlaceID            uuid.UUID  `json:"placeId"`
	PlaceName          string     `json:"placeName"`
	PlaceAddress       string     `json:"placeAddress"`
	PromoCodeID        *uuid.UUID `json:"promoCodeId,omitempty"`
	ScheduledEntry     time.Time  `json:"scheduledEntry"`
	ScheduledExit      time.Time  `json:"scheduledExit"`
	ActualEntry        *time.Time `json:"actualEntry,omitempty"`
	ActualExit         *time.Time `json:"actualExit,omitempty"`
	Status             string     `json:"status"`
	EstimatedPrice     int64      `json:"estimatedPrice"`
	FinalPrice         *int64     `json:"finalPrice,omitempty"`
	QRCode             *string    `json:"qrCode,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type BookingListItemResponse struct {
	ID             uuid.UUID `json:"id"`
	Reference      string    `json:"bookingReference"`
	SlotNumber     string    `json:"slotNumber"`
	PlaceName      string    `json:"placeName"`
	LicensePlate   string    `json:"licensePlate"`
	Status         string    `json:"status"`
	ScheduledEntry time.Time `json:"scheduledEntry"`
	ScheduledExit  time.Time `json:"scheduledExit"`
	EstimatedPrice int64     `json:"estimatedPrice"`
	CreatedAt      time.Time `json:"createdAt"`
}

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor string                     `json:"nextCursor,omitempty"`
}

type QuoteResponse struct {
	EstimatedPrice int64      `json:"estimatedPrice"`
	BasePrice      int64      `json:"basePrice"`
	Discount       int64      `json:"discount"`
	DurationHours  int64      `json:"durationHours"`
	PlanID         uuid.UUID  `json:"planId"`
	RateID         uuid.UUID  `json:"rateId"`
	DayCategory    string     `json:"dayCategory"`
	PromoCodeID    *uuid.UUID `json:"promoCodeId,omitempty"`
}

type ExpireResponse struct {
	Expired int `json:"expired"`
}

func FromAdmitResult(r *commands.AdmitBookingResult) *CreateBookingResponse {
	return &CreateBookingResponse{ID: r.ID, Reference: r.Reference}
}

// Field names mirror the read models, so copier maps them one to one.
func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var resp BookingResponse
	if err := copier.Copy(&resp, v); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromBookingPage(p *queries.BookingPage) (*BookingListResponse, error) {
	resp := &BookingListResponse{Items: make([]*BookingListItemResponse, 0, len(p.Items))}
	if err := copier.Copy(&resp.Items, p.Items); err != nil {
		return nil, err
	}
	if p.Next != nil {
		resp.NextCursor = p.Next.After
	}
	return resp, nil
}

func FromQuoteView(v *queries.QuoteView) (*QuoteResponse, error) {
	var resp QuoteResponse
	if err := copier.Copy(&resp, v); err != nil {
		return nil, err
	}
	return &resp, nil
}
