package booking

import (
	"time"

	"laborhub/internal/domain"
)

type Coordinates struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type CreateBookingRequest struct {
	CustomerID          int64        `json:"customerId"`
	LaborID             int64        `json:"laborId"`
	Service             string       `json:"service"`
	BookingDate         string       `json:"bookingDate"`
	BookingTime         string       `json:"bookingTime"`
	PaymentType         string       `json:"paymentType"`
	Hours               *float64     `json:"hours"`
	Days                *float64     `json:"days"`
	LocationAddress     string       `json:"locationAddress"`
	LocationCoordinates *Coordinates `json:"locationCoordinates"`
	Notes               string       `json:"notes"`
}

func (r CreateBookingRequest) toInput() CreateInput {
	in := CreateInput{
		CustomerID:      r.CustomerID,
		LaborID:         r.LaborID,
		Service:         r.Service,
		BookingDate:     r.BookingDate,
		BookingTime:     r.BookingTime,
		PaymentType:     r.PaymentType,
		Hours:           r.Hours,
		Days:            r.Days,
		LocationAddress: r.LocationAddress,
		Notes:           r.Notes,
	}
	if r.LocationCoordinates != nil {
		in.LocationLat = r.LocationCoordinates.Lat
		in.LocationLng = r.LocationCoordinates.Lng
	}
	return in
}

type UpdateStatusRequest struct {
	Status        string `json:"status"`
	DeclineReason string `json:"declineReason"`
}

type PartySummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type LaborSummary struct {
	PartySummary
	SkillCategory domain.SkillCategory `json:"skill_category"`
	PaymentType   domain.PaymentType   `json:"payment_type"`
	Rate          float64              `json:"rate"`
}

type PaymentSummary struct {
	ID            int64                `json:"id"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Status        domain.PaymentStatus `json:"status"`
	TotalAmount   float64              `json:"total_amount"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
}

type BookingResponse struct {
	ID              int64                `json:"id"`
	CustomerID      int64                `json:"customer_id"`
	LaborID         int64                `json:"labor_id"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   string               `json:"customer_phone"`
	Service         domain.SkillCategory `json:"service"`
	BookingDate     string               `json:"booking_date"`
	BookingTime     string               `json:"booking_time"`
	ScheduledAt     time.Time            `json:"scheduled_at"`
	LocationAddress string               `json:"location_address,omitempty"`
	Location        *Coordinates         `json:"location_coordinates,omitempty"`
	PaymentType     domain.PaymentType   `json:"payment_type"`
	Hours           float64              `json:"hours,omitempty"`
	Days            float64              `json:"days,omitempty"`
	LaborRate       float64              `json:"labor_rate"`
	ServiceCharge   float64              `json:"service_charge"`
	TotalAmount     float64              `json:"total_amount"`
	Status          domain.BookingStatus `json:"status"`
	DeclineReason   string               `json:"decline_reason,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	Labor           *LaborSummary        `json:"labor,omitempty"`
	Customer        *PartySummary        `json:"customer,omitempty"`
	Payment         *PaymentSummary      `json:"payment,omitempty"`
}

func ToResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		LaborID:         b.LaborID,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		Service:         b.Service,
		BookingDate:     b.BookingDate,
		BookingTime:     b.BookingTime,
		ScheduledAt:     b.ScheduledAt,
		LocationAddress: b.LocationAddress,
		PaymentType:     b.PaymentType,
		Hours:           b.Hours,
		Days:            b.Days,
		LaborRate:       b.LaborRate,
		ServiceCharge:   b.ServiceCharge,
		TotalAmount:     b.TotalAmount,
		Status:          b.Status,
		DeclineReason:   b.DeclineReason,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
	}
	if b.LocationLat != nil || b.LocationLng != nil {
		resp.Location = &Coordinates{Lat: b.LocationLat, Lng: b.LocationLng}
	}
	if l := b.Labor; l != nil {
		resp.Labor = &LaborSummary{
			PartySummary:  PartySummary{ID: l.ID, Name: l.Name, Phone: l.Phone},
			SkillCategory: l.SkillCategory,
			PaymentType:   l.PaymentType,
			Rate:          l.Rate,
		}
	}
	if c := b.Customer; c != nil {
		resp.Customer = &PartySummary{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
	}
	if p := b.Payment; p != nil {
		resp.Payment = &PaymentSummary{
			ID:            p.ID,
			PaymentMethod: p.PaymentMethod,
			Status:        p.Status,
			TotalAmount:   p.TotalAmount,
			PaidAt:        p.PaidAt,
		}
	}
	return resp
}

func toResponses(list []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, ToResponse(&list[i]))
	}
	return out
}
