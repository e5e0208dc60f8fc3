package domain

import (
	"errors"
	"strings"
	"time"
)

// Customer is a visitor identified on a domain or company portal
type Customer struct {
	ID        string    `json:"id"`
	DomainID  string    `json:"domain_id,omitempty"`
	CompanyID string    `json:"company_id,omitempty"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerResponse is one intake question shown on the portal together with
// the customer's answer, if any
type CustomerResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answered string `json:"answered,omitempty"`
}

// Booking is an appointment slot reserved by a customer
type Booking struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	DomainID   string    `json:"domain_id,omitempty"`
	CompanyID  string    `json:"company_id,omitempty"`
	Email      string    `json:"email"`
	Date       time.Time `json:"date"`
	Slot       string    `json:"slot"`
	CreatedAt  time.Time `json:"created_at"`
}

// Booking validation errors
var (
	ErrBookingDateRequired = errors.New("booking date is required")
	ErrBookingDateInPast   = errors.New("booking date is in the past")
	ErrBookingSlotRequired = errors.New("booking slot is required")
	ErrBookingSlotInvalid  = errors.New("booking slot is not offered")
)

// AppointmentSlots are the times offered on the portal booking form
var AppointmentSlots = []string{
	"3:30pm", "4:00pm", "4:30pm", "5:00pm", "5:30pm",
	"6:00pm", "6:30pm", "7:00pm", "7:30pm", "8:00pm",
}

// BookingDateLayout is the wire format of booking dates
const BookingDateLayout = "2006-01-02"

// IsValidSlot reports whether slot is one of AppointmentSlots
func IsValidSlot(slot string) bool {
	for _, s := range AppointmentSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// ValidateBooking checks the date and slot of a new booking against today
func ValidateBooking(date time.Time, slot string, today time.Time) error {
	if date.IsZero() {
		return ErrBookingDateRequired
	}
	y, m, d := today.Date()
	if date.Before(time.Date(y, m, d, 0, 0, 0, 0, date.Location())) {
		return ErrBookingDateInPast
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return ErrBookingSlotRequired
	}
	if !IsValidSlot(slot) {
		return ErrBookingSlotInvalid
	}
	return nil
}
