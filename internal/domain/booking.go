package domain

import (
	"encoding/json"
	"math"
	"time"
)

// ReservationStatus - возможность бронирования на дату
type ReservationStatus string

const (
	ReservationUnknown     ReservationStatus = "unknown"
	ReservationPossible    ReservationStatus = "possible"
	ReservationNotPossible ReservationStatus = "not_possible"
	ReservationNotOnline   ReservationStatus = "not_online"
)

// OccupancyStatus - уровень занятости
type OccupancyStatus string

const (
	OccupancyUnknown OccupancyStatus = "unknown"
	OccupancyEmpty   OccupancyStatus = "empty"
	OccupancyLow     OccupancyStatus = "low"
	OccupancyMedium  OccupancyStatus = "medium"
	OccupancyHigh    OccupancyStatus = "high"
	OccupancyFull    OccupancyStatus = "full"
)

// Value возвращает числовое значение статуса (-1 для unknown)
func (s OccupancyStatus) Value() int {
	switch s {
	case OccupancyEmpty:
		return 0
	case OccupancyLow:
		return 25
	case OccupancyMedium:
		return 50
	case OccupancyHigh:
		return 75
	case OccupancyFull:
		return 100
	}
	return -1
}

// Places - свободные и общие места
type Places struct {
	Free  int `json:"free" validate:"gte=0"`
	Total int `json:"total" validate:"gte=0"`
}

// OccupancyPercent - процент занятых мест, 100 если мест нет
func (p Places) OccupancyPercent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Total-p.Free) / float64(p.Total) * 100
}

// OccupancySteps - процент, округленный до десятков.
// Почти пустая хижина не показывается как 0, почти полная не показывается как 100.
func (p Places) OccupancySteps() int {
	percent := p.OccupancyPercent()
	switch {
	case percent > 0 && percent < 5:
		return 10
	case percent > 95 && percent < 100:
		return 90
	}
	return int(math.RoundToEven(percent/10) * 10)
}

// OccupancyStatus - статус занятости
func (p Places) OccupancyStatus() OccupancyStatus {
	if p.Total == 0 {
		return OccupancyUnknown
	}
	percent := p.OccupancyPercent()
	switch {
	case percent >= 100:
		return OccupancyFull
	case percent > 62:
		return OccupancyHigh
	case percent > 37:
		return OccupancyMedium
	case percent > 0:
		return OccupancyLow
	}
	return OccupancyEmpty
}

// MarshalJSON добавляет вычисляемые поля
func (p Places) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Free             int             `json:"free"`
		Total            int             `json:"total"`
		OccupancyPercent float64         `json:"occupancy_percent"`
		OccupancySteps   int             `json:"occupancy_steps"`
		OccupancyStatus  OccupancyStatus `json:"occupancy_status"`
	}{p.Free, p.Total, p.OccupancyPercent(), p.OccupancySteps(), p.OccupancyStatus()})
}

// Booking - бронирование хижины на одну дату
type Booking struct {
	Date              time.Time         `json:"date"`
	ReservationStatus ReservationStatus `json:"reservation_status" validate:"oneof=unknown possible not_possible not_online"`
	Unattended        bool              `json:"unattended"`
	Places            Places            `json:"places"`
	Link              string            `json:"link"`
}

// HutBookings - бронирования хижины начиная с даты
type HutBookings struct {
	SourceID  string    `json:"source_id" validate:"required"`
	StartDate time.Time `json:"start_date"`
	Days      int       `json:"days" validate:"gte=0"`
	Link      string    `json:"link"`
	Bookings  []Booking `json:"bookings" validate:"dive"`
}
