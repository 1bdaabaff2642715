package model

import (
	"time"

	"github.com/google/uuid"
)

type TicketRecord struct {
	Ticket
	BrandName string `json:"brand_name"`
}

func NewTicketRecord(t Ticket) TicketRecord {
	return TicketRecord{Ticket: t, BrandName: t.BrandName()}
}

type Receipt struct {
	TicketID      uuid.UUID `json:"ticket_id"`
	Date          time.Time `json:"date"`
	ClientName    string    `json:"client_name"`
	ClientEmail   string    `json:"client_email"`
	Patent        string    `json:"patent"`
	VehicleModel  string    `json:"vehicle_model"`
	BrandName     string    `json:"brand_name"`
	Street        string    `json:"street"`
	StreetHeight  string    `json:"street_height"`
	CheckIn       TimeOfDay `json:"check_in"`
	CheckOut      TimeOfDay `json:"check_out"`
	ParkedMinutes int       `json:"parked_minutes"`
}

func NewReceipt(t Ticket) Receipt {
	return Receipt{
		TicketID:      t.ID,
		Date:          t.Date,
		ClientName:    t.ClientName,
		ClientEmail:   t.ClientEmail,
		Patent:        t.Patent,
		VehicleModel:  t.VehicleModel,
		BrandName:     t.BrandName(),
		Street:        t.Street,
		StreetHeight:  t.StreetHeight,
		CheckIn:       t.CheckIn,
		CheckOut:      t.CheckOut,
		ParkedMinutes: int(t.CheckIn.Until(t.CheckOut) / time.Minute),
	}
}
