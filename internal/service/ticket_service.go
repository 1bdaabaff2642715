package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/model"
	"parking-service/internal/repository"
)

// TicketStore reports missing rows with gorm.ErrRecordNotFound and lost
// version races with repository.ErrStaleRecord.
type TicketStore interface {
	List(ctx context.Context) ([]model.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateWithClient(ctx context.Context, ticket *model.Ticket, client *model.Client) error
	Update(ctx context.Context, ticket *model.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type BrandStore interface {
	List(ctx context.Context) ([]model.Brand, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ClientStore interface {
	List(ctx context.Context) ([]model.Client, error)
	GetByDocumentNumber(ctx context.Context, documentNumber string) (*model.Client, error)
}

type TicketService struct {
	tickets  TicketStore
	brands   BrandStore
	clients  ClientStore
	validate *validator.Validate
	now      func() time.Time
}

func NewTicketService(tickets TicketStore, brands BrandStore, clients ClientStore) *TicketService {
	return &TicketService{
		tickets:  tickets,
		brands:   brands,
		clients:  clients,
		validate: newValidator(),
		now:      time.Now,
	}
}

// TicketInput holds a submission exactly as received. ID, Version and Date
// are only read on edit.
type TicketInput struct {
	ID                   string `json:"id" form:"id"`
	Version              int    `json:"version" form:"version"`
	ClientDocumentNumber string `json:"client_document_number" form:"clientDocumentNumber"`
	ClientName           string `json:"client_name" form:"clientName"`
	ClientEmail          string `json:"client_email" form:"clientEmail"`
	Patent               string `json:"patent" form:"patent"`
	VehicleModel         string `json:"vehicle_model" form:"vehicleModel"`
	VehicleBrand         string `json:"vehicle_brand" form:"vehicleBrand"`
	CheckIn              string `json:"check_in" form:"checkIn"`
	CheckOut             string `json:"check_out" form:"checkOut"`
	Street               string `json:"street" form:"street"`
	StreetHeight         string `json:"street_height" form:"streetHeight"`
	Date                 string `json:"date" form:"date"`
}

func (s *TicketService) List(ctx context.Context) ([]model.TicketRecord, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]model.TicketRecord, 0, len(tickets))
	for _, t := range tickets {
		records = append(records, model.NewTicketRecord(t))
	}
	return records, nil
}

func (s *TicketService) Get(ctx context.Context, id uuid.UUID) (*model.TicketRecord, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	record := model.NewTicketRecord(*ticket)
	return &record, nil
}

func (s *TicketService) Receipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	receipt := model.NewReceipt(*ticket)
	return &receipt, nil
}

// Create stores a new ticket together with the client it was issued to and
// returns the ticket id. Nothing is written when the input is rejected.
func (s *TicketService) Create(ctx context.Context, principal model.Principal, input TicketInput) (uuid.UUID, error) {
	if !principal.CanWriteTickets() {
		return uuid.Nil, ErrPermissionDenied
	}

	ticket, err := s.buildTicket(ctx, input, false)
	if err != nil {
		return uuid.Nil, err
	}

	ticket.ID = uuid.New()
	ticket.Date = s.now()
	ticket.Version = 1

	client := model.ClientFromTicket(ticket)
	if err := s.tickets.CreateWithClient(ctx, &ticket, &client); err != nil {
		return uuid.Nil, err
	}
	return ticket.ID, nil
}

// Edit overwrites the ticket identified by id with input. The version in
// input must match the stored one; a mismatch is reported as ErrConflict, or
// as ErrNotFound when the ticket no longer exists.
func (s *TicketService) Edit(ctx context.Context, principal model.Principal, id uuid.UUID, input TicketInput) error {
	if !principal.CanWriteTickets() {
		return ErrPermissionDenied
	}

	recordID, err := uuid.Parse(strings.TrimSpace(input.ID))
	if err != nil || recordID != id {
		return ErrNotFound
	}

	ticket, err := s.buildTicket(ctx, input, true)
	if err != nil {
		return err
	}
	ticket.ID = id
	ticket.Version = input.Version

	err = s.tickets.Update(ctx, &ticket)
	if errors.Is(err, repository.ErrStaleRecord) {
		exists, existsErr := s.tickets.Exists(ctx, id)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}
	return err
}

// ConfirmDelete is the read half of a delete: it returns the ticket that
// Delete would remove.
func (s *TicketService) ConfirmDelete(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.TicketRecord, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.Get(ctx, id)
}

func (s *TicketService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *TicketService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	return s.brands.List(ctx)
}

func (s *TicketService) ListClients(ctx context.Context) ([]model.Client, error) {
	return s.clients.List(ctx)
}

func (s *TicketService) GetClient(ctx context.Context, documentNumber string) (*model.Client, error) {
	documentNumber = strings.TrimSpace(documentNumber)
	if documentNumber == "" {
		return nil, ErrNotFound
	}
	client, err := s.clients.GetByDocumentNumber(ctx, documentNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *TicketService) buildTicket(ctx context.Context, input TicketInput, editing bool) (model.Ticket, error) {
	fields := ticketFields{
		ClientDocumentNumber: strings.TrimSpace(input.ClientDocumentNumber),
		ClientName:           strings.TrimSpace(input.ClientName),
		ClientEmail:          strings.TrimSpace(input.ClientEmail),
		Patent:               strings.ToUpper(strings.TrimSpace(input.Patent)),
		VehicleModel:         strings.TrimSpace(input.VehicleModel),
		VehicleBrand:         strings.TrimSpace(input.VehicleBrand),
		CheckIn:              strings.TrimSpace(input.CheckIn),
		CheckOut:             strings.TrimSpace(input.CheckOut),
		Street:               strings.TrimSpace(input.Street),
		StreetHeight:         strings.TrimSpace(input.StreetHeight),
	}

	verr := &ValidationError{}
	if err := validateFields(s.validate, fields, verr); err != nil {
		return model.Ticket{}, err
	}

	ticket := model.Ticket{
		ClientDocumentNumber: fields.ClientDocumentNumber,
		ClientName:           fields.ClientName,
		ClientEmail:          fields.ClientEmail,
		Patent:               fields.Patent,
		VehicleModel:         fields.VehicleModel,
		Street:               fields.Street,
		StreetHeight:         fields.StreetHeight,
	}

	if fields.CheckIn != "" {
		checkIn, err := model.ParseTimeOfDay(fields.CheckIn)
		if err != nil {
			verr.add("check_in", "must be a time of day")
		}
		ticket.CheckIn = checkIn
	}
	if fields.CheckOut != "" {
		checkOut, err := model.ParseTimeOfDay(fields.CheckOut)
		if err != nil {
			verr.add("check_out", "must be a time of day")
		}
		ticket.CheckOut = checkOut
	}

	if brandID, err := uuid.Parse(fields.VehicleBrand); err == nil {
		exists, err := s.brands.Exists(ctx, brandID)
		if err != nil {
			return model.Ticket{}, err
		}
		if !exists {
			verr.add("vehicle_brand", "unknown brand")
		}
		ticket.BrandID = brandID
	}

	if editing {
		if input.Version < 1 {
			verr.add("version", "is required")
		}
		if date := strings.TrimSpace(input.Date); date != "" {
			ts, err := time.Parse(time.RFC3339, date)
			if err != nil {
				verr.add("date", "must be an RFC3339 timestamp")
			}
			ticket.Date = ts
		}
	}

	if !verr.empty() {
		return model.Ticket{}, verr
	}
	return ticket, nil
}
