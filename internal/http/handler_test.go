package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-service/internal/auth"
	httphandler "parking-service/internal/http"
	"parking-service/internal/http/middleware"
	"parking-service/internal/model"
	"parking-service/internal/service"
	"parking-service/internal/service/servicetest"
)

var (
	fiat   = model.Brand{ID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Name: "Fiat"}
	secret = "test-secret"
)

type envelope struct {
	Data   json.RawMessage   `json:"data"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func setup(t *testing.T, parser *auth.Parser, health httphandler.HealthFunc) (*gin.Engine, *servicetest.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := servicetest.NewStore(fiat)
	svc := service.NewTicketService(store.Tickets(), store.Brands(), store.Clients())
	handler := httphandler.NewHandler(svc, zerolog.Nop())
	return httphandler.NewRouter(handler, middleware.Auth(parser), health, "test"), store
}

func do(router *gin.Engine, method, path string, body interface{}, header http.Header) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func createBody() map[string]interface{} {
	return map[string]interface{}{
		"client_document_number": "27444555",
		"client_name":            "Marta Diaz",
		"client_email":           "marta@example.com",
		"patent":                 "AA000BB",
		"vehicle_model":          "Palio",
		"vehicle_brand":          fiat.ID.String(),
		"check_in":               "10:00",
		"check_out":              "12:30",
		"street":                 "Rivadavia",
		"street_height":          "3100",
	}
}

func seed(store *servicetest.Store) model.Ticket {
	ticket := model.Ticket{
		ID:                   uuid.New(),
		ClientDocumentNumber: "27444555",
		ClientName:           "Marta Diaz",
		Patent:               "AA000BB",
		VehicleModel:         "Palio",
		BrandID:              fiat.ID,
		CheckIn:              model.NewTimeOfDay(10, 0, 0),
		CheckOut:             model.NewTimeOfDay(11, 0, 0),
		Date:                 time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Street:               "Rivadavia",
		StreetHeight:         "3100",
		Version:              1,
	}
	store.Put(ticket)
	return ticket
}

func TestCreateTicket(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		router, store := setup(t, nil, nil)

		rec, env := do(router, http.MethodPost, "/api/v1/tickets", createBody(), nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var data struct {
			TicketID uuid.UUID `json:"ticket_id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		stored, ok := store.Ticket(data.TicketID)
		require.True(t, ok)
		assert.Equal(t, model.NewTimeOfDay(12, 30, 0), stored.CheckOut)
		assert.Equal(t, 1, store.ClientCount())
	})

	t.Run("form body", func(t *testing.T) {
		router, store := setup(t, nil, nil)

		form := url.Values{
			"clientDocumentNumber": {"27444555"},
			"clientName":           {"Marta Diaz"},
			"patent":               {"AA000BB"},
			"vehicleModel":         {"Palio"},
			"vehicleBrand":         {fiat.ID.String()},
			"checkIn":              {"10:00"},
			"checkOut":             {"12:30"},
			"street":               {"Rivadavia"},
			"streetHeight":         {"3100"},
			"clientEmail":          {"marta@example.com"},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, store.Writes)
	})

	t.Run("invalid input is echoed back", func(t *testing.T) {
		router, store := setup(t, nil, nil)
		body := createBody()
		body["check_in"] = "soon"

		rec, env := do(router, http.MethodPost, "/api/v1/tickets", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Fields, "check_in")
		assert.Contains(t, rec.Body.String(), `"check_in":"soon"`)
		assert.Zero(t, store.Writes)
	})

	t.Run("undecodable field is echoed back", func(t *testing.T) {
		router, store := setup(t, nil, nil)
		body := createBody()
		body["street_height"] = 1200

		rec, env := do(router, http.MethodPost, "/api/v1/tickets", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Fields, "street_height")
		assert.Contains(t, rec.Body.String(), `"input":`)
		assert.Zero(t, store.Writes)
	})
}

func TestTicketReads(t *testing.T) {
	router, store := setup(t, nil, nil)
	ticket := seed(store)

	rec, env := do(router, http.MethodGet, "/api/v1/tickets", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []model.TicketRecord `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Fiat", list.Items[0].BrandName)

	rec, env = do(router, http.MethodGet, "/api/v1/tickets/"+ticket.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var record model.TicketRecord
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, ticket.ID, record.ID)
	assert.Equal(t, model.NewTimeOfDay(10, 0, 0), record.CheckIn)

	rec, env = do(router, http.MethodGet, "/api/v1/tickets/"+ticket.ID.String()+"/receipt", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var receipt model.Receipt
	require.NoError(t, json.Unmarshal(env.Data, &receipt))
	assert.Equal(t, 60, receipt.ParkedMinutes)

	rec, _ = do(router, http.MethodGet, "/api/v1/tickets/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(router, http.MethodGet, "/api/v1/tickets/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(router, http.MethodGet, "/api/v1/brands", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Fiat")
}

func TestEditTicket(t *testing.T) {
	t.Run("updates", func(t *testing.T) {
		router, store := setup(t, nil, nil)
		ticket := seed(store)
		body := createBody()
		body["id"] = ticket.ID.String()
		body["version"] = 1

		rec, _ := do(router, http.MethodPut, "/api/v1/tickets/"+ticket.ID.String(), body, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		stored, _ := store.Ticket(ticket.ID)
		assert.Equal(t, 2, stored.Version)
	})

	t.Run("id mismatch", func(t *testing.T) {
		router, store := setup(t, nil, nil)
		ticket := seed(store)
		body := createBody()
		body["id"] = uuid.NewString()
		body["version"] = 1

		rec, _ := do(router, http.MethodPut, "/api/v1/tickets/"+ticket.ID.String(), body, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Zero(t, store.Writes)
	})

	t.Run("stale version", func(t *testing.T) {
		router, store := setup(t, nil, nil)
		ticket := seed(store)
		body := createBody()
		body["id"] = ticket.ID.String()
		body["version"] = 7

		rec, _ := do(router, http.MethodPut, "/api/v1/tickets/"+ticket.ID.String(), body, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("non-integer version", func(t *testing.T) {
		router, store := setup(t, nil, nil)
		ticket := seed(store)
		body := createBody()
		body["id"] = ticket.ID.String()
		body["version"] = "abc"

		rec, env := do(router, http.MethodPut, "/api/v1/tickets/"+ticket.ID.String(), body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Fields, "version")
		assert.Zero(t, store.Writes)
	})
}

func TestDeleteTicket(t *testing.T) {
	router, store := setup(t, nil, nil)
	ticket := seed(store)
	path := "/api/v1/tickets/" + ticket.ID.String()

	rec, _ := do(router, http.MethodGet, path+"/delete", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(router, http.MethodDelete, path, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(router, http.MethodDelete, path, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(router, http.MethodGet, path+"/delete", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClients(t *testing.T) {
	router, _ := setup(t, nil, nil)

	rec, _ := do(router, http.MethodPost, "/api/v1/tickets", createBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(router, http.MethodGet, "/api/v1/clients/27444555", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var client model.Client
	require.NoError(t, json.Unmarshal(env.Data, &client))
	assert.Equal(t, "Marta Diaz", client.Name)

	rec, _ = do(router, http.MethodGet, "/api/v1/clients/00000000", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(router, http.MethodGet, "/api/v1/clients", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenGate(t *testing.T) {
	parser := auth.NewParser(secret)
	router, store := setup(t, parser, nil)
	ticket := seed(store)
	path := "/api/v1/tickets/" + ticket.ID.String()

	rec, _ := do(router, http.MethodGet, "/api/v1/tickets", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(router, http.MethodGet, "/api/v1/tickets", nil, http.Header{"Authorization": {"Token abc"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	attendantToken, err := parser.Issue(uuid.New(), model.UserRoleAttendant, time.Hour)
	require.NoError(t, err)
	attendant := http.Header{"Authorization": {"Bearer " + attendantToken}}

	rec, _ = do(router, http.MethodPost, "/api/v1/tickets", createBody(), attendant)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = do(router, http.MethodDelete, path, nil, attendant)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := parser.Issue(uuid.New(), model.UserRoleAdmin, time.Hour)
	require.NoError(t, err)
	rec, _ = do(router, http.MethodDelete, path, nil, http.Header{"Authorization": {"Bearer " + adminToken}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	router, _ := setup(t, nil, func(ctx context.Context) error { return nil })
	rec, _ := do(router, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	router, _ = setup(t, nil, func(ctx context.Context) error { return errors.New("db down") })
	rec, _ = do(router, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
