package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parking-service/internal/http/middleware"
	"parking-service/internal/service"
)

type Handler struct {
	ticketService *service.TicketService
	log           zerolog.Logger
}

func NewHandler(ticketService *service.TicketService, log zerolog.Logger) *Handler {
	return &Handler{
		ticketService: ticketService,
		log:           log,
	}
}

func (h *Handler) listBrands(c *gin.Context) {
	brands, err := h.ticketService.ListBrands(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": brands}))
}

func (h *Handler) listTickets(c *gin.Context) {
	records, err := h.ticketService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": records}))
}

func (h *Handler) getTicket(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	record, err := h.ticketService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) getReceipt(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	receipt, err := h.ticketService.Receipt(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(receipt))
}

func (h *Handler) createTicket(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req service.TicketInput
	if err := c.ShouldBind(&req); err != nil {
		h.handleInputError(c, bindError(err), req)
		return
	}

	id, err := h.ticketService.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.handleInputError(c, err, req)
		return
	}

	h.log.Info().
		Str("ticket_id", id.String()).
		Str("user_id", principal.UserID.String()).
		Msg("ticket created")
	c.JSON(http.StatusCreated, successResponse(gin.H{"ticket_id": id}))
}

func (h *Handler) editTicket(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req service.TicketInput
	if err := c.ShouldBind(&req); err != nil {
		h.handleInputError(c, bindError(err), req)
		return
	}

	if err := h.ticketService.Edit(c.Request.Context(), principal, id, req); err != nil {
		h.handleInputError(c, err, req)
		return
	}

	h.log.Info().
		Str("ticket_id", id.String()).
		Str("user_id", principal.UserID.String()).
		Msg("ticket updated")
	c.JSON(http.StatusOK, successResponse(gin.H{"status": "updated"}))
}

func (h *Handler) confirmDeleteTicket(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := ticketID(c)
	if !ok {
		return
	}

	record, err := h.ticketService.ConfirmDelete(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) deleteTicket(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, ok := ticketID(c)
	if !ok {
		return
	}

	if err := h.ticketService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().
		Str("ticket_id", id.String()).
		Str("user_id", principal.UserID.String()).
		Msg("ticket deleted")
	c.JSON(http.StatusOK, successResponse(gin.H{"status": "deleted"}))
}

func (h *Handler) listClients(c *gin.Context) {
	clients, err := h.ticketService.ListClients(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": clients}))
}

func (h *Handler) getClient(c *gin.Context) {
	client, err := h.ticketService.GetClient(c.Request.Context(), c.Param("document"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(client))
}

// ticketID treats a malformed path id like a missing record.
func ticketID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse(service.ErrNotFound.Error()))
		return uuid.Nil, false
	}
	return id, true
}

// handleInputError sends rejected submissions back with the fields at fault
// and the values received, so they can be corrected and resubmitted.
func (h *Handler) handleInputError(c *gin.Context, err error, input service.TicketInput) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  service.ErrInvalidInput.Error(),
			"fields": verr.Fields,
			"input":  input,
		})
		return
	}
	h.handleError(c, err)
}

// bindError reports a body that could not be decoded into a TicketInput as
// a field error, keyed by the offending field when the decoder names it.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &service.ValidationError{Fields: map[string]string{
			typeErr.Field: "must be of type " + typeErr.Type.String(),
		}}
	}
	return &service.ValidationError{Fields: map[string]string{"body": err.Error()}}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(service.ErrPermissionDenied.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(service.ErrNotFound.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(service.ErrConflict.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
