package handler

import (
	"net/http"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ContactHandler handles contact, ledger and settlement HTTP requests
type ContactHandler struct {
	contactService    *service.ContactService
	settlementService *service.SettlementService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *service.ContactService, settlementService *service.SettlementService) *ContactHandler {
	return &ContactHandler{
		contactService:    contactService,
		settlementService: settlementService,
	}
}

// CreateContactRequest represents the create contact request body
type CreateContactRequest struct {
	Name  string  `json:"name" validate:"notblank,max=255"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// UpdateContactRequest represents the update contact request body. An empty
// phone clears it.
type UpdateContactRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// GetContacts godoc
// @Summary List contacts with their balances
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} finance.ContactSummaries
// @Router /contacts [get]
func (h *ContactHandler) GetContacts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.contactService.GetContacts())
}

// CreateContact godoc
// @Summary Create a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateContactRequest true "Contact"
// @Success 201 {object} domain.Contact
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /contacts [post]
func (h *ContactHandler) CreateContact(c echo.Context) error {
	var req CreateContactRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	contact, err := h.contactService.CreateContact(c.Request().Context(), &domain.ContactDraft{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, contact)
}

// UpdateContact godoc
// @Summary Rename a contact or change its phone
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Param request body UpdateContactRequest true "Changes"
// @Success 200 {object} domain.Contact
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /contacts/{id} [put]
func (h *ContactHandler) UpdateContact(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid contact ID", nil)
	}

	var req UpdateContactRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if req.Name == nil && req.Phone == nil {
		return NewValidationError(c, "Nothing to update", nil)
	}

	contact, err := h.contactService.UpdateContact(c.Request().Context(), id, &domain.ContactPatch{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, contact)
}

// DeleteContact godoc
// @Summary Delete a contact that no transaction references
// @Tags contacts
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid contact ID", nil)
	}
	if err := h.contactService.DeleteContact(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLedger godoc
// @Summary Get a contact's balance and history since the last settlement
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} finance.ContactLedger
// @Failure 404 {object} ProblemDetails
// @Router /contacts/{id}/ledger [get]
func (h *ContactHandler) GetLedger(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid contact ID", nil)
	}
	ledger, err := h.contactService.GetLedger(id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ledger)
}

// GetStatement godoc
// @Summary Get a contact's shareable statement
// @Tags contacts
// @Produce plain
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {string} string
// @Failure 404 {object} ProblemDetails
// @Router /contacts/{id}/statement [get]
func (h *ContactHandler) GetStatement(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid contact ID", nil)
	}
	statement, err := h.contactService.GetStatement(id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.String(http.StatusOK, statement)
}

// SettleContact godoc
// @Summary Record the transaction that brings a contact's balance to zero
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 201 {object} service.SettlementResult
// @Success 200 {object} service.SettlementResult "Already settled"
// @Failure 404 {object} ProblemDetails
// @Router /contacts/{id}/settle [post]
func (h *ContactHandler) SettleContact(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid contact ID", nil)
	}
	result, err := h.settlementService.Settle(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}
	if result.NoOp {
		return c.JSON(http.StatusOK, result)
	}
	return c.JSON(http.StatusCreated, result)
}
