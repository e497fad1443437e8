package handlers

import (
	"errors"
	"log"
	"net/http"

	request "fieldledger/internal/adapter/http/dto/request"
	response "fieldledger/internal/adapter/http/dto/response"
	"fieldledger/internal/usecase"
	"fieldledger/pkg"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	usecase usecase.ILeadUseCase
}

func NewLeadHandler(uc usecase.ILeadUseCase) *LeadHandler {
	return &LeadHandler{usecase: uc}
}

// CreateLead godoc
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        lead  body      request.LeadRequest  true  "Lead"
// @Success      201   {object}  response.LeadResponse
// @Failure      400   {object}  pkg.HTTPError
// @Router       /leads [post]
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var payload request.LeadRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), payload.ToEntity())
	if err != nil {
		log.Printf("[lead][handler] create failed err=%v", err)
		writeError(c, mapLeadError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromLead(created))
}

// ListLeads godoc
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Success      200  {array}  response.LeadResponse
// @Router       /leads [get]
func (h *LeadHandler) ListLeads(c *gin.Context) {
	list, err := h.usecase.List(c.Request.Context())
	if err != nil {
		writeError(c, mapLeadError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromLeads(list))
}

// GetLead godoc
// @Summary      Get a lead
// @Tags         leads
// @Produce      json
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  response.LeadResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /leads/{id} [get]
func (h *LeadHandler) GetLead(c *gin.Context) {
	lead, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapLeadError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromLead(lead))
}

// UpdateLeadStatus godoc
// @Summary      Move a lead through its pipeline
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id      path      string                     true  "Lead ID"
// @Param        status  body      request.LeadStatusRequest  true  "Target status"
// @Success      200     {object}  response.LeadResponse
// @Failure      409     {object}  pkg.HTTPError
// @Router       /leads/{id}/status [patch]
func (h *LeadHandler) UpdateLeadStatus(c *gin.Context) {
	var payload request.LeadStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	lead, err := h.usecase.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		log.Printf("[lead][handler] status update failed id=%s status=%s err=%v", c.Param("id"), payload.Status, err)
		writeError(c, mapLeadError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromLead(lead))
}

// ConvertLead godoc
// @Summary      Convert a won lead into a customer
// @Tags         leads
// @Produce      json
// @Param        id   path      string  true  "Lead ID"
// @Success      201  {object}  response.CustomerResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /leads/{id}/convert [post]
func (h *LeadHandler) ConvertLead(c *gin.Context) {
	customer, err := h.usecase.ConvertToCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[lead][handler] convert failed id=%s err=%v", c.Param("id"), err)
		writeError(c, mapLeadError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromCustomer(customer))
}

func mapLeadError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidLeadID), errors.Is(err, usecase.ErrInvalidLeadName), errors.Is(err, usecase.ErrInvalidLeadValue):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrLeadNotFound):
		return pkg.NewDomainErrorSimple("LEAD_NOT_FOUND", "Lead not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrLeadAlreadyConverted):
		return pkg.NewDomainErrorSimple("LEAD_ALREADY_CONVERTED", "Lead already converted", http.StatusConflict)
	default:
		return ledgerOrInternal(err)
	}
}
