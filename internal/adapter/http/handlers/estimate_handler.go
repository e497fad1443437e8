package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	request "fieldledger/internal/adapter/http/dto/request"
	response "fieldledger/internal/adapter/http/dto/response"
	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase"
	"fieldledger/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidEstimatePayload = pkg.NewDomainErrorSimple("INVALID_ESTIMATE_INPUT", "Invalid estimate payload", http.StatusBadRequest)
)

// EstimateHandler handles HTTP requests for estimates: drafting, repricing,
// the send/approve/decline/expire lifecycle and conversion into a job.
type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewEstimateHandler(uc usecase.IEstimateUseCase) *EstimateHandler {
	return &EstimateHandler{usecase: uc}
}

// CreateEstimate godoc
// @Summary      Draft an estimate
// @Description  Numbers the estimate EST-YYMM-NNNN and prices its line items.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        estimate  body      request.EstimateRequest  true  "Estimate"
// @Success      201       {object}  response.EstimateResponse
// @Failure      400       {object}  pkg.HTTPError
// @Router       /estimates [post]
func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	var payload request.EstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidEstimatePayload)
		return
	}

	estimate, err := h.usecase.Create(c.Request.Context(), payload.ToInput())
	if err != nil {
		log.Printf("[estimate][handler] create failed err=%v", err)
		writeError(c, mapEstimateError(err))
		return
	}

	c.JSON(http.StatusCreated, response.FromEstimate(estimate))
}

// ListEstimates godoc
// @Summary      List estimates
// @Tags         estimates
// @Produce      json
// @Success      200  {array}  response.EstimateResponse
// @Router       /estimates [get]
func (h *EstimateHandler) ListEstimates(c *gin.Context) {
	list, err := h.usecase.List(c.Request.Context())
	if err != nil {
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimates(list))
}

// GetEstimate godoc
// @Summary      Get an estimate
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Estimate ID"
// @Success      200  {object}  response.EstimateResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /estimates/{id} [get]
func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	estimate, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// UpdateEstimateItems godoc
// @Summary      Replace the line items of a draft estimate
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        id     path      string                    true  "Estimate ID"
// @Param        items  body      request.LineItemsRequest  true  "Line items"
// @Success      200    {object}  response.EstimateResponse
// @Failure      409    {object}  pkg.HTTPError
// @Router       /estimates/{id}/items [put]
func (h *EstimateHandler) UpdateEstimateItems(c *gin.Context) {
	var payload request.LineItemsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidEstimatePayload)
		return
	}

	estimate, err := h.usecase.UpdateLineItems(c.Request.Context(), c.Param("id"), payload.Items(), payload.TaxRate)
	if err != nil {
		log.Printf("[estimate][handler] update items failed id=%s err=%v", c.Param("id"), err)
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// SendEstimate godoc
// @Summary      Send a draft estimate
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Estimate ID"
// @Success      200  {object}  response.EstimateResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /estimates/{id}/send [patch]
func (h *EstimateHandler) SendEstimate(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.Send)
}

// @Router       /estimates/{id}/approve [patch]
func (h *EstimateHandler) ApproveEstimate(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.Approve)
}

// @Router       /estimates/{id}/decline [patch]
func (h *EstimateHandler) DeclineEstimate(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.Decline)
}

// @Router       /estimates/{id}/expire [patch]
func (h *EstimateHandler) ExpireEstimate(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.Expire)
}

func (h *EstimateHandler) patchEstimateStatus(
	c *gin.Context,
	updater func(ctx context.Context, id string) (entities.Estimate, error),
) {
	estimate, err := updater(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[estimate][handler] status change failed id=%s path=%s err=%v", c.Param("id"), c.FullPath(), err)
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// ConvertEstimate godoc
// @Summary      Convert an approved estimate into a job
// @Tags         estimates
// @Produce      json
// @Param        id   path      string  true  "Estimate ID"
// @Success      201  {object}  response.JobResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /estimates/{id}/convert [post]
func (h *EstimateHandler) ConvertEstimate(c *gin.Context) {
	job, err := h.usecase.ConvertToJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[estimate][handler] convert failed id=%s err=%v", c.Param("id"), err)
		writeError(c, mapEstimateError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromJob(job))
}

func mapEstimateError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidEstimateID), errors.Is(err, usecase.ErrInvalidEstimateOwner):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrEstimateLocked):
		return pkg.NewDomainErrorSimple("ESTIMATE_LOCKED", "Only draft estimates can be edited", http.StatusConflict)
	case errors.Is(err, usecase.ErrEstimateAlreadyConverted):
		return pkg.NewDomainErrorSimple("ESTIMATE_ALREADY_CONVERTED", "Estimate already converted to a job", http.StatusConflict)
	case errors.Is(err, usecase.ErrEstimateOwnerNotCustomer):
		return pkg.NewDomainErrorSimple("ESTIMATE_OWNER_NOT_CUSTOMER", "Convert the estimate's lead to a customer first", http.StatusConflict)
	default:
		return ledgerOrInternal(err)
	}
}
