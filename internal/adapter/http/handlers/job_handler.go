package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	request "fieldledger/internal/adapter/http/dto/request"
	response "fieldledger/internal/adapter/http/dto/response"
	"fieldledger/internal/domain/entities"
	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase"
	"fieldledger/pkg"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	usecase usecase.IJobUseCase
}

func NewJobHandler(uc usecase.IJobUseCase) *JobHandler {
	return &JobHandler{usecase: uc}
}

// CreateJob godoc
// @Summary      Create a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      request.JobRequest  true  "Job"
// @Success      201  {object}  response.JobResponse
// @Failure      400  {object}  pkg.HTTPError
// @Router       /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var payload request.JobRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	job, err := h.usecase.Create(c.Request.Context(), payload.ToInput())
	if err != nil {
		log.Printf("[job][handler] create failed err=%v", err)
		writeError(c, mapJobError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromJob(job))
}

// ListJobs godoc
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {array}   response.JobResponse
// @Router       /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	list, err := h.usecase.List(c.Request.Context(), entities.JobStatus(c.Query("status")))
	if err != nil {
		writeError(c, mapJobError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromJobs(list))
}

// GetJob godoc
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.JobResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapJobError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromJob(job))
}

// UpdateJobStatus godoc
// @Summary      Move a job through its lifecycle
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id      path      string                    true  "Job ID"
// @Param        status  body      request.JobStatusRequest  true  "Target status"
// @Success      200     {object}  response.JobResponse
// @Failure      409     {object}  pkg.HTTPError
// @Router       /jobs/{id}/status [patch]
func (h *JobHandler) UpdateJobStatus(c *gin.Context) {
	var payload request.JobStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	job, err := h.usecase.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		log.Printf("[job][handler] status update failed id=%s status=%s err=%v", c.Param("id"), payload.Status, err)
		writeError(c, mapJobError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromJob(job))
}

// ScheduleJob godoc
// @Summary      Schedule or reschedule a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id        path      string                      true  "Job ID"
// @Param        schedule  body      request.JobScheduleRequest  true  "Schedule"
// @Success      200       {object}  response.JobResponse
// @Router       /jobs/{id}/schedule [patch]
func (h *JobHandler) ScheduleJob(c *gin.Context) {
	var payload request.JobScheduleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	job, err := h.usecase.Schedule(c.Request.Context(), c.Param("id"), payload.ScheduledAt)
	if err != nil {
		writeError(c, mapJobError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromJob(job))
}

// ToggleChecklistItem godoc
// @Summary      Toggle a checklist item
// @Tags         jobs
// @Produce      json
// @Param        id     path      string  true  "Job ID"
// @Param        index  path      int     true  "Checklist index"
// @Success      200    {object}  response.JobResponse
// @Router       /jobs/{id}/checklist/{index} [patch]
func (h *JobHandler) ToggleChecklistItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	job, err := h.usecase.ToggleChecklistItem(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		writeError(c, mapJobError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromJob(job))
}

// InvoiceJob godoc
// @Summary      Invoice a completed job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      201  {object}  response.InvoiceResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /jobs/{id}/invoice [post]
func (h *JobHandler) InvoiceJob(c *gin.Context) {
	inv, err := h.usecase.ConvertToInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[job][handler] invoice failed id=%s err=%v", c.Param("id"), err)
		writeError(c, mapJobError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromInvoice(inv))
}

// BatchInvoiceJobs godoc
// @Summary      Invoice every completed job, one invoice per customer
// @Description  Customers whose group fails are listed in errors; the others are still invoiced.
// @Tags         jobs
// @Produce      json
// @Success      201  {object}  response.BatchInvoiceResponse
// @Router       /jobs/batch-invoice [post]
func (h *JobHandler) BatchInvoiceJobs(c *gin.Context) {
	invoices, err := h.usecase.BatchInvoice(c.Request.Context())
	res := response.BatchInvoiceResponse{Invoices: response.FromInvoices(invoices)}
	if err != nil {
		groupErrs := groupErrors(err)
		if len(groupErrs) == 0 {
			log.Printf("[job][handler] batch invoice failed err=%v", err)
			writeError(c, mapJobError(err))
			return
		}
		for _, ge := range groupErrs {
			res.Errors = append(res.Errors, ge.Error())
		}
		log.Printf("[job][handler] batch invoice partial issued=%d failed=%d", len(invoices), len(groupErrs))
	}
	c.JSON(http.StatusCreated, res)
}

// groupErrors unpacks the per-customer failures of a batch run.
func groupErrors(err error) []*ledger.GroupError {
	var out []*ledger.GroupError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, groupErrors(e)...)
		}
		return out
	}
	var ge *ledger.GroupError
	if errors.As(err, &ge) {
		out = append(out, ge)
	}
	return out
}

func mapJobError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidJobID), errors.Is(err, usecase.ErrInvalidJobInput),
		errors.Is(err, usecase.ErrInvalidJobPrice), errors.Is(err, usecase.ErrInvalidJobPriority),
		errors.Is(err, usecase.ErrInvalidSchedule):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrChecklistIndex):
		return pkg.NewDomainErrorSimple("CHECKLIST_INDEX_OUT_OF_RANGE", "Checklist item not found", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrJobNotFound):
		return pkg.NewDomainErrorSimple("JOB_NOT_FOUND", "Job not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrJobAlreadyInvoiced):
		return pkg.NewDomainErrorSimple("JOB_ALREADY_INVOICED", "Job already invoiced", http.StatusConflict)
	default:
		return ledgerOrInternal(err)
	}
}
