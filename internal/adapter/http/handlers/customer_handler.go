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

type CustomerHandler struct {
	usecase usecase.ICustomerUseCase
}

func NewCustomerHandler(uc usecase.ICustomerUseCase) *CustomerHandler {
	return &CustomerHandler{usecase: uc}
}

// CreateCustomer godoc
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        customer  body      request.CustomerRequest  true  "Customer"
// @Success      201       {object}  response.CustomerResponse
// @Failure      400       {object}  pkg.HTTPError
// @Router       /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var payload request.CustomerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), payload.ToEntity())
	if err != nil {
		log.Printf("[customer][handler] create failed err=%v", err)
		writeError(c, mapCustomerError(err))
		return
	}

	c.JSON(http.StatusCreated, response.FromCustomer(created))
}

// ListCustomers godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Success      200  {array}   response.CustomerResponse
// @Router       /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	list, err := h.usecase.List(c.Request.Context())
	if err != nil {
		writeError(c, mapCustomerError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromCustomers(list))
}

// GetCustomer godoc
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.CustomerResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapCustomerError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromCustomer(customer))
}

func mapCustomerError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidCustomerID), errors.Is(err, usecase.ErrInvalidCustomerName):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrCustomerNotFound):
		return pkg.NewDomainErrorSimple("CUSTOMER_NOT_FOUND", "Customer not found", http.StatusNotFound)
	default:
		return ledgerOrInternal(err)
	}
}
