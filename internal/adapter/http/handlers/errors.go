package handlers

import (
	"errors"
	"net/http"

	"fieldledger/internal/domain/ledger"
	"fieldledger/internal/usecase"
	"fieldledger/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
)

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// mapLedgerError covers the document rule errors shared by every resource.
// It returns nil when err is not one of them.
func mapLedgerError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, ledger.ErrInvalidLineItem):
		return pkg.NewDomainError("INVALID_LINE_ITEM", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, ledger.ErrInvalidTaxRate):
		return pkg.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1", err, http.StatusBadRequest)
	case errors.Is(err, ledger.ErrInvalidTransition):
		return pkg.NewDomainError("INVALID_TRANSITION", err.Error(), err, http.StatusConflict)
	case errors.Is(err, ledger.ErrInvalidSourceState):
		return pkg.NewDomainError("INVALID_SOURCE_STATE", err.Error(), err, http.StatusConflict)
	case errors.Is(err, ledger.ErrNumberOverflow):
		return pkg.NewDomainError("NUMBER_OVERFLOW", "Document numbers exhausted for this month", err, http.StatusInternalServerError)
	case errors.Is(err, usecase.ErrSequenceUnavailable):
		return pkg.NewDomainError("SEQUENCE_UNAVAILABLE", "Document number could not be allocated", err, http.StatusInternalServerError)
	}
	return nil
}

func internalError(err error) *pkg.AppError {
	return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
}

func ledgerOrInternal(err error) *pkg.AppError {
	if appErr := mapLedgerError(err); appErr != nil {
		return appErr
	}
	return internalError(err)
}
