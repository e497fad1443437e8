package pkg

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("dynamodb timeout")
	e := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, http.StatusInternalServerError)

	assert.Equal(t, "INTERNAL_ERROR: An internal error occurred: dynamodb timeout", e.Error())
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, HTTPError{Code: "INTERNAL_ERROR", Message: "An internal error occurred"}, e.ToHTTPError())

	simple := NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	assert.Equal(t, "INVOICE_NOT_FOUND: Invoice not found", simple.Error())
	assert.Equal(t, http.StatusNotFound, simple.HTTPStatus)
	assert.Nil(t, simple.Unwrap())
}
