package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrInvalidPort         = errors.New("invalid PORT")
	ErrInvalidTaxRate      = errors.New("invalid DEFAULT_TAX_RATE")
	ErrInvalidDueDays      = errors.New("invalid INVOICE_DUE_DAYS")
	ErrInvalidValidityDays = errors.New("invalid ESTIMATE_VALID_DAYS")
)

// Tables holds the DynamoDB table name of every document type.
type Tables struct {
	Customers string
	Leads     string
	Estimates string
	Jobs      string
	Invoices  string
	Payments  string
	Sequences string
}

// Config is the runtime configuration of the API, read from the environment.
//
// Supported env vars:
//   - PORT (default: 8080)
//   - AWS_REGION (default: us-east-1), AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, DYNAMODB_ENDPOINT
//   - CUSTOMERS_TABLE, LEADS_TABLE, ESTIMATES_TABLE, JOBS_TABLE, INVOICES_TABLE, PAYMENTS_TABLE, SEQUENCES_TABLE
//   - MERCADOPAGO_ACCESS_TOKEN, PAYMENT_GATEWAY_MOCK / MERCADOPAGO_MOCK
//   - DEFAULT_TAX_RATE (default: 0), INVOICE_DUE_DAYS (default: 30), ESTIMATE_VALID_DAYS (default: 30)
type Config struct {
	Port int

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string
	Tables             Tables

	MercadoPagoAccessToken string
	PaymentGatewayMock     bool

	DefaultTaxRate    float64
	InvoiceDueDays    int
	EstimateValidDays int
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "local")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "local")
	v.SetDefault("DYNAMODB_ENDPOINT", "")
	v.SetDefault("CUSTOMERS_TABLE", "customers")
	v.SetDefault("LEADS_TABLE", "leads")
	v.SetDefault("ESTIMATES_TABLE", "estimates")
	v.SetDefault("JOBS_TABLE", "jobs")
	v.SetDefault("INVOICES_TABLE", "invoices")
	v.SetDefault("PAYMENTS_TABLE", "payments")
	v.SetDefault("SEQUENCES_TABLE", "document_sequences")
	v.SetDefault("MERCADOPAGO_ACCESS_TOKEN", "")
	v.SetDefault("PAYMENT_GATEWAY_MOCK", "")
	v.SetDefault("MERCADOPAGO_MOCK", "")
	v.SetDefault("DEFAULT_TAX_RATE", 0.0)
	v.SetDefault("INVOICE_DUE_DAYS", 30)
	v.SetDefault("ESTIMATE_VALID_DAYS", 30)

	cfg := Config{
		Port:               v.GetInt("PORT"),
		AWSRegion:          v.GetString("AWS_REGION"),
		AWSAccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
		DynamoDBEndpoint:   v.GetString("DYNAMODB_ENDPOINT"),
		Tables: Tables{
			Customers: v.GetString("CUSTOMERS_TABLE"),
			Leads:     v.GetString("LEADS_TABLE"),
			Estimates: v.GetString("ESTIMATES_TABLE"),
			Jobs:      v.GetString("JOBS_TABLE"),
			Invoices:  v.GetString("INVOICES_TABLE"),
			Payments:  v.GetString("PAYMENTS_TABLE"),
			Sequences: v.GetString("SEQUENCES_TABLE"),
		},
		MercadoPagoAccessToken: strings.TrimSpace(v.GetString("MERCADOPAGO_ACCESS_TOKEN")),
		PaymentGatewayMock:     truthy(v.GetString("PAYMENT_GATEWAY_MOCK")) || truthy(v.GetString("MERCADOPAGO_MOCK")),
		DefaultTaxRate:         v.GetFloat64("DEFAULT_TAX_RATE"),
		InvoiceDueDays:         v.GetInt("INVOICE_DUE_DAYS"),
		EstimateValidDays:      v.GetInt("ESTIMATE_VALID_DAYS"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if c.DefaultTaxRate < 0 || c.DefaultTaxRate > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidTaxRate, c.DefaultTaxRate)
	}
	if c.InvoiceDueDays < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDueDays, c.InvoiceDueDays)
	}
	if c.EstimateValidDays < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidValidityDays, c.EstimateValidDays)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}
