package model

import "time"

const DefaultTimeout = 500 * time.Millisecond
const DefaultShutdownTimeout = 5 * time.Second

const HeaderContentType = "Content-Type"

// CreditValueUSD is the fixed exchange rate of one credit to the display currency.
const CreditValueUSD = 10

// SystemCounterparty is shown on transactions issued by the platform itself.
const SystemCounterparty = "Sistema EISC"

type ContextKey string

const (
	KeyContextLogger ContextKey = "logger"
	KeyContextUserID ContextKey = "user_id"
)

const KeyLoggerError = "error"
