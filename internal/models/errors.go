package models

import "errors"

// Custom errors
var (
	ErrNoPredictableRows = errors.New("no predictable rows: zero prop lines survived matching")
	ErrNoHistoricalData  = errors.New("no historical data for entity")
	ErrEmptyTrainingSet  = errors.New("training set is empty after filtering")
	ErrSchemaMismatch    = errors.New("feature matrix does not match persisted schema")
	ErrMalformedInput    = errors.New("malformed source rows exceed configured threshold")
	ErrNotFound          = errors.New("record not found")
)
