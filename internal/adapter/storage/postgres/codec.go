package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// NUMERIC columns are written as decimal strings and selected back with a
// ::text cast, so no custom pgx type registration is needed.

func nullDecimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDecimal(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s: %w", column, err)
	}
	return d, nil
}

func parseNullDecimal(column string, s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := parseDecimal(column, *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func jsonArg(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return b, nil
}
