package generator

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/wnt/memeforge/internal/config"
)

// AllowedDecimals are the decimal precisions offered by the generator form
var AllowedDecimals = []int{6, 8, 9}

// Form defaults
const (
	DefaultTotalSupply int64 = 1_000_000
	DefaultDecimals          = 8
)

// Draft is the user's coin form before generation
type Draft struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	TotalSupply int64  `json:"totalSupply"`
	Decimals    int    `json:"decimals"`
}

// ValidationError reports a single invalid form field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Normalize trims the text fields and upper-cases the symbol
func (d Draft) Normalize() Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.Symbol = strings.ToUpper(strings.TrimSpace(d.Symbol))
	d.Description = strings.TrimSpace(d.Description)
	return d
}

// Validate checks every field against limits and returns the first violation
func (d Draft) Validate(limits config.Limits) error {
	if err := checkLength("name", d.Name, limits.MinNameLength, limits.MaxNameLength); err != nil {
		return err
	}
	if err := checkLength("symbol", d.Symbol, limits.MinSymbolLength, limits.MaxSymbolLength); err != nil {
		return err
	}
	if err := checkLength("description", d.Description, limits.MinDescriptionLength, limits.MaxDescriptionLength); err != nil {
		return err
	}
	if d.TotalSupply < limits.MinTotalSupply || d.TotalSupply > limits.MaxTotalSupply {
		return &ValidationError{
			Field:   "totalSupply",
			Message: fmt.Sprintf("must be between %d and %d", limits.MinTotalSupply, limits.MaxTotalSupply),
		}
	}
	if !slices.Contains(AllowedDecimals, d.Decimals) {
		return &ValidationError{
			Field:   "decimals",
			Message: fmt.Sprintf("must be one of %v", AllowedDecimals),
		}
	}
	return nil
}

func checkLength(field, value string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if n < minLen || n > maxLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d characters", minLen, maxLen)}
	}
	return nil
}
