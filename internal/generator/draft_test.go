package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wnt/memeforge/internal/config"
)

func validDraft() Draft {
	return Draft{
		Name:        "Moon Doge",
		Symbol:      "mdoge",
		Description: "To the moon",
		TotalSupply: DefaultTotalSupply,
		Decimals:    DefaultDecimals,
	}
}

func TestDraftNormalize(t *testing.T) {
	d := Draft{Name: "  Moon Doge ", Symbol: " mdoge", Description: "desc  "}.Normalize()
	assert.Equal(t, "Moon Doge", d.Name)
	assert.Equal(t, "MDOGE", d.Symbol)
	assert.Equal(t, "desc", d.Description)
}

func TestDraftValidate(t *testing.T) {
	limits := config.DefaultLimits()

	tests := []struct {
		name   string
		mutate func(*Draft)
		field  string
	}{
		{"valid", func(*Draft) {}, ""},
		{"empty name", func(d *Draft) { d.Name = "" }, "name"},
		{"long name", func(d *Draft) { d.Name = strings.Repeat("a", 51) }, "name"},
		{"max name", func(d *Draft) { d.Name = strings.Repeat("a", 50) }, ""},
		{"empty symbol", func(d *Draft) { d.Symbol = "" }, "symbol"},
		{"long symbol", func(d *Draft) { d.Symbol = "ABCDEFGHIJK" }, "symbol"},
		{"empty description", func(d *Draft) { d.Description = "" }, "description"},
		{"long description", func(d *Draft) { d.Description = strings.Repeat("x", 501) }, "description"},
		{"supply too small", func(d *Draft) { d.TotalSupply = 999 }, "totalSupply"},
		{"supply minimum", func(d *Draft) { d.TotalSupply = 1000 }, ""},
		{"supply too large", func(d *Draft) { d.TotalSupply = 1_000_000_000_001 }, "totalSupply"},
		{"supply maximum", func(d *Draft) { d.TotalSupply = 1_000_000_000_000 }, ""},
		{"decimals 6", func(d *Draft) { d.Decimals = 6 }, ""},
		{"decimals 9", func(d *Draft) { d.Decimals = 9 }, ""},
		{"decimals 7", func(d *Draft) { d.Decimals = 7 }, "decimals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			err := d.Normalize().Validate(limits)

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDraftValidateCountsRunes(t *testing.T) {
	d := validDraft()
	d.Name = strings.Repeat("ö", 50)
	assert.NoError(t, d.Validate(config.DefaultLimits()))
}
