package timeperiod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsWellFormedExpressions(t *testing.T) {
	expressions := []string{
		"1-7,00:00-24:00",
		"1-5,09:00-18:00",
		"7,00:00-24:00",
		"1-5,09:00-18:00;6-7,10:00-16:00",
		"1-5,09:00-18:00;",
		"1,0:00-9:30",
	}

	for _, expr := range expressions {
		assert.NoError(t, Validate(expr), "expression %q", expr)
	}
}

func TestValidateRejectsMalformedExpressions(t *testing.T) {
	expressions := []string{
		"",
		"1-7",
		"00:00-24:00",
		"0-5,09:00-18:00",
		"1-8,09:00-18:00",
		"5-1,09:00-18:00",
		"1-5,18:00-09:00",
		"1-5,09:00-09:00",
		"1-5,09:00-24:01",
		"1-5,09:00-25:00",
		"1-5,09:60-18:00",
		"1-5,0900-1800",
		"1-2-3,09:00-18:00",
		"1-5,09:00-18:00;;",
		"1-5,09:00-18:00;bogus",
	}

	for _, expr := range expressions {
		assert.Error(t, Validate(expr), "expression %q", expr)
	}
}
