package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepartmentFromDisplayName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "with department", in: "Somchai (Finance)", want: "Finance"},
		{name: "no parenthesis", in: "Somchai", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "empty department", in: "Somchai ()", want: ""},
		{name: "open paren last", in: "Somchai (", want: ""},
		{name: "nested takes first paren", in: "A (B (C))", want: "B (C)"},
		{name: "drops final rune without closing paren", in: "Dev (ITx", want: "IT"},
		{name: "multibyte", in: "สมชาย (การเงิน)", want: "การเงิน"},
		{name: "multibyte final rune", in: "Dev (IT)ฯ", want: "IT)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DepartmentFromDisplayName(tt.in))
		})
	}
}

func TestPlantFromEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bangkok", in: "user1bkk@company.com", want: "BkkP"},
		{name: "hemaraj", in: "dev1hmj@example.com", want: "HmjP"},
		{name: "no digit", in: "user@company.com", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "digit after at", in: "user@company1.com", want: ""},
		{name: "no at", in: "user1bkk", want: ""},
		{name: "digit right before at", in: "user1@company.com", want: ""},
		{name: "first digit wins", in: "a1b2c@x.com", want: "B2cP"},
		{name: "already upper", in: "x9RYG@x.com", want: "RYGP"},
		{name: "multibyte first rune", in: "x1éa@x.com", want: "ÉaP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlantFromEmail(tt.in))
		})
	}
}
