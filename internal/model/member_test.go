package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberFullName(t *testing.T) {
	tests := []struct {
		member   Member
		expected string
	}{
		{Member{FirstName: "Ana", LastName: "Novak"}, "Ana Novak"},
		{Member{FirstName: "Ana"}, "Ana"},
		{Member{LastName: "Novak"}, "Novak"},
		{Member{Email: "ana@example.com"}, "ana@example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.member.FullName())
	}
}

func TestMemberRequiredFieldsReadable(t *testing.T) {
	m := &Member{PersonalEmail: "p", Phone: "p", DNI: "p", Country: "p", City: "p", ZipCode: "p", Address: "p"}
	for _, f := range MemberRequiredFields {
		assert.NotEmpty(t, m.Field(f), "Field(%q)", f)
	}
	assert.Empty(t, m.Field("unknown"))
}

func TestSessionUserOffice(t *testing.T) {
	s := SessionUser{Tenant: "Acme", Country: "Slovenia", State: "LJ", Phone: "1"}
	o := s.Office()

	assert.Equal(t, LocationOffice, o.Location)
	assert.Equal(t, "Acme", o.Name)
	assert.Equal(t, "Slovenia", o.Country)
	assert.Equal(t, "LJ", o.Field("state"))
	assert.Equal(t, "1", o.Phone)
}

func TestValidProductStatus(t *testing.T) {
	for _, s := range []string{ProductStatusAvailable, ProductStatusDelivered, ProductStatusInTransit, ProductStatusDeprecated} {
		assert.True(t, ValidProductStatus(s), s)
	}
	assert.False(t, ValidProductStatus("Lost"))
	assert.False(t, ValidProductStatus(""))
}
