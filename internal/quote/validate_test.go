package quote

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	cases := map[string]bool{
		"+7 (495) 123-45-67": true,
		"84951234567":        true,
		"1234567":            true,
		"123456":             false,
		"1234567890123456":   false,
		"495-ABC-4567":       false,
		"7+4951234567":       false,
		"":                   false,
	}
	for in, want := range cases {
		assert.Equal(t, want, validPhone(in), in)
	}
}

func TestQuoteReq_Validate(t *testing.T) {
	valid := func() quoteReq {
		return quoteReq{
			Name:  "Anna",
			Phone: "+7 495 123 45 67",
			Items: []Item{{ProductID: "ac-001", Qty: 1}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*quoteReq)
		field  string
	}{
		{"missing name", func(r *quoteReq) { r.Name = "" }, "name"},
		{"long name", func(r *quoteReq) { r.Name = strings.Repeat("a", 101) }, "name"},
		{"bad email", func(r *quoteReq) { r.Email = "not-an-email" }, "email"},
		{"bad phone", func(r *quoteReq) { r.Phone = "123" }, "phone"},
		{"zero qty", func(r *quoteReq) { r.Items[0].Qty = 0 }, "items[0].qty"},
		{"qty too big", func(r *quoteReq) { r.Items[0].Qty = 21 }, "items[0].qty"},
		{"empty product", func(r *quoteReq) { r.Items[0].ProductID = "" }, "items[0].product_id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := valid()
			tc.mutate(&r)

			err := r.validate()
			require.Error(t, err)
			assert.Contains(t, fieldErrors(err), tc.field)
		})
	}

	t.Run("valid", func(t *testing.T) {
		r := valid()
		require.NoError(t, r.validate())
	})

	t.Run("email only", func(t *testing.T) {
		r := valid()
		r.Phone = ""
		r.Email = "anna@example.com"
		require.NoError(t, r.validate())
	})

	t.Run("no contact", func(t *testing.T) {
		r := valid()
		r.Phone = ""
		require.ErrorIs(t, r.validate(), errContactRequired)
	})

	t.Run("no items", func(t *testing.T) {
		r := valid()
		r.Items = nil
		require.NoError(t, r.validate())
	})
}

func TestQuoteReq_Normalize(t *testing.T) {
	r := quoteReq{
		Name:  "  Anna ",
		Email: " Anna@Example.COM ",
		Items: []Item{{ProductID: " ac-001 ", Qty: 1}},
	}
	r.normalize()

	assert.Equal(t, "Anna", r.Name)
	assert.Equal(t, "anna@example.com", r.Email)
	assert.Equal(t, "ac-001", r.Items[0].ProductID)
}

func TestConsultationReq_Validate(t *testing.T) {
	r := consultationReq{Name: "Ivan", Phone: "+7 999 000 11 22", Topic: "installation"}
	require.NoError(t, r.validate())

	r.Phone = ""
	err := r.validate()
	require.Error(t, err)
	assert.Equal(t, "required", fieldErrors(err)["phone"])
}
