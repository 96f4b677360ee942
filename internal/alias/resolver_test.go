package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Order ID", "orderid"},
		{"order_id", "orderid"},
		{"OrderID", "orderid"},
		{"  Price ($)  ", "price"},
		{"Annual-Income", "annualincome"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestResolve_CommonHeaderSet(t *testing.T) {
	mapping := Resolve([]string{"Order #", "Buyer", "Qty"})

	require.Len(t, mapping, 3)
	assert.Equal(t, "Order #", mapping[FieldOrderID])
	assert.Equal(t, "Buyer", mapping[FieldCustomerName])
	assert.Equal(t, "Qty", mapping[FieldQuantity])
}

func TestResolve_OrderAndCaseInsensitive(t *testing.T) {
	a := Resolve([]string{"Order #", "Buyer", "Qty"})
	b := Resolve([]string{"QTY", "buyer", "order #"})

	require.Equal(t, len(a), len(b))
	for field := range a {
		_, ok := b[field]
		assert.True(t, ok, "field %s resolved in one ordering but not the other", field)
	}
}

func TestResolve_CanonicalNameBeatsAlias(t *testing.T) {
	// Both the canonical label and an alias are present; the canonical label wins.
	mapping := Resolve([]string{"Price", "Unit_Price"})
	assert.Equal(t, "Unit_Price", mapping[FieldUnitPrice])
}

func TestResolve_AliasPriority(t *testing.T) {
	// "Item" precedes "Description" in the Product alias list.
	mapping := Resolve([]string{"Description", "Item"})
	assert.Equal(t, "Item", mapping[FieldProduct])
}

func TestResolve_UnknownLabelsIgnored(t *testing.T) {
	mapping := Resolve([]string{"Frobnication Index", "Warp Factor"})
	assert.Empty(t, mapping)
}

func TestResolve_FullSchema(t *testing.T) {
	headers := []string{
		"Order ID", "Order Date", "Customer", "Location", "Item", "Department",
		"Qty", "Price", "Cost", "Disc", "Payment", "Age", "Gender", "Income",
	}
	mapping := Resolve(headers)
	assert.Len(t, mapping, len(Fields))
}
