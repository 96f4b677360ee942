// Package alias maps arbitrary input column labels onto the canonical order
// schema. Matching is case-, whitespace-, and separator-insensitive: "Order ID",
// "order_id", and "OrderID" all resolve to the same canonical field.
package alias

import (
	"strings"
)

// Field is a canonical order field name. The constant value doubles as the
// field's own preferred label, which is always tried before any alias.
type Field string

// Canonical fields.
const (
	FieldOrderID       Field = "Order_ID"
	FieldOrderDate     Field = "Order_Date"
	FieldCustomerName  Field = "Customer_Name"
	FieldRegion        Field = "Region"
	FieldProduct       Field = "Product"
	FieldCategory      Field = "Category"
	FieldQuantity      Field = "Quantity"
	FieldUnitPrice     Field = "Unit_Price"
	FieldCostPrice     Field = "Cost_Price"
	FieldDiscount      Field = "Discount"
	FieldPaymentMethod Field = "Payment_Method"
	FieldAge           Field = "Age"
	FieldGender        Field = "Gender"
	FieldAnnualIncome  Field = "Annual_Income"
)

// table holds the accepted labels for each canonical field, in priority order.
// Earlier aliases win when several match the same header set. Immutable after
// process start; safe for unsynchronized concurrent reads.
var table = map[Field][]string{
	FieldOrderID:       {"Order ID", "ID", "OrderID", "Order #", "Transaction", "Trans ID", "Car_id"},
	FieldOrderDate:     {"Date", "Order Date", "Timestamp", "Created At", "Transaction Date", "Time"},
	FieldCustomerName:  {"Customer", "Name", "Buyer", "Client", "User Name", "User", "Customer N", "Customer Name"},
	FieldRegion:        {"Location", "Territory", "State", "Country", "Region Name", "Dealer_Region"},
	FieldProduct:       {"Item", "Product Name", "SKU", "Description", "Product", "Model", "Company"},
	FieldCategory:      {"Cat", "Department", "Type", "Category Name", "Product Category", "Body Style"},
	FieldQuantity:      {"Qty", "Units", "Amount Sold", "Count", "Quantity Purchased"},
	FieldUnitPrice:     {"Price", "Rate", "Sales Price", "Retail Price", "Revenue", "Purchase Amount", "Amount", "Total", "Price ($)"},
	FieldCostPrice:     {"Cost", "COGS", "Purchase Price", "Buying Price"},
	FieldDiscount:      {"Disc", "Promo", "Markdown", "Discount %"},
	FieldPaymentMethod: {"Payment", "Method", "Payment Method", "Type", "Transmission"},
	FieldAge:           {"Age", "Customer Age", "Buyer Age"},
	FieldGender:        {"Gender", "Sex"},
	FieldAnnualIncome:  {"Income", "Annual Income", "Annual Inco"},
}

// Fields lists every canonical field in a stable order.
var Fields = []Field{
	FieldOrderID,
	FieldOrderDate,
	FieldCustomerName,
	FieldRegion,
	FieldProduct,
	FieldCategory,
	FieldQuantity,
	FieldUnitPrice,
	FieldCostPrice,
	FieldDiscount,
	FieldPaymentMethod,
	FieldAge,
	FieldGender,
	FieldAnnualIncome,
}

// Normalize lowercases a label and strips every non-alphanumeric rune.
func Normalize(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve maps the labels of one record (or a whole import's header set) to
// canonical fields. The result maps each matched field to the raw label that
// should be read for it; fields with no matching label are absent.
func Resolve(labels []string) map[Field]string {
	rawByNorm := make(map[string]string, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		n := Normalize(l)
		if _, seen := rawByNorm[n]; !seen {
			rawByNorm[n] = l
		}
	}

	mapping := make(map[Field]string)
	for _, field := range Fields {
		for _, candidate := range append([]string{string(field)}, table[field]...) {
			if raw, ok := rawByNorm[Normalize(candidate)]; ok {
				mapping[field] = raw
				break
			}
		}
	}
	return mapping
}
