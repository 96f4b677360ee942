package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/salescope/salescope/internal/alias"
	"github.com/salescope/salescope/internal/model"
	"github.com/salescope/salescope/internal/service"
)

// Default labels for missing string fields.
const (
	defaultCustomerName = "Unknown Customer"
	defaultRegion       = "Unknown"
	defaultCategory     = "Other"
	defaultProduct      = "Unknown Product"
	defaultUnknown      = "Unknown"
)

// Options controls a single cleaning run.
type Options struct {
	// AliasMap is a precomputed header mapping. Bulk imports compute it once
	// per file; when nil the cleaner resolves aliases from the record's own keys.
	AliasMap map[alias.Field]string
	// SequenceHint seeds generated order ids; zero means derive from the store
	// count. Bulk imports precompute it once per batch.
	SequenceHint int
	// CheckDuplicates rejects explicit order ids that already exist. Single
	// submissions enable it; bulk import leaves it off and lets the store's
	// insert-or-ignore drop true duplicates.
	CheckDuplicates bool
}

// Cleaner converts raw records into canonical orders. Aside from read-only
// duplicate and sequence queries against the store, it is a pure transformation.
type Cleaner struct {
	store service.OrderReader
	now   func() time.Time
}

// NewCleaner creates a cleaner backed by the store's read interface.
func NewCleaner(store service.OrderReader) *Cleaner {
	return &Cleaner{store: store, now: time.Now}
}

// Clean validates and repairs one raw record, returning the canonical order
// plus a warning for every correction made. Value defects never fail the
// record; the only error paths are a duplicate explicit order id (when
// checking is enabled) and store read failures.
func (c *Cleaner) Clean(ctx context.Context, raw model.RawRecord, opts Options) (*model.Order, []string, error) {
	warnings := []string{}

	mapping := opts.AliasMap
	if mapping == nil {
		labels := make([]string, 0, len(raw))
		for label := range raw {
			labels = append(labels, label)
		}
		mapping = alias.Resolve(labels)
	}

	get := func(field alias.Field) any {
		label, ok := mapping[field]
		if !ok {
			return nil
		}
		return raw[label]
	}

	// Strings first.
	customerName := String(get(alias.FieldCustomerName), defaultCustomerName)
	category := String(get(alias.FieldCategory), defaultCategory)

	// A record with only a category still gets a usable product.
	productRaw := get(alias.FieldProduct)
	if RawString(productRaw) == "" && category != defaultCategory {
		productRaw = category
	}
	product := String(productRaw, defaultProduct)

	region := String(get(alias.FieldRegion), defaultRegion)
	region, regionWarnings := NormalizeRegion(region)
	warnings = append(warnings, regionWarnings...)

	// Numerics.
	unitPrice := ValidateUnitPrice(Float(get(alias.FieldUnitPrice), defaultUnitPrice))
	costPrice := InferCostPrice(get(alias.FieldCostPrice), unitPrice)
	quantity := ValidateQuantity(Float(get(alias.FieldQuantity), 1))
	discount := NormalizeDiscount(Float(get(alias.FieldDiscount), 0))

	salesAmount, profit := Derive(quantity, unitPrice, discount, costPrice)

	// Date.
	rawDate := RawString(get(alias.FieldOrderDate))
	orderDay, parsed := Day(rawDate)
	if !parsed {
		orderDay = c.now()
		if rawDate != "" {
			warnings = append(warnings, fmt.Sprintf("Date '%s' invalid, used today", rawDate))
		}
	}

	// Identity.
	orderID, err := ResolveOrderID(ctx, c.store, RawString(get(alias.FieldOrderID)), opts.CheckDuplicates, opts.SequenceHint)
	if err != nil {
		return nil, warnings, err
	}

	order := &model.Order{
		OrderID:       orderID,
		OrderDate:     model.NewDate(orderDay),
		CustomerID:    CustomerID(customerName),
		CustomerName:  customerName,
		Region:        region,
		Product:       product,
		Category:      category,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CostPrice:     costPrice,
		Discount:      discount,
		SalesAmount:   salesAmount,
		Profit:        profit,
		PaymentMethod: String(get(alias.FieldPaymentMethod), defaultUnknown),
		Age:           int(Float(get(alias.FieldAge), 0)),
		Gender:        String(get(alias.FieldGender), defaultUnknown),
		AnnualIncome:  Float(get(alias.FieldAnnualIncome), 0),
	}

	return order, warnings, nil
}
