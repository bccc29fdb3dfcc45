package changes

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/assetdesk/internal/model"
)

// ShipmentDateLayout renders shipment dates.
const ShipmentDateLayout = "01/02/2006"

// ASAP is shown for a missing or unparseable shipment date.
const ASAP = "ASAP"

var shipmentLabels = map[string]string{
	"order_id":        "Order ID",
	"order_date":      "Order Date",
	"shipment_status": "Shipment Status",
	"shipment_type":   "Shipment Type",
	"trackingURL":     "Tracking URL",
	"price":           "Price",
}

// NewShipmentSchema returns the schema for shipment snapshots with dates shown in loc.
func NewShipmentSchema(loc *time.Location) *Schema {
	if loc == nil {
		loc = time.UTC
	}
	return &Schema{
		Name: "shipment",
		Ignore: map[string]bool{
			"updatedAt": true,
			"createdAt": true,
			"deletedAt": true,
			"__v":       true,
			"type":      true,
			"isDeleted": true,
			"products":  true,
		},
		DateFields: map[string]bool{
			"order_date":    true,
			"desirableDate": true,
		},
		Labels: shipmentLabels,
		Fields: map[string]FieldFunc{
			"snapshots":          diffSnapshots,
			"price":              diffPrice,
			"originDetails":      diffDetails("Origin", "Pickup Date"),
			"destinationDetails": diffDetails("Destination", "Delivery Date"),
		},
		FormatDate: func(s string) string {
			t, ok := parseDate(s)
			if !ok {
				return ASAP
			}
			return t.In(loc).Format(ShipmentDateLayout)
		},
	}
}

// ShipmentChanges diffs two shipment snapshots with dates in UTC.
func ShipmentChanges(oldData, newData map[string]any) []model.Change {
	return NewShipmentSchema(time.UTC).Diff(oldData, newData)
}

// diffSnapshots reports a change in the number of products and, position by
// position, products whose status changed.
func diffSnapshots(_ *Schema, _ string, oldVal, newVal any) []model.Change {
	oldList, newList := asList(oldVal), asList(newVal)

	var out []model.Change
	if len(oldList) != len(newList) {
		out = append(out, model.Change{
			Field:    "quantity_products",
			OldValue: strconv.Itoa(len(oldList)),
			NewValue: strconv.Itoa(len(newList)),
		})
	}

	for i := 0; i < min(len(oldList), len(newList)); i++ {
		before, after := asMap(oldList[i]), asMap(newList[i])
		oldStatus, newStatus := stringify(before["status"]), stringify(after["status"])
		if oldStatus == newStatus {
			continue
		}
		name := stringify(after["name"])
		if name == "" {
			name = stringify(before["name"])
		}
		if name == "" {
			name = fmt.Sprintf("Product %d", i+1)
		}
		out = append(out, model.Change{Field: name, OldValue: display(oldStatus), NewValue: display(newStatus)})
	}
	return out
}

func diffPrice(s *Schema, key string, oldVal, newVal any) []model.Change {
	oldAmount, oldCode := priceParts(oldVal)
	newAmount, newCode := priceParts(newVal)
	if sameAmount(oldAmount, newAmount) && oldCode == newCode {
		return nil
	}
	return []model.Change{{
		Field:    s.label(key),
		OldValue: formatPrice(oldAmount, oldCode),
		NewValue: formatPrice(newAmount, newCode),
	}}
}

func priceParts(v any) (string, string) {
	m := asMap(v)
	return stringify(m["amount"]), stringify(m["currencyCode"])
}

// sameAmount compares amounts numerically when both parse, so "10" equals "10.00".
func sameAmount(a, b string) bool {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return da.Equal(db)
}

func formatPrice(amount, code string) string {
	if amount == "" && code == "" {
		return "-"
	}
	if d, err := decimal.NewFromString(amount); err == nil {
		amount = d.String()
	}
	if amount == "" {
		amount = "-"
	}
	return amount + " " + code
}

func diffDetails(prefix, dateLabel string) FieldFunc {
	return func(s *Schema, _ string, oldVal, newVal any) []model.Change {
		before, after := asMap(oldVal), asMap(newVal)
		var out []model.Change
		for _, sub := range unionKeys(before, after) {
			o, n := stringify(before[sub]), stringify(after[sub])
			if o == n {
				continue
			}
			if sub == "desirableDate" {
				out = append(out, model.Change{Field: dateLabel, OldValue: s.FormatDate(o), NewValue: s.FormatDate(n)})
				continue
			}
			out = append(out, model.Change{
				Field:    prefix + " " + sub,
				OldValue: display(before[sub]),
				NewValue: display(after[sub]),
			})
		}
		return out
	}
}
