package scanner

import "testing"

func TestCamel(t *testing.T) {
	for when, then := range map[string]string{
		"code":          "Code",
		"unit_price":    "UnitPrice",
		"stripe__id":    "StripeId",
		"_leading":      "Leading",
		"area_m2":       "AreaM2",
		"bdi_percent_x": "BdiPercentX",
	} {
		if got := camel(when); got != then {
			t.Errorf("camel(%s): got %s, want %s", when, got, then)
		}
	}
}

func TestTypeName(t *testing.T) {
	for when, then := range map[uint32]string{
		25:   "text",
		20:   "int8",
		2950: "uuid",
	} {
		if got := typeName(when); got != then {
			t.Errorf("typeName(%d): got %s, want %s", when, got, then)
		}
	}
	if got := typeName(999999); got != "oid 999999" {
		t.Errorf("unknown oid: got %s", got)
	}
}
