package kiosk

import (
	"testing"

	"washpipe/internal/models"
)

func TestMapWashType(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"BEST WASH", models.WashTypeBest},
		{"The Better Wash Deluxe", models.WashTypeBetter},
		{"basic wash", models.WashTypeBasic},
		{"GOOD WASH PLUS", models.WashTypeGood},
		{"INTERIOR SUPREME", models.WashTypeSuper},
		// Two fragments present: the longer one wins.
		{"INTERIOR SUP + BEST WASH COMBO", models.WashTypeSuper},
	}
	for _, tc := range cases {
		got := MapWashType(tc.name)
		if got == nil || *got != tc.want {
			t.Errorf("MapWashType(%q) = %v, want %q", tc.name, got, tc.want)
		}
	}
}

func TestMapWashTypeUnknown(t *testing.T) {
	for _, name := range []string{"", "MYSTERY PACKAGE", "WASH"} {
		if got := MapWashType(name); got != nil {
			t.Errorf("MapWashType(%q) = %q, want nil", name, *got)
		}
	}
}
