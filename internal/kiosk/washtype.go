package kiosk

import (
	"strings"

	"washpipe/internal/models"
)

// washTypeVocab maps package-name fragments to the persisted wash type enum.
// Matching is containment against the upper-cased package name, longest
// fragment wins; an unrecognized name maps to nothing rather than a guess.
var washTypeVocab = []struct {
	fragment string
	washType string
}{
	{"INTERIOR SUP", models.WashTypeSuper},
	{"BETTER WASH", models.WashTypeBetter},
	{"BASIC WASH", models.WashTypeBasic},
	{"BEST WASH", models.WashTypeBest},
	{"GOOD WASH", models.WashTypeGood},
}

// MapWashType derives the wash type enum from a package name, or nil when the
// name is empty or unrecognized.
func MapWashType(name string) *string {
	if name == "" {
		return nil
	}
	up := strings.ToUpper(name)

	best := ""
	bestLen := 0
	for _, entry := range washTypeVocab {
		if strings.Contains(up, entry.fragment) && len(entry.fragment) > bestLen {
			best = entry.washType
			bestLen = len(entry.fragment)
		}
	}
	if best == "" {
		return nil
	}
	return &best
}
