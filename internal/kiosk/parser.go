// Package kiosk reconstructs wash transactions from kiosk upload logs. The
// log is a flat stream of view-model trace lines; sessions are folded out of
// it with a single forward pass and an explicit running-state object.
package kiosk

import (
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"washpipe/internal/models"
	"washpipe/internal/normalize"
)

// Fold runs the session state machine over normalized log lines and returns
// the closed sessions in file order. A session still open when the lines run
// out is dropped: the close markers never arrived, so its fields cannot be
// trusted to be complete.
func Fold(lines []string) []Session {
	var (
		closed []Session
		cur    *Session
		index  int
	)

	closeSession := func(ts time.Time) {
		if cur == nil {
			return
		}
		if !ts.IsZero() && (cur.LastTS.IsZero() || ts.After(cur.LastTS)) {
			cur.LastTS = ts
		}
		cur.Index = index
		closed = append(closed, *cur)
		cur = nil
		index++
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		ts, content := splitHeader(line)

		if cur == nil {
			cur = newSession(ts)
		}
		cur.observeTS(ts)

		if cur.Invoice == 0 {
			if inv := matchInvoice(content); inv > 0 {
				cur.Invoice = inv
			}
		}

		if unlimitedNewRE.MatchString(content) {
			cur.setUnlimited(models.UnlimitedNew, ts)
		}
		if unlimitedRecurRE.MatchString(content) {
			cur.setUnlimited(models.UnlimitedRecurring, ts)
		}

		if m := customerNameRE.FindStringSubmatch(content); m != nil && cur.CustomerName == "" {
			cur.CustomerName = collapseSpaces(strings.TrimSpace(m[1]))
		}
		if m := licensePlateRE.FindStringSubmatch(content); m != nil && cur.LicensePlate == "" {
			cur.LicensePlate = strings.ToUpper(strings.TrimSpace(m[1]))
		}

		if strings.Contains(content, markerServiceControl) && strings.Contains(content, markerSelectService) {
			if m := washPkgRE.FindStringSubmatch(content); m != nil {
				id, name := strings.TrimSpace(m[1]), trimPackageName(m[2])
				if !tipHeadRE.MatchString(name) {
					cur.PackageID = id
					cur.PackageName = name
				}
			}
		}

		if strings.Contains(content, markerSelectOptional) {
			if m := washPkgRE.FindStringSubmatch(content); m != nil {
				cur.addAddon(strings.TrimSpace(m[1]), trimPackageName(m[2]), ts)
			}
		}

		if strings.Contains(content, markerSaveTxnsPlural) && strings.Contains(content, markerSaveTxnSingular) {
			if m := paymentTypeRE.FindStringSubmatch(content); m != nil {
				cur.setPayment(strings.TrimSpace(m[1]), ts)
			}
		}

		if m := awsFileRE.FindStringSubmatch(content); m != nil && cur.ImagePath == "" {
			cur.ImagePath = strings.TrimSpace(m[1])
		}

		cur.observeAmounts(content)

		if (strings.Contains(content, markerProceedToWash) && strings.Contains(content, markerReturnToMain)) ||
			(strings.Contains(content, markerTxnMethods) && strings.Contains(content, markerResetTxn)) {
			closeSession(ts)
		}
	}

	return closed
}

// addAddon records an optional service unless it is the main package showing
// up again under its own id or name. An add-on whose name embeds a tip marker
// also updates the session tip.
func (s *Session) addAddon(id, name string, ts time.Time) {
	if name == "" {
		return
	}
	if id == s.PackageID || name == s.PackageName {
		return
	}
	s.Addons[id] = Addon{Name: name, TS: ts}
	if m := tipAmountRE.FindStringSubmatch(name); m != nil {
		if amt, err := strconv.ParseFloat(m[1], 64); err == nil && amt > 0 {
			s.setTip(amt, ts)
		}
	}
}

// observeAmounts applies the overwrite-on-sight money fields.
func (s *Session) observeAmounts(content string) {
	if m := discountBothRE.FindStringSubmatch(content); m != nil {
		s.DiscountCode = m[1]
		s.DiscountAmount = parseAmount(m[2])
	} else if m := discountAmountRE.FindStringSubmatch(content); m != nil {
		s.DiscountAmount = parseAmount(m[1])
	} else if m := discountCodeRE.FindStringSubmatch(content); m != nil {
		s.DiscountCode = m[1]
	}
	if m := taxRE.FindStringSubmatch(content); m != nil {
		s.Tax = parseAmount(m[1])
	}
	if m := totalRE.FindStringSubmatch(content); m != nil {
		s.Total = parseAmount(m[1])
	}
}

// matchInvoice walks the ordered pattern list and returns the first positive
// invoice id, or 0.
func matchInvoice(content string) int64 {
	for _, p := range invoicePatterns {
		m := p.re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		inv, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || inv == 0 {
			continue
		}
		return inv
	}
	return 0
}

// splitHeader strips the leading timestamp header, when present, and returns
// the parsed time plus the remaining content.
func splitHeader(line string) (time.Time, string) {
	m := tsHeaderRE.FindStringSubmatchIndex(line)
	if m == nil {
		return time.Time{}, line
	}
	ts, err := time.Parse(tsHeaderLayout, line[m[2]:m[3]])
	if err != nil {
		return time.Time{}, line
	}
	return ts, line[m[1]:]
}

func trimPackageName(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseAmount(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// LocationFromFilename pulls the location token out of a kiosk upload name.
// Absence of a match yields an empty location, never an error.
func LocationFromFilename(name string) string {
	m := locationRE.FindStringSubmatch(path.Base(name))
	if m == nil {
		return ""
	}
	return m[1]
}

// Records turns closed sessions into persistable rows. Sessions without a
// positive invoice are discarded; add-ons are rendered in observation order
// with undated entries first; classification follows the first-session rule
// for unlimited memberships.
func Records(sessions []Session, location, sourceFile string, now time.Time) []models.WashRecord {
	rows := make([]models.WashRecord, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		if s.Invoice <= 0 {
			continue
		}

		row := models.WashRecord{
			Bill:        s.Invoice,
			TipAmount:   s.TipAmount,
			IsUnlimited: s.Unlimited,
			Location:    location,
			SourceFile:  sourceFile,
			CreatedOn:   now,
			CreatedAt:   now,
			InvoiceKind: classify(s),
		}
		if !s.FirstTS.IsZero() {
			ts := s.FirstTS
			row.WashTSFirst = &ts
		}
		if !s.LastTS.IsZero() {
			ts := s.LastTS
			row.WashTSLast = &ts
		}
		row.LicensePlate = optional(s.LicensePlate)
		row.CustomerName = optional(s.CustomerName)
		row.WashPackageName = optional(s.PackageName)
		row.PaymentType = optional(s.PaymentType)
		row.ImagePath = optional(s.ImagePath)
		row.DiscountCode = optional(s.DiscountCode)
		row.DiscountAmount = s.DiscountAmount
		row.Tax = s.Tax
		row.Total = s.Total
		if s.Unlimited {
			row.UnlimitedType = optional(s.UnlimitedType)
		}
		if s.PackageID != "" {
			if id, err := strconv.ParseInt(s.PackageID, 10, 64); err == nil {
				row.WashPackageID = &id
			}
		}
		row.WashType = MapWashType(s.PackageName)
		row.Addons = renderAddons(s.Addons)

		rows = append(rows, row)
	}
	return rows
}

func classify(s *Session) string {
	if !s.Unlimited {
		return models.InvoiceKindNormal
	}
	if s.Index == 0 {
		return models.InvoiceKindSignup
	}
	return models.InvoiceKindWash
}

func renderAddons(addons map[string]Addon) *string {
	if len(addons) == 0 {
		return nil
	}
	list := make([]Addon, 0, len(addons))
	for _, a := range addons {
		list = append(list, a)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].TS.Before(list[j].TS) })
	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Name)
	}
	joined := strings.Join(names, "; ")
	return &joined
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ParseText normalizes one kiosk file's text and folds it into sessions.
func ParseText(text string) []Session {
	return Fold(normalize.Lines(text))
}
