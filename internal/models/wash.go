package models

import "time"

// Wash type vocabulary persisted into washify.wash_type.
const (
	WashTypeBasic  = "Basic"
	WashTypeGood   = "Good"
	WashTypeBetter = "Better"
	WashTypeBest   = "Best"
	WashTypeSuper  = "Super"
)

// Invoice kinds persisted into washify.invoice_kind.
const (
	InvoiceKindNormal = "NORMAL"
	InvoiceKindSignup = "SIGNUP"
	InvoiceKindWash   = "WASH"
)

// Unlimited membership flavors.
const (
	UnlimitedNew       = "NEW"
	UnlimitedRecurring = "RECURRING"
)

// WashRecord is one reconstructed kiosk transaction, keyed by bill.
type WashRecord struct {
	Bill            int64      `db:"bill" json:"bill"`
	WashTSFirst     *time.Time `db:"wash_ts_first" json:"wash_ts_first,omitempty"`
	WashTSLast      *time.Time `db:"wash_ts_last" json:"wash_ts_last,omitempty"`
	LicensePlate    *string    `db:"license_plate" json:"license_plate,omitempty"`
	CustomerName    *string    `db:"customer_name" json:"customer_name,omitempty"`
	WashPackageID   *int64     `db:"wash_package_id" json:"wash_package_id,omitempty"`
	WashPackageName *string    `db:"wash_package_name" json:"wash_package_name,omitempty"`
	WashType        *string    `db:"wash_type" json:"wash_type,omitempty"`
	PaymentType     *string    `db:"payment_type" json:"payment_type,omitempty"`
	ImagePath       *string    `db:"image_path" json:"image_path,omitempty"`
	IsUnlimited     bool       `db:"is_unlimited" json:"is_unlimited"`
	UnlimitedType   *string    `db:"unlimited_type" json:"unlimited_type,omitempty"`
	Addons          *string    `db:"addons" json:"addons,omitempty"`
	TipAmount       float64    `db:"tip_amount" json:"tip_amount"`
	DiscountCode    *string    `db:"discount_code" json:"discount_code,omitempty"`
	DiscountAmount  *float64   `db:"discount_amount" json:"discount_amount,omitempty"`
	Tax             *float64   `db:"tax" json:"tax,omitempty"`
	Total           *float64   `db:"total" json:"total,omitempty"`
	Location        string     `db:"location" json:"location"`
	SourceFile      string     `db:"source_file" json:"source_file"`
	CreatedOn       time.Time  `db:"created_on" json:"created_on"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	InvoiceKind     string     `db:"invoice_kind" json:"invoice_kind"`
}
