package kiosk

import "regexp"

// Timestamp header the kiosk firmware prefixes onto most lines.
var tsHeaderRE = regexp.MustCompile(`^\s*(\d{1,2}/\d{1,2}/\d{4}\s+\d{1,2}:\d{2}:\d{2}\s+[AP]M)\s*,\s*`)

const tsHeaderLayout = "1/2/2006 3:04:05 PM"

// invoicePattern pairs a name with the regexp that extracts the invoice id.
type invoicePattern struct {
	name string
	re   *regexp.Regexp
}

// invoicePatterns is the fixed priority order for invoice detection. The
// first pattern yielding a positive id wins and is sticky for the session.
// Ordering matters: the specific forms carry more context than the generic
// catch-alls and must be tried first.
var invoicePatterns = []invoicePattern{
	{"inline-payment", regexp.MustCompile(`(?i)InvoiceID\s+(\d+)\s+Payment Type\s+([A-Za-z]+)`)},
	{"proceed-to-wash", regexp.MustCompile(`(?i)ProceedToCarWashViewModel.*?InvoiceID\s+(\d+)`)},
	{"dispatcher", regexp.MustCompile(`(?i)DoTransactionAfterDispatcher\s+(\d+)`)},
	{"generic", regexp.MustCompile(`(?i)InvoiceID\s+(\d+)`)},
	// Older firmware spells the id with a lowercase d in its upload lines.
	{"aws-upload", regexp.MustCompile(`InvoiceId\s+(\d+)`)},
}

var (
	washPkgRE      = regexp.MustCompile(`(?i)Wash Package\s+(\d+)\s+with Name\s+(.+)$`)
	paymentTypeRE  = regexp.MustCompile(`(?i)Payment Type\s+([A-Za-z]+)`)
	awsFileRE      = regexp.MustCompile(`(?i)Aws File Name\s+(.+)$`)
	licensePlateRE = regexp.MustCompile(`(?i)License Plate\s+([A-Z0-9]+)`)
	customerNameRE = regexp.MustCompile(`(?i)Customer Name\s+([^,]+)`)

	unlimitedNewRE   = regexp.MustCompile(`(?i)NEW CUSTOMER\s*->`)
	unlimitedRecurRE = regexp.MustCompile(`(?i)RECURRING\s*->`)

	tipHeadRE   = regexp.MustCompile(`(?i)^\s*TIP\b`)
	tipAmountRE = regexp.MustCompile(`(?i)\bTip\s*\$?\s*([0-9]+(?:\.[0-9]{1,2})?)\b`)

	discountBothRE   = regexp.MustCompile(`(?i)Discount[:\s]+([A-Za-z0-9._-]+)\s+\$?([0-9]+(?:\.[0-9]{1,2})?)`)
	discountCodeRE   = regexp.MustCompile(`(?i)Discount(?:\s+Code)?[:\s]+([A-Za-z][A-Za-z0-9._-]*)`)
	discountAmountRE = regexp.MustCompile(`(?i)Discount(?:\s+Amount)?[:\s]+\$?([0-9]+(?:\.[0-9]{1,2})?)`)

	taxRE   = regexp.MustCompile(`(?i)Tax[:\s]+\$?([0-9]+(?:\.[0-9]{1,2})?)\b`)
	totalRE = regexp.MustCompile(`(?i)Total[:\s]+\$?([0-9]+(?:\.[0-9]{1,2})?)\b`)

	// Kiosk filenames look like <prefix>_<LOCATION>_<digits>_Transaction….
	locationRE = regexp.MustCompile(`(?i)^[^_]+_(.+?)_\d+_Transaction`)
)

// View-model markers gating field extraction and session close.
const (
	markerServiceControl  = "ServiceControlViewModel"
	markerSelectService   = "SelectServiceBlock"
	markerSelectOptional  = "SelectOptionalServiceBlock"
	markerSaveTxnsPlural  = "SaveTransactions"
	markerSaveTxnSingular = "SaveTransaction"
	markerProceedToWash   = "ProceedToCarWashViewModel"
	markerReturnToMain    = "ReturnToMainScreen"
	markerTxnMethods      = "TransactionMethods"
	markerResetTxn        = "ResetTransaction"
)
