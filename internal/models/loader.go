package models

import "time"

// LoaderRecord is one tunnel loader load-event, keyed by bill.
type LoaderRecord struct {
	Bill       int64     `db:"bill" json:"bill"`
	WashifyRec int64     `db:"washify_rec" json:"washify_rec"`
	LogDT      time.Time `db:"log_dt" json:"log_dt"`
	// LogTime is the wall-clock part, normalized to HH:MM:SS.
	LogTime string `db:"log_time" json:"log_time"`
}
