package models

import "time"

// RTC event directions.
const (
	DirectionSend = "send"
	DirectionRecv = "recv"
)

// RTCEvent is one wash-cycle interface event extracted from the RTC log.
// Only recv-direction events are persisted.
type RTCEvent struct {
	WashID     string     `db:"wash_id" json:"wash_id"`
	WashPkgNum *int64     `db:"washpkgnum" json:"washpkgnum,omitempty"`
	WashTS     *time.Time `db:"wash_ts" json:"wash_ts,omitempty"`
	SourceIP   string     `db:"source_ip" json:"source_ip"`
	Direction  string     `db:"direction" json:"direction"`
	// RawXML keeps the source line, truncated, for audit.
	RawXML string `db:"raw_xml" json:"raw_xml"`
}
