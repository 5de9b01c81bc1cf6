package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema owned by this service. The super and tunnel tables are written by
// the dependent updates but owned by the tunnel-controller ingest, so they
// are not created here.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS washify (
  bill               BIGINT PRIMARY KEY,
  wash_ts_first      TIMESTAMP,
  wash_ts_last       TIMESTAMP,
  wash_date          DATE GENERATED ALWAYS AS (CAST(wash_ts_first AS DATE)) STORED,
  license_plate      TEXT,
  customer_name      TEXT,
  wash_package_id    INTEGER,
  wash_package_name  TEXT,
  wash_type          TEXT CHECK (wash_type IN ('Basic','Good','Better','Best','Super') OR wash_type IS NULL),
  payment_type       TEXT,
  image_path         TEXT,
  is_unlimited       BOOLEAN,
  unlimited_type     TEXT CHECK (unlimited_type IN ('NEW','RECURRING') OR unlimited_type IS NULL),
  addons             TEXT,
  tip_amount         NUMERIC(8,2) DEFAULT 0.00,
  discount_code      TEXT,
  discount_amount    NUMERIC(8,2),
  tax                NUMERIC(8,2),
  total              NUMERIC(8,2),
  location           TEXT,
  source_file        TEXT,
  created_on         DATE,
  created_at         TIME,
  invoice_kind       TEXT CHECK (invoice_kind IN ('NORMAL','SIGNUP','WASH')) DEFAULT 'NORMAL'
);
CREATE INDEX IF NOT EXISTS washify_idx_ts_first      ON washify (wash_ts_first);
CREATE INDEX IF NOT EXISTS washify_idx_ts_last       ON washify (wash_ts_last);
CREATE INDEX IF NOT EXISTS washify_idx_plate_upper   ON washify ((upper(license_plate)));
CREATE INDEX IF NOT EXISTS washify_idx_location      ON washify (location);
CREATE INDEX IF NOT EXISTS washify_idx_wash_date     ON washify (wash_date);
CREATE INDEX IF NOT EXISTS washify_idx_discount_code ON washify (discount_code);

CREATE TABLE IF NOT EXISTS loader_log (
  bill        BIGINT PRIMARY KEY,
  washify_rec BIGINT,
  log_dt      DATE,
  log_time    TIME
);
CREATE INDEX IF NOT EXISTS loader_log_idx_dt_time ON loader_log (log_dt DESC, log_time DESC);

CREATE TABLE IF NOT EXISTS rtc_log (
  id          BIGSERIAL PRIMARY KEY,
  wash_id     TEXT,
  washpkgnum  INTEGER,
  wash_ts     TIMESTAMP,
  source_ip   TEXT,
  direction   TEXT,
  raw_xml     TEXT,
  created_on  DATE DEFAULT CURRENT_DATE,
  created_at  TIME DEFAULT CURRENT_TIME
);
CREATE INDEX IF NOT EXISTS rtc_log_idx_wash_id ON rtc_log (wash_id);

CREATE TABLE IF NOT EXISTS heartbeat (
  id         BIGSERIAL PRIMARY KEY,
  source     TEXT,
  created_on DATE,
  created_at TIME
);
`

// EnsureSchema creates the service-owned tables and indexes when missing.
func EnsureSchema(ctx context.Context, pool *sql.DB) error {
	if _, err := pool.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("repository: ensure schema: %w", err)
	}
	return nil
}
