package repository

import (
	"context"
	"database/sql"
	"fmt"

	"washpipe/internal/models"
)

const upsertBatchSize = 500

// WashifyRepository persists reconstructed kiosk transactions.
type WashifyRepository struct {
	pool *sql.DB
}

// NewWashifyRepository returns repository.
func NewWashifyRepository(pool *sql.DB) *WashifyRepository {
	return &WashifyRepository{pool: pool}
}

const washifyUpsertQuery = `
	INSERT INTO washify (
	  bill, wash_ts_first, wash_ts_last, license_plate, customer_name,
	  wash_package_id, wash_package_name, wash_type, payment_type, image_path,
	  is_unlimited, unlimited_type, addons, tip_amount,
	  discount_code, discount_amount, tax, total,
	  location, source_file, created_on, created_at, invoice_kind
	) VALUES (
	  $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
	  $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
	)
	ON CONFLICT (bill) DO UPDATE SET
	  wash_ts_first     = EXCLUDED.wash_ts_first,
	  wash_ts_last      = EXCLUDED.wash_ts_last,
	  license_plate     = EXCLUDED.license_plate,
	  customer_name     = EXCLUDED.customer_name,
	  wash_package_id   = EXCLUDED.wash_package_id,
	  wash_package_name = EXCLUDED.wash_package_name,
	  wash_type         = EXCLUDED.wash_type,
	  payment_type      = EXCLUDED.payment_type,
	  image_path        = EXCLUDED.image_path,
	  is_unlimited      = EXCLUDED.is_unlimited,
	  unlimited_type    = EXCLUDED.unlimited_type,
	  addons            = EXCLUDED.addons,
	  tip_amount        = EXCLUDED.tip_amount,
	  discount_code     = EXCLUDED.discount_code,
	  discount_amount   = EXCLUDED.discount_amount,
	  tax               = EXCLUDED.tax,
	  total             = EXCLUDED.total,
	  location          = EXCLUDED.location,
	  source_file       = EXCLUDED.source_file,
	  created_on        = EXCLUDED.created_on,
	  created_at        = EXCLUDED.created_at,
	  invoice_kind      = EXCLUDED.invoice_kind
`

// UpsertBatch writes records in chunks, one transaction per chunk, keyed by
// bill with latest-write-wins on conflict. Returns the number written.
func (r *WashifyRepository) UpsertBatch(ctx context.Context, records []models.WashRecord) (int, error) {
	written := 0
	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := r.upsertChunk(ctx, records[start:end]); err != nil {
			return written, err
		}
		written += end - start
	}
	return written, nil
}

func (r *WashifyRepository) upsertChunk(ctx context.Context, records []models.WashRecord) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, washifyUpsertQuery)
	if err != nil {
		return fmt.Errorf("repository: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		_, err := stmt.ExecContext(ctx,
			rec.Bill,
			rec.WashTSFirst,
			rec.WashTSLast,
			rec.LicensePlate,
			rec.CustomerName,
			rec.WashPackageID,
			rec.WashPackageName,
			rec.WashType,
			rec.PaymentType,
			rec.ImagePath,
			rec.IsUnlimited,
			rec.UnlimitedType,
			rec.Addons,
			rec.TipAmount,
			rec.DiscountCode,
			rec.DiscountAmount,
			rec.Tax,
			rec.Total,
			rec.Location,
			rec.SourceFile,
			rec.CreatedOn,
			rec.CreatedAt.Format("15:04:05"),
			rec.InvoiceKind,
		)
		if err != nil {
			return fmt.Errorf("repository: upsert bill %d: %w", rec.Bill, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: commit upsert: %w", err)
	}
	return nil
}
