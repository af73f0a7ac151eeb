package db

import (
	"context"
	"time"

	"vendas-report/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// SaveBatchRecord persists the bookkeeping row for a processed upload.
func SaveBatchRecord(record *models.BatchRecord) error {
	return GormDB.Create(record).Error
}

// ArchiveOrders bulk-inserts the consolidated orders of a batch. Archival
// is best-effort bookkeeping; callers log failures and keep serving.
func ArchiveOrders(ctx context.Context, batchID string, orders []models.OrderEvent) error {
	startTime := time.Now()

	count, err := PgxPool.CopyFrom(
		ctx,
		pgx.Identifier{"order_events"},
		[]string{"batch_id", "seq", "request", "response", "produto", "qtde", "data", "hora", "valor_unitario", "valor_total", "mesa", "arquivo_origem", "confirmation_id"},
		pgx.CopyFromSlice(len(orders), func(i int) ([]interface{}, error) {
			o := orders[i]
			return []interface{}{
				batchID,
				o.Seq,
				o.Request,
				o.Response,
				o.Product,
				o.Quantity,
				o.Date,
				o.TimeOfDay,
				o.UnitPrice,
				o.LineTotal,
				o.Table,
				o.SourceFile,
				o.ConfirmationID,
			}, nil
		}),
	)
	if err != nil {
		return err
	}

	log.Debug().
		Int64("rows", count).
		Str("batch_id", batchID).
		Dur("duration", time.Since(startTime)).
		Msg("Archived batch orders")

	return nil
}
