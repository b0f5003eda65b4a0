// Package audit implementa el colaborador de auditoría: el núcleo le entrega
// una llamada por lote confirmado y él la emite como evento estructurado.
package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/KrisYarno/inventory-core/internal/application/inventory"
	"github.com/KrisYarno/inventory-core/pkg/logger"
)

var _ inventory.AuditLogger = (*ZerologAuditLogger)(nil)

// ZerologAuditLogger emite el registro de auditoría como JSON estructurado por
// zerolog. Un colector externo (o la propia salida del servicio) lo recoge;
// el núcleo no sabe ni le importa quién consume.
type ZerologAuditLogger struct {
	log *logger.Logger
}

// NewZerologAuditLogger construye el colaborador sobre el logger de la app.
func NewZerologAuditLogger(log *logger.Logger) *ZerologAuditLogger {
	return &ZerologAuditLogger{log: log}
}

// BatchAdjusted emite exactamente un evento por lote, con la lista completa de
// productos afectados.
func (a *ZerologAuditLogger) BatchAdjusted(ctx context.Context, userID int64, batchID string, entries []inventory.AuditEntry) error {
	items := zerolog.Arr()
	for _, e := range entries {
		items.Dict(zerolog.Dict().
			Int64("product_id", e.ProductID).
			Str("product_name", e.ProductName).
			Int64("delta", e.Delta))
	}
	a.log.Info().
		Str("event", "inventory_batch_adjusted").
		Int64("user_id", userID).
		Str("batch_id", batchID).
		Int("items", len(entries)).
		Array("changes", items).
		Msg("lote de inventario confirmado")
	return nil
}
