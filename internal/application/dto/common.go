package dto

// ErrorResponse cuerpo de error HTTP simple (validación, autenticación).
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorBody detalle de error de operación (fallos dentro de la transacción,
// conflictos de concurrencia). Code distingue condiciones reintetables.
type ErrorBody struct {
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OperationErrorResponse envoltorio {"error": {...}} para errores de operación.
type OperationErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Códigos de error expuestos por la API.
const (
	CodeOptimisticLock = "OPTIMISTIC_LOCK_ERROR"
	CodeBatchFailed    = "BATCH_OPERATION_FAILED"
	CodeOrderLocked    = "ORDER_LOCKED"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
