package entity

// Tipos de contador. El contador de comprobantes (voucher) es una única fila
// compartida entre empresas (limitación de alcance conocida del sistema
// original: serializa la numeración bajo alta concurrencia); los demás son
// por empresa.
const (
	CounterKindVoucher  = "voucher"
	CounterKindBarcode  = "barcode"
	CounterKindSales    = "sales"
	CounterKindPurchase = "purchase"
)

// CounterOwnerGlobal es el company_id reservado de la fila compartida del
// contador de comprobantes.
const CounterOwnerGlobal = "global"

// Counter es un entero por empresa y tipo, incrementado exactamente una vez
// por comprobante confirmado. Dos commits concurrentes nunca reciben el mismo
// valor: el incremento es una sola sentencia atómica en la base de datos.
type Counter struct {
	CompanyID string
	Kind      string
	Value     int64
}
