package repository

// CounterRepository puerto de los contadores secuenciales.
//
// Increment suma 1 a un contador existente y devuelve el valor nuevo; si la
// fila no existe retorna domain.ErrCounterMissing (fatal: el caller debe
// abortar la transacción, nunca omitir el incremento en silencio).
//
// UpsertIncrement crea la fila con el valor inicial si no existe, o suma 1 si
// existe, en una sola sentencia atómica; dos llamadas concurrentes jamás
// reciben el mismo valor.
type CounterRepository interface {
	Increment(companyID, kind string) (int64, error)
	UpsertIncrement(companyID, kind string, start int64) (int64, error)
}
