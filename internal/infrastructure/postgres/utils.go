package postgres

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isCheckViolation 23514: por ejemplo stock >= 0 o amount > 0.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// isInvalidText 22P02: texto que no parsea al tipo de la columna, p. ej. un id que no es UUID.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// isNoRow cubre también ids mal formados: un UUID inválido no puede existir.
func isNoRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidText(err)
}

// queryErr para listados con filtros por id.
func queryErr(op string, err error) error {
	if isInvalidText(err) {
		return fmt.Errorf("%w: identificador mal formado en el filtro", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isForeignKeyViolation 23503.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// mapWriteErr traduce violaciones de constraints a errores de dominio.
func mapWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isInvalidText(err):
		return fmt.Errorf("%w: identificador mal formado", domain.ErrNotFound)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: referencia inexistente", domain.ErrInvalidInput)
	case isCheckViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// dateOnly trunca a fecha para columnas DATE.
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// filter arma un WHERE con parámetros posicionales a partir de condiciones opcionales.
type filter struct {
	conds []string
	args  []any
}

// add agrega cond con un único argumento; cada ? de cond se reemplaza por el mismo $n.
func (f *filter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(f.args))))
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// page agrega LIMIT/OFFSET; limit 0 significa sin límite.
func (f *filter) page(limit, offset int) string {
	f.args = append(f.args, limit, offset)
	n := len(f.args)
	return " LIMIT NULLIF($" + strconv.Itoa(n-1) + ", 0) OFFSET $" + strconv.Itoa(n)
}

// escapeLike neutraliza comodines de LIKE en texto del usuario (escape por defecto: \).
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
