package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapWriteError(t *testing.T) {
	unique := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505", ConstraintName: "companies_gstin_key"})
	fk := &pgconn.PgError{Code: "23503"}
	other := errors.New("conexión cerrada")

	assert.ErrorIs(t, mapWriteError("insert company", unique), domain.ErrDuplicate)
	assert.ErrorIs(t, mapWriteError("insert invoice", fk), domain.ErrNotFound, "en inserción la referencia no existe")
	assert.ErrorIs(t, mapWriteError("insert company", other), other)
}

func TestMapDeleteError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}

	assert.ErrorIs(t, mapDeleteError("delete product", fk), domain.ErrReferenced)
	assert.NotErrorIs(t, mapDeleteError("delete product", errors.New("x")), domain.ErrReferenced)
}

func TestLimitOrAll(t *testing.T) {
	assert.Nil(t, limitOrAll(0))
	assert.Equal(t, 20, limitOrAll(20))
}
