package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// RecordStore implementación del RecordStore sobre la tabla records (una fila por registro).
// Cada lote SaveAll es una transacción: reemplazo completo de cada colección.
type RecordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore construye el adaptador.
func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// LoadAll lee los registros de la colección en orden de posición.
func (r *RecordStore) LoadAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	query, args, err := psql.Select("payload").
		From("records").
		Where(sq.Eq{"collection": collection}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, domain.Storage("construir consulta "+collection, err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("leer "+collection, err)
	}
	defer rows.Close()

	list := []json.RawMessage{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, domain.Storage("scan "+collection, err)
		}
		list = append(list, payload)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("leer "+collection, err)
	}
	return list, nil
}

// SaveAll reemplaza las colecciones del lote dentro de una sola transacción.
func (r *RecordStore) SaveAll(ctx context.Context, writes ...repository.CollectionWrite) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Storage("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, w := range writes {
		if err := replaceCollection(ctx, tx, w); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Storage("commit transaction", err)
	}
	return nil
}

func replaceCollection(ctx context.Context, tx pgx.Tx, w repository.CollectionWrite) error {
	del, args, err := psql.Delete("records").Where(sq.Eq{"collection": w.Collection}).ToSql()
	if err != nil {
		return domain.Storage("construir borrado "+w.Collection, err)
	}
	if _, err := tx.Exec(ctx, del, args...); err != nil {
		return domain.Storage("borrar "+w.Collection, err)
	}
	stmts, err := insertStatements(w)
	if err != nil {
		return domain.Storage("construir inserción "+w.Collection, err)
	}
	for _, st := range stmts {
		if _, err := tx.Exec(ctx, st.sql, st.args...); err != nil {
			return domain.Storage("insertar "+w.Collection, fmt.Errorf("%d registros: %w", len(w.Records), err))
		}
	}
	return nil
}

// insertChunkRows filas por INSERT: 3 parámetros por fila, muy por debajo del límite de 65535 del protocolo.
const insertChunkRows = 5000

type statement struct {
	sql  string
	args []any
}

// insertStatements divide la colección en INSERTs de a lo sumo insertChunkRows filas.
func insertStatements(w repository.CollectionWrite) ([]statement, error) {
	stmts := make([]statement, 0, len(w.Records)/insertChunkRows+1)
	for start := 0; start < len(w.Records); start += insertChunkRows {
		end := min(start+insertChunkRows, len(w.Records))
		ins := psql.Insert("records").Columns("collection", "position", "payload")
		for i := start; i < end; i++ {
			ins = ins.Values(w.Collection, i, string(w.Records[i]))
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, statement{sql: query, args: args})
	}
	return stmts, nil
}

// StockValuation calcula en la base Σ cantidad × costo unitario del producto.
// warehouseID = 0 considera todas las bodegas. El NUMERIC se escanea vía pgx-shopspring-decimal.
func (r *RecordStore) StockValuation(ctx context.Context, warehouseID int64) (decimal.Decimal, error) {
	q := psql.Select("COALESCE(SUM((s.payload->>'quantity')::numeric * COALESCE((p.payload->>'unitCost')::numeric, 0)), 0)").
		From("records s").
		Join("records p ON p.collection = 'products' AND (p.payload->>'id')::bigint = (s.payload->>'productId')::bigint").
		Where(sq.Eq{"s.collection": repository.CollectionStock})
	if warehouseID > 0 {
		q = q.Where(sq.Expr("(s.payload->>'warehouseId')::bigint = ?", warehouseID))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return decimal.Zero, domain.Storage("construir valorización", err)
	}
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, domain.Storage("valorización de stock", err)
	}
	return total, nil
}
