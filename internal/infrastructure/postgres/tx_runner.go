package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// TxRunner ejecuta el callback con repositorios atados a una transacción.
// Commit solo si fn devuelve nil; cualquier error revierte todo.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner crea el runner de transacciones.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre la transacción y entrega repositorios atados a ella.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.OfferRepository, repository.ProductRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("abrir transacción: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op después del commit

	if err := fn(NewOfferRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("confirmar transacción: %w", err)
	}
	return nil
}
