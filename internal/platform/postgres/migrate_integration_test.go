//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	txcontext "poltem/pkg/platform/tx"
	"poltem/pkg/testutil/containers"
)

func TestMigrate_Idempotent(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, pg.DB))
	require.NoError(t, Migrate(ctx, pg.DB))

	var applied int
	require.NoError(t, pg.DB.QueryRowContext(ctx, `SELECT count(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 3, applied)
}

func TestTxRun(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	_, err := pg.DB.ExecContext(ctx, `CREATE TABLE tx_probe (n int)`)
	require.NoError(t, err)

	count := func() int {
		var n int
		require.NoError(t, pg.DB.QueryRowContext(ctx, `SELECT count(*) FROM tx_probe`).Scan(&n))
		return n
	}

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := txcontext.Run(ctx, pg.DB, func(ctx context.Context) error {
			_, err := txcontext.Exec(ctx, pg.DB).ExecContext(ctx, `INSERT INTO tx_probe VALUES (1)`)
			require.NoError(t, err)
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, count())
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		err := txcontext.Run(ctx, pg.DB, func(ctx context.Context) error {
			outer, _ := txcontext.From(ctx)
			return txcontext.Run(ctx, pg.DB, func(ctx context.Context) error {
				inner, ok := txcontext.From(ctx)
				require.True(t, ok)
				assert.Same(t, outer, inner)
				_, err := txcontext.Exec(ctx, pg.DB).ExecContext(ctx, `INSERT INTO tx_probe VALUES (2)`)
				return err
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})
}
