package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn, err := DSN(map[string]string{"DB_DSN": "postgres://atmos@db/atmos"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://atmos@db/atmos", dsn)

	dsn, err = DSN(map[string]string{"DB_HOST": "db", "DB_PASSWORD": "pw", "DB_SSLMODE": "disable"})
	require.NoError(t, err)
	assert.Equal(t, "host=db user=postgres password=pw dbname=atmos port=5432 sslmode=disable", dsn)

	_, err = DSN(map[string]string{})
	assert.Error(t, err)
}
