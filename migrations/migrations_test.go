package migrations

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryMigrationHasUpAndDown(t *testing.T) {
	src, err := iofs.New(FS, ".")
	require.NoError(t, err)
	defer src.Close()

	var versions []uint
	version, err := src.First()
	for err == nil {
		versions = append(versions, version)

		up, _, upErr := src.ReadUp(version)
		require.NoError(t, upErr, "version %d has no up migration", version)
		body, _ := io.ReadAll(up)
		up.Close()
		assert.NotEmpty(t, strings.TrimSpace(string(body)))

		down, _, downErr := src.ReadDown(version)
		require.NoError(t, downErr, "version %d has no down migration", version)
		down.Close()

		version, err = src.Next(version)
	}
	require.True(t, errors.Is(err, fs.ErrNotExist), "unexpected error: %v", err)

	assert.Equal(t, []uint{1, 2, 3, 4, 5, 6}, versions)
}

func TestAppointmentsConstrainStatus(t *testing.T) {
	body, err := FS.ReadFile("000002_create_appointments.up.sql")
	require.NoError(t, err)

	for _, status := range []string{"scheduled", "confirmed", "completed", "cancelled", "in-progress", "arrived"} {
		assert.Contains(t, string(body), "'"+status+"'")
	}
}

func TestUniqueIndexesIgnoreSoftDeletedRows(t *testing.T) {
	body, err := FS.ReadFile("000006_soft_delete_aware_unique_indexes.up.sql")
	require.NoError(t, err)

	assert.Contains(t, string(body), "ON patients (nik) WHERE deleted_at IS NULL")
	assert.Contains(t, string(body), "ON doctors (slug) WHERE deleted_at IS NULL")
}
