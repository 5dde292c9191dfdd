package repository_test

import (
	"context"
	"testing"

	"github.com/Freeeeeet/tutor_connect/internal/metrics"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/repository"
	"github.com/Freeeeeet/tutor_connect/internal/repository/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_PassesThroughAndObserves(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewDirectory()
	mem.Put(model.NewUser("anna-uid", "anna@example.com"))
	dir := repository.Instrument(mem)

	user, err := dir.GetUser(ctx, "anna-uid")
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)

	_, err = dir.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// успех и ошибка дают две серии get_user
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.DirectoryLatency))
}
