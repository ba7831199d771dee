package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/telemetry"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
)

func TestNoOp(t *testing.T) {
	var tel ports.Telemetry = telemetry.NewNoOp()

	ctx, v := tel.Record(context.Background(), string(domain.PhaseResolve))
	require.NotNil(t, v)

	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, v, got)

	n, err := v.Stdout().Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	v.Log(domain.LogLevelInfo, "ignored")
	v.Complete(nil)
	assert.NoError(t, tel.Close())
}
