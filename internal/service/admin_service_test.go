package service

import (
	"context"
	"errors"
	"testing"

	"payflow/internal/core/domain"
	"payflow/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Operations(t *testing.T) {
	d := setupSaga(t, sagaTestOptions{})
	dlq := NewDeadLetterQueue(d.tasks, 3, newTestLogger())
	admin := NewAdminService(dlq, d.liquidity, d.breakers)
	ctx := context.Background()

	task, err := dlq.Capture(ctx, domain.TaskTypeExecution, map[string]string{"payment_id": "x"}, errors.New("timeout"), 0)
	require.NoError(t, err)

	list, err := admin.ListDLQ(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	retried, err := admin.RetryDLQ(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FailedTaskRetrying, retried.Status)

	resolved, err := admin.ResolveDLQ(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FailedTaskRecovered, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)

	_, err = admin.ArchiveDLQ(ctx, task.ID)
	assert.True(t, apperror.HasCode(err, "DLQ_001"))

	report, err := admin.GetPoolStatus(ctx, "usd-ngn")
	require.NoError(t, err)
	assert.True(t, report.Pool.Available.Equal(dec("1000")))

	_, err = admin.GetPoolStatus(ctx, "nope")
	assert.True(t, apperror.HasCode(err, "POOL_404"))

	reports, err := admin.TriggerRebalanceScan(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "usd-ngn", reports[0].PoolID)

	d.breakers.Get(DepCompliance).RecordFailure()
	breakers := admin.Breakers()
	require.Len(t, breakers, 1)
	assert.Equal(t, 1, breakers[0].FailureCount)
}
