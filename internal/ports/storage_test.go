package ports

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/hookscope/internal/domain"
)

// Mock implementations for testing interfaces.

type mockOutcomeRepository struct {
	records map[string]*domain.OutcomeRecord
}

func (m *mockOutcomeRepository) Save(ctx context.Context, record *domain.OutcomeRecord) error {
	m.records[record.ID] = record
	return nil
}

func (m *mockOutcomeRepository) FindByID(ctx context.Context, id string) (*domain.OutcomeRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrOutcomeNotFound
	}
	return rec, nil
}

func (m *mockOutcomeRepository) FindRecent(ctx context.Context, limit int) ([]*domain.OutcomeRecord, error) {
	var result []*domain.OutcomeRecord
	for _, rec := range m.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordedAt.After(result[j].RecordedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockOutcomeRepository) FindByHook(ctx context.Context, hook string) ([]*domain.OutcomeRecord, error) {
	var result []*domain.OutcomeRecord
	for _, rec := range m.records {
		if rec.Hook == hook {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *mockOutcomeRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.OutcomeRecord, error) {
	var result []*domain.OutcomeRecord
	for _, rec := range m.records {
		if rec.Outcome.Status == status {
			result = append(result, rec)
		}
	}
	return result, nil
}

type mockStorage struct {
	outcomes *mockOutcomeRepository
}

func (m *mockStorage) Outcomes() OutcomeRepository { return m.outcomes }
func (m *mockStorage) Close() error                { return nil }
func (m *mockStorage) Migrate() error              { return nil }

var _ Storage = (*mockStorage)(nil)

func TestOutcomeRepositoryInterface(t *testing.T) {
	store := &mockStorage{outcomes: &mockOutcomeRepository{records: map[string]*domain.OutcomeRecord{}}}
	ctx := context.Background()

	rec := domain.NewOutcomeRecord("XmlLint", domain.NewOutcome(domain.StatusPass, nil, ""))
	require.NoError(t, store.Outcomes().Save(ctx, rec))

	found, err := store.Outcomes().FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "XmlLint", found.Hook)

	_, err = store.Outcomes().FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrOutcomeNotFound)

	byHook, err := store.Outcomes().FindByHook(ctx, "XmlLint")
	require.NoError(t, err)
	assert.Len(t, byHook, 1)

	byStatus, err := store.Outcomes().FindByStatus(ctx, domain.StatusFail)
	require.NoError(t, err)
	assert.Empty(t, byStatus)
}

func TestProcessResult_Success(t *testing.T) {
	assert.True(t, (&ProcessResult{ExitCode: 0}).Success())
	assert.False(t, (&ProcessResult{ExitCode: 1}).Success())
	assert.False(t, (&ProcessResult{ExitCode: -1}).Success())
}
