package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matrix-industries/credential-api/internal/models"
	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

type countingFinder struct {
	docs  map[string]models.DocumentRecord
	calls int
	err   error
}

func (f *countingFinder) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if rec, ok := f.docs[id]; ok {
		return &rec, nil
	}
	return nil, sql.ErrNoRows
}

type memoryCache struct {
	entries map[string][]byte
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.entries == nil {
		c.entries = make(map[string][]byte)
	}
	c.entries[key] = raw
	return nil
}

func validRecord(id string) models.DocumentRecord {
	return models.DocumentRecord{
		ID:          id,
		Kind:        models.KindCertificate,
		SubjectName: "Asha Verma",
		Domain:      "Web Development",
		IssueDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusValid,
	}
}

func TestVerificationServiceResolveValid(t *testing.T) {
	id := uuid.NewString()
	finder := &countingFinder{docs: map[string]models.DocumentRecord{id: validRecord(id)}}
	svc := NewVerificationService(finder, nil, nil, zap.NewNop(), time.Second)

	verdict, err := svc.Resolve(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, verdict.Found)
	assert.Equal(t, models.StatusValid, verdict.Status)
	assert.Equal(t, "Internship Certificate", verdict.KindLabel)
	assert.Equal(t, "Asha Verma", verdict.SubjectName)
	assert.Equal(t, "2024-03-01", verdict.IssueDate)
}

func TestVerificationServiceResolveRevoked(t *testing.T) {
	id := uuid.NewString()
	rec := validRecord(id)
	rec.Status = models.StatusRevoked
	finder := &countingFinder{docs: map[string]models.DocumentRecord{id: rec}}
	svc := NewVerificationService(finder, nil, nil, zap.NewNop(), time.Second)

	verdict, err := svc.Resolve(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, verdict.Found)
	assert.Equal(t, models.StatusRevoked, verdict.Status)
}

func TestVerificationServiceResolveUnknownCode(t *testing.T) {
	finder := &countingFinder{}
	svc := NewVerificationService(finder, nil, nil, zap.NewNop(), time.Second)

	verdict, err := svc.Resolve(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, verdict.Found)
	assert.Empty(t, verdict.SubjectName)
}

func TestVerificationServiceResolveMalformedCode(t *testing.T) {
	finder := &countingFinder{}
	svc := NewVerificationService(finder, nil, nil, zap.NewNop(), time.Second)

	verdict, err := svc.Resolve(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, verdict.Found)
	assert.Zero(t, finder.calls)
}

func TestVerificationServiceResolveUsesCache(t *testing.T) {
	id := uuid.NewString()
	finder := &countingFinder{docs: map[string]models.DocumentRecord{id: validRecord(id)}}
	cache := &memoryCache{}
	svc := NewVerificationService(finder, cache, nil, zap.NewNop(), time.Minute)

	first, err := svc.Resolve(context.Background(), id)
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, finder.calls)
	assert.Contains(t, cache.entries, verdictCacheKey(id))
}

func TestVerificationServiceDoesNotCacheMisses(t *testing.T) {
	finder := &countingFinder{}
	cache := &memoryCache{}
	svc := NewVerificationService(finder, cache, nil, zap.NewNop(), time.Minute)

	id := uuid.NewString()
	_, err := svc.Resolve(context.Background(), id)
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, 2, finder.calls)
	assert.Empty(t, cache.entries)
}

func TestVerificationServiceStoreFailure(t *testing.T) {
	finder := &countingFinder{err: errors.New("connection refused")}
	svc := NewVerificationService(finder, nil, nil, zap.NewNop(), time.Second)

	_, err := svc.Resolve(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
