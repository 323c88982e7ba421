package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"companyapi/internal/broker"
	brokerMocks "companyapi/internal/broker/mocks"
	"companyapi/internal/clock"
	"companyapi/internal/model"
	"companyapi/internal/repository"
	repoMocks "companyapi/internal/repository/mocks"
	"companyapi/internal/storage"
	storeMocks "companyapi/internal/storage/mocks"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func newTestService(repo repository.CompanyRepository, clk clock.Clock) CompanyService {
	return NewCompanyService(repo, Options{Principal: "admin", Clock: clk, Logger: zerolog.Nop()})
}

func TestCompanyService_Create(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(t0)
	repo := repoMocks.NewMemoryCompanyRepository()
	svc := newTestService(repo, clk)

	fields := model.CompanyFields{
		LegalName:          strPtr("Acme"),
		DocumentType:       strPtr("RUC"),
		DocumentNumber:     strPtr("123"),
		IsWithholdingAgent: boolPtr(false),
	}

	c, err := svc.Create(ctx, fields)
	require.NoError(t, err)

	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, model.StatusActive, c.Status)
	assert.Equal(t, "admin", c.CreatedBy)
	assert.Equal(t, t0, c.CreatedAt)
	assert.Nil(t, c.ModifiedBy)
	assert.Nil(t, c.ModifiedAt)
	assert.Nil(t, c.DeletedBy)
	assert.Nil(t, c.DeletedAt)
	assert.Nil(t, c.Address)

	t.Run("round trip keeps descriptive fields", func(t *testing.T) {
		got, err := svc.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, fields.LegalName, got.LegalName)
		assert.Equal(t, fields.DocumentType, got.DocumentType)
		assert.Equal(t, fields.DocumentNumber, got.DocumentNumber)
		assert.Equal(t, fields.IsWithholdingAgent, got.IsWithholdingAgent)
		assert.Nil(t, got.TaxCondition)
	})

	t.Run("ids are never reused", func(t *testing.T) {
		c2, err := svc.Create(ctx, model.CompanyFields{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), c2.ID)
	})
}

func TestCompanyService_Create_StoreError(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockCompanyRepository)
	mRepo.On("Save", mock.Anything, mock.Anything).
		Return(nil, errors.New("boom"))
	svc := newTestService(mRepo, clock.NewFixed(t0))

	c, err := svc.Create(ctx, model.CompanyFields{})

	assert.Nil(t, c)
	assert.EqualError(t, err, "create company: boom")
	mRepo.AssertExpectations(t)
}

func TestCompanyService_NotFound(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockCompanyRepository)
	mRepo.On("FindByID", mock.Anything, int64(99)).Return(nil, nil)
	svc := newTestService(mRepo, clock.NewFixed(t0))

	_, err := svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, 99, model.CompanyFields{LegalName: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SoftDelete(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	mRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompanyService_StoreUnavailablePropagates(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.Join(repository.ErrStoreUnavailable, errors.New("dial tcp: connection refused"))

	tests := []struct {
		name string
		call func(svc CompanyService) error
	}{
		{name: "get", call: func(svc CompanyService) error { _, err := svc.Get(ctx, 1); return err }},
		{name: "update", call: func(svc CompanyService) error { _, err := svc.Update(ctx, 1, model.CompanyFields{}); return err }},
		{name: "soft delete", call: func(svc CompanyService) error { _, err := svc.SoftDelete(ctx, 1); return err }},
		{name: "list", call: func(svc CompanyService) error { _, err := svc.List(ctx); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockCompanyRepository)
			mRepo.On("FindByID", mock.Anything, int64(1)).Return(nil, storeErr).Maybe()
			mRepo.On("FindAll", mock.Anything).Return(nil, storeErr).Maybe()
			svc := newTestService(mRepo, clock.NewFixed(t0))

			err := tt.call(svc)
			assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestCompanyService_Update(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(t0)
	repo := repoMocks.NewMemoryCompanyRepository()
	svc := newTestService(repo, clk)

	created, err := svc.Create(ctx, model.CompanyFields{LegalName: strPtr("Acme"), DocumentNumber: strPtr("123")})
	require.NoError(t, err)

	clk.Advance(time.Minute)
	updated, err := svc.Update(ctx, created.ID, model.CompanyFields{LegalName: strPtr("Acme Corp")})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Acme Corp", *updated.LegalName)
	assert.Equal(t, "123", *updated.DocumentNumber)
	assert.Equal(t, model.StatusActive, updated.Status)
	assert.Equal(t, created.CreatedBy, updated.CreatedBy)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.ModifiedBy)
	assert.Equal(t, "admin", *updated.ModifiedBy)
	require.NotNil(t, updated.ModifiedAt)
	assert.Equal(t, t0.Add(time.Minute), *updated.ModifiedAt)

	t.Run("modified audit never goes backwards", func(t *testing.T) {
		clk.Advance(time.Second)
		again, err := svc.Update(ctx, created.ID, model.CompanyFields{})
		require.NoError(t, err)
		assert.False(t, again.ModifiedAt.Before(*updated.ModifiedAt))
		assert.Equal(t, "Acme Corp", *again.LegalName)
	})

	t.Run("update keeps inactive status", func(t *testing.T) {
		_, err := svc.SoftDelete(ctx, created.ID)
		require.NoError(t, err)

		again, err := svc.Update(ctx, created.ID, model.CompanyFields{Address: strPtr("Av. Central 100")})
		require.NoError(t, err)
		assert.Equal(t, model.StatusInactive, again.Status)
		assert.NotNil(t, again.DeletedAt)
	})
}

func TestCompanyService_SoftDelete(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(t0)
	repo := repoMocks.NewMemoryCompanyRepository()
	svc := newTestService(repo, clk)

	created, err := svc.Create(ctx, model.CompanyFields{LegalName: strPtr("Acme")})
	require.NoError(t, err)

	clk.Advance(time.Minute)
	first, err := svc.SoftDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, first.Status)
	require.NotNil(t, first.DeletedAt)
	assert.Equal(t, t0.Add(time.Minute), *first.DeletedAt)
	assert.Equal(t, "admin", *first.DeletedBy)
	assert.Equal(t, "Acme", *first.LegalName)

	clk.Advance(time.Minute)
	second, err := svc.SoftDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, second.Status)
	assert.Equal(t, t0.Add(2*time.Minute), *second.DeletedAt)

	t.Run("soft deleted records stay visible", func(t *testing.T) {
		got, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInactive, got.Status)

		all, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, model.StatusInactive, all[0].Status)
	})
}

func TestCompanyService_List_Empty(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockCompanyRepository)
	mRepo.On("FindAll", mock.Anything).Return([]model.Company{}, nil)
	svc := newTestService(mRepo, clock.NewFixed(t0))

	items, err := svc.List(ctx)

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCompanyService_SideEffects(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and archives after a mutation", func(t *testing.T) {
		mEvents := new(brokerMocks.MockEventPublisher)
		mStore := new(storeMocks.MockStorage)
		svc := NewCompanyService(repoMocks.NewMemoryCompanyRepository(), Options{
			Clock:   clock.NewFixed(t0),
			Events:  mEvents,
			Archive: mStore,
			Logger:  zerolog.Nop(),
		})

		mEvents.On("Publish", mock.Anything, mock.MatchedBy(func(ev broker.Event) bool {
			return ev.Action == broker.ActionCreated && ev.CompanyID == 1 &&
				ev.Status == 1 && ev.Principal == DefaultPrincipal && ev.OccurredAt.Equal(t0)
		})).Return(nil).Once()

		var snapshot model.Company
		mStore.On("Put", mock.Anything, SnapshotKey(1, t0, broker.ActionCreated), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.ContentType == "application/json" && opt.Metadata["action"] == "created"
		})).Return(func(_ context.Context, key string, r io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
			require.NoError(t, json.NewDecoder(r).Decode(&snapshot))
			return storage.ObjectInfo{Key: key}
		}, nil).Once()

		c, err := svc.Create(ctx, model.CompanyFields{LegalName: strPtr("Acme")})

		require.NoError(t, err)
		assert.Equal(t, c.ID, snapshot.ID)
		assert.Equal(t, "Acme", *snapshot.LegalName)
		mEvents.AssertExpectations(t)
		mStore.AssertExpectations(t)
	})

	t.Run("failures are logged and never fail the operation", func(t *testing.T) {
		var buf bytes.Buffer
		mEvents := new(brokerMocks.MockEventPublisher)
		mStore := new(storeMocks.MockStorage)
		repo := repoMocks.NewMemoryCompanyRepository()
		svc := NewCompanyService(repo, Options{
			Clock:   clock.NewFixed(t0),
			Events:  mEvents,
			Archive: mStore,
			Logger:  zerolog.New(&buf),
		})
		_, _ = repo.Save(ctx, &model.Company{DocumentNumber: strPtr("20123456789"), Status: model.StatusActive, CreatedBy: "admin", CreatedAt: t0})

		mEvents.On("Publish", mock.Anything, mock.Anything).Return(errors.New("channel closed"))
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("bucket gone"))

		c, err := svc.SoftDelete(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, model.StatusInactive, c.Status)
		assert.Contains(t, buf.String(), "company_event_publish_failed")
		assert.Contains(t, buf.String(), "company_snapshot_failed")
		assert.Contains(t, buf.String(), `"level":"warn"`)
		assert.Contains(t, buf.String(), `"company":"20123456789"`)
	})

	t.Run("nothing happens when the store fails", func(t *testing.T) {
		mRepo := new(repoMocks.MockCompanyRepository)
		mEvents := new(brokerMocks.MockEventPublisher)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("Save", mock.Anything, mock.Anything).Return(nil, repository.ErrStoreUnavailable)
		svc := NewCompanyService(mRepo, Options{Events: mEvents, Archive: mStore, Logger: zerolog.Nop()})

		_, err := svc.Create(ctx, model.CompanyFields{})

		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
		mEvents.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCompanyService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without archive", func(t *testing.T) {
		svc := newTestService(repoMocks.NewMemoryCompanyRepository(), clock.NewFixed(t0))

		res, err := svc.Export(ctx)

		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrExportDisabled)
	})

	t.Run("uploads every company and presigns", func(t *testing.T) {
		mRepo := new(repoMocks.MockCompanyRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewCompanyService(mRepo, Options{
			Clock:         clock.NewFixed(t0),
			Archive:       mStore,
			PresignExpiry: 5 * time.Minute,
			Logger:        zerolog.Nop(),
		})

		mRepo.On("FindAll", mock.Anything).Return([]model.Company{
			{ID: 1, Status: model.StatusActive},
			{ID: 2, Status: model.StatusInactive},
		}, nil)

		wantKey := "exports/companies-1709294400000000000.json"
		var payload string
		mStore.On("Put", mock.Anything, wantKey, mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.ContentType == "application/json" && opt.Metadata["count"] == "2"
		})).Return(func(_ context.Context, key string, r io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
			b, _ := io.ReadAll(r)
			payload = string(b)
			return storage.ObjectInfo{Key: key}
		}, nil)
		mStore.On("PresignGet", mock.Anything, wantKey, 5*time.Minute).Return("http://minio/signed", nil)

		res, err := svc.Export(ctx)

		require.NoError(t, err)
		assert.Equal(t, wantKey, res.Key)
		assert.Equal(t, "http://minio/signed", res.URL)
		assert.Equal(t, 2, res.Count)
		assert.Equal(t, t0.Add(5*time.Minute), res.ExpiresAt)
		assert.True(t, strings.HasPrefix(payload, `[{"id":1,`))
		mStore.AssertExpectations(t)
	})

	t.Run("upload error", func(t *testing.T) {
		mRepo := new(repoMocks.MockCompanyRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewCompanyService(mRepo, Options{Clock: clock.NewFixed(t0), Archive: mStore, Logger: zerolog.Nop()})

		mRepo.On("FindAll", mock.Anything).Return([]model.Company{}, nil)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("access denied"))

		res, err := svc.Export(ctx)

		assert.Nil(t, res)
		assert.EqualError(t, err, "upload export: access denied")
		mStore.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
	})
}
