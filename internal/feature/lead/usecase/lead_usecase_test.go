package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtier_backend/internal/feature/lead/domain"
	"courtier_backend/internal/feature/lead/domain/entity"
	userdomain "courtier_backend/internal/feature/user/domain"
	userentity "courtier_backend/internal/feature/user/domain/entity"
	"courtier_backend/internal/platform/apperr"
	"courtier_backend/internal/platform/storage"
)

// mockLeadRepository はテスト用のLeadRepositoryモック実装です。
type mockLeadRepository struct {
	leads  map[uint]*entity.Lead
	nextID uint
	saved  []*entity.Lead
	listFn func(ctx context.Context, offset, limit int) ([]entity.Lead, int64, error)
}

func newMockLeadRepository(seed ...*entity.Lead) *mockLeadRepository {
	m := &mockLeadRepository{leads: map[uint]*entity.Lead{}}
	for _, l := range seed {
		m.leads[l.ID] = l
		m.nextID = max(m.nextID, l.ID)
	}
	return m
}

func (m *mockLeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	m.nextID++
	l.ID = m.nextID
	m.leads[l.ID] = l
	return nil
}

func (m *mockLeadRepository) FindByID(ctx context.Context, id uint) (*entity.Lead, error) {
	l, ok := m.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *mockLeadRepository) List(ctx context.Context, offset, limit int) ([]entity.Lead, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockLeadRepository) Save(ctx context.Context, l *entity.Lead) error {
	m.saved = append(m.saved, l)
	m.leads[l.ID] = l
	return nil
}

func (m *mockLeadRepository) Delete(ctx context.Context, id uint) error {
	if _, ok := m.leads[id]; !ok {
		return domain.ErrLeadNotFound
	}
	delete(m.leads, id)
	return nil
}

type mockUserFinder struct {
	exists bool
}

func (m *mockUserFinder) FindByID(ctx context.Context, id uint) (*userentity.User, error) {
	if !m.exists {
		return nil, userdomain.ErrUserNotFound
	}
	return &userentity.User{ID: id}, nil
}

type mockUploader struct {
	calls  int
	folder string
	err    error
}

func (m *mockUploader) UploadFiles(ctx context.Context, folder string, files []storage.File) ([]string, error) {
	m.calls++
	m.folder = folder
	if m.err != nil {
		return nil, m.err
	}
	urls := make([]string, len(files))
	for i, f := range files {
		urls[i] = "https://cdn/" + f.Name
	}
	return urls, nil
}

func strPtr(s string) *string { return &s }

func TestLeadUsecase_Create(t *testing.T) {
	t.Parallel()

	valid := CreateInput{
		UserID:       1,
		LeadType:     entity.LeadTypeBuyer,
		PropertyType: entity.PropertyCondo,
		Preferences:  map[string]any{"bedrooms": 2},
		Location:     json.RawMessage(`"[{\"city\":\"Montreal\",\"boroughs\":\"Plateau\"}]"`),
		Files:        []storage.File{{Name: "a.jpg"}, {Name: "b.jpg"}},
	}

	t.Run("success uploads images and stores URLs", func(t *testing.T) {
		t.Parallel()
		repo := newMockLeadRepository()
		up := &mockUploader{}
		uc := NewLeadUsecase(repo, &mockUserFinder{exists: true}, up)

		lead, err := uc.Create(context.Background(), valid)

		require.NoError(t, err)
		assert.Equal(t, uint(1), lead.ID)
		assert.Equal(t, "propertyImages", up.folder)
		assert.Equal(t, []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}, lead.PropertyImage)
		require.NotNil(t, lead.Location)
		assert.JSONEq(t, `[{"city":"Montreal","boroughs":"Plateau"}]`, *lead.Location)
	})

	t.Run("no files skips upload", func(t *testing.T) {
		t.Parallel()
		up := &mockUploader{}
		uc := NewLeadUsecase(newMockLeadRepository(), &mockUserFinder{exists: true}, up)

		in := valid
		in.Files = nil
		_, err := uc.Create(context.Background(), in)

		require.NoError(t, err)
		assert.Zero(t, up.calls)
	})

	tests := []struct {
		name    string
		mutate  func(in *CreateInput)
		exists  bool
		wantErr error
	}{
		{"bad lead type", func(in *CreateInput) { in.LeadType = "renter" }, true, ErrInvalidLeadType},
		{"bad property type", func(in *CreateInput) { in.PropertyType = "castle" }, true, ErrInvalidPropertyType},
		{"bad location", func(in *CreateInput) { in.Location = json.RawMessage(`{"city":"x"}`) }, true, ErrInvalidLocation},
		{"too many files", func(in *CreateInput) { in.Files = make([]storage.File, 11) }, true, ErrTooManyImages},
		{"unknown owner", func(in *CreateInput) {}, false, userdomain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := valid
			tt.mutate(&in)
			uc := NewLeadUsecase(newMockLeadRepository(), &mockUserFinder{exists: tt.exists}, &mockUploader{})

			_, err := uc.Create(context.Background(), in)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("upload failure is internal", func(t *testing.T) {
		t.Parallel()
		uc := NewLeadUsecase(newMockLeadRepository(), &mockUserFinder{exists: true}, &mockUploader{err: errors.New("s3 down")})

		_, err := uc.Create(context.Background(), valid)

		require.Error(t, err)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})
}

func TestLeadUsecase_Update(t *testing.T) {
	t.Parallel()

	repo := newMockLeadRepository(&entity.Lead{ID: 3, LeadType: entity.LeadTypeSeller, PropertySaleTime: strPtr("2024")})
	uc := NewLeadUsecase(repo, &mockUserFinder{}, &mockUploader{})

	err := uc.Update(context.Background(), 3, PreferencesUpdate{PropertyPurchaseTime: strPtr("2025"), Preferences: map[string]any{"garage": true}})
	require.NoError(t, err)

	got := repo.leads[3]
	assert.Equal(t, "2024", *got.PropertySaleTime)
	assert.Equal(t, "2025", *got.PropertyPurchaseTime)
	assert.Equal(t, true, got.Preferences["garage"])

	assert.ErrorIs(t, uc.Update(context.Background(), 99, PreferencesUpdate{}), domain.ErrLeadNotFound)
}

func TestLeadUsecase_UpdateImages(t *testing.T) {
	t.Parallel()

	t.Run("replaces images", func(t *testing.T) {
		t.Parallel()
		repo := newMockLeadRepository(&entity.Lead{ID: 1, PropertyImage: []string{"old"}})
		uc := NewLeadUsecase(repo, &mockUserFinder{}, &mockUploader{})

		require.NoError(t, uc.UpdateImages(context.Background(), 1, []storage.File{{Name: "new.png"}}))
		assert.Equal(t, []string{"https://cdn/new.png"}, repo.leads[1].PropertyImage)
	})

	t.Run("no files is not found", func(t *testing.T) {
		t.Parallel()
		up := &mockUploader{}
		uc := NewLeadUsecase(newMockLeadRepository(&entity.Lead{ID: 1}), &mockUserFinder{}, up)

		assert.ErrorIs(t, uc.UpdateImages(context.Background(), 1, nil), domain.ErrLeadNotFound)
		assert.Zero(t, up.calls)
	})

	t.Run("missing lead does not upload", func(t *testing.T) {
		t.Parallel()
		up := &mockUploader{}
		uc := NewLeadUsecase(newMockLeadRepository(), &mockUserFinder{}, up)

		assert.ErrorIs(t, uc.UpdateImages(context.Background(), 1, []storage.File{{Name: "a"}}), domain.ErrLeadNotFound)
		assert.Zero(t, up.calls)
	})
}

func TestLeadUsecase_List(t *testing.T) {
	t.Parallel()

	var gotOffset, gotLimit int
	repo := newMockLeadRepository()
	repo.listFn = func(ctx context.Context, offset, limit int) ([]entity.Lead, int64, error) {
		gotOffset, gotLimit = offset, limit
		return []entity.Lead{{ID: 21}}, 21, nil
	}
	uc := NewLeadUsecase(repo, &mockUserFinder{}, &mockUploader{})

	page, err := uc.List(context.Background(), 3, 10)

	require.NoError(t, err)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, int64(21), page.Total)
	assert.Len(t, page.Result, 1)

	_, err = uc.List(context.Background(), 0, 10)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestLeadUsecase_List_EmptyResultIsNotNull(t *testing.T) {
	t.Parallel()

	uc := NewLeadUsecase(newMockLeadRepository(), &mockUserFinder{}, &mockUploader{})

	page, err := uc.List(context.Background(), 1, 10)

	require.NoError(t, err)
	b, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":[],"total":0}`, string(b))
}

func TestLeadUsecase_AdminUpdate(t *testing.T) {
	t.Parallel()

	repo := newMockLeadRepository(&entity.Lead{ID: 5, LeadType: entity.LeadTypeBuyer, PropertyType: entity.PropertyCondo})
	uc := NewLeadUsecase(repo, &mockUserFinder{}, &mockUploader{})

	seller := entity.LeadTypeSeller
	err := uc.AdminUpdate(context.Background(), 5, Patch{
		LeadType: &seller,
		Location: json.RawMessage(`[{"city":"Laval","boroughs":["Vimont"]}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LeadTypeSeller, repo.leads[5].LeadType)
	assert.Equal(t, entity.PropertyCondo, repo.leads[5].PropertyType)

	bad := entity.PropertyType("castle")
	assert.ErrorIs(t, uc.AdminUpdate(context.Background(), 5, Patch{PropertyType: &bad}), ErrInvalidPropertyType)
	assert.ErrorIs(t, uc.AdminUpdate(context.Background(), 6, Patch{}), domain.ErrLeadNotFound)
}

func TestLeadUsecase_Delete(t *testing.T) {
	t.Parallel()

	uc := NewLeadUsecase(newMockLeadRepository(&entity.Lead{ID: 1}), &mockUserFinder{}, &mockUploader{})

	require.NoError(t, uc.Delete(context.Background(), 1))
	assert.ErrorIs(t, uc.Delete(context.Background(), 1), domain.ErrLeadNotFound)
}
