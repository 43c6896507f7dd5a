package service

import (
	"context"
	"testing"

	"waymark/internal/models"
	"waymark/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFeedList_Pagination(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		limit          int
		total          int64
		wantPage       int
		wantLimit      int
		wantOffset     int
		wantTotalPages int
	}{
		{name: "defaults", page: 0, limit: 0, total: 45, wantPage: 1, wantLimit: 20, wantOffset: 0, wantTotalPages: 3},
		{name: "second page", page: 2, limit: 20, total: 45, wantPage: 2, wantLimit: 20, wantOffset: 20, wantTotalPages: 3},
		{name: "negative page clamps", page: -3, limit: 10, total: 5, wantPage: 1, wantLimit: 10, wantOffset: 0, wantTotalPages: 1},
		{name: "exact multiple", page: 1, limit: 10, total: 30, wantPage: 1, wantLimit: 10, wantOffset: 0, wantTotalPages: 3},
		{name: "empty result", page: 1, limit: 20, total: 0, wantPage: 1, wantLimit: 20, wantOffset: 0, wantTotalPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery repository.FeedQuery
			recRepo := &recRepoStub{
				listFn: func(_ context.Context, q repository.FeedQuery, _ uint) ([]*models.Recommendation, int64, error) {
					gotQuery = q
					return nil, tt.total, nil
				},
			}
			svc := NewFeedService(recRepo, &tagRepoStub{}, &staticTitleFetcher{}, adminCheck(false))

			page, err := svc.List(context.Background(), 1, FeedInput{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)

			assert.Equal(t, tt.wantLimit, gotQuery.Limit)
			assert.Equal(t, tt.wantOffset, gotQuery.Offset)
			assert.Equal(t, tt.wantPage, page.Pagination.Page)
			assert.Equal(t, tt.wantLimit, page.Pagination.Limit)
			assert.Equal(t, tt.total, page.Pagination.Total)
			assert.Equal(t, tt.wantTotalPages, page.Pagination.TotalPages)
			// a nil repo slice must serialize as [], not null
			assert.NotNil(t, page.Recommendations)
		})
	}
}

func TestFeedList_PassesFilters(t *testing.T) {
	var gotQuery repository.FeedQuery
	var gotCaller uint
	recRepo := &recRepoStub{
		listFn: func(_ context.Context, q repository.FeedQuery, callerID uint) ([]*models.Recommendation, int64, error) {
			gotQuery = q
			gotCaller = callerID
			return []*models.Recommendation{{ID: 1}}, 1, nil
		},
	}
	svc := NewFeedService(recRepo, &tagRepoStub{}, &staticTitleFetcher{}, adminCheck(false))

	_, err := svc.List(context.Background(), 7, FeedInput{Search: "go", Tag: "tools", Sort: "top"})
	require.NoError(t, err)

	assert.Equal(t, "go", gotQuery.Search)
	assert.Equal(t, "tools", gotQuery.Tag)
	assert.Equal(t, "top", gotQuery.Sort)
	assert.Equal(t, uint(7), gotCaller)
}

func TestFeedGet_NotFound(t *testing.T) {
	recRepo := &recRepoStub{
		getByIDFn: func(context.Context, uint, uint) (*models.Recommendation, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewFeedService(recRepo, &tagRepoStub{}, &staticTitleFetcher{}, adminCheck(false))

	_, err := svc.Get(context.Background(), 1, 99)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestFeedCreate_RequiresURL(t *testing.T) {
	svc := NewFeedService(&recRepoStub{}, &tagRepoStub{}, &staticTitleFetcher{}, adminCheck(false))

	_, err := svc.Create(context.Background(), CreateRecommendationInput{UserID: 1, URL: "   "})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestFeedCreate_SchemePrefixAndTitleFallback(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		title        string
		fetchedTitle string
		wantURL      string
		wantTitle    string
	}{
		{
			name:      "explicit title kept",
			url:       "https://example.com/a",
			title:     "My Title",
			wantURL:   "https://example.com/a",
			wantTitle: "My Title",
		},
		{
			name:         "missing scheme gets https",
			url:          "example.com/a",
			fetchedTitle: "Fetched",
			wantURL:      "https://example.com/a",
			wantTitle:    "Fetched",
		},
		{
			name:      "http scheme preserved",
			url:       "http://example.com/a",
			title:     "T",
			wantURL:   "http://example.com/a",
			wantTitle: "T",
		},
		{
			name:      "fetch failure falls back to url",
			url:       "https://example.com/a",
			wantURL:   "https://example.com/a",
			wantTitle: "https://example.com/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *models.Recommendation
			recRepo := &recRepoStub{
				createFn: func(_ context.Context, rec *models.Recommendation) error {
					rec.ID = 42
					created = rec
					return nil
				},
				getByIDFn: func(_ context.Context, id, _ uint) (*models.Recommendation, error) {
					return created, nil
				},
			}
			svc := NewFeedService(recRepo, &tagRepoStub{}, &staticTitleFetcher{title: tt.fetchedTitle}, adminCheck(false))

			rec, err := svc.Create(context.Background(), CreateRecommendationInput{
				UserID: 1,
				URL:    tt.url,
				Title:  tt.title,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, rec.URL)
			assert.Equal(t, tt.wantTitle, rec.Title)
		})
	}
}

func TestFeedCreate_NormalizesAndCollapsesTags(t *testing.T) {
	var created *models.Recommendation
	recRepo := &recRepoStub{
		createFn: func(_ context.Context, rec *models.Recommendation) error {
			rec.ID = 7
			created = rec
			return nil
		},
		getByIDFn: func(context.Context, uint, uint) (*models.Recommendation, error) {
			return created, nil
		},
	}

	var gotNames []string
	linked := map[uint]int{}
	nextTagID := uint(0)
	tagIDs := map[string]uint{}
	tagRepo := &tagRepoStub{
		getOrCreateFn: func(_ context.Context, name string, _ uint) (*models.Tag, error) {
			gotNames = append(gotNames, name)
			id, ok := tagIDs[name]
			if !ok {
				nextTagID++
				id = nextTagID
				tagIDs[name] = id
			}
			return &models.Tag{ID: id, Name: name}, nil
		},
		linkFn: func(_ context.Context, _ uint, tagID uint) error {
			linked[tagID]++
			return nil
		},
	}
	svc := NewFeedService(recRepo, tagRepo, &staticTitleFetcher{}, adminCheck(false))

	_, err := svc.Create(context.Background(), CreateRecommendationInput{
		UserID: 1,
		URL:    "https://example.com",
		Title:  "T",
		Tags:   []string{" Go ", "go", "", "  ", "Tools"},
	})
	require.NoError(t, err)

	// blank entries skipped, the rest lower-cased and trimmed
	assert.Equal(t, []string{"go", "go", "tools"}, gotNames)
	// "Go" and "go" resolve to the same tag; linking is idempotent so
	// the duplicate collapses to one link target
	assert.Len(t, linked, 2)
}

func TestFeedCreate_TagVanishesDuringResolution(t *testing.T) {
	recRepo := &recRepoStub{
		createFn: func(_ context.Context, rec *models.Recommendation) error {
			rec.ID = 7
			return nil
		},
	}
	// a concurrent delete can leave the resolver with no row and no error
	tagRepo := &tagRepoStub{
		getOrCreateFn: func(context.Context, string, uint) (*models.Tag, error) {
			return nil, nil
		},
		linkFn: func(context.Context, uint, uint) error {
			t.Fatal("must not link a tag that was never resolved")
			return nil
		},
	}
	svc := NewFeedService(recRepo, tagRepo, &staticTitleFetcher{}, adminCheck(false))

	_, err := svc.Create(context.Background(), CreateRecommendationInput{
		UserID: 1,
		URL:    "https://example.com",
		Title:  "T",
		Tags:   []string{"go"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be resolved")
}

func TestFeedDelete_Authorization(t *testing.T) {
	tests := []struct {
		name       string
		callerID   uint
		ownerID    uint
		isAdmin    bool
		wantDelete bool
		wantCode   string
	}{
		{name: "owner deletes", callerID: 1, ownerID: 1, wantDelete: true},
		{name: "admin deletes foreign", callerID: 2, ownerID: 1, isAdmin: true, wantDelete: true},
		{name: "stranger forbidden", callerID: 2, ownerID: 1, wantCode: "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			recRepo := &recRepoStub{
				getByIDFn: func(context.Context, uint, uint) (*models.Recommendation, error) {
					return &models.Recommendation{ID: 5, UserID: tt.ownerID}, nil
				},
				deleteFn: func(context.Context, uint) error {
					deleted = true
					return nil
				},
			}
			svc := NewFeedService(recRepo, &tagRepoStub{}, &staticTitleFetcher{}, adminCheck(tt.isAdmin))

			err := svc.Delete(context.Background(), tt.callerID, 5)
			if tt.wantCode != "" {
				require.Error(t, err)
				appErr, ok := err.(*models.AppError)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, appErr.Code)
				assert.False(t, deleted)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDelete, deleted)
		})
	}
}

func TestFeedDelete_NotFound(t *testing.T) {
	recRepo := &recRepoStub{
		getByIDFn: func(context.Context, uint, uint) (*models.Recommendation, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewFeedService(recRepo, &tagRepoStub{}, &staticTitleFetcher{}, adminCheck(true))

	err := svc.Delete(context.Background(), 1, 404)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
