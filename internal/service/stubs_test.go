package service

import (
	"context"

	"waymark/internal/models"
	"waymark/internal/repository"
)

// Function-field stubs shared by the service tests. Each test fills in
// only the methods it expects to be hit; an unexpected call panics on
// the nil function, which is the failure we want.

type recRepoStub struct {
	createFn         func(context.Context, *models.Recommendation) error
	getByIDFn        func(context.Context, uint, uint) (*models.Recommendation, error)
	existsFn         func(context.Context, uint) (bool, error)
	listFn           func(context.Context, repository.FeedQuery, uint) ([]*models.Recommendation, int64, error)
	deleteFn         func(context.Context, uint) error
	toggleUpvoteFn   func(context.Context, uint, uint) (bool, int, error)
	upvoteRowCountFn func(context.Context, uint) (int64, error)
}

func (s *recRepoStub) Create(ctx context.Context, rec *models.Recommendation) error {
	return s.createFn(ctx, rec)
}
func (s *recRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Recommendation, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *recRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *recRepoStub) List(ctx context.Context, q repository.FeedQuery, currentUserID uint) ([]*models.Recommendation, int64, error) {
	return s.listFn(ctx, q, currentUserID)
}
func (s *recRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *recRepoStub) ToggleUpvote(ctx context.Context, userID, recommendationID uint) (bool, int, error) {
	return s.toggleUpvoteFn(ctx, userID, recommendationID)
}
func (s *recRepoStub) UpvoteRowCount(ctx context.Context, recommendationID uint) (int64, error) {
	return s.upvoteRowCountFn(ctx, recommendationID)
}

type tagRepoStub struct {
	getByNameFn   func(context.Context, string) (*models.Tag, error)
	getOrCreateFn func(context.Context, string, uint) (*models.Tag, error)
	linkFn        func(context.Context, uint, uint) error
	listFn        func(context.Context, string) ([]*models.Tag, error)
}

func (s *tagRepoStub) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return s.getByNameFn(ctx, name)
}
func (s *tagRepoStub) GetOrCreate(ctx context.Context, name string, creatorID uint) (*models.Tag, error) {
	return s.getOrCreateFn(ctx, name, creatorID)
}
func (s *tagRepoStub) Link(ctx context.Context, recommendationID, tagID uint) error {
	return s.linkFn(ctx, recommendationID, tagID)
}
func (s *tagRepoStub) List(ctx context.Context, search string) ([]*models.Tag, error) {
	return s.listFn(ctx, search)
}

type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByUsernameFn      func(context.Context, string) (*models.User, error)
	registerWithInviteFn func(context.Context, *models.User, string) error
	updatePasswordFn     func(context.Context, uint, string) error
	listFn               func(context.Context) ([]*models.User, error)
	countFn              func(context.Context) (int64, error)
	deleteFn             func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) RegisterWithInvite(ctx context.Context, user *models.User, code string) error {
	return s.registerWithInviteFn(ctx, user, code)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return s.updatePasswordFn(ctx, id, passwordHash)
}
func (s *userRepoStub) List(ctx context.Context) ([]*models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type commentRepoStub struct {
	createFn               func(context.Context, *models.Comment) error
	getByIDFn              func(context.Context, uint) (*models.Comment, error)
	listByRecommendationFn func(context.Context, uint) ([]*models.Comment, error)
	deleteFn               func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByRecommendation(ctx context.Context, recommendationID uint) ([]*models.Comment, error) {
	return s.listByRecommendationFn(ctx, recommendationID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type inviteRepoStub struct {
	createFn     func(context.Context, *models.InviteCode) error
	codeExistsFn func(context.Context, string) (bool, error)
	getByCodeFn  func(context.Context, string) (*models.InviteCode, error)
	listFn       func(context.Context) ([]*models.InviteCode, error)
	deleteFn     func(context.Context, uint) error
}

func (s *inviteRepoStub) Create(ctx context.Context, invite *models.InviteCode) error {
	return s.createFn(ctx, invite)
}
func (s *inviteRepoStub) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.codeExistsFn(ctx, code)
}
func (s *inviteRepoStub) GetByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	return s.getByCodeFn(ctx, code)
}
func (s *inviteRepoStub) List(ctx context.Context) ([]*models.InviteCode, error) {
	return s.listFn(ctx)
}
func (s *inviteRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// staticTitleFetcher returns a fixed title for every URL.
type staticTitleFetcher struct {
	title string
}

func (f *staticTitleFetcher) Fetch(_ context.Context, _ string) string {
	return f.title
}

// adminCheck builds an isAdmin callback returning a fixed answer.
func adminCheck(isAdmin bool) func(context.Context, uint) (bool, error) {
	return func(context.Context, uint) (bool, error) {
		return isAdmin, nil
	}
}
