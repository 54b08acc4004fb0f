// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantran-dev/bookden/internal/catalog/book"
	"github.com/vantran-dev/bookden/internal/platform/apperr"
	"github.com/vantran-dev/bookden/internal/platform/sec"
)

// # In-Memory Fakes

type fakeBookRepo struct {
	nextID int64
	books  map[int64]*book.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{nextID: 1, books: map[int64]*book.Book{}}
}

func (r *fakeBookRepo) List(_ context.Context) ([]*book.Book, error) {
	var out []*book.Book
	for id := int64(1); id < r.nextID; id++ {
		if b, ok := r.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id int64) (*book.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookRepo) Create(_ context.Context, b *book.Book) error {
	b.ID = r.nextID
	r.nextID++
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.books[b.ID] = &clone
	return nil
}

func (r *fakeBookRepo) Update(_ context.Context, b *book.Book) error {
	stored, ok := r.books[b.ID]
	if !ok {
		return apperr.NotFound("Book")
	}
	// Cover and protection never travel through Update.
	cover, protection := stored.CoverKey, stored.Protection
	clone := *b
	clone.CoverKey = cover
	clone.Protection = protection
	clone.UpdatedAt = time.Now()
	r.books[b.ID] = &clone
	return nil
}

func (r *fakeBookRepo) UpdateProtection(_ context.Context, id int64, p book.Protection) error {
	stored, ok := r.books[id]
	if !ok {
		return apperr.NotFound("Book")
	}
	stored.Protection = p
	return nil
}

type ratingKey struct {
	userID string
	bookID int64
}

type fakeRatingRepo struct {
	scores map[ratingKey]int
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{scores: map[ratingKey]int{}}
}

func (r *fakeRatingRepo) Upsert(_ context.Context, userID string, bookID int64, score int) (int, error) {
	r.scores[ratingKey{userID, bookID}] = score
	return score, nil
}

func (r *fakeRatingRepo) FindScore(_ context.Context, userID string, bookID int64) (int, error) {
	score, ok := r.scores[ratingKey{userID, bookID}]
	if !ok {
		return 0, apperr.NotFound("Rating")
	}
	return score, nil
}

func (r *fakeRatingRepo) Delete(_ context.Context, userID string, bookID int64) error {
	key := ratingKey{userID, bookID}
	if _, ok := r.scores[key]; !ok {
		return apperr.NotFound("Rating")
	}
	delete(r.scores, key)
	return nil
}

type fakeReviewRepo struct {
	nextID  int64
	reviews map[ratingKey]*book.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{nextID: 1, reviews: map[ratingKey]*book.Review{}}
}

func (r *fakeReviewRepo) ListByBook(_ context.Context, bookID int64) ([]*book.Review, error) {
	var out []*book.Review
	for key, review := range r.reviews {
		if key.bookID == bookID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) FindByUserAndBook(_ context.Context, userID string, bookID int64) (*book.Review, error) {
	review, ok := r.reviews[ratingKey{userID, bookID}]
	if !ok {
		return nil, apperr.NotFound("Review")
	}
	clone := *review
	return &clone, nil
}

func (r *fakeReviewRepo) Create(_ context.Context, review *book.Review) error {
	key := ratingKey{review.UserID, review.BookID}
	if _, ok := r.reviews[key]; ok {
		return apperr.Conflict("You have already reviewed this book")
	}
	review.ID = r.nextID
	r.nextID++
	clone := *review
	r.reviews[key] = &clone
	return nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *book.Review) error {
	for key, stored := range r.reviews {
		if stored.ID == review.ID {
			clone := *review
			r.reviews[key] = &clone
			return nil
		}
	}
	return apperr.NotFound("Review")
}

type fakeIllustrationRepo struct {
	nextID int64
	rows   map[int64]*book.Illustration
}

func newFakeIllustrationRepo() *fakeIllustrationRepo {
	return &fakeIllustrationRepo{nextID: 1, rows: map[int64]*book.Illustration{}}
}

func (r *fakeIllustrationRepo) ListByBook(_ context.Context, bookID int64) ([]*book.Illustration, error) {
	var out []*book.Illustration
	for id := int64(1); id < r.nextID; id++ {
		if row, ok := r.rows[id]; ok && row.BookID == bookID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeIllustrationRepo) CreateBatch(_ context.Context, bookID int64, keys []string) ([]*book.Illustration, error) {
	out := make([]*book.Illustration, 0, len(keys))
	for _, key := range keys {
		row := &book.Illustration{ID: r.nextID, BookID: bookID, ImageKey: key}
		r.nextID++
		r.rows[row.ID] = row
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeIllustrationRepo) DeleteBatch(_ context.Context, ids []int64) ([]string, error) {
	// All-or-nothing: verify every ID before touching anything.
	for _, id := range ids {
		if _, ok := r.rows[id]; !ok {
			return nil, apperr.NotFound("Illustration")
		}
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.rows[id].ImageKey)
		delete(r.rows, id)
	}
	return keys, nil
}

type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (s *fakeObjectStore) Put(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStore) Remove(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type fakeContributions struct {
	counts map[string]int
}

func newFakeContributions() *fakeContributions {
	return &fakeContributions{counts: map[string]int{}}
}

func (c *fakeContributions) IncrementContributions(_ context.Context, userID string) error {
	c.counts[userID]++
	return nil
}

// # Test Environment

type testEnv struct {
	service       *book.Service
	books         *fakeBookRepo
	ratings       *fakeRatingRepo
	reviews       *fakeReviewRepo
	illustrations *fakeIllustrationRepo
	objects       *fakeObjectStore
	contributions *fakeContributions
}

func newTestEnv() *testEnv {
	env := &testEnv{
		books:         newFakeBookRepo(),
		ratings:       newFakeRatingRepo(),
		reviews:       newFakeReviewRepo(),
		illustrations: newFakeIllustrationRepo(),
		objects:       newFakeObjectStore(),
		contributions: newFakeContributions(),
	}
	env.service = book.NewService(
		env.books,
		env.ratings,
		env.reviews,
		env.illustrations,
		env.objects,
		env.contributions,
		"/media",
	)
	return env
}

// seedBook inserts a book directly into the fake repository.
func (env *testEnv) seedBook(t *testing.T, b *book.Book) *book.Book {
	t.Helper()
	require.NoError(t, env.books.Create(context.Background(), b))
	return b
}

func coverUpload() *book.Upload {
	return &book.Upload{
		Filename:    "cover.jpg",
		ContentType: "image/jpeg",
		Size:        3,
		Reader:      bytes.NewReader([]byte{0xFF, 0xD8, 0xFF}),
	}
}

// # Rating Semantics

/*
TestRateBook_UpsertTwice verifies that a second submission by the same user
updates the existing rating instead of duplicating it.
*/
func TestRateBook_UpsertTwice(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})

	score, err := env.service.RateBook(context.Background(), "user-1", b.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, score)

	score, err = env.service.RateBook(context.Background(), "user-1", b.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, score)

	// Exactly one rating row for the pair, holding the latest score.
	assert.Len(t, env.ratings.scores, 1)
	assert.Equal(t, 5, env.ratings.scores[ratingKey{"user-1", b.ID}])
}

/*
TestRateBook_Validation rejects out-of-range scores and unknown books.
*/
func TestRateBook_Validation(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})

	tests := []struct {
		name     string
		bookID   int64
		score    int
		wantCode string
	}{
		{"score_too_low", b.ID, 0, "VALIDATION_ERROR"},
		{"score_too_high", b.ID, 6, "VALIDATION_ERROR"},
		{"unknown_book", 999, 3, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.RateBook(context.Background(), "user-1", tt.bookID, tt.score)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

/*
TestUnrateBook_Missing verifies that removing a nonexistent rating yields an
explicit NotFound rather than a crash or silent success.
*/
func TestUnrateBook_Missing(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})

	err := env.service.UnrateBook(context.Background(), "user-1", b.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// And a present rating deletes cleanly.
	_, err = env.service.RateBook(context.Background(), "user-1", b.ID, 4)
	require.NoError(t, err)
	require.NoError(t, env.service.UnrateBook(context.Background(), "user-1", b.ID))
	assert.Empty(t, env.ratings.scores)
}

// # Review Workflow

func validReview() book.ReviewInput {
	return book.ReviewInput{Title: "Great", Text: "Loved it", Score: 5}
}

/*
TestSubmitReview_Duplicate verifies the one-review-per-pair invariant: a
second submission is a Conflict and exactly one review row survives.
*/
func TestSubmitReview_Duplicate(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})

	_, err := env.service.SubmitReview(context.Background(), "user-1", b.ID, validReview())
	require.NoError(t, err)

	_, err = env.service.SubmitReview(context.Background(), "user-1", b.ID, validReview())
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	assert.Len(t, env.reviews.reviews, 1)
}

/*
TestSubmitReview_Validation covers the review field limits.
*/
func TestSubmitReview_Validation(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})

	longTitle := make([]byte, 176)
	longText := make([]byte, 501)
	for i := range longTitle {
		longTitle[i] = 'a'
	}
	for i := range longText {
		longText[i] = 'a'
	}

	tests := []struct {
		name  string
		input book.ReviewInput
	}{
		{"score_zero", book.ReviewInput{Title: "T", Text: "X", Score: 0}},
		{"score_six", book.ReviewInput{Title: "T", Text: "X", Score: 6}},
		{"title_too_long", book.ReviewInput{Title: string(longTitle), Text: "X", Score: 3}},
		{"text_too_long", book.ReviewInput{Title: "T", Text: string(longText), Score: 3}},
		{"empty_title", book.ReviewInput{Title: "", Text: "X", Score: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.SubmitReview(context.Background(), "user-1", b.ID, tt.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestEditReview_Lifecycle walks the none → submitted → edited state machine.
*/
func TestEditReview_Lifecycle(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})

	// Editing before submitting is NotFound (the page flow redirects).
	_, err := env.service.EditReview(context.Background(), "user-1", b.ID, validReview())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	created, err := env.service.SubmitReview(context.Background(), "user-1", b.ID, validReview())
	require.NoError(t, err)

	updated, err := env.service.EditReview(context.Background(), "user-1", b.ID, book.ReviewInput{
		Title: "Changed my mind", Text: "Still good", Score: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 4, updated.Score)
	assert.Len(t, env.reviews.reviews, 1)
}

// # Protection

/*
TestSetProtection_NonSuperuser verifies the silent no-op: a member's change
request modifies nothing and returns no error.
*/
func TestSetProtection_NonSuperuser(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S", Protection: book.ProtectionNone})

	applied, err := env.service.SetProtection(context.Background(), sec.RoleMember, b.ID, book.ProtectionFull)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, book.ProtectionNone, env.books.books[b.ID].Protection)

	// Anonymous callers (empty role) hit the same path.
	applied, err = env.service.SetProtection(context.Background(), "", b.ID, book.ProtectionFull)
	require.NoError(t, err)
	assert.False(t, applied)
}

/*
TestSetProtection_Superuser verifies that superusers can apply any valid
level and that unknown values are rejected.
*/
func TestSetProtection_Superuser(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S", Protection: book.ProtectionNone})

	applied, err := env.service.SetProtection(context.Background(), sec.RoleSuperuser, b.ID, book.ProtectionSemi)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, book.ProtectionSemi, env.books.books[b.ID].Protection)

	_, err = env.service.SetProtection(context.Background(), sec.RoleSuperuser, b.ID, book.Protection("bogus"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// # Contributions

/*
TestContributionCounter verifies that creating and editing a book each
increment the actor's counter by exactly one.
*/
func TestContributionCounter(t *testing.T) {
	env := newTestEnv()

	created, err := env.service.CreateBook(context.Background(), "user-1", book.CreateBookInput{
		Title:    "Dune",
		Author:   "Herbert",
		Synopsis: "S",
		Genres:   []string{"SciFi"},
		Cover:    coverUpload(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.contributions.counts["user-1"])

	_, err = env.service.EditBook(context.Background(), "user-1", created.ID, book.EditBookInput{
		Title:    "Dune (Revised)",
		Author:   "Herbert",
		Synopsis: "S",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, env.contributions.counts["user-1"])
}

/*
TestCreateBook_CoverRequired verifies that creation fails without a cover
image and that validation failures never touch the counter.
*/
func TestCreateBook_CoverRequired(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.CreateBook(context.Background(), "user-1", book.CreateBookInput{
		Title:    "Dune",
		Author:   "Herbert",
		Synopsis: "S",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Zero(t, env.contributions.counts["user-1"])
	assert.Empty(t, env.objects.objects)
}

/*
TestEditBook_CoverAndProtectionImmutable verifies the edit path cannot
change the cover or the protection level.
*/
func TestEditBook_CoverAndProtectionImmutable(t *testing.T) {
	env := newTestEnv()

	created, err := env.service.CreateBook(context.Background(), "user-1", book.CreateBookInput{
		Title:    "Dune",
		Author:   "Herbert",
		Synopsis: "S",
		Cover:    coverUpload(),
	})
	require.NoError(t, err)

	originalCover := env.books.books[created.ID].CoverKey
	require.NotEmpty(t, originalCover)

	_, err = env.service.EditBook(context.Background(), "user-1", created.ID, book.EditBookInput{
		Title:    "Dune II",
		Author:   "Herbert",
		Synopsis: "S2",
	})
	require.NoError(t, err)

	stored := env.books.books[created.ID]
	assert.Equal(t, originalCover, stored.CoverKey)
	assert.Equal(t, book.ProtectionNone, stored.Protection)
	assert.Equal(t, "Dune II", stored.Title)
}

// # Projections

/*
TestGetData_Projection pins the stable wire projection: first genre only,
public cover URL under the media prefix.
*/
func TestGetData_Projection(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{
		Title:    "Dune",
		Author:   "Herbert",
		Synopsis: "S",
		CoverKey: "dune.jpg",
		Genres:   []string{"SciFi", "Adventure"},
	})

	data, err := env.service.GetData(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, "Dune", data.Title)
	assert.Equal(t, "Herbert", data.Author)
	assert.Equal(t, "S", data.Synopsis)
	assert.Equal(t, "/media/dune.jpg", data.Cover)
	assert.Equal(t, "SciFi", data.Genre)

	_, err = env.service.GetData(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestGetDetail_OwnScore verifies the viewer's rating rides along on the
detail view only when present.
*/
func TestGetDetail_OwnScore(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})

	// Anonymous viewer: no own score.
	detail, err := env.service.GetDetail(context.Background(), b.ID, "")
	require.NoError(t, err)
	assert.Nil(t, detail.OwnScore)

	// Authenticated viewer without a rating: still nil.
	detail, err = env.service.GetDetail(context.Background(), b.ID, "user-1")
	require.NoError(t, err)
	assert.Nil(t, detail.OwnScore)

	_, err = env.service.RateBook(context.Background(), "user-1", b.ID, 4)
	require.NoError(t, err)

	detail, err = env.service.GetDetail(context.Background(), b.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, detail.OwnScore)
	assert.Equal(t, 4, *detail.OwnScore)
}

/*
TestListBooks_Order verifies ascending-ID ordering of the full listing.
*/
func TestListBooks_Order(t *testing.T) {
	env := newTestEnv()
	for i := 0; i < 3; i++ {
		env.seedBook(t, &book.Book{
			Title:    fmt.Sprintf("Book %d", i+1),
			Author:   "A",
			Synopsis: "S",
		})
	}

	books, err := env.service.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)
	for i := 1; i < len(books); i++ {
		assert.Greater(t, books[i].ID, books[i-1].ID)
	}
}

// # Illustrations

/*
TestUploadIllustrations verifies one row and one stored object per file.
*/
func TestUploadIllustrations(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})

	uploads := []*book.Upload{
		{Filename: "one.png", ContentType: "image/png", Size: 1, Reader: bytes.NewReader([]byte{1})},
		{Filename: "two.png", ContentType: "image/png", Size: 1, Reader: bytes.NewReader([]byte{2})},
	}

	created, err := env.service.UploadIllustrations(context.Background(), b.ID, uploads)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, env.objects.objects, 2)

	// Uploading to an unknown book fails before storing anything.
	_, err = env.service.UploadIllustrations(context.Background(), 999, []*book.Upload{
		{Filename: "x.png", ContentType: "image/png", Size: 1, Reader: bytes.NewReader([]byte{3})},
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Len(t, env.objects.objects, 2)
}

/*
TestDeleteIllustrations_AllOrNothing verifies that one unknown ID aborts the
whole batch before anything is deleted.
*/
func TestDeleteIllustrations_AllOrNothing(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})

	rows, err := env.illustrations.CreateBatch(context.Background(), b.ID, []string{"illustrations/a.png", "illustrations/b.png"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Batch [1, 2, 999]: 999 does not exist, so 1 and 2 must survive.
	err = env.service.DeleteIllustrations(context.Background(), []int64{rows[0].ID, rows[1].ID, 999})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Len(t, env.illustrations.rows, 2)

	// A fully valid batch removes everything.
	require.NoError(t, env.service.DeleteIllustrations(context.Background(), []int64{rows[0].ID, rows[1].ID}))
	assert.Empty(t, env.illustrations.rows)

	// An empty batch is a validation failure.
	err = env.service.DeleteIllustrations(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
