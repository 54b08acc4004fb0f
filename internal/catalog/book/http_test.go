// Copyright (c) 2026 Bookden. All rights reserved.
// Author: van.tran.dev@gmail.com

package book_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantran-dev/bookden/internal/catalog/book"
	"github.com/vantran-dev/bookden/internal/platform/ctxutil"
	"github.com/vantran-dev/bookden/internal/platform/sec"
)

// newTestRouter mounts the catalogue handler the same way the API server does.
func newTestRouter(env *testEnv) *chi.Mux {
	handler := book.NewHandler(env.service)

	router := chi.NewRouter()
	router.Mount("/api/v1/books", handler.Routes())
	router.Mount("/api/v1/ratings", handler.RatingRoutes())
	router.Mount("/api/v1/illustrations", handler.IllustrationRoutes())
	return router
}

// asUser attaches auth claims to the request context, standing in for the
// Authenticate middleware.
func asUser(request *http.Request, userID string, role sec.UserRole) *http.Request {
	claims := &sec.AuthClaims{UserID: userID, Username: "tester", Role: string(role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

func doJSON(t *testing.T, router *chi.Mux, method, target string, body any, decorate func(*http.Request) *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, target, reader)
	request.Header.Set("Content-Type", "application/json")
	if decorate != nil {
		request = decorate(request)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

// # Rating Wire Format

/*
TestRatingAPI_WireShapes pins the compact payloads the star widget
string-matches on, for every branch of the rating API.
*/
func TestRatingAPI_WireShapes(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})
	router := newTestRouter(env)

	member := func(r *http.Request) *http.Request { return asUser(r, "user-1", sec.RoleMember) }

	t.Run("anonymous_post", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/ratings", map[string]any{"book_id": b.ID, "rating": 4}, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.JSONEq(t, `{"error": "login_required"}`, recorder.Body.String())
	})

	t.Run("anonymous_delete", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodDelete, "/api/v1/ratings", map[string]any{"book_id": b.ID}, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.JSONEq(t, `{"error": "login_required"}`, recorder.Body.String())
	})

	t.Run("delete_before_rating", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodDelete, "/api/v1/ratings", map[string]any{"book_id": b.ID}, member)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"error": "rating does not exist"}`, recorder.Body.String())
	})

	t.Run("post_then_repost", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/ratings", map[string]any{"book_id": b.ID, "rating": 3}, member)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"success": "true", "score": 3}`, recorder.Body.String())

		recorder = doJSON(t, router, http.MethodPost, "/api/v1/ratings", map[string]any{"book_id": b.ID, "rating": 5}, member)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"success": "true", "score": 5}`, recorder.Body.String())
		assert.Len(t, env.ratings.scores, 1)
	})

	t.Run("delete_existing", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodDelete, "/api/v1/ratings", map[string]any{"book_id": b.ID}, member)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"success": "deleted"}`, recorder.Body.String())
	})

	t.Run("score_out_of_range", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/ratings", map[string]any{"book_id": b.ID, "rating": 9}, member)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

// # Data Projection

/*
TestBookData_WireShape pins the unenveloped projection consumed by external
integrations.
*/
func TestBookData_WireShape(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{
		Title:    "Dune",
		Author:   "Herbert",
		Synopsis: "Spice and sand",
		CoverKey: "dune.jpg",
		Genres:   []string{"SciFi", "Adventure"},
	})
	router := newTestRouter(env)

	recorder := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/books/%d/data", b.ID), nil, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{
		"book": {
			"title": "Dune",
			"author": "Herbert",
			"synopsis": "Spice and sand",
			"cover": "/media/dune.jpg",
			"genre": "SciFi"
		}
	}`, recorder.Body.String())

	recorder = doJSON(t, router, http.MethodGet, "/api/v1/books/999/data", nil, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

// # Browsing

/*
TestListAndDetail covers the public browse endpoints, including the viewer's
own score riding along on the detail view.
*/
func TestListAndDetail(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})
	_, err := env.service.RateBook(context.Background(), "user-1", b.ID, 4)
	require.NoError(t, err)
	router := newTestRouter(env)

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/books", nil, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var listing struct {
		Data []*book.Book `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listing))
	require.Len(t, listing.Data, 1)
	assert.Equal(t, "Dune", listing.Data[0].Title)

	detailFor := func(decorate func(*http.Request) *http.Request) *book.Detail {
		recorder := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/books/%d", b.ID), nil, decorate)
		require.Equal(t, http.StatusOK, recorder.Code)
		var envelope struct {
			Data *book.Detail `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		return envelope.Data
	}

	assert.Nil(t, detailFor(nil).OwnScore)

	detail := detailFor(func(r *http.Request) *http.Request { return asUser(r, "user-1", sec.RoleMember) })
	require.NotNil(t, detail.OwnScore)
	assert.Equal(t, 4, *detail.OwnScore)

	recorder = doJSON(t, router, http.MethodGet, "/api/v1/books/search", nil, nil)
	assert.Equal(t, http.StatusNotImplemented, recorder.Code)
}

// # Contribution Flows

/*
TestCreateBook_Multipart drives the contribution form end to end and checks
the post/redirect/get answer.
*/
func TestCreateBook_Multipart(t *testing.T) {
	env := newTestEnv()
	router := newTestRouter(env)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField(book.FieldTitle, "Dune"))
	require.NoError(t, form.WriteField(book.FieldAuthor, "Herbert"))
	require.NoError(t, form.WriteField(book.FieldSynopsis, "S"))
	require.NoError(t, form.WriteField(book.FieldGenres, "SciFi"))
	require.NoError(t, form.WriteField(book.FieldGenres, "Adventure"))

	part, err := form.CreateFormFile(book.FieldCover, "dune.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/api/v1/books", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	request = asUser(request, "user-1", sec.RoleMember)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusSeeOther, recorder.Code, recorder.Body.String())
	assert.Equal(t, "/api/v1/books/1", recorder.Header().Get("Location"))
	assert.Equal(t, 1, env.contributions.counts["user-1"])
	assert.Len(t, env.objects.objects, 1)
}

/*
TestCreateBook_RequiresAuth verifies the contribution endpoint is closed to
anonymous callers.
*/
func TestCreateBook_RequiresAuth(t *testing.T) {
	env := newTestEnv()
	router := newTestRouter(env)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader(""))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "UNAUTHORIZED")
}

/*
TestEditBook_Redirect drives the JSON edit form and checks the redirect.
*/
func TestEditBook_Redirect(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})
	router := newTestRouter(env)

	recorder := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/books/%d", b.ID), map[string]any{
		"title":    "Dune (Revised)",
		"author":   "Herbert",
		"synopsis": "S2",
	}, func(r *http.Request) *http.Request { return asUser(r, "user-1", sec.RoleMember) })

	require.Equal(t, http.StatusSeeOther, recorder.Code, recorder.Body.String())
	assert.Equal(t, fmt.Sprintf("/api/v1/books/%d", b.ID), recorder.Header().Get("Location"))
	assert.Equal(t, "Dune (Revised)", env.books.books[b.ID].Title)
}

// # Protection Endpoint

/*
TestSetProtection_Endpoint verifies the redirect-always contract: superusers
change the level, everyone else gets the same redirect and no change.
*/
func TestSetProtection_Endpoint(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S", Protection: book.ProtectionNone})
	router := newTestRouter(env)

	target := fmt.Sprintf("/api/v1/books/%d/protection", b.ID)
	body := map[string]string{"protection": string(book.ProtectionFull)}

	tests := []struct {
		name     string
		decorate func(*http.Request) *http.Request
		want     book.Protection
	}{
		{"anonymous", nil, book.ProtectionNone},
		{"member", func(r *http.Request) *http.Request { return asUser(r, "user-1", sec.RoleMember) }, book.ProtectionNone},
		{"superuser", func(r *http.Request) *http.Request { return asUser(r, "admin-1", sec.RoleSuperuser) }, book.ProtectionFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doJSON(t, router, http.MethodPost, target, body, tt.decorate)
			require.Equal(t, http.StatusSeeOther, recorder.Code, recorder.Body.String())
			assert.Equal(t, fmt.Sprintf("/api/v1/books/%d", b.ID), recorder.Header().Get("Location"))
			assert.Equal(t, tt.want, env.books.books[b.ID].Protection)
		})
	}

	// An unknown enum value is rejected only for superusers.
	recorder := doJSON(t, router, http.MethodPost, target, map[string]string{"protection": "bogus"},
		func(r *http.Request) *http.Request { return asUser(r, "admin-1", sec.RoleSuperuser) })
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// # Review Pages

/*
TestReviewFlow walks the review form endpoints: creation context, the
redirect to the edit form once a review exists, and the edit redirects.
*/
func TestReviewFlow(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})
	router := newTestRouter(env)

	member := func(r *http.Request) *http.Request { return asUser(r, "user-1", sec.RoleMember) }
	formPath := fmt.Sprintf("/api/v1/books/%d/review", b.ID)
	editPath := formPath + "/edit"
	detail := fmt.Sprintf("/api/v1/books/%d", b.ID)

	// No review yet: the edit form bounces back to the detail page.
	recorder := doJSON(t, router, http.MethodGet, editPath, nil, member)
	require.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, detail, recorder.Header().Get("Location"))

	// The creation form serves the book context.
	recorder = doJSON(t, router, http.MethodGet, formPath, nil, member)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Submission redirects to the detail page.
	payload := map[string]any{"title": "Great", "text": "Loved it", "rating": 5}
	recorder = doJSON(t, router, http.MethodPost, formPath, payload, member)
	require.Equal(t, http.StatusSeeOther, recorder.Code, recorder.Body.String())
	assert.Equal(t, detail, recorder.Header().Get("Location"))

	// A duplicate submission is a Conflict.
	recorder = doJSON(t, router, http.MethodPost, formPath, payload, member)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	// The creation form now forwards to the edit form.
	recorder = doJSON(t, router, http.MethodGet, formPath, nil, member)
	require.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, editPath, recorder.Header().Get("Location"))

	// The edit form serves the existing review.
	recorder = doJSON(t, router, http.MethodGet, editPath, nil, member)
	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data *book.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "Great", envelope.Data.Title)

	// Editing redirects to the detail page and persists the change.
	recorder = doJSON(t, router, http.MethodPut, editPath, map[string]any{
		"title": "Changed", "text": "Still good", "rating": 4,
	}, member)
	require.Equal(t, http.StatusSeeOther, recorder.Code, recorder.Body.String())
	assert.Equal(t, detail, recorder.Header().Get("Location"))

	review, err := env.service.GetOwnReview(context.Background(), "user-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", review.Title)
	assert.Equal(t, 4, review.Score)
}

// # Illustration Endpoints

/*
TestIllustrationEndpoints covers upload, listing, and the all-or-nothing
batch delete.
*/
func TestIllustrationEndpoints(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook(t, &book.Book{Title: "Dune", Author: "Herbert", Synopsis: "S"})
	router := newTestRouter(env)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for _, name := range []string{"one.png", "two.png"} {
		part, err := form.CreateFormFile(book.FieldImages, name)
		require.NoError(t, err)
		_, err = part.Write([]byte{0x89, 0x50})
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/books/%d/illustrations", b.ID), &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	request = asUser(request, "user-1", sec.RoleMember)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusSeeOther, recorder.Code, recorder.Body.String())
	assert.Equal(t, fmt.Sprintf("/api/v1/books/%d", b.ID), recorder.Header().Get("Location"))

	// Public listing returns both entries.
	listRecorder := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/books/%d/illustrations", b.ID), nil, nil)
	require.Equal(t, http.StatusOK, listRecorder.Code)
	var envelope struct {
		Data []*book.Illustration `json:"data"`
	}
	require.NoError(t, json.Unmarshal(listRecorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	ids := []int64{envelope.Data[0].ID, envelope.Data[1].ID}

	member := func(r *http.Request) *http.Request { return asUser(r, "user-1", sec.RoleMember) }

	// One unknown ID aborts the whole batch.
	deleteRecorder := doJSON(t, router, http.MethodDelete, "/api/v1/illustrations", map[string]any{
		"ids": []int64{ids[0], 999},
	}, member)
	assert.Equal(t, http.StatusNotFound, deleteRecorder.Code)
	assert.Len(t, env.illustrations.rows, 2)

	// A valid batch deletes everything and answers in the legacy shape.
	deleteRecorder = doJSON(t, router, http.MethodDelete, "/api/v1/illustrations", map[string]any{"ids": ids}, member)
	require.Equal(t, http.StatusOK, deleteRecorder.Code)
	assert.JSONEq(t, `{"success": "deleted"}`, deleteRecorder.Body.String())
	assert.Empty(t, env.illustrations.rows)

	// Deleting requires authentication.
	deleteRecorder = doJSON(t, router, http.MethodDelete, "/api/v1/illustrations", map[string]any{"ids": ids}, nil)
	assert.Equal(t, http.StatusUnauthorized, deleteRecorder.Code)
}
