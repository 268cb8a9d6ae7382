package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieflix/internal/models"
	"movieflix/internal/service"
)

func TestSubmitRatingBoundaries(t *testing.T) {
	svc := service.NewReviewService(newMemReviewStore())

	for _, rating := range []int{0, 11, -3} {
		_, err := svc.Submit(1, 550, models.ReviewRequest{Rating: rating})
		var validationErr *service.ValidationError
		assert.ErrorAs(t, err, &validationErr, "rating %d should be rejected", rating)
	}

	for _, rating := range []int{1, 10} {
		review, err := svc.Submit(1, 550, models.ReviewRequest{Rating: rating})
		require.NoError(t, err, "rating %d should be accepted", rating)
		assert.Equal(t, rating, review.Rating)
	}
}

func TestSubmitCommentLength(t *testing.T) {
	svc := service.NewReviewService(newMemReviewStore())

	long := make([]rune, 1001)
	for i := range long {
		long[i] = 'x'
	}
	_, err := svc.Submit(1, 550, models.ReviewRequest{Rating: 5, Comment: string(long)})
	var validationErr *service.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.Submit(1, 550, models.ReviewRequest{Rating: 5, Comment: string(long[:1000])})
	assert.NoError(t, err)
}

func TestSubmitUpserts(t *testing.T) {
	store := newMemReviewStore()
	svc := service.NewReviewService(store)

	_, err := svc.Submit(1, 550, models.ReviewRequest{Rating: 4, Comment: "meh"})
	require.NoError(t, err)
	review, err := svc.Submit(1, 550, models.ReviewRequest{Rating: 9, Comment: "rewatched it"})
	require.NoError(t, err)
	assert.Equal(t, 9, review.Rating)

	page, err := svc.ListByContent(550, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, 9, page.Reviews[0].Rating)
	assert.Equal(t, "rewatched it", page.Reviews[0].Comment)
}

func TestDeleteAbsentReviewSucceeds(t *testing.T) {
	svc := service.NewReviewService(newMemReviewStore())

	assert.NoError(t, svc.Delete(1, 550))
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	store := newMemReviewStore()
	svc := service.NewReviewService(store)

	_, err := svc.Submit(1, 550, models.ReviewRequest{Rating: 8})
	require.NoError(t, err)

	// A different user deleting the same content id leaves the review alone.
	require.NoError(t, svc.Delete(2, 550))
	page, err := svc.ListByContent(550, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 1)

	require.NoError(t, svc.Delete(1, 550))
	page, err = svc.ListByContent(550, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Reviews)
}

func TestListPaging(t *testing.T) {
	store := newMemReviewStore()
	svc := service.NewReviewService(store)

	for userID := 1; userID <= 15; userID++ {
		_, err := svc.Submit(userID, 550, models.ReviewRequest{Rating: 5})
		require.NoError(t, err)
	}

	page1, err := svc.ListByContent(550, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page1.Reviews, 10)
	assert.Equal(t, 15, page1.Pagination.Total)
	assert.Equal(t, 2, page1.Pagination.Pages)

	// Newest first: the last submitter leads page 1.
	assert.Equal(t, 15, page1.Reviews[0].UserID)

	page2, err := svc.ListByContent(550, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page2.Reviews, 5)
}

func TestListAverageIsPageScoped(t *testing.T) {
	store := newMemReviewStore()
	svc := service.NewReviewService(store)

	// Two pages with different rating mixes. The reported average covers
	// only the returned page, which is the documented (if odd) behavior.
	ratings := []int{10, 10, 2, 2}
	for i, rating := range ratings {
		_, err := svc.Submit(i+1, 550, models.ReviewRequest{Rating: rating})
		require.NoError(t, err)
	}

	page1, err := svc.ListByContent(550, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "2.0", page1.AverageRating)

	page2, err := svc.ListByContent(550, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "10.0", page2.AverageRating)
}

func TestListEmptyAverage(t *testing.T) {
	svc := service.NewReviewService(newMemReviewStore())

	page, err := svc.ListByContent(550, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "0.0", page.AverageRating)
	assert.Empty(t, page.Reviews)
	assert.Equal(t, 0, page.Pagination.Pages)
}

func TestSubmitInvalidContentID(t *testing.T) {
	svc := service.NewReviewService(newMemReviewStore())

	_, err := svc.Submit(1, 0, models.ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, service.ErrInvalidContentID)
}
