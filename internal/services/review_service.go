package services

import (
	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, prods *repos.ProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods}
}

// Add records one review per user per product, then refreshes the product's
// rating aggregate as an explicit post-write step.
func (s *ReviewService) Add(productID, userID string, rating int, comment string) (domain.Review, error) {
	if _, err := s.Prods.Get(productID); err != nil {
		return domain.Review{}, err
	}
	dup, err := s.Reviews.Exists(productID, userID)
	if err != nil {
		return domain.Review{}, err
	}
	if dup {
		return domain.Review{}, repos.ErrDuplicateReview
	}

	rev := domain.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.Reviews.Insert(rev); err != nil {
		return domain.Review{}, err
	}
	if err := s.refreshAggregate(productID); err != nil {
		return domain.Review{}, err
	}
	return s.Reviews.Get(rev.ID)
}

func (s *ReviewService) ListByProduct(productID string) ([]domain.Review, error) {
	if _, err := s.Prods.Get(productID); err != nil {
		return nil, err
	}
	return s.Reviews.ListByProduct(productID)
}

// Delete removes a review owned by the user (admins may delete any), then
// refreshes the aggregate.
func (s *ReviewService) Delete(reviewID string, u *domain.User) error {
	rev, err := s.Reviews.Get(reviewID)
	if err != nil {
		return err
	}
	if rev.UserID != u.ID && !u.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.Reviews.Delete(reviewID); err != nil {
		return err
	}
	return s.refreshAggregate(rev.ProductID)
}

func (s *ReviewService) refreshAggregate(productID string) error {
	avg, count, err := s.Reviews.Aggregate(productID)
	if err != nil {
		return err
	}
	return s.Prods.SetRating(productID, avg, count)
}
