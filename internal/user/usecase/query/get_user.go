package query

import (
	"github.com/almast/trendmart/internal/user/domain"
)

// GetUserQuery represents the query to fetch a single user.
type GetUserQuery struct {
	ID uint
}

// GetUserHandler handles the get user query.
type GetUserHandler struct {
	repo domain.UserRepository
}

func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the query.
func (h *GetUserHandler) Handle(q GetUserQuery) (*domain.User, error) {
	return h.repo.FindByID(q.ID)
}
