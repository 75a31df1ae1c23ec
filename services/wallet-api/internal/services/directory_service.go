package services

import (
	"context"
	"strings"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
	"github.com/Seer7-SWE/PayTM-clone/pkg/repositories"
	"go.uber.org/zap"
)

type DirectoryService interface {
	// SearchUsers matches usernames containing query, ignoring case. An empty query matches nobody.
	SearchUsers(ctx context.Context, traceId string, query string, excludeUserID int64) ([]models.Counterparty, error)
}

type DirectoryServiceImpl struct {
	logger   *zap.Logger
	db       database.Handle
	userRepo repositories.UserRepository
	limit    int
}

func NewDirectoryService(logger *zap.Logger, db database.Handle, userRepo repositories.UserRepository, limit int) *DirectoryServiceImpl {
	if limit <= 0 {
		limit = 20
	}
	return &DirectoryServiceImpl{logger: logger, db: db, userRepo: userRepo, limit: limit}
}

func (s *DirectoryServiceImpl) SearchUsers(ctx context.Context, traceId string, query string, excludeUserID int64) ([]models.Counterparty, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Counterparty{}, nil
	}

	users, err := s.userRepo.Search(ctx, s.db, query, excludeUserID, s.limit)
	if err != nil {
		return nil, pkg.HandleSQLError(traceId, s.logger, err)
	}
	out := make([]models.Counterparty, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToCounterparty())
	}
	s.logger.Debug("users_searched", zap.String(pkg.TraceId, traceId), zap.Int("results", len(out)))
	return out, nil
}
