package post_service

import (
	"context"
	"log/slog"
	"strings"

	model "pinstack-feed-service/internal/domain/models"
)

func (s *PostService) GetStatus(ctx context.Context, userID model.UserID) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", s.userError(err, userID)
	}
	return user.Status, nil
}

func (s *PostService) UpdateStatus(ctx context.Context, userID model.UserID, status string) (string, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return "", s.userError(err, userID)
	}

	input := &model.StatusDTO{Status: strings.TrimSpace(status)}
	if err := s.validate.Struct(input); err != nil {
		return "", err
	}

	user, err := s.users.UpdateStatus(ctx, userID, input.Status)
	if err != nil {
		return "", s.userError(err, userID)
	}

	s.log.Debug("Status updated", slog.String("user_id", userID.String()))
	return user.Status, nil
}
