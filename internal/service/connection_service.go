// Package service contains the application's business logic.
package service

import (
	"context"

	"linknet/internal/cache"
	"linknet/internal/models"
	"linknet/internal/repository"
)

// ConnectionService provides connection-request and connection-graph business
// logic.
type ConnectionService struct {
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
}

// NewConnectionService returns a new ConnectionService.
func NewConnectionService(connRepo repository.ConnectionRepository, userRepo repository.UserRepository) *ConnectionService {
	return &ConnectionService{
		connRepo: connRepo,
		userRepo: userRepo,
	}
}

// ConnectionCheck describes the relationship between the caller and another
// user.
type ConnectionCheck struct {
	Status       string `json:"status"`
	ConnectionID uint   `json:"connection_id,omitempty"`
	IsRequester  bool   `json:"is_requester,omitempty"`
	CanConnect   bool   `json:"can_connect"`
}

// MutualConnectionsResult holds the users connected to both parties.
type MutualConnectionsResult struct {
	Count       int                  `json:"count"`
	Connections []models.UserSummary `json:"connections"`
}

// view builds the caller-relative response shape from a connection with
// preloaded requester and receiver.
func (s *ConnectionService) view(conn *models.Connection, callerID uint) *models.ConnectionView {
	requester := conn.Requester.Summary()
	receiver := conn.Receiver.Summary()

	other := &receiver
	if conn.ReceiverID == callerID {
		other = &requester
	}

	return &models.ConnectionView{
		ID:          conn.ID,
		RequesterID: conn.RequesterID,
		ReceiverID:  conn.ReceiverID,
		Status:      conn.Status,
		CreatedAt:   conn.CreatedAt,
		UpdatedAt:   conn.UpdatedAt,
		Requester:   &requester,
		Receiver:    &receiver,
		User:        other,
	}
}

func (s *ConnectionService) views(conns []models.Connection, callerID uint) []models.ConnectionView {
	out := make([]models.ConnectionView, 0, len(conns))
	for i := range conns {
		out = append(out, *s.view(&conns[i], callerID))
	}
	return out
}

// RequestConnection sends a connection request to the receiver. Any existing
// connection between the pair, in either direction and whatever its status, is
// a conflict. The pre-check gives a precise message; the unique pair index is
// the guard against concurrent duplicates.
func (s *ConnectionService) RequestConnection(ctx context.Context, userID, receiverID uint) (*models.ConnectionView, error) {
	if userID == receiverID {
		return nil, models.NewValidationError("Cannot send a connection request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	existing, err := s.connRepo.GetBetweenUsers(ctx, userID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.ConnectionStatusAccepted:
			return nil, models.NewConflictError("You are already connected with this user")
		case models.ConnectionStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewConflictError("Connection request already sent")
			}
			return nil, models.NewConflictError("This user has already sent you a connection request")
		default:
			return nil, models.NewConflictError("A connection already exists between these users")
		}
	}

	conn := &models.Connection{
		RequesterID: userID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionStatusPending,
	}
	if err := s.connRepo.Create(ctx, conn); err != nil {
		return nil, err
	}

	cache.InvalidateSuggestions(ctx, userID)
	cache.InvalidateSuggestions(ctx, receiverID)

	created, err := s.connRepo.GetByID(ctx, conn.ID)
	if err != nil {
		return nil, err
	}
	return s.view(created, userID), nil
}

// ListConnections returns the caller's connections filtered by status.
func (s *ConnectionService) ListConnections(ctx context.Context, userID uint, status models.ConnectionStatus, limit, offset int) ([]models.ConnectionView, error) {
	if status != "" && !status.Valid() {
		return nil, models.NewValidationError("Invalid connection status")
	}
	conns, err := s.connRepo.ListForUser(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.views(conns, userID), nil
}

// ListIncomingRequests returns pending requests addressed to the caller.
func (s *ConnectionService) ListIncomingRequests(ctx context.Context, userID uint) ([]models.ConnectionView, error) {
	conns, err := s.connRepo.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(conns, userID), nil
}

// ListSentRequests returns pending requests sent by the caller.
func (s *ConnectionService) ListSentRequests(ctx context.Context, userID uint) ([]models.ConnectionView, error) {
	conns, err := s.connRepo.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(conns, userID), nil
}

// UpdateStatus answers a connection request. Only the receiver may change the
// status, and only to accepted, declined or blocked.
func (s *ConnectionService) UpdateStatus(ctx context.Context, userID, connID uint, status models.ConnectionStatus) (*models.ConnectionView, error) {
	if !status.Valid() || status == models.ConnectionStatusPending {
		return nil, models.NewValidationError("Status must be accepted, declined or blocked")
	}

	conn, err := s.connRepo.GetByID(ctx, connID)
	if err != nil {
		return nil, err
	}
	if conn.ReceiverID != userID {
		return nil, models.NewForbiddenError("Only the receiver can answer a connection request")
	}

	if err := s.connRepo.UpdateStatus(ctx, connID, status); err != nil {
		return nil, err
	}

	cache.InvalidateSuggestions(ctx, conn.RequesterID)
	cache.InvalidateSuggestions(ctx, conn.ReceiverID)

	updated, err := s.connRepo.GetByID(ctx, connID)
	if err != nil {
		return nil, err
	}
	return s.view(updated, userID), nil
}

// RemoveConnection deletes a connection. Either party may remove it; the pair
// becomes free for a fresh request afterwards.
func (s *ConnectionService) RemoveConnection(ctx context.Context, userID, connID uint) error {
	conn, err := s.connRepo.GetByID(ctx, connID)
	if err != nil {
		return err
	}
	if conn.RequesterID != userID && conn.ReceiverID != userID {
		return models.NewForbiddenError("You are not part of this connection")
	}

	if err := s.connRepo.Delete(ctx, connID); err != nil {
		return err
	}

	cache.InvalidateSuggestions(ctx, conn.RequesterID)
	cache.InvalidateSuggestions(ctx, conn.ReceiverID)
	return nil
}

// CheckStatus reports the relationship between the caller and the user with
// the given username.
func (s *ConnectionService) CheckStatus(ctx context.Context, userID uint, username string) (*ConnectionCheck, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundMessageError("User not found")
	}
	if target.ID == userID {
		return &ConnectionCheck{Status: "self", CanConnect: false}, nil
	}

	conn, err := s.connRepo.GetBetweenUsers(ctx, userID, target.ID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return &ConnectionCheck{Status: "none", CanConnect: true}, nil
	}

	return &ConnectionCheck{
		Status:       string(conn.Status),
		ConnectionID: conn.ID,
		IsRequester:  conn.RequesterID == userID,
		CanConnect:   false,
	}, nil
}

// MutualConnections returns the users connected to both the caller and the
// named user. Intersection of the two accepted partner sets via a map, linear
// in their combined size.
func (s *ConnectionService) MutualConnections(ctx context.Context, userID uint, username string) (*MutualConnectionsResult, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundMessageError("User not found")
	}

	mine, err := s.connRepo.AcceptedPartnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.connRepo.AcceptedPartnerIDs(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(mine))
	for _, id := range mine {
		seen[id] = true
	}
	var mutual []uint
	for _, id := range theirs {
		if seen[id] && id != userID && id != target.ID {
			mutual = append(mutual, id)
		}
	}

	summaries, err := s.userRepo.SummariesByIDs(ctx, mutual)
	if err != nil {
		return nil, err
	}

	result := &MutualConnectionsResult{Connections: make([]models.UserSummary, 0, len(mutual))}
	for _, id := range mutual {
		if summary, ok := summaries[id]; ok {
			result.Connections = append(result.Connections, summary)
		}
	}
	result.Count = len(result.Connections)
	return result, nil
}

// SuggestConnections returns active users the caller has no relationship with.
// Results are cached briefly per user.
func (s *ConnectionService) SuggestConnections(ctx context.Context, userID uint, limit int) ([]models.UserSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	var suggestions []models.UserSummary
	err := cache.Aside(ctx, cache.SuggestionsKey(userID), &suggestions, cache.SuggestionsTTL, func() error {
		related, err := s.connRepo.PartnerIDsAnyStatus(ctx, userID)
		if err != nil {
			return err
		}
		exclude := append(related, userID)

		users, err := s.userRepo.ListActiveExcluding(ctx, exclude, limit)
		if err != nil {
			return err
		}

		suggestions = make([]models.UserSummary, 0, len(users))
		for i := range users {
			suggestions = append(suggestions, users[i].Summary())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}
