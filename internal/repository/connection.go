package repository

import (
	"context"
	"errors"

	"linknet/internal/models"

	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection data operations
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)
	GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Connection, error)
	ListForUser(ctx context.Context, userID uint, status models.ConnectionStatus, limit, offset int) ([]models.Connection, error)
	ListPendingReceived(ctx context.Context, userID uint) ([]models.Connection, error)
	ListPendingSent(ctx context.Context, userID uint) ([]models.Connection, error)
	AcceptedPartnerIDs(ctx context.Context, userID uint) ([]uint, error)
	PartnerIDsAnyStatus(ctx context.Context, userID uint) ([]uint, error)
	UpdateStatus(ctx context.Context, connID uint, status models.ConnectionStatus) error
	Delete(ctx context.Context, connID uint) error
}

// connectionRepository implements ConnectionRepository
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// Create inserts the connection row. The unique pair index makes a concurrent
// duplicate in either direction surface as a conflict here rather than as a
// second row.
func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if err := r.db.WithContext(ctx).Create(conn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("A connection already exists between these users")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).Preload("Requester").Preload("Receiver").First(&conn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Connection", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

// GetBetweenUsers finds the connection between two users regardless of request
// direction. Returns nil when none exists.
func (r *connectionRepository) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Connection, error) {
	minID, maxID := userID1, userID2
	if minID > maxID {
		minID, maxID = maxID, minID
	}

	var conn models.Connection
	if err := r.db.WithContext(ctx).
		Where("pair_min_id = ? AND pair_max_id = ?", minID, maxID).
		Preload("Requester").
		Preload("Receiver").
		First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

func (r *connectionRepository) ListForUser(ctx context.Context, userID uint, status models.ConnectionStatus, limit, offset int) ([]models.Connection, error) {
	var conns []models.Connection
	q := r.db.WithContext(ctx).
		Where("requester_id = ? OR receiver_id = ?", userID, userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.
		Preload("Requester").
		Preload("Receiver").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

func (r *connectionRepository) ListPendingReceived(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Preload("Requester").
		Preload("Receiver").
		Order("created_at DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

func (r *connectionRepository) ListPendingSent(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Preload("Requester").
		Preload("Receiver").
		Order("created_at DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

// AcceptedPartnerIDs returns the IDs of all users connected to userID with an
// accepted connection.
func (r *connectionRepository) AcceptedPartnerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return r.partnerIDs(ctx, userID, models.ConnectionStatusAccepted)
}

// PartnerIDsAnyStatus returns the IDs of every user with any connection row
// to userID, whatever its status. Used to exclude them from suggestions.
func (r *connectionRepository) PartnerIDsAnyStatus(ctx context.Context, userID uint) ([]uint, error) {
	return r.partnerIDs(ctx, userID, "")
}

func (r *connectionRepository) partnerIDs(ctx context.Context, userID uint, status models.ConnectionStatus) ([]uint, error) {
	var conns []models.Connection
	q := r.db.WithContext(ctx).
		Select("requester_id", "receiver_id").
		Where("requester_id = ? OR receiver_id = ?", userID, userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	ids := make([]uint, 0, len(conns))
	for i := range conns {
		if conns[i].RequesterID == userID {
			ids = append(ids, conns[i].ReceiverID)
		} else {
			ids = append(ids, conns[i].RequesterID)
		}
	}
	return ids, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, connID uint, status models.ConnectionStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ?", connID).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) Delete(ctx context.Context, connID uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Connection{}, connID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
