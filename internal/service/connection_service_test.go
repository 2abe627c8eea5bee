package service

import (
	"context"
	"errors"
	"testing"

	"linknet/internal/models"
)

type connectionRepoStub struct {
	createFn              func(context.Context, *models.Connection) error
	getByIDFn             func(context.Context, uint) (*models.Connection, error)
	getBetweenUsersFn     func(context.Context, uint, uint) (*models.Connection, error)
	listForUserFn         func(context.Context, uint, models.ConnectionStatus, int, int) ([]models.Connection, error)
	listPendingReceivedFn func(context.Context, uint) ([]models.Connection, error)
	listPendingSentFn     func(context.Context, uint) ([]models.Connection, error)
	acceptedPartnerIDsFn  func(context.Context, uint) ([]uint, error)
	partnerIDsAnyStatusFn func(context.Context, uint) ([]uint, error)
	updateStatusFn        func(context.Context, uint, models.ConnectionStatus) error
	deleteFn              func(context.Context, uint) error
}

func (s *connectionRepoStub) Create(ctx context.Context, conn *models.Connection) error {
	return s.createFn(ctx, conn)
}
func (s *connectionRepoStub) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	return s.getByIDFn(ctx, id)
}
func (s *connectionRepoStub) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Connection, error) {
	return s.getBetweenUsersFn(ctx, userID1, userID2)
}
func (s *connectionRepoStub) ListForUser(ctx context.Context, userID uint, status models.ConnectionStatus, limit, offset int) ([]models.Connection, error) {
	return s.listForUserFn(ctx, userID, status, limit, offset)
}
func (s *connectionRepoStub) ListPendingReceived(ctx context.Context, userID uint) ([]models.Connection, error) {
	return s.listPendingReceivedFn(ctx, userID)
}
func (s *connectionRepoStub) ListPendingSent(ctx context.Context, userID uint) ([]models.Connection, error) {
	return s.listPendingSentFn(ctx, userID)
}
func (s *connectionRepoStub) AcceptedPartnerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.acceptedPartnerIDsFn(ctx, userID)
}
func (s *connectionRepoStub) PartnerIDsAnyStatus(ctx context.Context, userID uint) ([]uint, error) {
	return s.partnerIDsAnyStatusFn(ctx, userID)
}
func (s *connectionRepoStub) UpdateStatus(ctx context.Context, connID uint, status models.ConnectionStatus) error {
	return s.updateStatusFn(ctx, connID, status)
}
func (s *connectionRepoStub) Delete(ctx context.Context, connID uint) error {
	return s.deleteFn(ctx, connID)
}

type userRepoStub struct {
	getByIDFn             func(context.Context, uint) (*models.User, error)
	getByUsernameFn       func(context.Context, string) (*models.User, error)
	createFn              func(context.Context, *models.User) error
	updateFn              func(context.Context, *models.User) error
	listActiveExcludingFn func(context.Context, []uint, int) ([]models.User, error)
	summariesByIDsFn      func(context.Context, []uint) (map[uint]models.UserSummary, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) ListActiveExcluding(ctx context.Context, excludeIDs []uint, limit int) ([]models.User, error) {
	return s.listActiveExcludingFn(ctx, excludeIDs, limit)
}
func (s *userRepoStub) SummariesByIDs(ctx context.Context, ids []uint) (map[uint]models.UserSummary, error) {
	return s.summariesByIDsFn(ctx, ids)
}

func noopConnectionRepo() *connectionRepoStub {
	return &connectionRepoStub{
		createFn:              func(context.Context, *models.Connection) error { return nil },
		getByIDFn:             func(context.Context, uint) (*models.Connection, error) { return &models.Connection{}, nil },
		getBetweenUsersFn:     func(context.Context, uint, uint) (*models.Connection, error) { return nil, nil },
		listForUserFn:         func(context.Context, uint, models.ConnectionStatus, int, int) ([]models.Connection, error) { return nil, nil },
		listPendingReceivedFn: func(context.Context, uint) ([]models.Connection, error) { return nil, nil },
		listPendingSentFn:     func(context.Context, uint) ([]models.Connection, error) { return nil, nil },
		acceptedPartnerIDsFn:  func(context.Context, uint) ([]uint, error) { return nil, nil },
		partnerIDsAnyStatusFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
		updateStatusFn:        func(context.Context, uint, models.ConnectionStatus) error { return nil },
		deleteFn:              func(context.Context, uint) error { return nil },
	}
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(ctx context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		listActiveExcludingFn: func(context.Context, []uint, int) ([]models.User, error) {
			return nil, nil
		},
		summariesByIDsFn: func(ctx context.Context, ids []uint) (map[uint]models.UserSummary, error) {
			out := make(map[uint]models.UserSummary, len(ids))
			for _, id := range ids {
				out[id] = models.UserSummary{ID: id}
			}
			return out, nil
		},
	}
}

func assertAppErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}

func TestConnectionServiceRequestSelf(t *testing.T) {
	svc := NewConnectionService(noopConnectionRepo(), noopUserRepo())
	_, err := svc.RequestConnection(context.Background(), 3, 3)
	assertAppErrCode(t, err, models.CodeValidation)
}

func TestConnectionServiceRequestExistingConflicts(t *testing.T) {
	cases := []struct {
		name     string
		existing *models.Connection
	}{
		{"accepted", &models.Connection{ID: 1, RequesterID: 1, ReceiverID: 2, Status: models.ConnectionStatusAccepted}},
		{"pending sent by caller", &models.Connection{ID: 1, RequesterID: 1, ReceiverID: 2, Status: models.ConnectionStatusPending}},
		{"pending sent to caller", &models.Connection{ID: 1, RequesterID: 2, ReceiverID: 1, Status: models.ConnectionStatusPending}},
		{"declined", &models.Connection{ID: 1, RequesterID: 1, ReceiverID: 2, Status: models.ConnectionStatusDeclined}},
		{"blocked", &models.Connection{ID: 1, RequesterID: 2, ReceiverID: 1, Status: models.ConnectionStatusBlocked}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := noopConnectionRepo()
			repo.getBetweenUsersFn = func(context.Context, uint, uint) (*models.Connection, error) {
				return tc.existing, nil
			}

			svc := NewConnectionService(repo, noopUserRepo())
			_, err := svc.RequestConnection(context.Background(), 1, 2)
			assertAppErrCode(t, err, models.CodeConflict)
		})
	}
}

func TestConnectionServiceRequestUnknownReceiver(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(ctx context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}

	svc := NewConnectionService(noopConnectionRepo(), users)
	_, err := svc.RequestConnection(context.Background(), 1, 2)
	assertAppErrCode(t, err, models.CodeNotFound)
}

func TestConnectionServiceRequestSuccess(t *testing.T) {
	repo := noopConnectionRepo()
	var created *models.Connection
	repo.createFn = func(_ context.Context, conn *models.Connection) error {
		conn.ID = 42
		created = conn
		return nil
	}
	repo.getByIDFn = func(context.Context, uint) (*models.Connection, error) {
		return &models.Connection{
			ID:          42,
			RequesterID: 1,
			ReceiverID:  2,
			Status:      models.ConnectionStatusPending,
			Requester:   models.User{ID: 1, Username: "alice"},
			Receiver:    models.User{ID: 2, Username: "bob"},
		}, nil
	}

	svc := NewConnectionService(repo, noopUserRepo())
	view, err := svc.RequestConnection(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || created.Status != models.ConnectionStatusPending {
		t.Fatalf("expected pending connection to be created, got %#v", created)
	}
	if view.User == nil || view.User.Username != "bob" {
		t.Fatalf("expected caller-relative user to be the receiver, got %#v", view.User)
	}
}

func TestConnectionServiceUpdateStatusReceiverOnly(t *testing.T) {
	repo := noopConnectionRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Connection, error) {
		return &models.Connection{ID: 5, RequesterID: 10, ReceiverID: 11, Status: models.ConnectionStatusPending}, nil
	}

	svc := NewConnectionService(repo, noopUserRepo())

	// The requester cannot answer their own request.
	_, err := svc.UpdateStatus(context.Background(), 10, 5, models.ConnectionStatusAccepted)
	assertAppErrCode(t, err, models.CodeForbidden)

	// Neither can a third party.
	_, err = svc.UpdateStatus(context.Background(), 12, 5, models.ConnectionStatusAccepted)
	assertAppErrCode(t, err, models.CodeForbidden)
}

func TestConnectionServiceUpdateStatusInvalid(t *testing.T) {
	svc := NewConnectionService(noopConnectionRepo(), noopUserRepo())

	_, err := svc.UpdateStatus(context.Background(), 1, 5, "bogus")
	assertAppErrCode(t, err, models.CodeValidation)

	_, err = svc.UpdateStatus(context.Background(), 1, 5, models.ConnectionStatusPending)
	assertAppErrCode(t, err, models.CodeValidation)
}

func TestConnectionServiceRemoveForbiddenForOutsiders(t *testing.T) {
	repo := noopConnectionRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Connection, error) {
		return &models.Connection{ID: 5, RequesterID: 10, ReceiverID: 11}, nil
	}

	svc := NewConnectionService(repo, noopUserRepo())
	err := svc.RemoveConnection(context.Background(), 12, 5)
	assertAppErrCode(t, err, models.CodeForbidden)

	if err := svc.RemoveConnection(context.Background(), 10, 5); err != nil {
		t.Fatalf("requester should be able to remove: %v", err)
	}
	if err := svc.RemoveConnection(context.Background(), 11, 5); err != nil {
		t.Fatalf("receiver should be able to remove: %v", err)
	}
}

func TestConnectionServiceCheckStatus(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "ghost" {
			return nil, nil
		}
		return &models.User{ID: 2, Username: username}, nil
	}

	t.Run("unknown user", func(t *testing.T) {
		svc := NewConnectionService(noopConnectionRepo(), users)
		_, err := svc.CheckStatus(context.Background(), 1, "ghost")
		assertAppErrCode(t, err, models.CodeNotFound)
	})

	t.Run("no relationship", func(t *testing.T) {
		svc := NewConnectionService(noopConnectionRepo(), users)
		check, err := svc.CheckStatus(context.Background(), 1, "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if check.Status != "none" || !check.CanConnect {
			t.Fatalf("expected connectable none status, got %#v", check)
		}
	})

	t.Run("pending sent by caller", func(t *testing.T) {
		repo := noopConnectionRepo()
		repo.getBetweenUsersFn = func(context.Context, uint, uint) (*models.Connection, error) {
			return &models.Connection{ID: 8, RequesterID: 1, ReceiverID: 2, Status: models.ConnectionStatusPending}, nil
		}

		svc := NewConnectionService(repo, users)
		check, err := svc.CheckStatus(context.Background(), 1, "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if check.Status != "pending" || !check.IsRequester || check.CanConnect || check.ConnectionID != 8 {
			t.Fatalf("unexpected check result: %#v", check)
		}
	})
}

func TestConnectionServiceMutualConnections(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 2, Username: "bob"}, nil
	}

	repo := noopConnectionRepo()
	repo.acceptedPartnerIDsFn = func(_ context.Context, userID uint) ([]uint, error) {
		switch userID {
		case 1:
			return []uint{2, 3, 4, 5}, nil
		case 2:
			return []uint{1, 4, 5, 6}, nil
		}
		return nil, nil
	}

	svc := NewConnectionService(repo, users)
	result, err := svc.MutualConnections(context.Background(), 1, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 mutual connections, got %d", result.Count)
	}
	got := map[uint]bool{}
	for _, summary := range result.Connections {
		got[summary.ID] = true
	}
	if !got[4] || !got[5] {
		t.Fatalf("expected users 4 and 5, got %#v", result.Connections)
	}
}

func TestConnectionServiceSuggestionsExcludeRelated(t *testing.T) {
	repo := noopConnectionRepo()
	repo.partnerIDsAnyStatusFn = func(context.Context, uint) ([]uint, error) {
		return []uint{2, 3}, nil
	}

	users := noopUserRepo()
	var gotExclude []uint
	users.listActiveExcludingFn = func(_ context.Context, excludeIDs []uint, limit int) ([]models.User, error) {
		gotExclude = excludeIDs
		return []models.User{{ID: 9, Username: "new"}}, nil
	}

	svc := NewConnectionService(repo, users)
	suggestions, err := svc.SuggestConnections(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].ID != 9 {
		t.Fatalf("unexpected suggestions: %#v", suggestions)
	}

	exclude := map[uint]bool{}
	for _, id := range gotExclude {
		exclude[id] = true
	}
	if !exclude[1] || !exclude[2] || !exclude[3] {
		t.Fatalf("expected self and related users excluded, got %#v", gotExclude)
	}
}
