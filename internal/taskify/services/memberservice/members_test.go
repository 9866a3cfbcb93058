package memberservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/boardrepo"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/userrepo"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/memberservice"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Info(...interface{})           {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Error(...interface{})          {}
func (nopLogger) Errorf(string, ...interface{}) {}

type membershipKey struct {
	userID  uuid.UUID
	boardID uuid.UUID
}

type fakeBoardRepo struct {
	boards      map[uuid.UUID]models.Board
	memberships map[membershipKey]models.Membership
}

func (r *fakeBoardRepo) GetBoard(_ context.Context, id uuid.UUID) (models.Board, error) {
	b, ok := r.boards[id]
	if !ok {
		return models.Board{}, boardrepo.ErrNotFound
	}

	return b, nil
}

func (r *fakeBoardRepo) GetMembership(_ context.Context, userID, boardID uuid.UUID) (models.Membership, error) {
	m, ok := r.memberships[membershipKey{userID, boardID}]
	if !ok {
		return models.Membership{}, boardrepo.ErrMembershipNotFound
	}

	return m, nil
}

func (r *fakeBoardRepo) AddMembership(_ context.Context, m models.Membership) error {
	key := membershipKey{m.UserID, m.BoardID}
	if _, ok := r.memberships[key]; ok {
		return boardrepo.ErrAlreadyMember
	}

	r.memberships[key] = m

	return nil
}

func (r *fakeBoardRepo) RemoveMembership(_ context.Context, userID, boardID uuid.UUID) error {
	key := membershipKey{userID, boardID}
	if _, ok := r.memberships[key]; !ok {
		return boardrepo.ErrMembershipNotFound
	}

	delete(r.memberships, key)

	return nil
}

func (r *fakeBoardRepo) ListMembers(_ context.Context, boardID uuid.UUID) ([]models.User, error) {
	var out []models.User

	for key := range r.memberships {
		if key.boardID == boardID {
			out = append(out, models.User{ID: key.userID})
		}
	}

	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]models.User
}

func (r *fakeUserRepo) GetUser(_ context.Context, id uuid.UUID) (models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return models.User{}, userrepo.ErrNotFound
	}

	return u, nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}

	return models.User{}, userrepo.ErrNotFound
}

type fixture struct {
	svc        *memberservice.MemberService
	boardRepo  *fakeBoardRepo
	userRepo   *fakeUserRepo
	boardID    uuid.UUID
	adminID    uuid.UUID
	memberID   uuid.UUID
	outsiderID uuid.UUID
	superID    uuid.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	boardID := uuid.New()
	adminID := uuid.New()
	memberID := uuid.New()
	outsiderID := uuid.New()
	superID := uuid.New()

	boardRepo := &fakeBoardRepo{
		boards: map[uuid.UUID]models.Board{boardID: {ID: boardID, Name: "project"}},
		memberships: map[membershipKey]models.Membership{
			{adminID, boardID}:  {UserID: adminID, BoardID: boardID, Role: models.RoleAdmin},
			{memberID, boardID}: {UserID: memberID, BoardID: boardID, Role: models.RoleUser},
		},
	}
	userRepo := &fakeUserRepo{
		users: map[uuid.UUID]models.User{
			adminID:    {ID: adminID, Username: "admin"},
			memberID:   {ID: memberID, Username: "member"},
			outsiderID: {ID: outsiderID, Username: "outsider"},
			superID:    {ID: superID, Username: "root", IsSuperAdmin: true},
		},
	}

	return fixture{
		svc:        memberservice.New(boardRepo, userRepo, nopLogger{}),
		boardRepo:  boardRepo,
		userRepo:   userRepo,
		boardID:    boardID,
		adminID:    adminID,
		memberID:   memberID,
		outsiderID: outsiderID,
		superID:    superID,
	}
}

func TestCheckPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  uuid.UUID
		boardID uuid.UUID
		want    models.Access
	}{
		{"admin member", f.adminID, f.boardID, models.Access{Decision: models.AccessAllowed, Role: models.RoleAdmin}},
		{"plain member", f.memberID, f.boardID, models.Access{Decision: models.AccessAllowed, Role: models.RoleUser}},
		{"outsider", f.outsiderID, f.boardID, models.Access{Decision: models.AccessNotMember}},
		{"unknown user", uuid.New(), f.boardID, models.Access{Decision: models.AccessNotMember}},
		{"unknown board", f.adminID, uuid.New(), models.Access{Decision: models.AccessNoBoard}},
		{"super admin everywhere", f.superID, f.boardID, models.Access{Decision: models.AccessAllowed, Role: models.RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, err := f.svc.CheckPermissions(ctx, tt.userID, tt.boardID)
			require.NoError(t, err)
			require.Equal(t, tt.want, access)
		})
	}
}

func TestRequireMemberVerdicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RequireMember(ctx, f.outsiderID, f.boardID)
	require.ErrorIs(t, err, memberservice.ErrAccessDenied)

	_, err = f.svc.RequireMember(ctx, f.adminID, uuid.New())
	require.ErrorIs(t, err, memberservice.ErrBoardNotFound)

	role, err := f.svc.RequireMember(ctx, f.memberID, f.boardID)
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, role)
}

func TestRequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequireAdmin(ctx, f.adminID, f.boardID))
	require.NoError(t, f.svc.RequireAdmin(ctx, f.superID, f.boardID))
	require.ErrorIs(t, f.svc.RequireAdmin(ctx, f.memberID, f.boardID), memberservice.ErrAccessDenied)
}

func TestAddUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.AddUser(ctx, f.adminID, memberservice.AddUserRequest{
		Username: "outsider",
		BoardID:  f.boardID,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, m.Role)
	require.Equal(t, f.outsiderID, m.UserID)
}

func TestAddUserTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddUser(ctx, f.adminID, memberservice.AddUserRequest{
		Username: "member",
		BoardID:  f.boardID,
	})
	require.ErrorIs(t, err, memberservice.ErrAlreadyMember)
}

func TestAddUserUnknownUsername(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddUser(context.Background(), f.adminID, memberservice.AddUserRequest{
		Username: "nobody",
		BoardID:  f.boardID,
	})
	require.ErrorIs(t, err, memberservice.ErrUserNotFound)
}

func TestAddUserBadRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddUser(context.Background(), f.adminID, memberservice.AddUserRequest{
		Username: "outsider",
		BoardID:  f.boardID,
		Role:     "OWNER",
	})

	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestRemoveUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RemoveUser(ctx, f.adminID, f.memberID, f.boardID))

	_, err := f.svc.RequireMember(ctx, f.memberID, f.boardID)
	require.ErrorIs(t, err, memberservice.ErrAccessDenied)
}

func TestRemoveUserSelf(t *testing.T) {
	f := newFixture(t)

	err := f.svc.RemoveUser(context.Background(), f.adminID, f.adminID, f.boardID)
	require.ErrorIs(t, err, memberservice.ErrSelfRemoval)
}

func TestRemoveUserNotAMember(t *testing.T) {
	f := newFixture(t)

	err := f.svc.RemoveUser(context.Background(), f.adminID, f.outsiderID, f.boardID)
	require.ErrorIs(t, err, memberservice.ErrNotAMember)
}
