package memberservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/boardrepo"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/userrepo"
	"github.com/jorgebenaventee/taskify/pkg/logger"
)

var (
	ErrAccessDenied  = errors.New("user has no access to the board")
	ErrBoardNotFound = errors.New("board not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotAMember    = errors.New("user does not belong to the board")
	ErrAlreadyMember = errors.New("user already belongs to the board")
	ErrSelfRemoval   = errors.New("cannot remove yourself from the board")
)

type BoardRepo interface {
	GetBoard(context.Context, uuid.UUID) (models.Board, error)
	GetMembership(ctx context.Context, userID, boardID uuid.UUID) (models.Membership, error)
	AddMembership(context.Context, models.Membership) error
	RemoveMembership(ctx context.Context, userID, boardID uuid.UUID) error
	ListMembers(ctx context.Context, boardID uuid.UUID) ([]models.User, error)
}

type UserRepo interface {
	GetUser(context.Context, uuid.UUID) (models.User, error)
	GetUserByUsername(context.Context, string) (models.User, error)
}

// MemberService is the permission gate plus membership management. Every
// mutating operation in the system goes through CheckPermissions exactly
// once, at the owning service's entry point.
type MemberService struct {
	boardRepo BoardRepo
	userRepo  UserRepo
	lg        logger.Logger
}

func New(boardRepo BoardRepo, userRepo UserRepo, lg logger.Logger) *MemberService {
	return &MemberService{
		boardRepo: boardRepo,
		userRepo:  userRepo,
		lg:        lg,
	}
}

// CheckPermissions resolves the caller's standing on a board. Super admins
// get ADMIN everywhere; a missing board and a missing membership stay
// distinct verdicts.
func (ms *MemberService) CheckPermissions(ctx context.Context, userID, boardID uuid.UUID) (models.Access, error) {
	u, err := ms.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.Access{Decision: models.AccessNotMember}, nil
		}

		return models.Access{}, fmt.Errorf("get user error: %w", err)
	}

	if _, err := ms.boardRepo.GetBoard(ctx, boardID); err != nil {
		if errors.Is(err, boardrepo.ErrNotFound) {
			return models.Access{Decision: models.AccessNoBoard}, nil
		}

		return models.Access{}, fmt.Errorf("get board error: %w", err)
	}

	if u.IsSuperAdmin {
		return models.Access{Decision: models.AccessAllowed, Role: models.RoleAdmin}, nil
	}

	m, err := ms.boardRepo.GetMembership(ctx, userID, boardID)
	if err != nil {
		if errors.Is(err, boardrepo.ErrMembershipNotFound) {
			return models.Access{Decision: models.AccessNotMember}, nil
		}

		return models.Access{}, fmt.Errorf("get membership error: %w", err)
	}

	return models.Access{Decision: models.AccessAllowed, Role: m.Role}, nil
}

// RequireMember translates the access verdict into errors the transport
// layer maps to 404 and 403.
func (ms *MemberService) RequireMember(ctx context.Context, userID, boardID uuid.UUID) (models.Role, error) {
	access, err := ms.CheckPermissions(ctx, userID, boardID)
	if err != nil {
		return "", fmt.Errorf("check permissions error: %w", err)
	}

	switch access.Decision {
	case models.AccessNoBoard:
		return "", ErrBoardNotFound
	case models.AccessNotMember:
		return "", ErrAccessDenied
	case models.AccessAllowed:
	}

	return access.Role, nil
}

func (ms *MemberService) RequireAdmin(ctx context.Context, userID, boardID uuid.UUID) error {
	role, err := ms.RequireMember(ctx, userID, boardID)
	if err != nil {
		return err
	}

	if role != models.RoleAdmin {
		return ErrAccessDenied
	}

	return nil
}

func (ms *MemberService) UsersInBoard(ctx context.Context, userID, boardID uuid.UUID) ([]models.User, error) {
	if _, err := ms.RequireMember(ctx, userID, boardID); err != nil {
		return nil, err
	}

	users, err := ms.boardRepo.ListMembers(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list members error: %w", err)
	}

	return users, nil
}

func (ms *MemberService) AddUser(ctx context.Context, currentUserID uuid.UUID, req AddUserRequest) (models.Membership, error) {
	if _, err := ms.RequireMember(ctx, currentUserID, req.BoardID); err != nil {
		return models.Membership{}, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	if role != models.RoleAdmin && role != models.RoleUser {
		return models.Membership{}, models.Invalidf("unknown role %q", req.Role)
	}

	userToAdd, err := ms.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.Membership{}, ErrUserNotFound
		}

		return models.Membership{}, fmt.Errorf("get user error: %w", err)
	}

	m := models.Membership{
		UserID:  userToAdd.ID,
		BoardID: req.BoardID,
		Role:    role,
	}

	if err := ms.boardRepo.AddMembership(ctx, m); err != nil {
		if errors.Is(err, boardrepo.ErrAlreadyMember) {
			return models.Membership{}, ErrAlreadyMember
		}

		return models.Membership{}, fmt.Errorf("add membership error: %w", err)
	}

	ms.lg.Infof("user %s added to board %s as %s", userToAdd.ID, req.BoardID, role)

	return m, nil
}

func (ms *MemberService) RemoveUser(ctx context.Context, currentUserID, userID, boardID uuid.UUID) error {
	if _, err := ms.RequireMember(ctx, currentUserID, boardID); err != nil {
		return err
	}

	if currentUserID == userID {
		return ErrSelfRemoval
	}

	if err := ms.boardRepo.RemoveMembership(ctx, userID, boardID); err != nil {
		if errors.Is(err, boardrepo.ErrMembershipNotFound) {
			return ErrNotAMember
		}

		return fmt.Errorf("remove membership error: %w", err)
	}

	ms.lg.Infof("user %s removed from board %s", userID, boardID)

	return nil
}
