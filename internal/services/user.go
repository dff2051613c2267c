package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/access"
	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/ctxutil"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type CreateUserInput struct {
	UserName    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber *string
	RoleName    string
}

// UpdateUserInput uses pointers to distinguish "leave alone" from
// "set to this value".
type UpdateUserInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Email       *string
	IsActive    *bool
	RoleName    *string
	Password    *string
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	db         *gorm.DB
	log        *logger.Logger
	tx         aggregates.TxRunner
	userRepo   repos.UserRepo
	roleRepo   repos.RoleRepo
	memberRepo repos.ProjectMemberRepo
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	tx aggregates.TxRunner,
	userRepo repos.UserRepo,
	roleRepo repos.RoleRepo,
	memberRepo repos.ProjectMemberRepo,
) UserService {
	return &userService{
		db:         db,
		log:        log.With("service", "UserService"),
		tx:         tx,
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		memberRepo: memberRepo,
	}
}

func callerScope(ctx context.Context) access.Scope {
	return access.FromRequest(ctxutil.GetRequestData(ctx))
}

func (us *userService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	const op = "user.create"
	if !callerScope(ctx).IsAdministrator() {
		return nil, aggregates.ForbiddenError(op, "administrator role required")
	}

	userName := strings.TrimSpace(in.UserName)
	email := strings.TrimSpace(in.Email)
	switch {
	case userName == "":
		return nil, aggregates.ValidationError(op, "user name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, aggregates.ValidationError(op, "a valid email is required")
	case len(in.Password) < 8:
		return nil, aggregates.ValidationError(op, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, aggregates.Wrap(aggregates.CodeInternal, op, err)
	}

	var created *domain.User
	err = us.tx.InTx(ctx, func(dbc dbctx.Context) error {
		role, err := us.roleRepo.GetByName(dbc, in.RoleName)
		if err != nil {
			return aggregates.ValidationError(op, "unknown role")
		}
		now := time.Now().UTC()
		user := &domain.User{
			ID:                 uuid.New(),
			UserName:           userName,
			NormalizedUserName: domain.NormalizeUserKey(userName),
			Email:              email,
			NormalizedEmail:    domain.NormalizeUserKey(email),
			PasswordHash:       string(hash),
			FirstName:          strings.TrimSpace(in.FirstName),
			LastName:           strings.TrimSpace(in.LastName),
			PhoneNumber:        in.PhoneNumber,
			IsActive:           true,
			JoinedAt:           now,
			RoleID:             role.ID,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		rows, err := us.userRepo.Create(dbc, []*domain.User{user})
		if err != nil {
			return aggregates.MapError(op, err)
		}
		created = rows[0]
		created.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (us *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "user.get"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.NotFoundError(op, "user not found")
	}
	// Volunteers may only read their own record.
	if !scope.IsAdministrator() && scope.CallerID() != id {
		return nil, aggregates.NotFoundError(op, "user not found")
	}
	user, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return user, nil
}

func (us *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*domain.User, error) {
	const op = "user.update"
	if !callerScope(ctx).IsAdministrator() {
		return nil, aggregates.ForbiddenError(op, "administrator role required")
	}

	var updated *domain.User
	err := us.tx.InTx(ctx, func(dbc dbctx.Context) error {
		user, err := us.userRepo.GetByID(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		before := *user

		fields := map[string]interface{}{}
		if in.FirstName != nil {
			user.FirstName = strings.TrimSpace(*in.FirstName)
			fields["first_name"] = user.FirstName
		}
		if in.LastName != nil {
			user.LastName = strings.TrimSpace(*in.LastName)
			fields["last_name"] = user.LastName
		}
		if in.PhoneNumber != nil {
			user.PhoneNumber = in.PhoneNumber
			fields["phone_number"] = *in.PhoneNumber
		}
		if in.Email != nil {
			email := strings.TrimSpace(*in.Email)
			if email == "" || !strings.Contains(email, "@") {
				return aggregates.ValidationError(op, "a valid email is required")
			}
			user.Email = email
			user.NormalizedEmail = domain.NormalizeUserKey(email)
			fields["email"] = email
			fields["normalized_email"] = user.NormalizedEmail
		}
		if in.IsActive != nil {
			user.IsActive = *in.IsActive
			fields["is_active"] = *in.IsActive
		}
		if in.RoleName != nil {
			role, err := us.roleRepo.GetByName(dbc, *in.RoleName)
			if err != nil {
				return aggregates.ValidationError(op, "unknown role")
			}
			user.RoleID = role.ID
			user.Role = role
			fields["role_id"] = role.ID
		}
		if in.Password != nil {
			if len(*in.Password) < 8 {
				return aggregates.ValidationError(op, "password must be at least 8 characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return aggregates.Wrap(aggregates.CodeInternal, op, err)
			}
			user.PasswordHash = string(hash)
			fields["password_hash"] = user.PasswordHash
		}

		if len(fields) > 0 {
			if err := us.userRepo.UpdateFields(dbc, id, fields); err != nil {
				return aggregates.MapError(op, err)
			}
			user.UpdatedAt = time.Now().UTC()
			if dbc.Changes != nil {
				dbc.Changes.RecordUpdate(&before, user)
			}
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a user and their project memberships. Callers cannot delete
// their own account. Donations the user made keep their donor reference.
func (us *userService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "user.delete"
	scope := callerScope(ctx)
	if !scope.IsAdministrator() {
		return aggregates.ForbiddenError(op, "administrator role required")
	}
	if scope.CallerID() == id {
		return aggregates.ValidationError(op, "cannot delete your own account")
	}
	return us.tx.InTx(ctx, func(dbc dbctx.Context) error {
		user, err := us.userRepo.GetByID(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		memberships, err := us.memberRepo.ListByUser(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		for _, member := range memberships {
			if err := us.memberRepo.Delete(dbc, member.ProjectID, member.UserID); err != nil {
				return aggregates.MapError(op, err)
			}
		}
		if err := us.userRepo.Delete(dbc, user); err != nil {
			return aggregates.MapError(op, err)
		}
		return nil
	})
}

func (us *userService) List(ctx context.Context) ([]*domain.User, error) {
	const op = "user.list"
	if !callerScope(ctx).IsAdministrator() {
		return nil, aggregates.ForbiddenError(op, "administrator role required")
	}
	users, err := us.userRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return users, nil
}
