package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/data"
	"github.com/ncobase/jobboard/internal/data/repository"
	"github.com/ncobase/jobboard/internal/structs"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/security/jwt"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles accounts and authentication.
type UserService struct {
	data     *data.Data
	tokens   *jwt.TokenManager
	contacts *contactBook
	logger   *logger.Logger
	now      func() time.Time
	cost     int
}

// NewUserService creates a new user service.
func NewUserService(d Deps, contacts *contactBook) *UserService {
	return &UserService{
		data:     d.Data,
		tokens:   d.Tokens,
		contacts: contacts,
		logger:   d.Logger,
		now:      d.Now,
		cost:     bcrypt.DefaultCost,
	}
}

func (s *UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", ecode.NewServerError("failed to hash password", err)
	}
	return string(b), nil
}

func (s *UserService) issue(user *structs.User) (*structs.AuthResult, error) {
	token, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, ecode.NewServerError("failed to sign token", err)
	}
	return &structs.AuthResult{User: user, Token: token}, nil
}

func (s *UserService) create(ctx context.Context, name, email, phone, password string, role structs.Role) (*structs.User, error) {
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &structs.User{
		ID:           newID(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		AuthProvider: structs.AuthLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.data.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ecode.NewConflictError(ecode.AlreadyExist("email"))
		}
		return nil, storeErr(err)
	}
	return user, nil
}

// Register creates a job seeker or employer account and signs a token.
func (s *UserService) Register(ctx context.Context, req *structs.RegisterRequest) (*structs.AuthResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	user, err := s.create(ctx, req.Name, req.Email, req.Phone, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

// CreateAdmin seeds an admin account.
func (s *UserService) CreateAdmin(ctx context.Context, req *structs.CreateAdminRequest) (*structs.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.create(ctx, req.Name, req.Email, "", req.Password, structs.RoleAdmin)
}

// Login checks the credentials and the requested role.
func (s *UserService) Login(ctx context.Context, req *structs.LoginRequest) (*structs.AuthResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	user, err := s.data.Users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ecode.NewUnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, storeErr(err)
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ecode.NewUnauthorizedError("invalid email or password")
	}
	if user.Role != req.Role {
		return nil, ecode.NewNotFoundError("no " + string(req.Role) + " account with this email")
	}
	return s.issue(user)
}

// Me returns the profile of the actor.
func (s *UserService) Me(ctx context.Context, actor Actor) (*structs.User, error) {
	if err := Allow(actor, OpProfile); err != nil {
		return nil, err
	}
	user, err := s.data.Users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

// UpdateProfile changes the profile of the actor. Changing the password of a
// local account requires the current one.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, req *structs.UpdateProfileRequest) (*structs.User, error) {
	if err := Allow(actor, OpProfile); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	user, err := s.data.Users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.CompanyInfo != nil && user.Role == structs.RoleEmployer {
		ci := *req.CompanyInfo
		ci.CompanyName = strings.TrimSpace(ci.CompanyName)
		ci.Website = strings.TrimSpace(ci.Website)
		ci.Address = strings.TrimSpace(ci.Address)
		ci.Description = strings.TrimSpace(ci.Description)
		user.CompanyInfo = &ci
	}
	if req.NewPassword != "" {
		if user.AuthProvider == structs.AuthLocal {
			if req.CurrentPassword == "" {
				return nil, ecode.NewFieldsError(map[string]string{"current_password": ecode.FieldIsRequired("current_password")})
			}
			if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
				return nil, ecode.NewUnauthorizedError("current password is incorrect")
			}
		}
		if user.PasswordHash, err = s.hash(req.NewPassword); err != nil {
			return nil, err
		}
	}

	user.UpdatedAt = s.now()
	if err := s.data.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ecode.NewConflictError(ecode.AlreadyExist("email"))
		}
		return nil, notFoundOr(err, "user")
	}
	s.contacts.forget(ctx, user.ID)
	return user, nil
}
