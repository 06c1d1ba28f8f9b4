package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/internal/suppliers"
	"github.com/calderagroup/procuremart-backend/internal/users"
	"github.com/calderagroup/procuremart-backend/pkg/config"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/security"
	"github.com/calderagroup/procuremart-backend/pkg/types"
)

const minPasswordLen = 8

// RegisterRequest contains the payload for onboarding a buyer or supplier.
type RegisterRequest struct {
	FirstName    string         `json:"first_name" validate:"required"`
	LastName     string         `json:"last_name" validate:"required"`
	Email        string         `json:"email" validate:"required,email"`
	Password     string         `json:"password" validate:"required,min=8"`
	Phone        *string        `json:"phone,omitempty"`
	UserType     enums.UserType `json:"user_type" validate:"required"`
	CompanyName  *string        `json:"company_name,omitempty"`
	BusinessName string         `json:"business_name,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Address      *types.Address `json:"address,omitempty"`
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type registerTxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             registerTxRunner
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          registerTxRunner
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the user row, and for suppliers the profile row, in one
// transaction. Admin accounts are provisioned out of band, never here.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < minPasswordLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	switch req.UserType {
	case enums.UserTypeBuyer:
	case enums.UserTypeSupplier:
		if strings.TrimSpace(req.BusinessName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business_name is required for suppliers")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_type must be buyer or supplier")
	}
	if req.Address != nil {
		if err := req.Address.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address")
		}
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		supplierRepo := suppliers.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			CompanyName:  req.CompanyName,
			UserType:     req.UserType,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if req.UserType == enums.UserTypeSupplier {
			profile, err := supplierRepo.Create(ctx, suppliers.CreateSupplierDTO{
				UserID:       user.ID,
				BusinessName: strings.TrimSpace(req.BusinessName),
				Description:  req.Description,
				Address:      req.Address,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier profile")
			}
			user.Supplier = profile
		}

		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
