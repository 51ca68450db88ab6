package usecase

import (
	"context"
	"errors"
	"strings"

	"medical-appointment-api/internal/converter"
	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/internal/service"
	"medical-appointment-api/pkg/jwt"
	"medical-appointment-api/pkg/logger"
	"medical-appointment-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrCRMAlreadyExists   = errors.New("CRM already registered")
	ErrCPFAlreadyExists   = errors.New("CPF already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	uow                repository.UnitOfWork
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	jwtService         *jwt.JWTService
	tokenStore         service.TokenStore
}

func NewAuthUsecase(
	uow repository.UnitOfWork,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		uow:                uow,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		jwtService:         jwtService,
		tokenStore:         tokenStore,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	log := logger.FromContext(ctx, u.log).WithField("flow", "Auth.RegisterPatient")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		ID:       uuid.New(),
		Email:    normalizeEmail(req.Email),
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
		RoleID:   entity.RoleIDPatient,
		IsActive: boolPtr(true),
	}
	profile := &entity.PatientProfile{
		UserID:      user.ID,
		CPF:         validator.NormalizeCPF(req.CPF),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
	}

	err = u.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.Create(tx, user); err != nil {
			return err
		}
		if err := u.patientProfileRepo.Create(tx, profile); err != nil {
			return err
		}
		profile.User = *user
		return u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionPatientRegister, "patient_profile", user.ID.String(), converter.PatientProfileToResponse(profile))
	})
	if err != nil {
		switch {
		case isDuplicateKeyError(err, "email"):
			return nil, ErrEmailAlreadyExists
		case isDuplicateKeyError(err, "cpf"):
			return nil, ErrCPFAlreadyExists
		case isForeignKeyError(err, "role"):
			return nil, ErrRoleNotFound
		}
		log.Warnf("Failed to register patient: %+v", err)
		return nil, err
	}

	user.PatientProfile = profile
	log.WithField("user_id", user.ID).Info("Patient registered")

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	log := logger.FromContext(ctx, u.log).WithField("flow", "Auth.RegisterDoctor")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		ID:       uuid.New(),
		Email:    normalizeEmail(req.Email),
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
		RoleID:   entity.RoleIDDoctor,
		IsActive: boolPtr(true),
	}
	profile := &entity.DoctorProfile{
		UserID:         user.ID,
		CRM:            validator.NormalizeCRM(req.CRM),
		Specialization: strings.TrimSpace(req.Specialization),
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
	}

	err = u.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.Create(tx, user); err != nil {
			return err
		}
		if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
			return err
		}
		profile.User = *user
		return u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionDoctorRegister, "doctor_profile", user.ID.String(), converter.DoctorProfileToResponse(profile))
	})
	if err != nil {
		switch {
		case isDuplicateKeyError(err, "email"):
			return nil, ErrEmailAlreadyExists
		case isDuplicateKeyError(err, "crm"):
			return nil, ErrCRMAlreadyExists
		case isForeignKeyError(err, "role"):
			return nil, ErrRoleNotFound
		}
		log.Warnf("Failed to register doctor: %+v", err)
		return nil, err
	}

	user.DoctorProfile = profile
	log.WithField("user_id", user.ID).Info("Doctor registered")

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	log := logger.FromContext(ctx, u.log).WithField("flow", "Auth.Login")

	var user *entity.User
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = u.userRepo.FindByEmail(tx, normalizeEmail(req.Email))
		return err
	})
	if err != nil {
		log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, ErrAccountDisabled
	}

	return u.issueTokens(ctx, log, user.ID, user.Email, user.RoleID)
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	if err := u.tokenStore.Delete(ctx, jwt.AccessToken, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if refreshTokenID != "" {
		if err := u.tokenStore.Delete(ctx, jwt.RefreshToken, userID, refreshTokenID); err != nil {
			u.log.Warnf("Failed to delete refresh token: %+v", err)
			return err
		}
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	log := logger.FromContext(ctx, u.log).WithField("flow", "Auth.RefreshToken")

	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// rotate: a refresh token is single-use
	if err := u.tokenStore.Delete(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID); err != nil {
		log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, log, claims.UserID, claims.Email, claims.RoleID)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	var user *entity.User
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = u.userRepo.FindByID(tx, userID)
		return err
	})
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, log *logrus.Entry, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, jwt.AccessToken, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, jwt.RefreshToken, userID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func boolPtr(b bool) *bool {
	return &b
}
