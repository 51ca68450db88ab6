package usecase

import (
	"context"
	"errors"
	"strings"

	"medical-appointment-api/internal/converter"
	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/delivery/http/middleware"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/internal/service"
	"medical-appointment-api/pkg/logger"
	"medical-appointment-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrDoctorHasAppointments = errors.New("doctor has appointments and cannot be deleted")
)

type DoctorProfileUsecase interface {
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type doctorProfileUsecase struct {
	uow               repository.UnitOfWork
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	tokenStore        service.TokenStore
}

func NewDoctorProfileUsecase(
	uow repository.UnitOfWork,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		uow:               uow,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		tokenStore:        tokenStore,
	}
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error) {
	var profile *entity.DoctorProfile
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		profile, err = u.doctorProfileRepo.FindByUserID(tx, userID)
		return err
	})
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	var profiles []entity.DoctorProfile
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		profiles, err = u.doctorProfileRepo.FindAll(tx)
		return err
	})
	if err != nil {
		u.log.Warnf("Failed to find all doctor profiles: %+v", err)
		return nil, err
	}

	doctors := converter.DoctorProfilesToResponses(profiles)

	return &dto.DoctorListResponse{
		Doctors: doctors,
		Total:   len(doctors),
	}, nil
}

func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, userID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	log := logger.FromContext(ctx, u.log).WithFields(logrus.Fields{"flow": "Doctor.Update", "doctor_id": userID})

	var profile *entity.DoctorProfile
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		profile, err = u.doctorProfileRepo.FindByUserID(tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrDoctorNotFound
		}

		oldValue := converter.DoctorProfileToResponse(profile)

		if req.Email != nil {
			profile.User.Email = normalizeEmail(*req.Email)
		}
		if req.FullName != nil {
			profile.User.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.IsActive != nil {
			profile.User.IsActive = req.IsActive
		}
		if req.CRM != nil {
			profile.CRM = validator.NormalizeCRM(*req.CRM)
		}
		if req.Specialization != nil {
			profile.Specialization = strings.TrimSpace(*req.Specialization)
		}
		if req.PhoneNumber != nil {
			profile.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
		}

		if err := u.userRepo.Update(tx, &profile.User); err != nil {
			return err
		}
		if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
			return err
		}

		actorID, _ := middleware.GetUserIDFromContext(ctx)
		return u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionDoctorUpdate, "doctor_profile", userID.String(), oldValue, converter.DoctorProfileToResponse(profile))
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDoctorNotFound):
			return nil, err
		case isDuplicateKeyError(err, "email"):
			return nil, ErrEmailAlreadyExists
		case isDuplicateKeyError(err, "crm"):
			return nil, ErrCRMAlreadyExists
		}
		log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	if req.IsActive != nil && !*req.IsActive {
		revokeSessions(ctx, log, u.tokenStore, userID)
	}

	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) DeleteDoctor(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContext(ctx, u.log).WithFields(logrus.Fields{"flow": "Doctor.Delete", "doctor_id": userID})

	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		profile, err := u.doctorProfileRepo.FindByUserID(tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrDoctorNotFound
		}
		oldValue := converter.DoctorProfileToResponse(profile)

		// appointments reference the profile, so its delete is what trips the restriction
		if _, err := u.doctorProfileRepo.Delete(tx, userID); err != nil {
			return err
		}

		affectedRows, err := u.userRepo.Delete(tx, userID)
		if err != nil {
			return err
		}
		if affectedRows == 0 {
			return ErrDoctorNotFound
		}

		actorID, _ := middleware.GetUserIDFromContext(ctx)
		return u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionDoctorDelete, "doctor_profile", userID.String(), oldValue)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDoctorNotFound):
			return err
		case isForeignKeyError(err, ""):
			return ErrDoctorHasAppointments
		}
		log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}

	revokeSessions(ctx, log, u.tokenStore, userID)
	log.Info("Doctor deleted")

	return nil
}

// revokeSessions drops every token of a user that can no longer sign in. A failure is only
// logged since the tokens still expire on their own.
func revokeSessions(ctx context.Context, log *logrus.Entry, tokenStore service.TokenStore, userID uuid.UUID) {
	if err := tokenStore.RevokeAll(ctx, userID); err != nil {
		log.Warnf("Failed to revoke tokens: %+v", err)
	}
}
