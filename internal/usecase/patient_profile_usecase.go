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
	ErrPatientNotFound        = errors.New("patient not found")
	ErrPatientHasAppointments = errors.New("patient has appointments and cannot be deleted")
)

type PatientProfileUsecase interface {
	GetPatient(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error)
	GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error)
	UpdatePatient(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, patientID uuid.UUID) error
}

type patientProfileUsecase struct {
	uow                repository.UnitOfWork
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	tokenStore         service.TokenStore
}

func NewPatientProfileUsecase(
	uow repository.UnitOfWork,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		uow:                uow,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		tokenStore:         tokenStore,
	}
}

func (u *patientProfileUsecase) GetPatient(ctx context.Context, userID uuid.UUID) (*dto.PatientResponse, error) {
	var profile *entity.PatientProfile
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		profile, err = u.patientProfileRepo.FindByUserID(tx, userID)
		return err
	})
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientProfileToResponse(profile), nil
}

func (u *patientProfileUsecase) GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	var profiles []entity.PatientProfile
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		profiles, err = u.patientProfileRepo.FindAll(tx)
		return err
	})
	if err != nil {
		u.log.Warnf("Failed to find all patient profiles: %+v", err)
		return nil, err
	}

	patients := converter.PatientProfilesToResponses(profiles)

	return &dto.PatientListResponse{
		Patients: patients,
		Total:    len(patients),
	}, nil
}

func (u *patientProfileUsecase) UpdatePatient(ctx context.Context, userID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	log := logger.FromContext(ctx, u.log).WithFields(logrus.Fields{"flow": "Patient.Update", "patient_id": userID})

	var profile *entity.PatientProfile
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		profile, err = u.patientProfileRepo.FindByUserID(tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrPatientNotFound
		}

		oldValue := converter.PatientProfileToResponse(profile)

		if req.Email != nil {
			profile.User.Email = normalizeEmail(*req.Email)
		}
		if req.FullName != nil {
			profile.User.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.IsActive != nil {
			profile.User.IsActive = req.IsActive
		}
		if req.CPF != nil {
			profile.CPF = validator.NormalizeCPF(*req.CPF)
		}
		if req.PhoneNumber != nil {
			profile.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
		}

		if err := u.userRepo.Update(tx, &profile.User); err != nil {
			return err
		}
		if err := u.patientProfileRepo.Update(tx, profile); err != nil {
			return err
		}

		actorID, _ := middleware.GetUserIDFromContext(ctx)
		return u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionPatientUpdate, "patient_profile", userID.String(), oldValue, converter.PatientProfileToResponse(profile))
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientNotFound):
			return nil, err
		case isDuplicateKeyError(err, "email"):
			return nil, ErrEmailAlreadyExists
		case isDuplicateKeyError(err, "cpf"):
			return nil, ErrCPFAlreadyExists
		}
		log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}

	if req.IsActive != nil && !*req.IsActive {
		revokeSessions(ctx, log, u.tokenStore, userID)
	}

	return converter.PatientProfileToResponse(profile), nil
}

func (u *patientProfileUsecase) DeletePatient(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContext(ctx, u.log).WithFields(logrus.Fields{"flow": "Patient.Delete", "patient_id": userID})

	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		profile, err := u.patientProfileRepo.FindByUserID(tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrPatientNotFound
		}
		oldValue := converter.PatientProfileToResponse(profile)

		// appointments reference the profile, so its delete is what trips the restriction
		if _, err := u.patientProfileRepo.Delete(tx, userID); err != nil {
			return err
		}

		affectedRows, err := u.userRepo.Delete(tx, userID)
		if err != nil {
			return err
		}
		if affectedRows == 0 {
			return ErrPatientNotFound
		}

		actorID, _ := middleware.GetUserIDFromContext(ctx)
		return u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionPatientDelete, "patient_profile", userID.String(), oldValue)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientNotFound):
			return err
		case isForeignKeyError(err, ""):
			return ErrPatientHasAppointments
		}
		log.Warnf("Failed to delete patient: %+v", err)
		return err
	}

	revokeSessions(ctx, log, u.tokenStore, userID)
	log.Info("Patient deleted")

	return nil
}
