package usecase

import (
	"context"
	"errors"
	"strconv"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM")
	ErrInvalidWeekday    = errors.New("available_days must contain weekday names")
	ErrInvalidTimeWindow = errors.New("end_time must not be earlier than start_time")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, adminID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID int) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateAvailability(ctx context.Context, actorID uuid.UUID, doctorID int, req *dto.UpdateAvailabilityRequest) error
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

// validateAvailability normalizes and checks an availability window: weekday
// names must be canonical, both bounds must parse as HH:MM, and the window
// must not be inverted (an inverted window admits no slot at all).
func validateAvailability(days []string, startTime, endTime string) (entity.WeekdayList, error) {
	list := make(entity.WeekdayList, 0, len(days))
	for _, day := range days {
		if !entity.IsWeekdayName(day) {
			return nil, ErrInvalidWeekday
		}
		if !list.Contains(day) {
			list = append(list, day)
		}
	}

	start, err := entity.MinutesOfDay(startTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	end, err := entity.MinutesOfDay(endTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if end < start {
		return nil, ErrInvalidTimeWindow
	}

	return list, nil
}

// CreateDoctor creates a doctor row and, when credentials are supplied, the
// doctor's login account in the same transaction.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, adminID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	days, err := validateAvailability(req.AvailableDays, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor := &entity.Doctor{
		Name:           req.Name,
		Specialization: req.Specialization,
		AvailableDays:  days,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	if req.Email != "" && req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}

		account := &entity.Patient{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hashedPassword),
			Role:     entity.RoleDoctor,
			DoctorID: &doctor.ID,
		}

		if err := u.patientRepo.Create(tx, account); err != nil {
			if isDuplicateKeyError(err, "email") {
				return nil, ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to create doctor account: %+v", err)
			return nil, err
		}
	}

	u.auditService.LogChange(tx, &adminID, entity.AuditActionDoctorCreate,
		"doctor", strconv.Itoa(doctor.ID), nil, map[string]interface{}{
			"name":           doctor.Name,
			"specialization": doctor.Specialization,
		})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID int) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// UpdateAvailability overwrites the doctor's availability window. Existing
// bookings that the new window would invalidate are left untouched.
func (u *doctorUsecase) UpdateAvailability(ctx context.Context, actorID uuid.UUID, doctorID int, req *dto.UpdateAvailabilityRequest) error {
	days, err := validateAvailability(req.AvailableDays, req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if err := u.doctorRepo.UpdateAvailability(tx, doctorID, days, req.StartTime, req.EndTime); err != nil {
		u.log.Warnf("Failed to update availability for doctor %d: %+v", doctorID, err)
		return err
	}

	u.auditService.LogChange(tx, &actorID, entity.AuditActionAvailabilityUpdate,
		"doctor", strconv.Itoa(doctorID),
		map[string]interface{}{
			"available_days": doctor.AvailableDays,
			"start_time":     doctor.StartTime,
			"end_time":       doctor.EndTime,
		},
		map[string]interface{}{
			"available_days": days,
			"start_time":     req.StartTime,
			"end_time":       req.EndTime,
		})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
