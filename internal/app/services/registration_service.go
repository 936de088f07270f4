package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/techfest/internal/app/models"
	"github.com/yigit/techfest/internal/app/models/dto"
	"github.com/yigit/techfest/internal/app/repositories"
	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/dberrors"
	"github.com/yigit/techfest/internal/pkg/filestorage"
	"github.com/yigit/techfest/internal/pkg/notify"
	"github.com/yigit/techfest/internal/pkg/slugs"
	"github.com/yigit/techfest/internal/pkg/validation"
)

// UploadSkippedSentinel is stored instead of a URL when no upload backend
// is configured
const UploadSkippedSentinel = "[not uploaded: IMGBB_API_KEY missing]"

const publishTimeout = 5 * time.Second

// NewRegistrationID returns "TS-" followed by an 8 character uppercase hex token
func NewRegistrationID() string {
	token, _, _ := strings.Cut(uuid.NewString(), "-")
	return "TS-" + strings.ToUpper(token)
}

// RegistrationService runs the registration pipeline:
// validate, resolve event, reserve, upload proof, persist, publish.
// Any failure after the reservation releases the slot again.
type RegistrationService struct {
	events        EventStore
	registrations RegistrationStore
	engine        *ReservationEngine
	uploader      filestorage.ProofUploader
	publisher     notify.Publisher
	metrics       Recorder
	validator     *validation.Validator
	logger        zerolog.Logger

	newID func() string
	now   func() time.Time

	publishing sync.WaitGroup
}

// NewRegistrationService creates a new registration service. A nil
// uploader means uploads are not configured; a nil publisher disables
// registration events.
func NewRegistrationService(
	events EventStore,
	registrations RegistrationStore,
	engine *ReservationEngine,
	uploader filestorage.ProofUploader,
	publisher notify.Publisher,
	recorder Recorder,
	logger zerolog.Logger,
) *RegistrationService {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &RegistrationService{
		events:        events,
		registrations: registrations,
		engine:        engine,
		uploader:      uploader,
		publisher:     publisher,
		metrics:       recorderOrNop(recorder),
		validator:     newRegistrationValidator(),
		logger:        logger,
		newID:         NewRegistrationID,
		now:           time.Now,
	}
}

func newRegistrationValidator() *validation.Validator {
	v := validation.New()
	v.RegisterStructValidation(registerRequestRules, dto.RegisterRequest{})

	v.WithMessage("EventSlug", "required", "Event slug is required").
		WithMessage("Name", validation.TagTrimMin, "Name must be at least 2 characters long").
		WithMessage("Email", validation.TagLooseEmail, "Valid email address is required").
		WithMessage("Whatsapp", validation.TagWhatsapp, "WhatsApp number must be 10 digits").
		WithMessage("College", validation.TagTrimMin, "College name is required").
		WithMessage("Semester", validation.TagSemester, "Valid semester is required").
		WithMessage("Branch", validation.TagTrimMin, "Branch is required").
		WithMessage("MembershipNumber", "ieeemember", "IEEE membership grade and number are required for IEEE members").
		WithMessage("HasScreenshot", "screenshot", "Payment screenshot is required when payment is done (not applicable for IEEE members)")
	return v
}

// registerRequestRules holds the cross-field rules of the form
func registerRequestRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.RegisterRequest)
	member := req.IsIEEEMember.Bool()

	if member {
		if strings.TrimSpace(req.MembershipGrade) == "" ||
			!validation.HasMinTrimmedLength(req.MembershipNumber, validation.MembershipNumberMinLength) {
			sl.ReportError(req.MembershipNumber, "membershipNumber", "MembershipNumber", "ieeemember", "")
		}
	}

	if req.PaymentDone.Bool() && !member && !req.HasScreenshot {
		sl.ReportError(req.HasScreenshot, "paymentScreenshot", "HasScreenshot", "screenshot", "")
	}
}

// Validate checks the form without touching any store
func (s *RegistrationService) Validate(req *dto.RegisterRequest) error {
	messages, err := s.validator.Struct(*req)
	if err != nil {
		return fmt.Errorf("error validating registration: %w", err)
	}
	if len(messages) > 0 {
		return apperrors.NewValidationError(messages)
	}
	return nil
}

// Register runs the pipeline for one request. proof may be nil.
func (s *RegistrationService) Register(ctx context.Context, req *dto.RegisterRequest, proof *filestorage.File) (*dto.RegisterResponse, error) {
	start := s.now()
	resp, err := s.register(ctx, req, proof)

	outcome := "created"
	if err != nil {
		outcome = apperrors.CodeOf(err)
		if outcome == "" {
			outcome = apperrors.CodeInternal
		}
	}
	s.metrics.Registration(outcome)

	log := s.logger.With().Str("slug", req.EventSlug).Str("outcome", outcome).Dur("took", s.now().Sub(start)).Logger()
	if err != nil {
		log.Warn().Err(err).Msg("Registration failed")
		return nil, err
	}
	log.Info().Str("registration_id", resp.ID).Msg("Registration successful")
	return resp, nil
}

func (s *RegistrationService) register(ctx context.Context, req *dto.RegisterRequest, proof *filestorage.File) (*dto.RegisterResponse, error) {
	req.EventSlug = slugs.Normalize(req.EventSlug)
	req.HasScreenshot = proof != nil

	if err := s.Validate(req); err != nil {
		return nil, err
	}

	event, err := s.resolveEvent(ctx, req.EventSlug)
	if err != nil {
		return nil, err
	}

	reservation, err := s.engine.Reserve(ctx, event.Slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, s.eventNotFound(ctx, event.Slug)
		}
		return nil, err
	}

	reg, err := s.complete(ctx, req, proof, reservation)
	if err != nil {
		_ = reservation.Compensate(ctx)
		return nil, err
	}

	s.publish(ctx, reg)

	return &dto.RegisterResponse{
		Success: true,
		Message: "Registration successful",
		ID:      reg.RegistrationID,
		Next:    models.NextStepFor(reg.PaymentDone),
		Data: dto.RegisterResponseData{
			RegistrationID: reg.RegistrationID,
			Email:          reg.Email,
			Status:         reg.Status,
		},
	}, nil
}

// resolveEvent loads the event, attaching the catalog on a miss
func (s *RegistrationService) resolveEvent(ctx context.Context, slug string) (*models.Event, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeError(err, "resolving event")
	}
	return nil, s.eventNotFound(ctx, slug)
}

// eventNotFound builds the not-found error listing the current catalog
func (s *RegistrationService) eventNotFound(ctx context.Context, slug string) error {
	available, listErr := s.events.Summaries(ctx)
	if listErr != nil {
		s.logger.Warn().Err(listErr).Msg("Failed to list events for not-found response")
	}
	return apperrors.NewCustomError(apperrors.ErrEventNotFound, "Event not found").
		WithCode(apperrors.CodeEventNotFound).
		WithDetails(dto.EventNotFoundDetails{AttemptedSlug: slug, AvailableEvents: available})
}

// complete runs the steps that follow a successful reservation
func (s *RegistrationService) complete(ctx context.Context, req *dto.RegisterRequest, proof *filestorage.File, reservation *Reservation) (*models.Registration, error) {
	event := reservation.Event
	paymentDone := req.PaymentDone.Bool()

	var screenshotURL, deleteURL *string
	if paymentDone && proof != nil {
		url, del, err := s.uploadProof(ctx, event.Slug, proof)
		if err != nil {
			return nil, err
		}
		screenshotURL, deleteURL = url, del
	}

	now := s.now().UTC()
	reg := &models.Registration{
		RegistrationID:             s.newID(),
		EventSlug:                  event.Slug,
		EventTitle:                 event.Title,
		Name:                       strings.TrimSpace(req.Name),
		Email:                      req.NormalizedEmail(),
		Whatsapp:                   strings.TrimSpace(req.Whatsapp),
		College:                    strings.TrimSpace(req.College),
		Semester:                   models.Semester(req.Semester),
		Branch:                     strings.TrimSpace(req.Branch),
		IsIEEEMember:               req.IsIEEEMember.Bool(),
		PaymentDone:                paymentDone,
		PaymentScreenshotURL:       screenshotURL,
		PaymentScreenshotDeleteURL: deleteURL,
		Status:                     models.StatusFor(paymentDone),
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}

	// Membership details are only kept when a number was actually given
	if number := strings.TrimSpace(req.MembershipNumber); reg.IsIEEEMember && number != "" {
		reg.MembershipNumber = &number
		if grade := strings.TrimSpace(req.MembershipGrade); grade != "" {
			reg.MembershipGrade = &grade
		}
	}

	if err := s.registrations.Create(ctx, reg); err != nil {
		if field, dup := dberrors.DuplicateField(err); dup {
			return nil, apperrors.NewDuplicateError(dberrors.DuplicateCode(field), err)
		}
		return nil, storeError(err, "creating registration")
	}
	return reg, nil
}

// uploadProof stores the screenshot, or returns the sentinel when no
// backend is configured
func (s *RegistrationService) uploadProof(ctx context.Context, slug string, proof *filestorage.File) (url, deleteURL *string, err error) {
	if s.uploader == nil {
		s.logger.Warn().Msg("Upload backend not configured; skipping screenshot upload")
		sentinel := UploadSkippedSentinel
		return &sentinel, nil, nil
	}

	name := fmt.Sprintf("payment_%s_%d", slug, s.now().UnixMilli())
	start := time.Now()
	result, err := s.uploader.Upload(ctx, name, proof)
	s.metrics.ObserveUpload(time.Since(start))
	if err != nil {
		return nil, nil, apperrors.NewCustomError(fmt.Errorf("%w: %w", apperrors.ErrUploadFailed, err), "Failed to upload payment screenshot").
			WithCode(apperrors.CodeUploadFailed).
			WithDetails(err.Error())
	}

	url = &result.URL
	if result.DeleteURL != "" {
		deleteURL = &result.DeleteURL
	}
	return url, deleteURL, nil
}

// publish announces the registration in the background. Failures are logged only.
func (s *RegistrationService) publish(ctx context.Context, reg *models.Registration) {
	msg := notify.RegistrationCreated{
		Type:           notify.EventRegistrationCreated,
		RegistrationID: reg.RegistrationID,
		EventSlug:      reg.EventSlug,
		Status:         string(reg.Status),
		CreatedAt:      reg.CreatedAt,
	}

	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		if err := s.publisher.PublishRegistrationCreated(pubCtx, msg); err != nil {
			s.logger.Warn().Err(err).Str("registration_id", reg.RegistrationID).Msg("Failed to publish registration event")
		}
	}()
}

// Drain waits for in-flight registration events to be published
func (s *RegistrationService) Drain() {
	s.publishing.Wait()
}

// ListByEvent returns the registrations of an event
func (s *RegistrationService) ListByEvent(ctx context.Context, rawSlug string) ([]*models.Registration, error) {
	regs, err := s.registrations.ListByEvent(ctx, slugs.Normalize(rawSlug))
	if err != nil {
		return nil, storeError(err, "listing registrations")
	}
	if regs == nil {
		regs = []*models.Registration{}
	}
	return regs, nil
}

// GetRegistration returns a registration by its public id
func (s *RegistrationService) GetRegistration(ctx context.Context, registrationID string) (*models.Registration, error) {
	reg, err := s.registrations.GetByRegistrationID(ctx, strings.TrimSpace(registrationID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrRegistrationNotFound, "Registration not found").
				WithCode(apperrors.CodeRegistrationMissing)
		}
		return nil, storeError(err, "getting registration")
	}
	return reg, nil
}
