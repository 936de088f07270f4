package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/techfest/internal/app/models/dto"
	"github.com/yigit/techfest/internal/app/services"
	"github.com/yigit/techfest/internal/middleware"
	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/filestorage"
)

// ScreenshotField is the multipart field carrying the payment proof
const ScreenshotField = "paymentScreenshot"

// RegistrationController handles registration requests
type RegistrationController struct {
	registrationService *services.RegistrationService
	maxUploadBytes      int64
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService *services.RegistrationService, maxUploadBytes int64) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		maxUploadBytes:      maxUploadBytes,
	}
}

// Register godoc
// @Summary Register for an event
// @Description Reserve a slot on an event and store the registration. A payment screenshot is required when paymentDone is true and the applicant is not an IEEE member.
// @Tags registrations
// @Accept multipart/form-data
// @Produce json
// @Param eventSlug formData string true "Event slug"
// @Param name formData string true "Full name"
// @Param email formData string true "Email"
// @Param whatsapp formData string true "10 digit WhatsApp number"
// @Param college formData string true "College"
// @Param semester formData string true "Semester (1-8 or PG)"
// @Param branch formData string true "Branch"
// @Param isIEEEMember formData boolean false "IEEE member"
// @Param membershipGrade formData string false "IEEE membership grade"
// @Param membershipNumber formData string false "IEEE membership number"
// @Param paymentDone formData boolean false "Payment already made"
// @Param paymentScreenshot formData file false "Payment screenshot (jpeg, png, webp; max 5MB)"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /register [post]
func (c *RegistrationController) Register(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes+(1<<20))

	var req dto.RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, fileUploadError(err))
		return
	}

	proof, err := c.readProof(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.registrationService.Register(ctx.Request.Context(), &req, proof)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// readProof loads the optional screenshot, enforcing size and type
func (c *RegistrationController) readProof(ctx *gin.Context) (*filestorage.File, error) {
	fileHeader, err := ctx.FormFile(ScreenshotField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fileUploadError(err)
	}

	if fileHeader.Size > c.maxUploadBytes {
		return nil, apperrors.NewCustomError(apperrors.ErrFileUpload, "File too large").
			WithCode(apperrors.CodeFileUpload).
			WithDetails("File too large")
	}
	if !filestorage.IsAllowedImageType(fileHeader.Header.Get("Content-Type")) {
		return nil, apperrors.NewCustomError(apperrors.ErrFileUpload, "Invalid file type").
			WithCode(apperrors.CodeFileUpload).
			WithDetails("Invalid file type. Only JPEG, PNG, and WebP images are allowed.")
	}

	proof, err := filestorage.FromMultipart(fileHeader, c.maxUploadBytes)
	if err != nil {
		return nil, fileUploadError(err)
	}
	return proof, nil
}

func fileUploadError(err error) error {
	return apperrors.NewCustomError(apperrors.ErrFileUpload, "File upload error").
		WithCode(apperrors.CodeFileUpload).
		WithDetails(err.Error())
}

// ListByEvent godoc
// @Summary List registrations of an event
// @Description Get the registrations stored for an event; deletion links are never returned
// @Tags registrations
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {array} models.Registration
// @Failure 500 {object} dto.ErrorResponse
// @Router /registrations/{slug} [get]
func (c *RegistrationController) ListByEvent(ctx *gin.Context) {
	regs, err := c.registrationService.ListByEvent(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, regs)
}

// GetRegistration godoc
// @Summary Get a registration
// @Description Get a registration by its generated id
// @Tags registrations
// @Produce json
// @Param id path string true "Registration ID (TS-XXXXXXXX)"
// @Success 200 {object} dto.APIResponse{data=models.Registration}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /registration/{id} [get]
func (c *RegistrationController) GetRegistration(ctx *gin.Context) {
	reg, err := c.registrationService.GetRegistration(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    reg,
	})
}
