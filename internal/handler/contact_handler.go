package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"contact-service/internal/model"
	"contact-service/internal/repository"
	"contact-service/internal/upload"
	"contact-service/pkg/logger"
	"contact-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// contactsSubFolder is where contact card images land under the
// upload root
const contactsSubFolder = "contacts"

// ContactRequest defines the structure for contact creation/update
// requests. The same struct binds from a JSON body or a multipart
// form; the image file parts are picked up separately.
type ContactRequest struct {
	CompanyID    *int    `json:"companyId" form:"companyId"`
	UserID       *int    `json:"userId" form:"userId"`
	Type         *string `json:"type" form:"type" validate:"omitempty,max=50"`
	Name         *string `json:"name" form:"name" validate:"omitempty,max=200"`
	Email        *string `json:"email" form:"email" validate:"omitempty,email,max=200"`
	TaxNumber    *string `json:"taxNumber" form:"taxNumber" validate:"omitempty,max=50"`
	Phone        *string `json:"phone" form:"phone" validate:"omitempty,phone,max=50"`
	Address      *string `json:"address" form:"address" validate:"omitempty,max=500"`
	City         *string `json:"city" form:"city" validate:"omitempty,max=100"`
	ZipCode      *string `json:"zipCode" form:"zipCode" validate:"omitempty,max=20"`
	State        *string `json:"state" form:"state" validate:"omitempty,max=100"`
	Country      *string `json:"country" form:"country" validate:"omitempty,max=100"`
	Website      *string `json:"website" form:"website" validate:"omitempty,url,max=300"`
	CurrencyCode *string `json:"currencyCode" form:"currencyCode" validate:"omitempty,max=10"`
	Reference    *string `json:"reference" form:"reference" validate:"omitempty,max=100"`
	CreatedFrom  *string `json:"createdFrom" form:"createdFrom" validate:"omitempty,max=100"`
	CreatedBy    *int    `json:"createdBy" form:"createdBy"`
	FileNumber   *string `json:"fileNumber" form:"fileNumber" validate:"omitempty,max=100"`

	// Update-only flags; ignored on create
	RemoveFrontImage bool `json:"removeFrontImage" form:"removeFrontImage"`
	RemoveBackImage  bool `json:"removeBackImage" form:"removeBackImage"`
}

// apply overwrites every editable field of the contact from the
// request. Updates are a full replace, not a merge: fields the client
// omitted are written back as null.
func (r *ContactRequest) apply(contact *model.Contact) {
	contact.CompanyID = r.CompanyID
	contact.UserID = r.UserID
	contact.Type = r.Type
	contact.Name = r.Name
	contact.Email = r.Email
	contact.TaxNumber = r.TaxNumber
	contact.Phone = r.Phone
	contact.Address = r.Address
	contact.City = r.City
	contact.ZipCode = r.ZipCode
	contact.State = r.State
	contact.Country = r.Country
	contact.Website = r.Website
	contact.CurrencyCode = r.CurrencyCode
	contact.Reference = r.Reference
	contact.CreatedFrom = r.CreatedFrom
	contact.CreatedBy = r.CreatedBy
	contact.FileNumber = r.FileNumber
}

// ContactHandler bundles the contact endpoints with their
// dependencies
type ContactHandler struct {
	repo  *repository.ContactRepository
	files *upload.FileStore
}

// NewContactHandler creates a ContactHandler instance
func NewContactHandler(repo *repository.ContactRepository, files *upload.FileStore) *ContactHandler {
	return &ContactHandler{repo: repo, files: files}
}

// List handles GET /api/contacts with pagination, search and type
// filtering
func (h *ContactHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing contacts with filters")
	prometheus.RecordContactOperation("list")

	// Parse query parameters for pagination
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(c.QueryParam("perPage"))
	if perPage < 1 {
		perPage = 10 // Default page size
	}
	if perPage > 100 {
		perPage = 100
	}

	params := repository.ListParams{
		Page:    page,
		PerPage: perPage,
		Search:  c.QueryParam("search"),
		Type:    c.QueryParam("type"),
	}

	if params.Search != "" {
		log.Info("Filtering contacts by search term", zap.String("search", params.Search))
	}
	if params.Type != "" {
		log.Info("Filtering contacts by type", zap.String("type", params.Type))
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("list")(time.Now())

	contacts, total, err := h.repo.List(params)
	if err != nil {
		log.Error("Failed to retrieve contacts", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve contacts",
		})
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	log.Info("Contacts retrieved successfully",
		zap.Int("count", len(contacts)),
		zap.Int64("total", total))

	return c.JSON(http.StatusOK, PaginatedResponse{
		Data: contacts,
		Meta: PaginationMeta{
			CurrentPage: page,
			PerPage:     perPage,
			Total:       total,
			TotalPages:  totalPages,
		},
		Links: buildLinks(c, page, perPage, totalPages),
	})
}

// GetByID handles GET /api/contacts/:id
func (h *ContactHandler) GetByID(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordContactOperation("get")

	id, err := parseID(c)
	if err != nil {
		log.Warn("Invalid contact ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid contact ID",
		})
	}

	contact, err := h.repo.FindActive(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Contact not found", zap.Uint("contact_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Contact not found",
			})
		}
		log.Error("Failed to retrieve contact", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve contact",
		})
	}

	return c.JSON(http.StatusOK, contact)
}

// Create handles POST /api/contacts from a JSON body or a multipart
// form with optional image parts
func (h *ContactHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new contact")
	prometheus.RecordContactOperation("create")

	req, front, back, err := bindContactRequest(c)
	if err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if err := c.Validate(req); err != nil {
		log.Warn("Contact validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": fieldErrors(err),
		})
	}

	contact := &model.Contact{}
	req.apply(contact)

	// Store both images before touching the database so a rejected
	// file never leaves a half-created contact behind
	if contact.FrontImagePath, err = h.saveImage(c, front); err != nil {
		return h.imageError(c, err)
	}
	if contact.BackImagePath, err = h.saveImage(c, back); err != nil {
		return h.imageError(c, err)
	}

	defer prometheus.TrackDBOperation("create")(time.Now())

	if err := h.repo.Create(contact); err != nil {
		log.Error("Failed to create contact", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create contact",
		})
	}

	log.Info("Contact created successfully", zap.Uint("contact_id", contact.ID))

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/contacts/%d", contact.ID))
	return c.JSON(http.StatusCreated, contact)
}

// Update handles PUT /api/contacts/:id. Every editable field is
// overwritten from the request; image handling per side is
// remove-flag first, then new file, then leave unchanged.
func (h *ContactHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordContactOperation("update")

	id, err := parseID(c)
	if err != nil {
		log.Warn("Invalid contact ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid contact ID",
		})
	}

	log.Info("Updating contact", zap.Uint("contact_id", id))

	req, front, back, err := bindContactRequest(c)
	if err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if err := c.Validate(req); err != nil {
		log.Warn("Contact validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": fieldErrors(err),
		})
	}

	contact, err := h.repo.FindActive(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Contact not found", zap.Uint("contact_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Contact not found",
			})
		}
		log.Error("Failed to retrieve contact", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve contact",
		})
	}

	req.apply(contact)

	// Image handling runs before the save so a rejected file aborts
	// the update without persisting any field change. The remove flag
	// wins over a simultaneously supplied file.
	if req.RemoveFrontImage && deref(contact.FrontImagePath) != "" {
		h.files.Delete(*contact.FrontImagePath)
		contact.FrontImagePath = nil
	} else if front != nil {
		h.files.Delete(deref(contact.FrontImagePath))
		if contact.FrontImagePath, err = h.saveImage(c, front); err != nil {
			return h.imageError(c, err)
		}
	}

	if req.RemoveBackImage && deref(contact.BackImagePath) != "" {
		h.files.Delete(*contact.BackImagePath)
		contact.BackImagePath = nil
	} else if back != nil {
		h.files.Delete(deref(contact.BackImagePath))
		if contact.BackImagePath, err = h.saveImage(c, back); err != nil {
			return h.imageError(c, err)
		}
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := h.repo.Save(contact); err != nil {
		log.Error("Failed to update contact", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update contact",
		})
	}

	log.Info("Contact updated successfully", zap.Uint("contact_id", id))
	return c.JSON(http.StatusOK, contact)
}

// Delete handles DELETE /api/contacts/:id (soft delete)
func (h *ContactHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordContactOperation("delete")

	id, err := parseID(c)
	if err != nil {
		log.Warn("Invalid contact ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid contact ID",
		})
	}

	contact, err := h.repo.FindActive(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Contact not found", zap.Uint("contact_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Contact not found",
			})
		}
		log.Error("Failed to retrieve contact", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve contact",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.repo.SoftDelete(contact); err != nil {
		log.Error("Failed to delete contact", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete contact",
		})
	}

	log.Info("Contact soft-deleted", zap.Uint("contact_id", id))
	return c.NoContent(http.StatusNoContent)
}

// DeletePermanent handles DELETE /api/contacts/:id/permanent. It
// finds the contact regardless of deletion state, removes both image
// files and drops the row for good.
func (h *ContactHandler) DeletePermanent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordContactOperation("delete_permanent")

	id, err := parseID(c)
	if err != nil {
		log.Warn("Invalid contact ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid contact ID",
		})
	}

	contact, err := h.repo.FindAny(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Contact not found", zap.Uint("contact_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Contact not found",
			})
		}
		log.Error("Failed to retrieve contact", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve contact",
		})
	}

	// Best effort; Delete is a no-op for paths already gone
	h.files.Delete(deref(contact.FrontImagePath))
	h.files.Delete(deref(contact.BackImagePath))

	defer prometheus.TrackDBOperation("delete_permanent")(time.Now())

	if err := h.repo.DeletePermanent(contact); err != nil {
		log.Error("Failed to permanently delete contact", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete contact",
		})
	}

	log.Info("Contact permanently deleted", zap.Uint("contact_id", id))
	return c.NoContent(http.StatusNoContent)
}

// Restore handles POST /api/contacts/:id/restore for soft-deleted
// contacts
func (h *ContactHandler) Restore(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordContactOperation("restore")

	id, err := parseID(c)
	if err != nil {
		log.Warn("Invalid contact ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid contact ID",
		})
	}

	contact, err := h.repo.FindDeleted(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Deleted contact not found", zap.Uint("contact_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Deleted contact not found",
			})
		}
		log.Error("Failed to retrieve contact", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve contact",
		})
	}

	defer prometheus.TrackDBOperation("restore")(time.Now())

	if err := h.repo.Restore(contact); err != nil {
		log.Error("Failed to restore contact", zap.Uint("contact_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to restore contact",
		})
	}

	log.Info("Contact restored", zap.Uint("contact_id", id))
	return c.JSON(http.StatusOK, contact)
}

// bindContactRequest binds the shared request struct from either a
// JSON body or a multipart form and picks up the optional image parts
func bindContactRequest(c echo.Context) (*ContactRequest, *multipart.FileHeader, *multipart.FileHeader, error) {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return nil, nil, nil, err
	}

	return &req, formFile(c, "frontImage"), formFile(c, "backImage"), nil
}

// formFile fetches a multipart file part, treating everything that is
// not a present file (JSON bodies included) as absent
func formFile(c echo.Context, name string) *multipart.FileHeader {
	file, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return file
}

// saveImage stores one uploaded image and returns the path to persist,
// or nil when no file was supplied
func (h *ContactHandler) saveImage(c echo.Context, file *multipart.FileHeader) (*string, error) {
	path, err := h.files.Save(file, contactsSubFolder)
	if err != nil {
		prometheus.RecordUpload("rejected")
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	prometheus.RecordUpload("saved")
	return &path, nil
}

// imageError renders a failed image save: validation failures are the
// client's fault, anything else is ours
func (h *ContactHandler) imageError(c echo.Context, err error) error {
	log := logger.FromContext(c)

	if errors.Is(err, upload.ErrInvalidImage) {
		log.Warn("Rejected contact image", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	log.Error("Failed to store contact image", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": "Failed to store image",
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
