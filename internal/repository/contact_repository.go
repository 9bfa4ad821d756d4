package repository

import (
	"contact-service/internal/model"

	"gorm.io/gorm"
)

// ListParams carries the listing filters after the handler has
// normalized page/perPage.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
	Type    string
}

// ContactRepository wraps all database access for contacts. Soft-deleted
// rows are hidden by the default scope; the FindAny/FindDeleted lookups
// bypass it explicitly.
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a ContactRepository instance
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// List returns one page of non-deleted contacts plus the total match
// count before pagination. Search matches name, email or phone as a
// substring; typ filters on exact type.
func (r *ContactRepository) List(params ListParams) ([]model.Contact, int64, error) {
	query := r.db.Model(&model.Contact{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}

	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []model.Contact
	offset := (params.Page - 1) * params.PerPage
	err := query.
		Order("created_at desc").
		Limit(params.PerPage).
		Offset(offset).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// FindActive looks up a contact by id under the default scope, so
// soft-deleted rows come back as gorm.ErrRecordNotFound.
func (r *ContactRepository) FindActive(id uint) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// FindAny looks up a contact by id regardless of deletion state
func (r *ContactRepository) FindAny(id uint) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.Unscoped().First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// FindDeleted looks up a contact by id that has been soft-deleted
func (r *ContactRepository) FindDeleted(id uint) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.Unscoped().
		Where("deleted_at IS NOT NULL").
		First(&contact, id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// Create persists a new contact
func (r *ContactRepository) Create(contact *model.Contact) error {
	return r.db.Create(contact).Error
}

// Save persists every field of an existing contact
func (r *ContactRepository) Save(contact *model.Contact) error {
	return r.db.Save(contact).Error
}

// SoftDelete marks the contact as deleted; the row stays in the table
func (r *ContactRepository) SoftDelete(contact *model.Contact) error {
	return r.db.Delete(contact).Error
}

// DeletePermanent removes the row entirely, bypassing the soft-delete scope
func (r *ContactRepository) DeletePermanent(contact *model.Contact) error {
	return r.db.Unscoped().Delete(contact).Error
}

// Restore clears deleted_at so the contact reappears in listings
func (r *ContactRepository) Restore(contact *model.Contact) error {
	err := r.db.Unscoped().
		Model(contact).
		Update("deleted_at", nil).Error
	if err != nil {
		return err
	}
	contact.DeletedAt = gorm.DeletedAt{}
	return nil
}
