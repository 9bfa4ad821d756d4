package model

import (
	"time"

	"gorm.io/gorm"
)

// Contact represents the contact model stored in the database.
// All business fields are nullable; a contact may start as little
// more than a name scanned from a business card.
type Contact struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CompanyID      *int           `json:"companyId"`
	UserID         *int           `json:"userId"`
	Type           *string        `json:"type" gorm:"type:varchar(50)"`
	Name           *string        `json:"name" gorm:"type:varchar(200)"`
	Email          *string        `json:"email" gorm:"type:varchar(200);index"`
	TaxNumber      *string        `json:"taxNumber" gorm:"type:varchar(50)"`
	Phone          *string        `json:"phone" gorm:"type:varchar(50);index"`
	Address        *string        `json:"address" gorm:"type:varchar(500)"`
	City           *string        `json:"city" gorm:"type:varchar(100)"`
	ZipCode        *string        `json:"zipCode" gorm:"type:varchar(20)"`
	State          *string        `json:"state" gorm:"type:varchar(100)"`
	Country        *string        `json:"country" gorm:"type:varchar(100)"`
	Website        *string        `json:"website" gorm:"type:varchar(300)"`
	CurrencyCode   *string        `json:"currencyCode" gorm:"type:varchar(10)"`
	Reference      *string        `json:"reference" gorm:"type:varchar(100)"`
	CreatedFrom    *string        `json:"createdFrom" gorm:"type:varchar(100)"`
	CreatedBy      *int           `json:"createdBy"`
	FileNumber     *string        `json:"fileNumber" gorm:"type:varchar(100)"`
	FrontImagePath *string        `json:"frontImagePath" gorm:"type:varchar(500)"`
	BackImagePath  *string        `json:"backImagePath" gorm:"type:varchar(500)"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}
