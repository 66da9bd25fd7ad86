// Package entity defines the lead entity and its enumerations.
package entity

import (
	"encoding/json"
	"fmt"
	"time"

	userentity "courtier_backend/internal/feature/user/domain/entity"
)

// LeadType tells whether the lead wants to buy or sell.
type LeadType string

const (
	LeadTypeBuyer  LeadType = "buyer"
	LeadTypeSeller LeadType = "seller"
)

// Valid reports whether t is a known lead type.
func (t LeadType) Valid() bool {
	return t == LeadTypeBuyer || t == LeadTypeSeller
}

// PropertyType is the kind of property the lead is about.
type PropertyType string

const (
	PropertySingleFamily PropertyType = "single_family"
	PropertyCondo        PropertyType = "condo"
	PropertyTownhouse    PropertyType = "townhouse"
	PropertyPlex         PropertyType = "plex"
	PropertyCottage      PropertyType = "cottage"
	PropertyLand         PropertyType = "land"
	PropertyCommercial   PropertyType = "commercial"
)

// Valid reports whether t is a known property type.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertySingleFamily, PropertyCondo, PropertyTownhouse, PropertyPlex,
		PropertyCottage, PropertyLand, PropertyCommercial:
		return true
	}
	return false
}

// Lead is a property listing or search submitted for a user.
type Lead struct {
	ID     uint             `gorm:"primaryKey" json:"id"`
	UserID uint             `gorm:"not null;index" json:"userId"`
	User   *userentity.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`

	LeadType     LeadType     `gorm:"type:varchar(16);not null" json:"leadType"`
	PropertyType PropertyType `gorm:"type:varchar(32);not null" json:"propertyType"`

	// PropertyImage holds the public URLs of the uploaded images.
	PropertyImage []string `gorm:"type:json;serializer:json" json:"propertyImage"`

	PropertySaleTime     *string `gorm:"size:64" json:"propertySaleTime"`
	PropertyPurchaseTime *string `gorm:"size:64" json:"propertyPurchaseTime"`

	// Preferences is a free-form JSON object such as {"bedrooms":2}. Nil means none were given.
	Preferences map[string]any `gorm:"type:json;serializer:json" json:"preferences"`

	// Location is the raw JSON text [{"city":..,"boroughs":..}].
	Location *string `gorm:"type:text" json:"location"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Place is one entry of a lead's location.
type Place struct {
	City     string `json:"city"`
	Boroughs Names  `json:"boroughs"`
}

// Names decodes either a JSON string or an array of strings.
type Names []string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Names) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*n = nil
		} else {
			*n = Names{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("boroughs must be a string or a list of strings: %w", err)
	}
	*n = many
	return nil
}

// Places decodes Location. A nil or empty location yields no places.
func (l *Lead) Places() ([]Place, error) {
	if l.Location == nil || *l.Location == "" {
		return nil, nil
	}
	var places []Place
	if err := json.Unmarshal([]byte(*l.Location), &places); err != nil {
		return nil, fmt.Errorf("invalid lead location: %w", err)
	}
	return places, nil
}
