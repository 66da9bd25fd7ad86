// Package dto defines the request bodies of the lead endpoints.
package dto

import (
	"encoding/json"

	"courtier_backend/internal/feature/lead/domain/entity"
	"courtier_backend/internal/feature/lead/usecase"
	"courtier_backend/internal/platform/apperr"
)

var errInvalidPreferences = apperr.New(apperr.KindValidation, "preferences must be a JSON object")

// CreateLeadRequest is the multipart form of /lead/create.
// preferences and location arrive as JSON text because multipart fields are strings.
type CreateLeadRequest struct {
	UserID               uint    `form:"userId" binding:"required"`
	LeadType             string  `form:"leadType" binding:"required"`
	PropertyType         string  `form:"propertyType" binding:"required"`
	PropertySaleTime     *string `form:"propertySaleTime"`
	PropertyPurchaseTime *string `form:"propertyPurchaseTime"`
	Preferences          string  `form:"preferences"`
	Location             string  `form:"location"`
}

// Input converts the form into a usecase input. Files are attached by the handler.
func (r CreateLeadRequest) Input() (usecase.CreateInput, error) {
	prefs, err := parsePreferences(r.Preferences)
	if err != nil {
		return usecase.CreateInput{}, err
	}
	in := usecase.CreateInput{
		UserID:               r.UserID,
		LeadType:             entity.LeadType(r.LeadType),
		PropertyType:         entity.PropertyType(r.PropertyType),
		PropertySaleTime:     r.PropertySaleTime,
		PropertyPurchaseTime: r.PropertyPurchaseTime,
		Preferences:          prefs,
	}
	if r.Location != "" {
		in.Location = json.RawMessage(r.Location)
	}
	return in, nil
}

// UpdateLeadRequest is the JSON body of /lead/update/:id.
type UpdateLeadRequest struct {
	Preferences          map[string]any `json:"preferences"`
	PropertySaleTime     *string        `json:"propertySaleTime"`
	PropertyPurchaseTime *string        `json:"propertyPurchaseTime"`
}

// Update converts the body into a usecase update.
func (r UpdateLeadRequest) Update() usecase.PreferencesUpdate {
	return usecase.PreferencesUpdate{
		Preferences:          r.Preferences,
		PropertySaleTime:     r.PropertySaleTime,
		PropertyPurchaseTime: r.PropertyPurchaseTime,
	}
}

// AdminUpdateLeadRequest is the JSON body of /lead/admin/updateLead/:id. All fields are optional.
// location may be either the list itself or a JSON string holding it.
type AdminUpdateLeadRequest struct {
	LeadType             *string         `json:"leadType"`
	PropertyType         *string         `json:"propertyType"`
	PropertySaleTime     *string         `json:"propertySaleTime"`
	PropertyPurchaseTime *string         `json:"propertyPurchaseTime"`
	Preferences          map[string]any  `json:"preferences"`
	Location             json.RawMessage `json:"location"`
}

// Patch converts the body into a usecase patch.
func (r AdminUpdateLeadRequest) Patch() usecase.Patch {
	p := usecase.Patch{
		PropertySaleTime:     r.PropertySaleTime,
		PropertyPurchaseTime: r.PropertyPurchaseTime,
		Preferences:          r.Preferences,
		Location:             r.Location,
	}
	if r.LeadType != nil {
		t := entity.LeadType(*r.LeadType)
		p.LeadType = &t
	}
	if r.PropertyType != nil {
		t := entity.PropertyType(*r.PropertyType)
		p.PropertyType = &t
	}
	return p
}

func parsePreferences(s string) (map[string]any, error) {
	if s == "" || s == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, errInvalidPreferences
	}
	return m, nil
}
