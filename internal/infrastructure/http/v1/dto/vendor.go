package dto

import (
	"procura/internal/domain/catalogs/vendor"
)

// CreateVendorRequest for creating vendors.
type CreateVendorRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Comment *string `json:"comment"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateVendorRequest) ToEntity() *vendor.Vendor {
	v := vendor.NewVendor(r.Code, r.Name)
	v.Email = r.Email
	v.Phone = r.Phone
	v.Address = r.Address
	v.Comment = r.Comment
	return v
}

// UpdateVendorRequest for updating vendors.
type UpdateVendorRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Comment *string `json:"comment"`
	Version int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateVendorRequest) ApplyTo(v *vendor.Vendor) {
	if r.Name != nil {
		v.Name = *r.Name
	}
	if r.Email != nil {
		v.Email = r.Email
	}
	if r.Phone != nil {
		v.Phone = r.Phone
	}
	if r.Address != nil {
		v.Address = r.Address
	}
	if r.Comment != nil {
		v.Comment = r.Comment
	}
	v.Version = r.Version
}

// VendorResponse contains vendor fields.
type VendorResponse struct {
	BaseResponse
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// FromVendor creates VendorResponse from a domain entity.
func FromVendor(v *vendor.Vendor) VendorResponse {
	return VendorResponse{
		BaseResponse: FromBaseCatalog(v.BaseCatalog),
		Code:         v.Code,
		Name:         v.Name,
		Email:        v.Email,
		Phone:        v.Phone,
		Address:      v.Address,
		Comment:      v.Comment,
	}
}

// FromVendors maps a slice of vendors.
func FromVendors(items []*vendor.Vendor) []VendorResponse {
	out := make([]VendorResponse, 0, len(items))
	for _, v := range items {
		out = append(out, FromVendor(v))
	}
	return out
}
