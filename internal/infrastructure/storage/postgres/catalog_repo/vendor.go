package catalog_repo

import (
	"context"

	"procura/internal/core/id"
	"procura/internal/domain/catalogs/vendor"
	"procura/internal/infrastructure/storage/postgres"
)

const vendorTable = "cat_vendors"

// Compile-time check that VendorRepo implements vendor.Repository.
var _ vendor.Repository = (*VendorRepo)(nil)

// VendorRepo implements vendor.Repository.
type VendorRepo struct {
	*BaseCatalogRepo[*vendor.Vendor]
}

// NewVendorRepo creates a new vendor repository.
func NewVendorRepo(txManager *postgres.TxManager) *VendorRepo {
	return &VendorRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*vendor.Vendor](
			txManager,
			vendorTable,
			postgres.ExtractDBColumns[vendor.Vendor](),
			func() *vendor.Vendor { return &vendor.Vendor{} },
		),
	}
}

// Delete soft-deletes a vendor. Receipts and orders keep their references.
func (r *VendorRepo) Delete(ctx context.Context, vendorID id.ID) error {
	return r.SetDeletionMark(ctx, vendorID, true)
}
