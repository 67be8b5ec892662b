package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/stockledger/backend/internal/application/inventory"
	apppurchase "github.com/stockledger/backend/internal/application/purchase"
	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/purchase"
)

// GormPurchaseScope implements the purchase application's TransactionScope
// using GORM transactions
type GormPurchaseScope struct {
	db *gorm.DB
}

// NewGormPurchaseScope creates a new GormPurchaseScope
func NewGormPurchaseScope(db *gorm.DB) *GormPurchaseScope {
	return &GormPurchaseScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormPurchaseScope) Execute(ctx context.Context, fn func(repos apppurchase.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPurchaseRepos{tx: tx})
	})
}

type gormPurchaseRepos struct {
	tx *gorm.DB
}

// PurchaseRepo returns the purchase repository scoped to the current transaction
func (r *gormPurchaseRepos) PurchaseRepo() purchase.Repository {
	return NewGormPurchaseRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormPurchaseRepos) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// LotRepo returns the lot repository scoped to the current transaction
func (r *gormPurchaseRepos) LotRepo() inventory.LotRepository {
	return NewGormLotRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormPurchaseRepos) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// GormInventoryScope implements the inventory application's TransactionScope
// using GORM transactions
type GormInventoryScope struct {
	db *gorm.DB
}

// NewGormInventoryScope creates a new GormInventoryScope
func NewGormInventoryScope(db *gorm.DB) *GormInventoryScope {
	return &GormInventoryScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepos{tx: tx})
	})
}

type gormInventoryRepos struct {
	tx *gorm.DB
}

// LotRepo returns the lot repository scoped to the current transaction
func (r *gormInventoryRepos) LotRepo() inventory.LotRepository {
	return NewGormLotRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormInventoryRepos) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var (
	_ apppurchase.TransactionScope           = (*GormPurchaseScope)(nil)
	_ apppurchase.TransactionalRepositories  = (*gormPurchaseRepos)(nil)
	_ appinventory.TransactionScope          = (*GormInventoryScope)(nil)
	_ appinventory.TransactionalRepositories = (*gormInventoryRepos)(nil)
)
