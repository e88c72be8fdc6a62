package models

import (
	"time"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Colorway
// ---------------------------------------------------------------------------

// ColorwayModel is the persistence model for the Colorway domain entity.
type ColorwayModel struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key"`
	Name        string                 `gorm:"type:varchar(255);not null;index:idx_colorway_name"`
	Description string                 `gorm:"type:text"`
	PerPan      int                    `gorm:"not null;default:1"`
	Status      catalog.ColorwayStatus `gorm:"type:varchar(20);not null;default:'idea';index:idx_colorway_status"`
	Inventories []InventoryModel       `gorm:"foreignKey:ColorwayID"`
	CreatedAt   time.Time              `gorm:"not null"`
	UpdatedAt   time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ColorwayModel) TableName() string {
	return "colorways"
}

// ToDomain converts the persistence model to a domain Colorway entity.
func (m *ColorwayModel) ToDomain() *catalog.Colorway {
	colorway := &catalog.Colorway{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		PerPan:      m.PerPan,
		Status:      m.Status,
		Inventories: make([]catalog.Inventory, 0, len(m.Inventories)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i := range m.Inventories {
		colorway.Inventories = append(colorway.Inventories, *m.Inventories[i].ToDomain())
	}
	return colorway
}

// FromDomain populates the persistence model from a domain Colorway entity.
// Inventory rows are persisted through their own repository and are not
// written here.
func (m *ColorwayModel) FromDomain(c *catalog.Colorway) {
	m.ID = c.ID
	m.Name = c.Name
	m.Description = c.Description
	m.PerPan = c.PerPan
	m.Status = c.Status
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// ColorwayModelFromDomain creates a new persistence model from a domain Colorway entity.
func ColorwayModelFromDomain(c *catalog.Colorway) *ColorwayModel {
	m := &ColorwayModel{}
	m.FromDomain(c)
	return m
}

// ---------------------------------------------------------------------------
// Base
// ---------------------------------------------------------------------------

// BaseModel is the persistence model for the Base domain entity.
type BaseModel struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key"`
	Descriptor  string             `gorm:"type:varchar(255);not null;index:idx_base_descriptor"`
	Code        string             `gorm:"type:varchar(50)"`
	RetailPrice decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0"`
	Status      catalog.BaseStatus `gorm:"type:varchar(20);not null;default:'active';index:idx_base_status"`
	CreatedAt   time.Time          `gorm:"not null"`
	UpdatedAt   time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BaseModel) TableName() string {
	return "bases"
}

// ToDomain converts the persistence model to a domain Base entity.
func (m *BaseModel) ToDomain() *catalog.Base {
	return &catalog.Base{
		ID:          m.ID,
		Descriptor:  m.Descriptor,
		Code:        m.Code,
		RetailPrice: m.RetailPrice,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Base entity.
func (m *BaseModel) FromDomain(b *catalog.Base) {
	m.ID = b.ID
	m.Descriptor = b.Descriptor
	m.Code = b.Code
	m.RetailPrice = b.RetailPrice
	m.Status = b.Status
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt
}

// BaseModelFromDomain creates a new persistence model from a domain Base entity.
func BaseModelFromDomain(b *catalog.Base) *BaseModel {
	m := &BaseModel{}
	m.FromDomain(b)
	return m
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// InventoryModel is the persistence model for the Inventory domain entity.
type InventoryModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	ColorwayID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_colorway_base,priority:1"`
	BaseID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_inventory_base;uniqueIndex:idx_inventory_colorway_base,priority:2"`
	Quantity   int        `gorm:"not null;default:0"`
	Base       *BaseModel `gorm:"foreignKey:BaseID"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryModel) TableName() string {
	return "inventories"
}

// ToDomain converts the persistence model to a domain Inventory entity.
func (m *InventoryModel) ToDomain() *catalog.Inventory {
	inv := &catalog.Inventory{
		ID:         m.ID,
		ColorwayID: m.ColorwayID,
		BaseID:     m.BaseID,
		Quantity:   m.Quantity,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Base != nil {
		inv.Base = m.Base.ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Inventory entity.
func (m *InventoryModel) FromDomain(inv *catalog.Inventory) {
	m.ID = inv.ID
	m.ColorwayID = inv.ColorwayID
	m.BaseID = inv.BaseID
	m.Quantity = inv.Quantity
	m.CreatedAt = inv.CreatedAt
	m.UpdatedAt = inv.UpdatedAt
}

// InventoryModelFromDomain creates a new persistence model from a domain Inventory entity.
func InventoryModelFromDomain(inv *catalog.Inventory) *InventoryModel {
	m := &InventoryModel{}
	m.FromDomain(inv)
	return m
}

// ---------------------------------------------------------------------------
// Collection
// ---------------------------------------------------------------------------

// CollectionModel is the persistence model for the Collection domain entity.
type CollectionModel struct {
	ID          uuid.UUID                `gorm:"type:uuid;primary_key"`
	Name        string                   `gorm:"type:varchar(255);not null;index:idx_collection_name"`
	Description string                   `gorm:"type:text"`
	Status      catalog.CollectionStatus `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt   time.Time                `gorm:"not null"`
	UpdatedAt   time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "collections"
}

// ToDomain converts the persistence model to a domain Collection entity.
// Membership rows are loaded separately from the join table.
func (m *CollectionModel) ToDomain() *catalog.Collection {
	return &catalog.Collection{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Status:      m.Status,
		ColorwayIDs: make([]uuid.UUID, 0),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Collection entity.
func (m *CollectionModel) FromDomain(c *catalog.Collection) {
	m.ID = c.ID
	m.Name = c.Name
	m.Description = c.Description
	m.Status = c.Status
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// CollectionModelFromDomain creates a new persistence model from a domain Collection entity.
func CollectionModelFromDomain(c *catalog.Collection) *CollectionModel {
	m := &CollectionModel{}
	m.FromDomain(c)
	return m
}

// CollectionColorwayModel is one row of the collection membership join table.
type CollectionColorwayModel struct {
	CollectionID uuid.UUID `gorm:"type:uuid;primary_key"`
	ColorwayID   uuid.UUID `gorm:"type:uuid;primary_key;index:idx_collection_colorway_colorway"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CollectionColorwayModel) TableName() string {
	return "collection_colorways"
}
