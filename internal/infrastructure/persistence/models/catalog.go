package models

import (
	"github.com/google/uuid"

	"github.com/printshop/backend/internal/domain/catalog"
)

// ItemModel is the persistence model for the catalog Item
type ItemModel struct {
	AggregateModel
	Name            string             `gorm:"type:varchar(200);not null"`
	Category        string             `gorm:"type:varchar(100);index"`
	FileRef         string             `gorm:"type:varchar(500)"`
	AssignedAgentID *uuid.UUID         `gorm:"type:uuid;index"`
	Status          catalog.ItemStatus `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder       int                `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "catalog_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Category:          m.Category,
		FileRef:           m.FileRef,
		AssignedAgentID:   m.AssignedAgentID,
		Status:            m.Status,
		SortOrder:         m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Name = i.Name
	m.Category = i.Category
	m.FileRef = i.FileRef
	m.AssignedAgentID = i.AssignedAgentID
	m.Status = i.Status
	m.SortOrder = i.SortOrder
}

// ItemModelFromDomain creates a new persistence model from a domain Item
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}
