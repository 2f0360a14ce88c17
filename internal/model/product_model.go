package model

import (
	"github.com/pgvector/pgvector-go"
)

// Product is a catalog row. Rows and their vectors are written by the catalog
// ingestion job under the document embedding regime; this service only reads them.
type Product struct {
	Id                  int64           `gorm:"primaryKey"`
	Title               string          `gorm:"type:text"`
	Brand               string          `gorm:"type:text"`
	Price               string          `gorm:"type:text"`
	ProductDetailsClean string          `gorm:"type:text"`
	ImageFilename       string          `gorm:"type:text"`
	VectorText          pgvector.Vector `gorm:"type:vector(1024)"`
}

func (Product) TableName() string {
	return "products"
}
