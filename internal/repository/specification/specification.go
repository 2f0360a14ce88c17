package specification

import "gorm.io/gorm"

// Specification narrows a catalog query
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Chain applies specs in order
func Chain(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
