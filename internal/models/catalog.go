package models

import "time"

// CatalogBase is the shape shared by every master-data catalog: an opaque
// uuid primary key and a free-form name. Names are deliberately not unique;
// the business keeps duplicate entries on purpose.
type CatalogBase struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Base exposes the embedded record so generic stores can address any catalog
// model uniformly.
func (b *CatalogBase) Base() *CatalogBase { return b }

// CatalogPtr constrains a type parameter to a pointer to a catalog model.
type CatalogPtr[T any] interface {
	*T
	Base() *CatalogBase
}

type Fabric struct {
	CatalogBase
}

type FabricColor struct {
	CatalogBase
}

type Party struct {
	CatalogBase
}

type Dori struct {
	CatalogBase
}

type FiveMmSeq struct {
	CatalogBase
}

type ThreeMmSeq struct {
	CatalogBase
}

type FourMmBeats struct {
	CatalogBase
}

type ThreeMmBeats struct {
	CatalogBase
}

type TwoPointFiveMmBeats struct {
	CatalogBase
}

// Design carries an optional uploaded image. Both fields default to the empty
// string, never NULL, so clients can test them with plain truthiness.
type Design struct {
	CatalogBase
	ImageURL  string `gorm:"not null;default:''" json:"imageUrl"`
	ImagePath string `gorm:"not null;default:''" json:"imagePath"`
}
