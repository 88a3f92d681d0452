package models

import "time"

// Order references one party and one design by id and owns eight unordered
// material selections, one per catalog. References are weak: nothing prevents
// a referenced catalog row from being deleted later, so Party and Design are
// pointers and serialize as null when the row is gone.
type Order struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	OrderNumber string    `gorm:"not null" json:"orderNumber"`
	OrderDate   time.Time `json:"orderDate"`
	PartyID     string    `gorm:"not null;index" json:"partyId"`
	Party       *Party    `gorm:"foreignKey:PartyID" json:"party"`
	DesignID    string    `gorm:"not null;index" json:"designId"`
	Design      *Design   `gorm:"foreignKey:DesignID" json:"design"`
	Frame       int       `gorm:"not null;default:0" json:"frame"`
	Notes       *string   `json:"notes"`

	Fabrics             []Fabric              `gorm:"many2many:order_fabrics" json:"fabric"`
	FabricColors        []FabricColor         `gorm:"many2many:order_fabric_colors" json:"fabricColor"`
	Doris               []Dori                `gorm:"many2many:order_doris" json:"dori"`
	FiveMmSeqs          []FiveMmSeq           `gorm:"many2many:order_five_mm_seqs" json:"fiveMmSeq"`
	ThreeMmSeqs         []ThreeMmSeq          `gorm:"many2many:order_three_mm_seqs" json:"threeMmSeq"`
	FourMmBeats         []FourMmBeats         `gorm:"many2many:order_four_mm_beats" json:"fourMmBeats"`
	ThreeMmBeats        []ThreeMmBeats        `gorm:"many2many:order_three_mm_beats" json:"threeMmBeats"`
	TwoPointFiveMmBeats []TwoPointFiveMmBeats `gorm:"many2many:order_two_point_five_mm_beats" json:"twoPointFiveMmBeats"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExpandedRelations lists every association preloaded into the expanded view.
var ExpandedRelations = []string{
	"Party", "Design",
	"Fabrics", "FabricColors", "Doris",
	"FiveMmSeqs", "ThreeMmSeqs", "FourMmBeats", "ThreeMmBeats", "TwoPointFiveMmBeats",
}

// Normalize replaces nil association slices with empty ones so the expanded
// view always serializes them as [] rather than null.
func (o *Order) Normalize() {
	if o.Fabrics == nil {
		o.Fabrics = []Fabric{}
	}
	if o.FabricColors == nil {
		o.FabricColors = []FabricColor{}
	}
	if o.Doris == nil {
		o.Doris = []Dori{}
	}
	if o.FiveMmSeqs == nil {
		o.FiveMmSeqs = []FiveMmSeq{}
	}
	if o.ThreeMmSeqs == nil {
		o.ThreeMmSeqs = []ThreeMmSeq{}
	}
	if o.FourMmBeats == nil {
		o.FourMmBeats = []FourMmBeats{}
	}
	if o.ThreeMmBeats == nil {
		o.ThreeMmBeats = []ThreeMmBeats{}
	}
	if o.TwoPointFiveMmBeats == nil {
		o.TwoPointFiveMmBeats = []TwoPointFiveMmBeats{}
	}
}

// AllModels is the AutoMigrate set, catalogs first so the join tables created
// for Order can reference existing tables.
func AllModels() []any {
	return []any{
		&Fabric{}, &FabricColor{}, &Party{}, &Design{}, &Dori{},
		&FiveMmSeq{}, &ThreeMmSeq{}, &FourMmBeats{}, &ThreeMmBeats{}, &TwoPointFiveMmBeats{},
		&Order{},
	}
}
