package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/divinetrims/orderdesk/internal/models"
)

// OrderInput is the write shape shared by create and update. The eight id
// slices are full snapshots: an absent or empty slice means the order ends up
// with zero associations of that kind. Updates never merge.
type OrderInput struct {
	OrderNumber string  `json:"orderNumber"`
	PartyID     string  `json:"partyId"`
	DesignID    string  `json:"designId"`
	Frame       Frame   `json:"frame"`
	Notes       *string `json:"notes"`

	FabricIDs              []string `json:"fabricIds"`
	FabricColorIDs         []string `json:"fabricColorIds"`
	DoriIDs                []string `json:"doriIds"`
	FiveMmSeqIDs           []string `json:"fiveMmSeqIds"`
	ThreeMmSeqIDs          []string `json:"threeMmSeqIds"`
	FourMmBeatsIDs         []string `json:"fourMmBeatsIds"`
	ThreeMmBeatsIDs        []string `json:"threeMmBeatsIds"`
	TwoPointFiveMmBeatsIDs []string `json:"twoPointFiveMmBeatsIds"`
}

// OrderService assembles expanded order views and rewrites the eight
// association sets. Every write runs in one transaction so a reader never
// observes an order stripped of its associations mid-replace.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService { return &OrderService{db: db} }

// Get returns the fully expanded view: party, design and all eight member
// lists resolved to full catalog rows. Join rows whose catalog item has been
// deleted simply contribute nothing; a deleted party or design comes back as
// nil and serializes as null.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.expanded(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	order.Normalize()
	return &order, nil
}

// List returns every order expanded, newest first. A non-empty q filters by
// case-insensitive substring match over order number, party name and design
// name.
func (s *OrderService) List(ctx context.Context, q string) ([]models.Order, error) {
	tx := s.expanded(ctx).Order("created_at desc")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			`lower(order_number) LIKE ?
			 OR EXISTS (SELECT 1 FROM parties p WHERE p.id = orders.party_id AND lower(p.name) LIKE ?)
			 OR EXISTS (SELECT 1 FROM designs d WHERE d.id = orders.design_id AND lower(d.name) LIKE ?)`,
			like, like, like,
		)
	}
	var orders []models.Order
	if err := tx.Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Normalize()
	}
	return orders, nil
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	order := models.Order{
		ID:          uuid.NewString(),
		OrderNumber: in.OrderNumber,
		OrderDate:   time.Now().UTC(),
		PartyID:     in.PartyID,
		DesignID:    in.DesignID,
		Frame:       int(in.Frame),
		Notes:       in.Notes,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}
		return replaceAllSets(tx, &order, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, order.ID)
}

// Update overwrites every scalar field and fully replaces all eight
// association sets. Callers must send the complete order as previously
// fetched; omitted fields are written with their zero values.
func (s *OrderService) Update(ctx context.Context, id string, in OrderInput) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			return err
		}
		scalars := map[string]any{
			"order_number": in.OrderNumber,
			"party_id":     in.PartyID,
			"design_id":    in.DesignID,
			"frame":        int(in.Frame),
			"notes":        in.Notes,
		}
		if err := tx.Model(&order).Updates(scalars).Error; err != nil {
			return err
		}
		return replaceAllSets(tx, &order, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			return err
		}
		for _, rel := range []string{
			"Fabrics", "FabricColors", "Doris", "FiveMmSeqs", "ThreeMmSeqs",
			"FourMmBeats", "ThreeMmBeats", "TwoPointFiveMmBeats",
		} {
			if err := tx.Model(&order).Association(rel).Clear(); err != nil {
				return err
			}
		}
		return tx.Delete(&order).Error
	})
}

func (s *OrderService) expanded(ctx context.Context) *gorm.DB {
	tx := s.db.WithContext(ctx)
	for _, rel := range models.ExpandedRelations {
		tx = tx.Preload(rel)
	}
	return tx
}

func replaceAllSets(tx *gorm.DB, order *models.Order, in OrderInput) error {
	if err := replaceSet[models.Fabric](tx, order, "Fabrics", in.FabricIDs); err != nil {
		return err
	}
	if err := replaceSet[models.FabricColor](tx, order, "FabricColors", in.FabricColorIDs); err != nil {
		return err
	}
	if err := replaceSet[models.Dori](tx, order, "Doris", in.DoriIDs); err != nil {
		return err
	}
	if err := replaceSet[models.FiveMmSeq](tx, order, "FiveMmSeqs", in.FiveMmSeqIDs); err != nil {
		return err
	}
	if err := replaceSet[models.ThreeMmSeq](tx, order, "ThreeMmSeqs", in.ThreeMmSeqIDs); err != nil {
		return err
	}
	if err := replaceSet[models.FourMmBeats](tx, order, "FourMmBeats", in.FourMmBeatsIDs); err != nil {
		return err
	}
	if err := replaceSet[models.ThreeMmBeats](tx, order, "ThreeMmBeats", in.ThreeMmBeatsIDs); err != nil {
		return err
	}
	return replaceSet[models.TwoPointFiveMmBeats](tx, order, "TwoPointFiveMmBeats", in.TwoPointFiveMmBeatsIDs)
}

// replaceSet rewrites one association kind to exactly the given ids.
// Unknown ids are dropped rather than rejected, matching the weak-reference
// model, and duplicates collapse to one membership.
func replaceSet[T any](tx *gorm.DB, order *models.Order, relation string, ids []string) error {
	items := []T{}
	if deduped := dedupe(ids); len(deduped) > 0 {
		if err := tx.Where("id IN ?", deduped).Find(&items).Error; err != nil {
			return err
		}
	}
	return tx.Model(order).Association(relation).Replace(&items)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
