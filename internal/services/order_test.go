package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/divinetrims/orderdesk/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:svc_" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed[T any, PT models.CatalogPtr[T]](t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	var item T
	base := PT(&item).Base()
	base.ID = id
	base.Name = name
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func baseInput() OrderInput {
	return OrderInput{
		OrderNumber: "ORD-100",
		PartyID:     "party-1",
		DesignID:    "design-1",
		Frame:       3,
	}
}

func seedOrderGraph(t *testing.T, db *gorm.DB) {
	t.Helper()
	seed[models.Party, *models.Party](t, db, "party-1", "Acme")
	seed[models.Design, *models.Design](t, db, "design-1", "Peacock")
	seed[models.Fabric, *models.Fabric](t, db, "fab-a", "Georgette")
	seed[models.Fabric, *models.Fabric](t, db, "fab-b", "Organza")
	seed[models.Fabric, *models.Fabric](t, db, "fab-c", "Net")
	seed[models.FabricColor, *models.FabricColor](t, db, "col-a", "Maroon")
	seed[models.Dori, *models.Dori](t, db, "dori-a", "Golden Dori")
}

func fabricIDs(order *models.Order) map[string]bool {
	ids := map[string]bool{}
	for _, f := range order.Fabrics {
		ids[f.ID] = true
	}
	return ids
}

func TestOrderCreateRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	in := baseInput()
	in.FabricIDs = []string{"fab-a", "fab-b"}
	in.DoriIDs = []string{}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.OrderNumber != "ORD-100" || created.Frame != 3 {
		t.Fatalf("unexpected scalars: %+v", created)
	}
	if created.OrderDate.IsZero() {
		t.Fatalf("orderDate must default to creation time")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Party == nil || got.Party.Name != "Acme" {
		t.Fatalf("party not resolved: %+v", got.Party)
	}
	if got.Design == nil || got.Design.Name != "Peacock" {
		t.Fatalf("design not resolved: %+v", got.Design)
	}
	ids := fabricIDs(got)
	if len(ids) != 2 || !ids["fab-a"] || !ids["fab-b"] {
		t.Fatalf("expected fabrics a+b, got %v", ids)
	}
	if got.Doris == nil || len(got.Doris) != 0 {
		t.Fatalf("dori must be an empty list, got %v", got.Doris)
	}
	if got.FabricColors == nil || len(got.FabricColors) != 0 {
		t.Fatalf("omitted association kinds must come back empty, got %v", got.FabricColors)
	}
}

func TestOrderCreateDeduplicatesIDs(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	svc := NewOrderService(db)

	in := baseInput()
	in.FabricIDs = []string{"fab-a", "fab-a", "fab-a"}
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.Fabrics) != 1 {
		t.Fatalf("expected a single fabric membership, got %d", len(created.Fabrics))
	}
	var joinRows int64
	db.Table("order_fabrics").Where("order_id = ?", created.ID).Count(&joinRows)
	if joinRows != 1 {
		t.Fatalf("expected 1 join row, got %d", joinRows)
	}
}

func TestOrderUpdateFullReplace(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	in := baseInput()
	in.FabricIDs = []string{"fab-a", "fab-b"}
	in.FabricColorIDs = []string{"col-a"}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// New snapshot: one different fabric, fabric colors omitted entirely.
	up := baseInput()
	up.FabricIDs = []string{"fab-c"}
	updated, err := svc.Update(ctx, created.ID, up)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	ids := fabricIDs(updated)
	if len(ids) != 1 || !ids["fab-c"] {
		t.Fatalf("full replace failed, fabrics = %v", ids)
	}
	if len(updated.FabricColors) != 0 {
		t.Fatalf("omitted array must clear associations, got %v", updated.FabricColors)
	}
}

func TestOrderUpdateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, baseInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	up := baseInput()
	up.OrderNumber = "ORD-200"
	up.FabricIDs = []string{"fab-a"}
	first, err := svc.Update(ctx, created.ID, up)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	second, err := svc.Update(ctx, created.ID, up)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if first.OrderNumber != second.OrderNumber || len(first.Fabrics) != len(second.Fabrics) {
		t.Fatalf("repeated update changed the view: %+v vs %+v", first, second)
	}
	if len(second.Fabrics) != 1 || second.Fabrics[0].ID != "fab-a" {
		t.Fatalf("unexpected fabrics after repeat: %v", second.Fabrics)
	}
}

func TestOrderUpdateOverwritesScalars(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	seed[models.Party, *models.Party](t, db, "party-2", "Zenith")
	svc := NewOrderService(db)
	ctx := context.Background()

	notes := "rush order"
	in := baseInput()
	in.Notes = &notes
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Update omits notes and frame: both get overwritten with zero values.
	up := baseInput()
	up.PartyID = "party-2"
	up.Frame = 0
	updated, err := svc.Update(ctx, created.ID, up)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PartyID != "party-2" || updated.Party == nil || updated.Party.Name != "Zenith" {
		t.Fatalf("party not overwritten: %+v", updated.Party)
	}
	if updated.Frame != 0 {
		t.Fatalf("frame must be overwritten to 0, got %d", updated.Frame)
	}
	if updated.Notes != nil {
		t.Fatalf("omitted notes must overwrite to null, got %q", *updated.Notes)
	}
	if !updated.OrderDate.Equal(created.OrderDate) {
		t.Fatalf("orderDate must survive updates")
	}
}

func TestOrderUpdateMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	svc := NewOrderService(db)

	_, err := svc.Update(context.Background(), "no-such-order", baseInput())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestOrderDeleteRemovesJoinRows(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	in := baseInput()
	in.FabricIDs = []string{"fab-a", "fab-b"}
	in.DoriIDs = []string{"dori-a"}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var joinRows int64
	db.Table("order_fabrics").Where("order_id = ?", created.ID).Count(&joinRows)
	if joinRows != 0 {
		t.Fatalf("fabric join rows left behind: %d", joinRows)
	}
	db.Table("order_doris").Where("order_id = ?", created.ID).Count(&joinRows)
	if joinRows != 0 {
		t.Fatalf("dori join rows left behind: %d", joinRows)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second delete must be not found, got %v", err)
	}
}

func TestOrderDanglingCatalogItemDroppedOnRead(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	in := baseInput()
	in.FabricIDs = []string{"fab-a", "fab-b"}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Hard delete a referenced fabric; the join row stays behind.
	if err := db.Delete(&models.Fabric{}, "id = ?", "fab-a").Error; err != nil {
		t.Fatalf("delete fabric: %v", err)
	}
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get after dangling delete: %v", err)
	}
	ids := fabricIDs(got)
	if len(ids) != 1 || !ids["fab-b"] {
		t.Fatalf("expected only fab-b to survive, got %v", ids)
	}
}

func TestOrderDanglingPartySerializesNull(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, baseInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Delete(&models.Party{}, "id = ?", "party-1").Error; err != nil {
		t.Fatalf("delete party: %v", err)
	}
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("order itself must still resolve: %v", err)
	}
	if got.Party != nil {
		t.Fatalf("dangling party must be nil, got %+v", got.Party)
	}
	if got.Design == nil {
		t.Fatalf("design should still resolve")
	}
}

func TestOrderListFilter(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	seed[models.Party, *models.Party](t, db, "party-2", "Zenith")
	seed[models.Design, *models.Design](t, db, "design-2", "Lotus")
	svc := NewOrderService(db)
	ctx := context.Background()

	a := baseInput()
	a.OrderNumber = "A1"
	if _, err := svc.Create(ctx, a); err != nil {
		t.Fatalf("create A1: %v", err)
	}
	b := baseInput()
	b.OrderNumber = "B2"
	b.PartyID = "party-2"
	b.DesignID = "design-2"
	if _, err := svc.Create(ctx, b); err != nil {
		t.Fatalf("create B2: %v", err)
	}

	// Case-insensitive substring against party name.
	got, err := svc.List(ctx, "ac")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].OrderNumber != "A1" {
		t.Fatalf(`filter "ac" should match only A1, got %d results`, len(got))
	}

	// Against design name.
	got, err = svc.List(ctx, "LOT")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].OrderNumber != "B2" {
		t.Fatalf(`filter "LOT" should match only B2, got %d results`, len(got))
	}

	// Against order number.
	got, err = svc.List(ctx, "b2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].OrderNumber != "B2" {
		t.Fatalf(`filter "b2" should match only B2, got %d results`, len(got))
	}

	// No filter returns both, expanded.
	got, err = svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got))
	}
	for _, o := range got {
		if o.Fabrics == nil {
			t.Fatalf("list views must normalize empty associations")
		}
	}
}

func TestOrderListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	seedOrderGraph(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	first := baseInput()
	first.OrderNumber = "OLD"
	if _, err := svc.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second := baseInput()
	second.OrderNumber = "NEW"
	if _, err := svc.Create(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].OrderNumber != "NEW" {
		t.Fatalf("expected NEW first, got %+v", got)
	}
}
