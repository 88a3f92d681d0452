package server

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/divinetrims/orderdesk/internal/handlers"
	"github.com/divinetrims/orderdesk/internal/httpx"
	"github.com/divinetrims/orderdesk/internal/models"
	"github.com/divinetrims/orderdesk/internal/services"
	"github.com/divinetrims/orderdesk/internal/storage"
)

// New constructs the root http.Handler with all routes applied. The route
// names mirror what the order-entry client already calls.
func New(db *gorm.DB, up storage.Uploader, imagePrefix string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Eight plain catalogs share the generic handler; design gets its own
	// because of the multipart image path.
	handlers.NewCatalogHandler[models.Fabric, *models.Fabric](db, "fabric").Register(mux, "/api/fabric")
	handlers.NewCatalogHandler[models.FabricColor, *models.FabricColor](db, "fabric_color").Register(mux, "/api/fabric-color")
	handlers.NewCatalogHandler[models.Party, *models.Party](db, "party").Register(mux, "/api/party")
	handlers.NewCatalogHandler[models.Dori, *models.Dori](db, "dori").Register(mux, "/api/dori")
	handlers.NewCatalogHandler[models.FiveMmSeq, *models.FiveMmSeq](db, "five_mm_seq").Register(mux, "/api/five-mm-seq")
	handlers.NewCatalogHandler[models.ThreeMmSeq, *models.ThreeMmSeq](db, "three_mm_seq").Register(mux, "/api/three-mm-seq")
	handlers.NewCatalogHandler[models.FourMmBeats, *models.FourMmBeats](db, "four_mm_beats").Register(mux, "/api/four-mm-beats")
	handlers.NewCatalogHandler[models.ThreeMmBeats, *models.ThreeMmBeats](db, "three_mm_beats").Register(mux, "/api/three-mm-beats")
	handlers.NewCatalogHandler[models.TwoPointFiveMmBeats, *models.TwoPointFiveMmBeats](db, "two_point_five_mm_beats").Register(mux, "/api/two-point-five-mm-beats")

	handlers.NewDesignHandler(db, up, imagePrefix).Register(mux, "/api/design")
	handlers.NewOrderHandler(services.NewOrderService(db)).Register(mux, "/api/order")
	mux.HandleFunc("GET /api/proxy-image", handlers.NewProxyImageHandler().Get)

	return mux
}
