// Package api exposes the back office over HTTP: the public site forms and
// catalog, and the authenticated admin panel.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"taxifrota/config"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/validation"
	"taxifrota/service"
)

const maxUploadMemory = 10 << 20

type Handler struct {
	cfg     *config.Config
	svc     service.IServiceManager
	log     logger.ILogger
	limiter *RateLimiter
}

func New(cfg *config.Config, svc service.IServiceManager, log logger.ILogger) *Handler {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterTags(v); err != nil {
			log.Error("failed to register validation tags", logger.Error(err))
		}
	}
	return &Handler{
		cfg:     cfg,
		svc:     svc,
		log:     log,
		limiter: NewRateLimiter(cfg.PublicRateRPS, cfg.PublicRateBurst),
	}
}

// Close stops the rate limiter sweep.
func (h *Handler) Close() {
	h.limiter.Stop()
}

func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory
	r.Use(gin.Recovery(), accessLog(h.log), cors(h.cfg.CORSAllowOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.cfg.ServiceName})
	})

	pub := r.Group("/api")
	{
		pub.GET("/vehicles", h.listVehicles)
		pub.GET("/vehicles/:id", h.getVehicle)
		pub.GET("/testimonials", h.testimonials)
		pub.GET("/banners", h.activeBanners)
		pub.GET("/articles", h.publishedArticles)
		pub.GET("/articles/:slug", h.articleBySlug)
		pub.GET("/cep/:cep", h.lookupCEP)

		forms := pub.Group("", h.limiter.Middleware())
		forms.POST("/applications", h.submitApplication)
		forms.POST("/drivers", h.registerDriver)
		forms.POST("/evaluations", h.submitEvaluation)
		forms.POST("/auth/login", h.login)
	}

	adm := r.Group("/api/admin", requireAuth(h.svc.Auth()))
	{
		adm.GET("/dashboard", h.dashboard)
		adm.GET("/me", h.me)

		adm.GET("/drivers", h.listDrivers)
		adm.POST("/drivers", h.createDriver)
		adm.GET("/drivers/:id", h.getDriver)
		adm.PUT("/drivers/:id", h.updateDriver)
		adm.PATCH("/drivers/:id/status", h.changeDriverStatus)
		adm.DELETE("/drivers/:id", h.deleteDriver)
		adm.POST("/drivers/:id/files/:kind", h.uploadDriverFile)
		adm.GET("/drivers/:id/rating", h.driverRating)
		adm.GET("/drivers/:id/whatsapp", h.driverWhatsApp)

		adm.GET("/applications", h.listApplications)
		adm.GET("/applications/counts", h.applicationCounts)
		adm.GET("/applications/:id", h.getApplication)
		adm.PUT("/applications/:id", h.editApplication)
		adm.PATCH("/applications/:id/status", h.changeApplicationStatus)
		adm.POST("/applications/:id/reviews", h.reviewApplication)
		adm.POST("/applications/:id/reanalysis", h.reanalyzeApplication)
		adm.GET("/applications/:id/history", h.applicationHistory)
		adm.GET("/applications/:id/whatsapp", h.applicationWhatsApp)
		adm.DELETE("/applications/:id", h.deleteApplication)

		adm.GET("/evaluations", h.listEvaluations)
		adm.GET("/evaluations/:id", h.getEvaluation)
		adm.PATCH("/evaluations/:id/status", h.changeEvaluationStatus)
		adm.PATCH("/evaluations/:id/public", h.toggleEvaluationPublic)
		adm.DELETE("/evaluations/:id", h.deleteEvaluation)

		adm.GET("/rentals", h.listRentals)
		adm.POST("/rentals", h.createRental)
		adm.GET("/rentals/:id", h.getRental)
		adm.PATCH("/rentals/:id/status", h.changeRentalStatus)
		adm.PATCH("/rentals/:id/payment", h.changeRentalPayment)
		adm.DELETE("/rentals/:id", h.deleteRental)

		adm.GET("/vehicles", h.adminVehicles)
		adm.POST("/vehicles", h.createVehicle)
		adm.PUT("/vehicles/:id", h.updateVehicle)
		adm.PATCH("/vehicles/:id/availability", h.toggleVehicleAvailability)
		adm.PATCH("/vehicles/:id/featured", h.toggleVehicleFeatured)
		adm.DELETE("/vehicles/:id", h.deleteVehicle)

		adm.GET("/articles", h.adminArticles)
		adm.POST("/articles", h.createArticle)
		adm.PUT("/articles/:id", h.updateArticle)
		adm.PATCH("/articles/:id/published", h.toggleArticlePublished)
		adm.PATCH("/articles/:id/featured", h.toggleArticleFeatured)
		adm.DELETE("/articles/:id", h.deleteArticle)

		adm.GET("/banners", h.adminBanners)
		adm.POST("/banners", h.createBanner)
		adm.PUT("/banners/:id", h.updateBanner)
		adm.PATCH("/banners/:id/active", h.toggleBanner)
		adm.DELETE("/banners/:id", h.deleteBanner)

		adm.GET("/notifications", h.unreadNotifications)
		adm.PATCH("/notifications/:id/read", h.markNotificationRead)

		users := adm.Group("/users", requireRole(models.RoleAdmin))
		users.GET("", h.listUsers)
		users.POST("", h.createUser)
		users.PATCH("/:id/active", h.setUserActive)
	}

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (h *Handler) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", h.cfg.AppPort),
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h.log.Info("🚀 http server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	err := g.Wait()
	h.Close()
	return err
}
