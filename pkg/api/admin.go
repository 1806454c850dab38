package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"taxifrota/pkg/models"
	"taxifrota/pkg/notify"
	"taxifrota/service"
	"taxifrota/storage"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type paymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type activeRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard().Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) me(c *gin.Context) {
	claims := currentClaims(c)
	c.JSON(http.StatusOK, gin.H{
		"id":    claims.Subject,
		"email": claims.Email,
		"name":  claims.Name,
		"role":  claims.Role,
	})
}

// Drivers

func (h *Handler) listDrivers(c *gin.Context) {
	status, err := statusQuery(c, models.ParseDriverStatus)
	if err != nil {
		h.writeError(c, err)
		return
	}
	list, err := h.svc.Driver().List(c.Request.Context(), service.DriverFilter{
		Status: status,
		Search: c.Query("q"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createDriver(c *gin.Context) {
	var in service.DriverInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.svc.Driver().Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) getDriver(c *gin.Context) {
	d, err := h.svc.Driver().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) updateDriver(c *gin.Context) {
	var in service.DriverInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.svc.Driver().Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) changeDriverStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	to, err := models.ParseDriverStatus(req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	d, err := h.svc.Driver().ChangeStatus(c.Request.Context(), c.Param("id"), to, actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) deleteDriver(c *gin.Context) {
	if err := h.svc.Driver().Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) uploadDriverFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer f.Close()

	d, err := h.svc.Driver().UploadFile(c.Request.Context(), c.Param("id"),
		models.FileKind(c.Param("kind")), f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) driverRating(c *gin.Context) {
	summary, err := h.svc.Evaluation().DriverSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) driverWhatsApp(c *gin.Context) {
	d, err := h.svc.Driver().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": notify.WhatsAppLink(d.Phone, c.Query("message"))})
}

// Applications

func (h *Handler) listApplications(c *gin.Context) {
	status, err := statusQuery(c, models.ParseApplicationStatus)
	if err != nil {
		h.writeError(c, err)
		return
	}
	list, err := h.svc.Application().List(c.Request.Context(), service.ApplicationFilter{
		Status:  status,
		Search:  c.Query("q"),
		OrderBy: c.Query("order_by"),
		Asc:     cast.ToBool(c.Query("asc")),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) applicationCounts(c *gin.Context) {
	counts, err := h.svc.Application().Counts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *Handler) getApplication(c *gin.Context) {
	app, err := h.svc.Application().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) editApplication(c *gin.Context) {
	var in service.ApplicationEdit
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.svc.Application().Edit(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) changeApplicationStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	to, err := models.ParseApplicationStatus(req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	app, err := h.svc.Application().ChangeStatus(c.Request.Context(), c.Param("id"), to, actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) reviewApplication(c *gin.Context) {
	var in service.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.svc.Application().AddReview(c.Request.Context(), c.Param("id"), in, actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) reanalyzeApplication(c *gin.Context) {
	var edit *service.SubRecordsEdit
	if c.Request.ContentLength > 0 {
		edit = &service.SubRecordsEdit{}
		if err := c.ShouldBindJSON(edit); err != nil {
			badRequest(c, err)
			return
		}
	}
	app, err := h.svc.Application().RequestReanalysis(c.Request.Context(), c.Param("id"), edit, actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) applicationHistory(c *gin.Context) {
	history, err := h.svc.Application().History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) applicationWhatsApp(c *gin.Context) {
	app, err := h.svc.Application().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": notify.WhatsAppLink(app.Phone, c.Query("message"))})
}

func (h *Handler) deleteApplication(c *gin.Context) {
	if err := h.svc.Application().Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Evaluations

func (h *Handler) listEvaluations(c *gin.Context) {
	status, err := statusQuery(c, models.ParseEvaluationStatus)
	if err != nil {
		h.writeError(c, err)
		return
	}
	list, err := h.svc.Evaluation().List(c.Request.Context(), service.EvaluationFilter{
		Status:   status,
		DriverID: c.Query("driver_id"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getEvaluation(c *gin.Context) {
	e, err := h.svc.Evaluation().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) changeEvaluationStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	to, err := models.ParseEvaluationStatus(req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	e, err := h.svc.Evaluation().ChangeStatus(c.Request.Context(), c.Param("id"), to, actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) toggleEvaluationPublic(c *gin.Context) {
	e, err := h.svc.Evaluation().TogglePublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) deleteEvaluation(c *gin.Context) {
	if err := h.svc.Evaluation().Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Rentals

func (h *Handler) listRentals(c *gin.Context) {
	status, err := statusQuery(c, models.ParseRentalStatus)
	if err != nil {
		h.writeError(c, err)
		return
	}
	list, err := h.svc.Rental().List(c.Request.Context(), service.RentalFilter{
		Status:    status,
		DriverID:  c.Query("driver_id"),
		VehicleID: c.Query("vehicle_id"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createRental(c *gin.Context) {
	var in service.RentalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.svc.Rental().Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) getRental(c *gin.Context) {
	r, err := h.svc.Rental().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) changeRentalStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	to, err := models.ParseRentalStatus(req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	r, err := h.svc.Rental().ChangeStatus(c.Request.Context(), c.Param("id"), to, actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) changeRentalPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := models.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		h.writeError(c, err)
		return
	}
	r, err := h.svc.Rental().UpdatePaymentStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) deleteRental(c *gin.Context) {
	if err := h.svc.Rental().Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Vehicles

func (h *Handler) adminVehicles(c *gin.Context) {
	list, err := h.svc.Vehicle().Catalog(c.Request.Context(), vehicleFilter(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createVehicle(c *gin.Context) {
	var in service.VehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.svc.Vehicle().Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *Handler) updateVehicle(c *gin.Context) {
	var in service.VehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.svc.Vehicle().Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) toggleVehicleAvailability(c *gin.Context) {
	v, err := h.svc.Vehicle().ToggleAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) toggleVehicleFeatured(c *gin.Context) {
	v, err := h.svc.Vehicle().ToggleFeatured(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	if err := h.svc.Vehicle().Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Articles and banners

func (h *Handler) adminArticles(c *gin.Context) {
	f := storage.ArticleFilter{
		Featured: cast.ToBool(c.Query("featured")),
		Category: c.Query("category"),
	}
	if raw, ok := c.GetQuery("published"); ok {
		published := cast.ToBool(raw)
		f.Published = &published
	}
	list, err := h.svc.Content().ListArticles(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createArticle(c *gin.Context) {
	var in service.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.svc.Content().CreateArticle(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) updateArticle(c *gin.Context) {
	var in service.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.svc.Content().UpdateArticle(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) toggleArticlePublished(c *gin.Context) {
	a, err := h.svc.Content().TogglePublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) toggleArticleFeatured(c *gin.Context) {
	a, err := h.svc.Content().ToggleArticleFeatured(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) deleteArticle(c *gin.Context) {
	if err := h.svc.Content().DeleteArticle(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) adminBanners(c *gin.Context) {
	list, err := h.svc.Content().ListBanners(c.Request.Context(), false)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createBanner(c *gin.Context) {
	var in service.BannerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.svc.Content().CreateBanner(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) updateBanner(c *gin.Context) {
	var in service.BannerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.svc.Content().UpdateBanner(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) toggleBanner(c *gin.Context) {
	b, err := h.svc.Content().ToggleBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) deleteBanner(c *gin.Context) {
	if err := h.svc.Content().DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Notifications and users

func (h *Handler) unreadNotifications(c *gin.Context) {
	list, err := h.svc.Notification().ListUnread(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	if err := h.svc.Notification().MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listUsers(c *gin.Context) {
	list, err := h.svc.Auth().ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createUser(c *gin.Context) {
	var in service.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.svc.Auth().CreateUser(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) setUserActive(c *gin.Context) {
	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.Auth().SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// statusQuery reads ?status= with the same legacy spellings the status
// endpoints accept. An absent query yields the zero status.
func statusQuery[S ~string](c *gin.Context, parse func(string) (S, error)) (S, error) {
	raw := c.Query("status")
	if raw == "" {
		var zero S
		return zero, nil
	}
	return parse(raw)
}
