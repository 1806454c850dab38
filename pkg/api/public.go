package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"taxifrota/service"
	"taxifrota/storage"
)

func vehicleFilter(c *gin.Context) storage.VehicleFilter {
	return storage.VehicleFilter{
		Category:       c.Query("category"),
		FeaturedOnly:   cast.ToBool(c.Query("featured")),
		AvailableOnly:  cast.ToBool(c.Query("available")),
		AccessibleOnly: cast.ToBool(c.Query("accessible")),
	}
}

func (h *Handler) listVehicles(c *gin.Context) {
	list, err := h.svc.Vehicle().Catalog(c.Request.Context(), vehicleFilter(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getVehicle(c *gin.Context) {
	v, err := h.svc.Vehicle().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) testimonials(c *gin.Context) {
	list, err := h.svc.Evaluation().PublicFeed(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) activeBanners(c *gin.Context) {
	list, err := h.svc.Content().ListBanners(c.Request.Context(), true)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) publishedArticles(c *gin.Context) {
	published := true
	list, err := h.svc.Content().ListArticles(c.Request.Context(), storage.ArticleFilter{
		Published: &published,
		Featured:  cast.ToBool(c.Query("featured")),
		Category:  c.Query("category"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) articleBySlug(c *gin.Context) {
	a, err := h.svc.Content().GetArticle(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type cepURI struct {
	CEP string `uri:"cep" binding:"required,cep"`
}

func (h *Handler) lookupCEP(c *gin.Context) {
	var uri cepURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "CEP inválido"})
		return
	}
	addr, err := h.svc.Address().LookupCEP(c.Request.Context(), uri.CEP)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handler) submitApplication(c *gin.Context) {
	var in service.ApplicationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.svc.Application().Submit(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *Handler) registerDriver(c *gin.Context) {
	var in service.DriverRegistration
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.svc.Driver().Register(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) submitEvaluation(c *gin.Context) {
	var in service.EvaluationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.svc.Evaluation().Submit(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.svc.Auth().Login(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
