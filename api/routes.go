package api

import (
	"net/http"
	"time"

	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/usecases"
	"github.com/civicwaste/swm-backend/utils"
	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	timeout "github.com/vearne/gin-timeout"
)

func timeoutMiddleware(duration time.Duration) gin.HandlerFunc {
	return timeout.Timeout(
		timeout.WithTimeout(duration),
		timeout.WithErrorHttpCode(http.StatusRequestTimeout),
		timeout.WithDefaultMsg("Request timeout"),
	)
}

func addRoutes(r *gin.Engine, conf Configuration, uc usecases.Usecases, auth utils.Authentication) {
	tom := timeoutMiddleware(conf.DefaultTimeout)
	bodyLimit := limits.RequestSizeLimiter(conf.MaxBodySize)

	r.GET("/liveness", tom, handleLivenessProbe(uc))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router := r.Group("/", auth.Middleware, tom)

	for _, entity := range models.EntityCatalog {
		path := "/" + entity.Route
		intercept := interceptMutations(uc, entity)
		mutate := handleMutateEntity(uc, entity)

		router.GET(path, handleListEntities(uc, entity))
		router.GET(path+"/:id", handleGetEntity(uc, entity))
		router.POST(path, bodyLimit, intercept, mutate)
		router.PUT(path+"/:id", bodyLimit, intercept, mutate)
		router.PATCH(path+"/:id", bodyLimit, intercept, mutate)
		router.DELETE(path+"/:id", bodyLimit, intercept, mutate)
	}

	router.POST("/change-requests", bodyLimit, handleSubmitChangeRequest(uc))
	router.GET("/pending-changes", handleListPendingChanges(uc))
	router.GET("/pending-changes/:id", handleGetChangeRequest(uc))
	router.POST("/pending-changes/:id/approve", bodyLimit, handleApproveChange(uc))
	router.POST("/pending-changes/:id/reject", bodyLimit, handleRejectChange(uc))
	router.GET("/my-requests", handleListOwnRequests(uc))
	router.GET("/approval-stats", handleGetApprovalStats(uc))
}
