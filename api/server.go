package api

import (
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/civicwaste/swm-backend/usecases"
	"github.com/civicwaste/swm-backend/utils"
)

// Approvals apply the change synchronously, so the server deadlines leave room for the
// request timeout to answer first.
const serverTimeoutMargin = 5 * time.Second

func NewServer(router *gin.Engine, conf Configuration, uc usecases.Usecases, auth utils.Authentication) *http.Server {
	addRoutes(router, conf, uc, auth)

	maxTimeout := conf.DefaultTimeout + serverTimeoutMargin
	return &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: maxTimeout,
		ReadTimeout:       maxTimeout,
		WriteTimeout:      maxTimeout,
		IdleTimeout:       maxTimeout,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
	}
}
