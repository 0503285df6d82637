package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"task-intake-assistant/internal/middleware"
)

const environmentProduction = "production"

func (srv HTTPServer) mapHandlers() error {
	mw := middleware.New(srv.l, srv.convCfg)

	srv.registerMiddlewares(mw)
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(mw); err != nil {
		return err
	}

	return nil
}

func (srv HTTPServer) registerMiddlewares(mw middleware.Middleware) {
	srv.gin.Use(gin.Recovery(), mw.RequestID())

	ctx := context.Background()
	if srv.environment == environmentProduction {
		srv.l.Infof(ctx, "Running in production mode")
	} else {
		srv.l.Infof(ctx, "Running in %s mode", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	if srv.environment != environmentProduction {
		srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("doc.json"),
			ginSwagger.DefaultModelsExpandDepth(-1),
		))
	}
}
