package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	app "adminserv/src/app"
	cfg "adminserv/src/configuration"
	db "adminserv/src/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type AppHandler struct {
	store  db.RecordStore
	media  app.Store
	policy app.UploadPolicy
}

func NewHandler(store db.RecordStore, media app.Store, policy app.UploadPolicy) *AppHandler {
	return &AppHandler{
		store:  store,
		media:  media,
		policy: policy,
	}
}

// NewRouter wires every route of the API service onto a gin engine.
func NewRouter(config *cfg.Properties, handler *AppHandler) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = config.Media.MaxBytes

	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.Cors.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(MetricsMiddleware())
	pprof.Register(router)

	router.GET("/health", handler.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/users", handler.ListUsers)
		api.POST("/users", handler.CreateUser)
		api.PUT("/users/:id", handler.UpdateUser)
		api.DELETE("/users/:id", handler.DeleteUser)

		api.GET("/bills", handler.ListBills)
		api.POST("/bills", handler.CreateBill)
		api.PUT("/bills/:id", handler.UpdateBill)
		api.DELETE("/bills/:id", handler.DeleteBill)

		api.POST("/image", handler.PostImage)
	}

	router.GET("/images/users/:filename", handler.GetImage)

	router.NoRoute(func(ctx *gin.Context) { ctx.JSON(http.StatusNotFound, gin.H{}) })
	return router
}

// RunServer assembles the stores from configuration and serves until the
// listener fails.
func RunServer(config *cfg.Properties) error {
	store, err := openRecordStore(config)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(ctx)
	}()

	media, err := openMediaStore(config)
	if err != nil {
		return err
	}

	handler := NewHandler(store, media, app.UploadPolicy{MaxBytes: config.Media.MaxBytes})
	router := NewRouter(config, handler)

	logrus.WithField("port", config.Server.Port).Info("server is running")
	return router.Run(fmt.Sprintf(":%s", config.Server.Port))
}

func openRecordStore(config *cfg.Properties) (db.RecordStore, error) {
	if config.Mongo.URL == "" {
		logrus.Warn("DB_URL is not set, records are kept in memory only")
		return db.NewMemoryStore(), nil
	}
	store, err := db.NewMongoStore(context.Background(), config.Mongo)
	if err != nil {
		return nil, err
	}
	logrus.Info("mongodb connected successfully")
	return store, nil
}

func openMediaStore(config *cfg.Properties) (app.Store, error) {
	if config.S3.Enabled {
		return app.NewMinioStore(
			config.S3.Host,
			config.S3.AccessKey,
			config.S3.SecretKey,
			config.S3.Bucket,
			config.S3.UseSSL)
	}
	return app.NewDiskStore(config.Media.Dir)
}

func (a *AppHandler) GetHealth(c *gin.Context) {
	if err := a.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
