package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"scout-hand/config"
	"scout-hand/models"
	"scout-hand/providers"
	"scout-hand/providers/transfermarkt"
	"scout-hand/services"
	"scout-hand/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	newLeadsCounter       prometheus.Counter
	clustersLinkedCounter prometheus.Counter
	playersSyncedCounter  prometheus.Counter
)

func init() {
	newLeadsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "new_leads_added_total",
			Help: "Total number of new leads reported by scouts.",
		},
	)
	clustersLinkedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clusters_linked_total",
			Help: "Total number of clusters linked to a canonical player.",
		},
	)
	playersSyncedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "players_synced_total",
			Help: "Total number of players refreshed from external providers.",
		},
	)
	prometheus.MustRegister(newLeadsCounter, clustersLinkedCounter, playersSyncedCounter)
}

// authMiddleware löst das X-API-KEY Token zu einem aktiven Scout auf und
// legt ihn im Kontext ab.
func authMiddleware(scoutService *services.ScoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		scout, err := scoutService.ByToken(c.GetHeader("X-API-KEY"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Set("scout", scout)
		c.Next()
	}
}

// adminOnly lässt nur Admin-Scouts durch.
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentScout(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// currentScout holt den authentifizierten Scout aus dem Gin-Kontext.
func currentScout(c *gin.Context) *models.Scout {
	return c.MustGet("scout").(*models.Scout)
}

// respondServiceError mappt die Service-Fehler-Taxonomie auf HTTP-Status.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to scouting database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Scout{}, &models.Player{}, &models.Lead{}, &models.Observation{})

	// Setup Services
	scoutService := services.NewScoutService(db, logging)
	leadService := services.NewLeadService(db, logging)
	clusterService := services.NewClusterService(db, logging)
	playerService := services.NewPlayerService(db, logging)
	observationService := services.NewObservationService(db, logging)

	// Seeding
	if err := scoutService.EnsureSeedAdmin(cfg.AdminSeedEmail, cfg.AdminSeedToken); err != nil {
		logging.Fatal("Failed to seed admin scout", zap.Error(err))
	}

	// Setup Providers
	enabledProviderNames := strings.Split(cfg.EnabledProviders, ",")
	var enabledProviders []providers.Provider
	for _, name := range enabledProviderNames {
		switch name {
		case "transfermarkt":
			enabledProviders = append(enabledProviders, transfermarkt.NewFetcher(cfg, logging))
		default:
			logging.Warn("Unknown provider in config", zap.String("provider_name", name))
		}
	}
	if len(enabledProviders) == 0 {
		logging.Fatal("No valid providers enabled. Check ENABLED_PROVIDERS in .env")
	}
	logging.Info("Active providers loaded", zap.Strings("providers", enabledProviderNames))

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	syncService := services.NewSyncService(cfg, db, s3Client, logging, enabledProviders)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/")
	api.Use(authMiddleware(scoutService))

	// Setup Routes
	setupLeadRoutes(api, leadService, logging)
	setupClusterRoutes(api, clusterService, playerService, logging)
	setupPlayerRoutes(api, playerService, enabledProviders, logging)
	setupScoutRoutes(api, scoutService, logging)
	setupObservationRoutes(api, observationService, s3Client, cfg, logging)
	setupSyncRoutes(api, syncService)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled player sync...")
		count, err := syncService.RunForAllPlayers(context.Background())
		if err != nil {
			logging.Error("Cron job failed", zap.Error(err))
		} else {
			logging.Info("Cron job completed", zap.Int("players_synced", count))
			playersSyncedCounter.Add(float64(count))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// setupLeadRoutes konfiguriert die Endpunkte für einzelne Leads.
func setupLeadRoutes(router *gin.RouterGroup, leadService *services.LeadService, log *zap.Logger) {
	rg := router.Group("/leads")

	// POST - Neue Sichtung melden
	rg.POST("/", func(c *gin.Context) {
		var in services.LeadInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		lead, err := leadService.Create(currentScout(c), in)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		newLeadsCounter.Inc()
		c.JSON(http.StatusCreated, lead)
	})

	// GET - Eigene Leads abrufen
	rg.GET("/", func(c *gin.Context) {
		leads, err := leadService.ListOwn(currentScout(c).ID)
		if err != nil {
			log.Error("Database query for own leads failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, leads)
	})

	// PUT - Lead editieren (nur Besitzer; Signatur wird neu berechnet)
	rg.PUT("/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
			return
		}
		var patch services.LeadPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		lead, err := leadService.Update(currentScout(c), uint(id), patch)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, lead)
	})
}

// setupClusterRoutes konfiguriert die Cluster-Sicht und die cluster-weiten
// Mutationen. Signaturen enthalten '|' und Leerzeichen, deshalb sind alle
// Endpunkte body-gesteuert statt pfad-parametrisiert.
func setupClusterRoutes(router *gin.RouterGroup, clusterService *services.ClusterService, playerService *services.PlayerService, log *zap.Logger) {
	rg := router.Group("/clusters")

	// POST - Cluster-Liste mit Filtern
	rg.POST("/query", func(c *gin.Context) {
		type ClusterQuery struct {
			Scope  string `json:"scope"` // "all" (nur Admin) oder "me"
			Status string `json:"status"`
			Search string `json:"search"`
		}
		var req ClusterQuery
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		scout := currentScout(c)
		filter := services.ClusterFilter{Status: req.Status, Search: req.Search}
		if req.Scope == "all" {
			if !scout.IsAdmin() {
				c.JSON(http.StatusForbidden, gin.H{"error": "admin role required for global scope"})
				return
			}
		} else {
			filter.ScoutID = &scout.ID
		}

		rows, err := clusterService.List(filter)
		if err != nil {
			log.Error("Database query for clusters failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		// Verlinkte Spieler in einem Batch auflösen
		var playerIDs []uint
		for i := range rows {
			if rows[i].PlayerID != nil {
				playerIDs = append(playerIDs, *rows[i].PlayerID)
			}
		}
		playersByID, err := playerService.GetByIDs(playerIDs)
		if err != nil {
			log.Error("Player batch lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		type ClusterRowWithPlayer struct {
			models.ClusterRow
			Player *models.PlayerProjection `json:"player,omitempty"`
		}
		enriched := make([]ClusterRowWithPlayer, 0, len(rows))
		for i := range rows {
			row := ClusterRowWithPlayer{ClusterRow: rows[i]}
			if rows[i].PlayerID != nil {
				if p, ok := playersByID[*rows[i].PlayerID]; ok {
					row.Player = &p
				}
			}
			enriched = append(enriched, row)
		}
		c.JSON(http.StatusOK, enriched)
	})

	// POST - Mitglieder eines Clusters (Drill-Down)
	rg.POST("/members", func(c *gin.Context) {
		var req struct {
			Signature string `json:"signature" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'signature' field is required."})
			return
		}
		leads, err := clusterService.Members(req.Signature)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, leads)
	})

	// POST - Cluster-Status setzen (pending/rejected, nur Admin)
	rg.POST("/status", adminOnly(), func(c *gin.Context) {
		var req struct {
			Signature string `json:"signature" binding:"required"`
			Status    string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'signature' and 'status' are required."})
			return
		}
		if err := clusterService.SetStatus(req.Signature, req.Status); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "status updated"})
	})

	// POST - Cluster mit existierendem Spieler verlinken (nur Admin)
	rg.POST("/link", adminOnly(), func(c *gin.Context) {
		var req struct {
			Signature string `json:"signature" binding:"required"`
			PlayerID  uint   `json:"player_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'signature' and 'player_id' are required."})
			return
		}
		if err := clusterService.Link(req.Signature, req.PlayerID); err != nil {
			respondServiceError(c, err)
			return
		}
		clustersLinkedCounter.Inc()
		c.JSON(http.StatusOK, gin.H{"message": "cluster linked"})
	})

	// POST - Spieler anlegen und Cluster in einer Transaktion verlinken
	rg.POST("/create-and-link", adminOnly(), func(c *gin.Context) {
		var req struct {
			Signature string `json:"signature" binding:"required"`
			Player    struct {
				DisplayName string `json:"display_name"`
				DateOfBirth string `json:"date_of_birth"`
				Position    string `json:"position"`
				ClubName    string `json:"club_name"`
				ClubCountry string `json:"club_country"`
				ProfileURL  string `json:"external_profile_url"`
			} `json:"player" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'signature' and 'player' are required."})
			return
		}
		dob, err := services.ParseDateOfBirth(req.Player.DateOfBirth)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		player, err := clusterService.CreateAndLink(req.Signature, currentScout(c).ID, services.NewPlayerInput{
			DisplayName: req.Player.DisplayName,
			DateOfBirth: dob,
			Position:    req.Player.Position,
			ClubName:    req.Player.ClubName,
			ClubCountry: req.Player.ClubCountry,
			ProfileURL:  req.Player.ProfileURL,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		clustersLinkedCounter.Inc()
		c.JSON(http.StatusCreated, gin.H{"player_id": player.ID, "player": player.Projection()})
	})

	// POST - Cluster entlinken (nur Admin)
	rg.POST("/unlink", adminOnly(), func(c *gin.Context) {
		var req struct {
			Signature string `json:"signature" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'signature' field is required."})
			return
		}
		if err := clusterService.Unlink(req.Signature); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cluster unlinked"})
	})
}

// setupPlayerRoutes konfiguriert das Spieler-Verzeichnis.
func setupPlayerRoutes(router *gin.RouterGroup, playerService *services.PlayerService, provs []providers.Provider, log *zap.Logger) {
	rg := router.Group("/players")

	// GET - Suche im lokalen Verzeichnis (für den Link-Dialog)
	rg.GET("/", func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		results, err := playerService.Search(c.Query("q"), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, results)
	})

	// POST - Spieler direkt anlegen (nur Admin)
	rg.POST("/", adminOnly(), func(c *gin.Context) {
		var req struct {
			DisplayName string `json:"display_name"`
			DateOfBirth string `json:"date_of_birth"`
			Position    string `json:"position"`
			ClubName    string `json:"club_name"`
			ClubCountry string `json:"club_country"`
			ProfileURL  string `json:"external_profile_url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		dob, err := services.ParseDateOfBirth(req.DateOfBirth)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		player, err := playerService.Create(currentScout(c).ID, services.NewPlayerInput{
			DisplayName: req.DisplayName,
			DateOfBirth: dob,
			Position:    req.Position,
			ClubName:    req.ClubName,
			ClubCountry: req.ClubCountry,
			ProfileURL:  req.ProfileURL,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, player)
	})

	// GET - Einzelner Spieler (Detailansicht im Link-Dialog)
	rg.GET("/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
			return
		}
		player, err := playerService.Get(uint(id))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, player)
	})

	// POST - Batch-Auflösung verlinkter Spieler
	rg.POST("/batch", func(c *gin.Context) {
		var req struct {
			IDs []uint `json:"ids" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'ids' field is required."})
			return
		}
		result, err := playerService.GetByIDs(req.IDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	// GET - Kandidaten-Suche bei den externen Providern (nur Admin)
	rg.GET("/external-search", adminOnly(), func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
			return
		}
		var candidates []*models.Player
		for _, provider := range provs {
			found, err := provider.Search(query)
			if err != nil {
				log.Warn("Provider search failed", zap.String("provider", provider.Name()), zap.Error(err))
				continue
			}
			candidates = append(candidates, found...)
		}
		c.JSON(http.StatusOK, candidates)
	})
}

// setupScoutRoutes konfiguriert die Scout-Verwaltung (nur Admin).
func setupScoutRoutes(router *gin.RouterGroup, scoutService *services.ScoutService, log *zap.Logger) {
	rg := router.Group("/scouts")
	rg.Use(adminOnly())

	rg.POST("/", func(c *gin.Context) {
		var in services.ScoutInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		scout, err := scoutService.Create(in)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		// Das Token wird nur in dieser einen Antwort ausgegeben.
		c.JSON(http.StatusCreated, gin.H{"scout": scout, "access_token": scout.AccessToken})
	})

	rg.GET("/", func(c *gin.Context) {
		scouts, err := scoutService.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, scouts)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scout id"})
			return
		}
		if err := scoutService.Deactivate(uint(id)); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "scout deactivated"})
	})
}

// setupObservationRoutes konfiguriert Beobachtungs-Sessions inklusive
// Sprachnotiz-Upload nach S3.
func setupObservationRoutes(router *gin.RouterGroup, observationService *services.ObservationService, s3Client *s3.Client, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/observations")

	// POST - Neue Beobachtung anlegen
	rg.POST("/", func(c *gin.Context) {
		var in services.ObservationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		obs, err := observationService.Create(currentScout(c), in)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, obs)
	})

	// PUT - Beobachtung partiell aktualisieren
	rg.PUT("/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid observation id"})
			return
		}
		var payload struct {
			TeamName     *string `json:"team_name"`
			OpponentName *string `json:"opponent_name"`
			Technique    *int    `json:"technique"`
			Pace         *int    `json:"pace"`
			Physique     *int    `json:"physique"`
			GameSense    *int    `json:"game_sense"`
			Notes        *string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		// Map nur mit den mitgesendeten Feldern befüllen
		updates := map[string]interface{}{}
		if payload.TeamName != nil {
			updates["team_name"] = *payload.TeamName
		}
		if payload.OpponentName != nil {
			updates["opponent_name"] = *payload.OpponentName
		}
		if payload.Technique != nil {
			updates["technique"] = *payload.Technique
		}
		if payload.Pace != nil {
			updates["pace"] = *payload.Pace
		}
		if payload.Physique != nil {
			updates["physique"] = *payload.Physique
		}
		if payload.GameSense != nil {
			updates["game_sense"] = *payload.GameSense
		}
		if payload.Notes != nil {
			updates["notes"] = *payload.Notes
		}

		obs, err := observationService.Update(currentScout(c), uint(id), updates)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, obs)
	})

	// POST - Beobachtungen mit Filtern abfragen
	rg.POST("/query", func(c *gin.Context) {
		var q services.ObservationQuery
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		observations, err := observationService.Query(currentScout(c), q)
		if err != nil {
			log.Error("Database query for observations failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, observations)
	})

	// POST - Sprachnotiz hochladen (Multipart, Feld "file")
	rg.POST("/:id/voice-note", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid observation id"})
			return
		}
		// Besitz und Existenz prüfen, bevor irgendetwas nach S3 geht.
		if _, err := observationService.GetOwned(currentScout(c), uint(id)); err != nil {
			respondServiceError(c, err)
			return
		}
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
			return
		}

		ext := filepath.Ext(fileHeader.Filename)
		if ext == "" {
			ext = ".m4a"
		}
		key := fmt.Sprintf("observations/%d/voice-note%s", id, ext)
		link, err := storage.UploadFile(s3Client, cfg.MediaS3Bucket, key, data, cfg)
		if err != nil {
			log.Error("Voice note upload failed", zap.Uint64("observation_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}

		obs, err := observationService.AttachVoiceNote(currentScout(c), uint(id), link)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, obs)
	})
}

// setupSyncRoutes konfiguriert den manuellen Trigger für den Player-Sync.
func setupSyncRoutes(router *gin.RouterGroup, syncService *services.SyncService) {
	rg := router.Group("/sync")
	rg.POST("/players", adminOnly(), func(c *gin.Context) {
		go func() {
			count, err := syncService.RunForAllPlayers(context.Background())
			if err != nil {
				syncService.Logger.Error("Async player sync failed", zap.Error(err))
			} else {
				playersSyncedCounter.Add(float64(count))
				syncService.Logger.Info("Async player sync completed", zap.Int("players_synced", count))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Player sync triggered."})
	})

	// POST - Einzelnen Spieler sofort auffrischen (synchron)
	rg.POST("/players/:id", adminOnly(), func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
			return
		}
		if err := syncService.RunForPlayer(c.Request.Context(), uint(id)); err != nil {
			respondServiceError(c, err)
			return
		}
		playersSyncedCounter.Inc()
		c.JSON(http.StatusOK, gin.H{"message": "player synced"})
	})
}
