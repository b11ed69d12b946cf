package main

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/flotasur/fleet-maintenance/internal/catalog"
	"github.com/flotasur/fleet-maintenance/internal/db"
	"github.com/flotasur/fleet-maintenance/internal/handlers"
	"github.com/flotasur/fleet-maintenance/internal/overrides"
	"github.com/flotasur/fleet-maintenance/internal/predictive"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "fleet"
	}
	database := client.Database(dbName)

	equipment := &db.MongoEquipmentCollection{Collection: database.Collection("equipos")}
	plans := &db.MongoPlanCollection{Collection: database.Collection("planes")}
	overrideColl := &db.MongoOverrideCollection{Collection: database.Collection("overrides")}
	planning := &db.MongoPlanningCollection{Collection: database.Collection("planificacion")}

	alertThreshold := float64(predictive.DefaultAlertThreshold)
	if v := os.Getenv("ALERTA_UMBRAL_DEFECTO"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			alertThreshold = parsed
		}
	}

	engine := predictive.NewEngine(catalog.DefaultRegistry(), alertThreshold)
	overrideService := overrides.NewService(overrideColl, plans, engine.Cache())

	handler := handlers.NewPredictiveHandler(engine, equipment, plans, overrideColl, planning, overrideService)
	router := mux.NewRouter()
	handler.Register(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, router))
}
