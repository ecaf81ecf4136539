package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/autoserve/jobcard-backend/internal/auth"
	"github.com/autoserve/jobcard-backend/internal/db"
	"github.com/autoserve/jobcard-backend/internal/handlers"
	"github.com/autoserve/jobcard-backend/internal/inventory"
	"github.com/autoserve/jobcard-backend/internal/jobcard"
	"github.com/autoserve/jobcard-backend/internal/middleware"
	"github.com/autoserve/jobcard-backend/internal/notify"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Info("Connected to MongoDB")

	database := client.Database(db.DatabaseName())
	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	cards := &db.MongoJobCardCollection{Collection: database.Collection("jobcards")}

	authService, err := auth.NewService()
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}

	var notifier notify.Notifier = notify.Noop{}
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		topic := os.Getenv("MQTT_TOPIC")
		if topic == "" {
			topic = "workshop/jobcards/status"
		}
		mq, err := notify.NewMQTTNotifier(broker, "jobcard-backend", topic)
		if err != nil {
			log.WithError(err).Warn("MQTT broker unavailable, status events disabled")
		} else {
			notifier = mq
			defer mq.Close()
			log.WithField("topic", topic).Info("publishing status events to MQTT")
		}
	}

	cardService := jobcard.NewService(cards, notifier)

	router := handlers.NewRouter(
		handlers.NewAuthHandler(authService, users),
		handlers.NewJobCardHandler(cardService),
		handlers.NewKanbanHandler(cardService),
		handlers.NewInventoryHandler(inventory.NewStaticCatalog()),
		middleware.NewAuthMiddleware(authService),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("HTTP server listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
