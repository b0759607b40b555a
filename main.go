package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rvasil/pactchat/internal/auth"
	"github.com/rvasil/pactchat/internal/config"
	"github.com/rvasil/pactchat/internal/connections"
	"github.com/rvasil/pactchat/internal/email"
	"github.com/rvasil/pactchat/internal/handlers"
	"github.com/rvasil/pactchat/internal/messaging"
	"github.com/rvasil/pactchat/internal/middleware"
	"github.com/rvasil/pactchat/internal/store/sqlstore"
	"github.com/rvasil/pactchat/internal/ws"
)

var configDir = flag.String("config", ".", "directory containing config.yaml")

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal(err)
	}

	store, err := sqlstore.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	hub := ws.NewHub()
	graph := connections.New(store)
	pipeline := messaging.New(store, hub)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	mailer := email.NewSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	authHandler := &handlers.AuthHandler{Store: store, Tokens: tokens, Email: mailer}
	connectHandler := &handlers.ConnectHandler{Graph: graph, Store: store}
	messageHandler := &handlers.MessageHandler{Pipeline: pipeline}
	secretHandler := &handlers.SecretHandler{Store: store}

	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	// Open endpoints
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Everything else requires a bearer token
	authed := r.PathPrefix("/").Subrouter()
	authed.Use(middleware.Auth(tokens))

	authed.HandleFunc("/connect/send-request", connectHandler.SendRequest).Methods("POST")
	authed.HandleFunc("/connect/accept-request", connectHandler.AcceptRequest).Methods("POST")
	authed.HandleFunc("/connect/list", connectHandler.List).Methods("GET")
	authed.HandleFunc("/connect/check-status", connectHandler.CheckStatus).Methods("GET")
	authed.HandleFunc("/connect/sent-requests", connectHandler.SentRequests).Methods("GET")
	authed.HandleFunc("/connect/received-requests", connectHandler.ReceivedRequests).Methods("GET")
	authed.HandleFunc("/connect/users/all", connectHandler.AllUsers).Methods("GET")

	authed.HandleFunc("/messages/send", messageHandler.Send).Methods("POST")
	authed.HandleFunc("/messages/receive", messageHandler.Receive).Methods("POST")
	authed.HandleFunc("/messages/decrypt", messageHandler.Decrypt).Methods("POST")
	authed.HandleFunc("/messages/conversation", messageHandler.Conversation).Methods("POST")
	authed.HandleFunc("/messages/chat-partners", messageHandler.ChatPartners).Methods("POST")
	authed.HandleFunc("/messages/user-count", messageHandler.UserCount).Methods("GET")

	authed.HandleFunc("/password/set", secretHandler.Set).Methods("POST")
	authed.HandleFunc("/password/get", secretHandler.Get).Methods("GET")

	// WebSocket endpoint; identity comes from the verified token, not the URL.
	authed.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ws.ServeWs(hub, pipeline, w, r, userID)
	})

	log.Println("Starting server on", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
