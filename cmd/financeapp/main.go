package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"financeapp/internal/auth"
	database "financeapp/internal/db"
	"financeapp/internal/events"
	"financeapp/internal/finance/application"
	"financeapp/internal/finance/infrastructure"
	"financeapp/internal/finance/interfaces"
	"financeapp/internal/idp"
	"financeapp/internal/ratelimit"
	"financeapp/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigin := os.Getenv("CORS_ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router             *http.ServeMux
	authenticator      *auth.Authenticator
	dbService          *database.DBService
	userHandler        *user.Handler
	categoryHandler    *interfaces.CategoryHandler
	budgetHandler      *interfaces.BudgetHandler
	transactionHandler *interfaces.TransactionHandler
	registerLimiter    func(http.Handler) http.Handler
}

func NewServer(
	authenticator *auth.Authenticator,
	dbService *database.DBService,
	userHandler *user.Handler,
	categoryHandler *interfaces.CategoryHandler,
	budgetHandler *interfaces.BudgetHandler,
	transactionHandler *interfaces.TransactionHandler,
	registerLimiter func(http.Handler) http.Handler,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		authenticator:      authenticator,
		dbService:          dbService,
		userHandler:        userHandler,
		categoryHandler:    categoryHandler,
		budgetHandler:      budgetHandler,
		transactionHandler: transactionHandler,
		registerLimiter:    registerLimiter,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	required := []string{
		"DB_CONNECTION_STRING",
		"JWT_SECRET",
		"KEYCLOAK_URL",
		"KEYCLOAK_REALM",
		"KEYCLOAK_ADMIN_USER",
		"KEYCLOAK_ADMIN_PASSWORD",
		"APP_CLIENT_ID",
	}
	for _, name := range required {
		if os.Getenv(name) == "" {
			return fmt.Errorf("no %s provided", name)
		}
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	health := s.dbService.Health()
	status := http.StatusOK
	if health["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, health)
}

func (s *Server) RegisterRoutes() {
	requireAuth := s.authenticator.RequireAuth()

	// Public routes. Registration is rate limited; everything else needs a
	// valid bearer token from the identity provider.
	mainRouter := http.NewServeMux()
	mainRouter.Handle("POST /api/users", s.registerLimiter(http.HandlerFunc(s.userHandler.HandleCreateUser)))
	mainRouter.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	protectedRoutes := mainRouter

	// USERS API
	protectedRoutes.Handle("GET /api/users", requireAuth(http.HandlerFunc(s.userHandler.HandleListUsers)))
	protectedRoutes.Handle("GET /api/users/{id}", requireAuth(http.HandlerFunc(s.userHandler.HandleGetUser)))
	protectedRoutes.Handle("PUT /api/users/{id}", requireAuth(http.HandlerFunc(s.userHandler.HandleUpdateUser)))
	protectedRoutes.Handle("DELETE /api/users/{id}", requireAuth(http.HandlerFunc(s.userHandler.HandleDeleteUser)))

	// CATEGORIES API
	protectedRoutes.Handle("POST /api/categories", requireAuth(http.HandlerFunc(s.categoryHandler.HandleCreate)))
	protectedRoutes.Handle("GET /api/categories", requireAuth(http.HandlerFunc(s.categoryHandler.HandleList)))
	protectedRoutes.Handle("GET /api/categories/{id}", requireAuth(http.HandlerFunc(s.categoryHandler.HandleGet)))
	protectedRoutes.Handle("PUT /api/categories/{id}", requireAuth(http.HandlerFunc(s.categoryHandler.HandleUpdate)))
	protectedRoutes.Handle("DELETE /api/categories/{id}", requireAuth(http.HandlerFunc(s.categoryHandler.HandleDelete)))

	// BUDGETS API
	protectedRoutes.Handle("POST /api/budgets", requireAuth(http.HandlerFunc(s.budgetHandler.HandleCreate)))
	protectedRoutes.Handle("GET /api/budgets", requireAuth(http.HandlerFunc(s.budgetHandler.HandleList)))
	protectedRoutes.Handle("GET /api/budgets/{id}", requireAuth(http.HandlerFunc(s.budgetHandler.HandleGet)))
	protectedRoutes.Handle("PUT /api/budgets/{id}", requireAuth(http.HandlerFunc(s.budgetHandler.HandleUpdate)))
	protectedRoutes.Handle("DELETE /api/budgets/{id}", requireAuth(http.HandlerFunc(s.budgetHandler.HandleDelete)))

	// TRANSACTIONS API
	protectedRoutes.Handle("POST /api/transactions", requireAuth(http.HandlerFunc(s.transactionHandler.HandleCreate)))
	protectedRoutes.Handle("GET /api/transactions", requireAuth(http.HandlerFunc(s.transactionHandler.HandleList)))
	protectedRoutes.Handle("GET /api/transactions/{id}", requireAuth(http.HandlerFunc(s.transactionHandler.HandleGet)))
	protectedRoutes.Handle("PUT /api/transactions/{id}", requireAuth(http.HandlerFunc(s.transactionHandler.HandleUpdate)))
	protectedRoutes.Handle("DELETE /api/transactions/{id}", requireAuth(http.HandlerFunc(s.transactionHandler.HandleDelete)))

	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	if err := dbService.Migrate("db/migrations"); err != nil {
		log.Fatalf("Could not run database migrations: %v", err)
	}

	idpClient := idp.NewKeycloakClient(
		os.Getenv("KEYCLOAK_URL"),
		os.Getenv("KEYCLOAK_REALM"),
		os.Getenv("KEYCLOAK_ADMIN_USER"),
		os.Getenv("KEYCLOAK_ADMIN_PASSWORD"),
	)

	var publisher events.Publisher = events.NoopPublisher{}
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitPublisher, err := events.NewRabbitMQPublisher(url)
		if err != nil {
			log.Printf("Could not connect to RabbitMQ, provisioning events disabled: %v", err)
		} else {
			defer rabbitPublisher.Close()
			publisher = rabbitPublisher
		}
	}

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo, idpClient, publisher)
	userHandler := user.NewHandler(userService)

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	categoryService := application.NewCategoryService(categoryRepo)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)

	budgetRepo := infrastructure.NewBudgetRepository(dbService.DB)
	budgetService := application.NewBudgetService(budgetRepo, categoryRepo)
	budgetHandler := interfaces.NewBudgetHandler(budgetService, respondJSON, respondError)

	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)
	transactionService := application.NewTransactionService(transactionRepo, categoryRepo)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, respondJSON, respondError)

	authenticator := auth.NewAuthenticator(os.Getenv("JWT_SECRET"), os.Getenv("APP_CLIENT_ID"))

	registerLimiter := ratelimit.Middleware(ratelimit.LoadConfig(), ratelimit.NewRedisClient())

	server := NewServer(
		authenticator,
		dbService,
		userHandler,
		categoryHandler,
		budgetHandler,
		transactionHandler,
		registerLimiter,
	)
	server.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      corsMiddleware(loggingMiddleware(server.router)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on port %s", port)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
