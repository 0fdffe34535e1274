package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"volleyhub/backend/internal/auth"
	"volleyhub/backend/internal/membership"
	"volleyhub/backend/internal/models"
	"volleyhub/backend/internal/store"
	"volleyhub/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	// An in-memory sqlite database lives per connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Room{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

// setupRouter wires the handlers exactly like cmd/server does, minus
// swagger and the scheduler.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	members := membership.NewService(store.New(db), zap.NewNop())
	userHandler := &UserHandler{DB: db, JWTSecret: testSecret}
	roomHandler := &RoomHandler{Members: members}
	uploadHandler := &UploadHandler{Dir: t.TempDir()}

	router := gin.New()
	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", userHandler.Register)
	authRoutes.POST("/login", userHandler.Login)

	userRoutes := api.Group("/users")
	userRoutes.Use(auth.Middleware(testSecret))
	userRoutes.GET("/me", userHandler.GetMe)
	userRoutes.PUT("/me", userHandler.UpdateMe)
	userRoutes.GET("/:id", userHandler.GetUserByID)

	roomRoutes := api.Group("/rooms")
	roomRoutes.GET("", roomHandler.ListRooms)
	roomRoutes.GET("/:id", roomHandler.GetRoom)

	protected := roomRoutes.Group("")
	protected.Use(auth.Middleware(testSecret))
	protected.POST("/create", auth.RequireRole(db, models.RoleOrganizer, models.RoleAdmin), roomHandler.CreateRoom)
	protected.POST("/join/:roomId", roomHandler.JoinRoom)
	protected.POST("/leave/:roomId", roomHandler.LeaveRoom)
	protected.PUT("/:id", roomHandler.UpdateRoom)
	protected.DELETE("/:id", roomHandler.DeleteRoom)

	api.POST("/upload", auth.Middleware(testSecret), uploadHandler.Upload)

	return router, db
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
	return user
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := jwt.GenerateToken(user.ID, testSecret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// doJSON performs a JSON request, optionally authenticated, and returns the
// recorded response.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, want, w.Body.String())
	}
}
