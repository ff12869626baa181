// Package apitest runs an in-memory stand-in for the property API on an
// httptest server. It implements the user, building, room and tenant
// endpoints with the same status codes and message bodies as the real
// service, and lets tests queue failures per route.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/pgdesk/internal/auth"
	"github.com/lalith-99/pgdesk/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Route patterns, usable with Fail and Calls.
const (
	RouteRegister       = "POST /api/user/register"
	RouteUsers          = "GET /api/user"
	RouteLogin          = "POST /api/user/login"
	RouteBuildings      = "GET /api/building"
	RouteCreateBuilding = "POST /api/building"
	RouteDeleteBuilding = "DELETE /api/building/:id"
	RouteRooms          = "GET /api/room"
	RouteCreateRoom     = "POST /api/room"
	RouteDeleteRoom     = "DELETE /api/room/:id"
	RouteTenants        = "GET /api/tenant"
	RouteCreateTenant   = "POST /api/tenant"
	RouteDeleteTenant   = "DELETE /api/tenant/:id"
)

// Failure is a canned response for one request.
type Failure struct {
	Status  int
	Message string
	// RawBody, when non-nil, is sent verbatim instead of a message envelope.
	RawBody     []byte
	ContentType string
}

type storedUser struct {
	models.User
	hash []byte
}

type Server struct {
	*httptest.Server
	Secret string

	mu        sync.Mutex
	users     []storedUser
	buildings []models.Building
	rooms     []models.Room
	tenants   []models.Tenant
	calls     map[string]int
	failures  map[string][]Failure
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		Secret:   "apitest-secret",
		calls:    make(map[string]int),
		failures: make(map[string][]Failure),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.record(), s.inject())

	r.POST("/api/user/register", s.register)
	r.GET("/api/user", s.listUsers)
	r.POST("/api/user/login", s.login)

	authed := r.Group("/api")
	authed.Use(bearerAuth(s.Secret))
	authed.GET("/building", s.listBuildings)
	authed.POST("/building", s.createBuilding)
	authed.DELETE("/building/:id", s.deleteBuilding)
	authed.GET("/room", s.listRooms)
	authed.POST("/room", s.createRoom)
	authed.DELETE("/room/:id", s.deleteRoom)
	authed.GET("/tenant", s.listTenants)
	authed.POST("/tenant", s.createTenant)
	authed.DELETE("/tenant/:id", s.deleteTenant)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Fail queues a failure for the next request on route (e.g. RouteRooms).
func (s *Server) Fail(route string, f Failure) {
	if f.RawBody != nil && f.ContentType == "" {
		f.ContentType = "application/json"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], f)
}

// Respond queues a raw response for the next request on route, whatever
// its status.
func (s *Server) Respond(route string, status int, body []byte) {
	s.Fail(route, Failure{Status: status, RawBody: body})
}

// Calls returns how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of routed requests of any kind.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Token issues a valid token without going through login.
func (s *Server) Token(t testing.TB) string {
	t.Helper()
	token, err := auth.GenerateToken(uuid.NewString(), "staff@example.com", s.Secret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// AddUser seeds an account directly.
func (s *Server) AddUser(t testing.TB, name, email, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := models.User{ID: uuid.NewString(), Name: name, Email: email, CreatedAt: time.Now().UTC()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, storedUser{User: u, hash: hash})
	return u
}

func (s *Server) AddBuilding(b models.Building) models.Building {
	b.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buildings = append(s.buildings, b)
	return b
}

func (s *Server) AddRoom(r models.Room) models.Room {
	r.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(s.rooms, r)
	return r
}

func (s *Server) AddTenant(tn models.Tenant) models.Tenant {
	tn.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = append(s.tenants, tn)
	return tn
}

func (s *Server) Buildings() []models.Building {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.buildings)
}

func (s *Server) Rooms() []models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rooms)
}

func (s *Server) Tenants() []models.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tenants)
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "registration failed"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
			return
		}
	}

	u := models.User{ID: uuid.NewString(), Name: req.Name, Email: req.Email, CreatedAt: time.Now().UTC()}
	s.users = append(s.users, storedUser{User: u, hash: hash})
	c.JSON(http.StatusCreated, u)
}

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.User)
	}
	c.JSON(http.StatusOK, out)
}

// login accepts either the email or the name as the identifier.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.mu.Lock()
	var found *storedUser
	for i := range s.users {
		u := &s.users[i]
		if strings.EqualFold(u.Email, req.Email) || u.Name == req.Email {
			found = u
			break
		}
	}
	s.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.hash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(found.ID, found.Email, s.Secret, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
		return
	}

	user := found.User
	c.JSON(http.StatusOK, models.LoginResult{Token: token, User: &user})
}
