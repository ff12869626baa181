package apitest

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/pgdesk/internal/models"
)

type buildingRequest struct {
	OwnerName string `json:"ownerName" binding:"required,max=50"`
	Name      string `json:"name" binding:"required,max=50"`
	Address   string `json:"address" binding:"required"`
	LandMark  string `json:"landMark" binding:"required"`
}

type roomRequest struct {
	RoomName         string `json:"roomName" binding:"required"`
	RoomType         string `json:"roomType" binding:"required,oneof=ac non-ac"`
	NumberSharedRoom string `json:"numberSharedRoom" binding:"required"`
	BuildingID       string `json:"buildingId" binding:"required"`
}

type tenantRequest struct {
	Name       string `json:"name" binding:"required"`
	Aadhar     string `json:"aadhar" binding:"required,len=12,numeric"`
	Mobile     string `json:"mobile" binding:"required,len=10,numeric"`
	RoomID     string `json:"roomId" binding:"required"`
	BuildingID string `json:"buildingId" binding:"required"`
}

func (s *Server) listBuildings(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, newestFirst(s.buildings))
}

func (s *Server) createBuilding(c *gin.Context) {
	var req buildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b := models.Building{
		ID:        uuid.NewString(),
		OwnerName: req.OwnerName,
		Name:      req.Name,
		Address:   req.Address,
		LandMark:  req.LandMark,
	}

	s.mu.Lock()
	s.buildings = append(s.buildings, b)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, b)
}

func (s *Server) deleteBuilding(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.buildings, func(b models.Building) bool { return b.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Building not found"})
		return
	}
	s.buildings = slices.Delete(s.buildings, i, i+1)
	c.JSON(http.StatusOK, gin.H{"message": "Building deleted successfully"})
}

func (s *Server) listRooms(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, newestFirst(s.rooms))
}

func (s *Server) createRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.ContainsFunc(s.buildings, func(b models.Building) bool { return b.ID == req.BuildingID }) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Building not found"})
		return
	}

	r := models.Room{
		ID:               uuid.NewString(),
		RoomName:         req.RoomName,
		RoomType:         models.RoomType(req.RoomType),
		NumberSharedRoom: models.FlexString(req.NumberSharedRoom),
		BuildingID:       req.BuildingID,
	}
	s.rooms = append(s.rooms, r)
	c.JSON(http.StatusCreated, r)
}

func (s *Server) deleteRoom(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.rooms, func(r models.Room) bool { return r.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
		return
	}
	s.rooms = slices.Delete(s.rooms, i, i+1)
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

func (s *Server) listTenants(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, newestFirst(s.tenants))
}

func (s *Server) createTenant(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.rooms, func(r models.Room) bool { return r.ID == req.RoomID })
	if i < 0 || s.rooms[i].BuildingID != req.BuildingID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Room does not belong to building"})
		return
	}

	tn := models.Tenant{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Aadhar:     models.FlexString(req.Aadhar),
		Mobile:     models.FlexString(req.Mobile),
		RoomID:     req.RoomID,
		BuildingID: req.BuildingID,
	}
	s.tenants = append(s.tenants, tn)
	c.JSON(http.StatusCreated, tn)
}

func (s *Server) deleteTenant(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.tenants, func(tn models.Tenant) bool { return tn.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Tenant not found"})
		return
	}
	s.tenants = slices.Delete(s.tenants, i, i+1)
	c.JSON(http.StatusOK, gin.H{"message": "Tenant deleted successfully"})
}

// newestFirst returns a reversed copy, the order the API lists records in.
// Empty collections serialize as [] rather than null.
func newestFirst[T any](items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return out
}
