package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ecoagent/importer"
	"go-ecoagent/store"
	"go-ecoagent/types"
)

// GetCampusInfo lists the campus with a per-building room count.
func GetCampusInfo(c *gin.Context, st *store.Store) {
	structure := st.Structure()

	roomCounts := map[string]int{}
	for _, room := range structure.Rooms {
		roomCounts[room.BuildingID]++
	}

	buildings := make([]gin.H, 0, len(structure.Buildings))
	for id, b := range structure.Buildings {
		buildings = append(buildings, gin.H{
			"id":         id,
			"name":       b.Name,
			"floors":     b.Floors,
			"room_count": roomCounts[id],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"campus_name":     structure.CampusInfo.Name,
		"total_buildings": len(structure.Buildings),
		"total_rooms":     len(structure.Rooms),
		"buildings":       buildings,
	})
}

// GetBuildingDetails returns one building and its rooms.
func GetBuildingDetails(c *gin.Context, st *store.Store) {
	buildingID := c.Param("building_id")
	building, ok := st.Buildings()[buildingID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
		return
	}

	rooms := map[string]types.RoomState{}
	for id, room := range st.Snapshot() {
		if room.BuildingID == buildingID {
			rooms[id] = room
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"building_id":   buildingID,
		"building_name": building.Name,
		"floors":        building.Floors,
		"total_rooms":   len(rooms),
		"rooms":         rooms,
	})
}

// GetRoomDetails returns one room's current state.
func GetRoomDetails(c *gin.Context, st *store.Store) {
	roomID := c.Param("room_id")
	if !st.HasRoom(roomID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room_id":       roomID,
		"current_state": st.Get(roomID),
	})
}

// UploadArchitecture replaces the campus layout from a JSON body.
func UploadArchitecture(c *gin.Context, st *store.Store) {
	var structure types.CampusStructure
	if err := c.ShouldBindJSON(&structure); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := st.SetStructure(structure); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Campus architecture updated successfully"})
}

// ImportArchitecture replaces the campus layout from an uploaded XLSX.
func ImportArchitecture(c *gin.Context, st *store.Store) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	defer file.Close()

	structure, err := importer.Import(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := st.SetStructure(structure); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"buildings": len(structure.Buildings),
		"rooms":     len(structure.Rooms),
	})
}

// ExportArchitecture downloads the campus layout as XLSX.
func ExportArchitecture(c *gin.Context, st *store.Store) {
	data, err := importer.Export(st.Structure())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="campus_architecture.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
