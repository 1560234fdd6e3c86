package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-ecoagent/detection"
	"go-ecoagent/store"
	"go-ecoagent/types"
)

// ProcessFrame handles one camera frame: detect people, update room
// occupancy, return the annotated result. Detector outages surface as
// a room-level 503, never as a crashed pipeline.
func ProcessFrame(c *gin.Context, adapter *detection.Adapter, st *store.Store) {
	roomID := c.PostForm("room_id")
	frameData := c.PostForm("frame_data")
	if roomID == "" || frameData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id and frame_data are required"})
		return
	}
	if !st.HasRoom(roomID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room '" + roomID + "' not found in campus structure"})
		return
	}

	drawBoxes := true
	if raw := c.PostForm("draw_boxes"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			drawBoxes = parsed
		}
	}

	result, err := adapter.ProcessFrame(c.Request.Context(), roomID, frameData, drawBoxes)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, types.ErrModelUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"room_id": roomID,
				"status":  "detection unavailable",
				"error":   err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
