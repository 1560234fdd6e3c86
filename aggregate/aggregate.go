package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"go-ecoagent/config"
	"go-ecoagent/types"
)

// BuildingRollup reduces the room analyses of one building into a
// BuildingAnalysis. The reduction is a plain sum, so it is invariant
// to the order rooms are fed in.
func BuildingRollup(buildingID, buildingName string, rooms []*types.RoomAnalysis, th config.Thresholds) *types.BuildingAnalysis {
	b := &types.BuildingAnalysis{
		BuildingID:      buildingID,
		BuildingName:    buildingName,
		TotalRooms:      len(rooms),
		Recommendations: []string{},
		RoomStates:      make(map[string]*types.RoomAnalysis, len(rooms)),
	}

	var savingsSum float64
	for _, room := range rooms {
		b.TotalEnergyKW += room.EstimatedEnergyKW
		b.TotalWaterLPH += room.EstimatedWaterLPH
		b.TotalOccupancy += room.CurrentOccupancy
		b.TotalCapacity += room.Capacity
		savingsSum += room.SavingsPotential
		b.RoomStates[room.RoomID] = room
	}

	if b.TotalCapacity > 0 {
		occ := b.TotalOccupancy
		if occ > b.TotalCapacity {
			occ = b.TotalCapacity
		}
		b.OccupancyRate = round1(float64(occ) / float64(b.TotalCapacity) * 100)
	}
	if len(rooms) > 0 {
		b.AvgEnergyPerRoom = round2(b.TotalEnergyKW / float64(len(rooms)))
		b.SavingsPotential = round1(savingsSum / float64(len(rooms)))
	}
	b.TotalEnergyKW = round2(b.TotalEnergyKW)
	b.TotalWaterLPH = round1(b.TotalWaterLPH)

	if b.TotalEnergyKW > th.CriticalEnergyKW && b.OccupancyRate < th.LowOccupancyRatePct {
		b.Critical = true
		b.CriticalReason = "high energy use with low occupancy"
	}
	return b
}

// CampusRollup repeats the building reduction one level up and adds
// the hourly cost estimate.
func CampusRollup(campusName string, buildings map[string]*types.BuildingAnalysis, th config.Thresholds) *types.CampusAnalysis {
	c := &types.CampusAnalysis{
		AnalysisID:            uuid.NewString(),
		CampusName:            campusName,
		Timestamp:             time.Now().UTC().Format(time.RFC3339),
		BuildingStates:        buildings,
		CriticalBuildings:     []types.CriticalBuilding{},
		CampusRecommendations: []string{},
	}

	var savingsSum float64
	for _, b := range buildings {
		c.Metrics.TotalEnergyKW += b.TotalEnergyKW
		c.Metrics.TotalWaterLPH += b.TotalWaterLPH
		c.Metrics.TotalOccupancy += b.TotalOccupancy
		c.Metrics.TotalCapacity += b.TotalCapacity
		c.Metrics.TotalRooms += b.TotalRooms
		savingsSum += b.SavingsPotential
		if b.Critical {
			c.CriticalBuildings = append(c.CriticalBuildings, types.CriticalBuilding{
				BuildingID: b.BuildingID,
				Reason:     b.CriticalReason,
				EnergyKW:   b.TotalEnergyKW,
			})
		}
	}
	c.Metrics.TotalBuildings = len(buildings)
	if c.Metrics.TotalCapacity > 0 {
		occ := c.Metrics.TotalOccupancy
		if occ > c.Metrics.TotalCapacity {
			occ = c.Metrics.TotalCapacity
		}
		c.Metrics.AvgOccupancyRate = round1(float64(occ) / float64(c.Metrics.TotalCapacity) * 100)
	}
	c.Metrics.TotalEnergyKW = round2(c.Metrics.TotalEnergyKW)
	c.Metrics.TotalWaterLPH = round1(c.Metrics.TotalWaterLPH)
	c.Metrics.EstimatedCostPerHour = round2(c.Metrics.TotalEnergyKW*th.EnergyRatePerKWh + c.Metrics.TotalWaterLPH*th.WaterRatePerLiter)
	if len(buildings) > 0 {
		c.SavingsPotential = round1(savingsSum / float64(len(buildings)))
	}

	// Sorted for stable output across runs.
	sort.Slice(c.CriticalBuildings, func(i, j int) bool {
		return c.CriticalBuildings[i].BuildingID < c.CriticalBuildings[j].BuildingID
	})
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
