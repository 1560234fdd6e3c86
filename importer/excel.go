package importer

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"go-ecoagent/types"
)

const (
	buildingsSheet = "Buildings"
	roomsSheet     = "Rooms"
)

var buildingsHeader = []string{"Building ID", "Name", "Floors", "Type"}
var roomsHeader = []string{"Room ID", "Building ID", "Floor", "Type", "Capacity"}

// Export renders the campus structure as an XLSX workbook with one
// sheet for buildings and one for rooms.
func Export(cs types.CampusStructure) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(buildingsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if _, err := f.NewSheet(roomsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	writeRow(f, buildingsSheet, 1, buildingsHeader)
	f.SetRowStyle(buildingsSheet, 1, 1, headerStyle)
	row := 2
	for _, id := range sortedKeys(cs.Buildings) {
		b := cs.Buildings[id]
		writeRow(f, buildingsSheet, row, []string{id, b.Name, strconv.Itoa(b.Floors), b.Type})
		row++
	}

	writeRow(f, roomsSheet, 1, roomsHeader)
	f.SetRowStyle(roomsSheet, 1, 1, headerStyle)
	row = 2
	for _, id := range sortedKeys(cs.Rooms) {
		r := cs.Rooms[id]
		writeRow(f, roomsSheet, row, []string{id, r.BuildingID, strconv.Itoa(r.Floor), r.Type, strconv.Itoa(r.Capacity)})
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Import parses an uploaded workbook back into a campus structure.
// Malformed rows reject the whole import before anything is applied.
func Import(r io.Reader) (types.CampusStructure, error) {
	cs := types.CampusStructure{
		Buildings: map[string]types.Building{},
		Rooms:     map[string]types.RoomTemplate{},
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return cs, &types.InvalidConfigError{Field: "file", Reason: "not a readable xlsx workbook"}
	}
	defer f.Close()

	buildingRows, err := f.GetRows(buildingsSheet)
	if err != nil {
		return cs, &types.InvalidConfigError{Field: buildingsSheet, Reason: "sheet missing"}
	}
	for i, row := range buildingRows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if len(row) < 3 || row[0] == "" {
			return cs, &types.InvalidConfigError{Field: fmt.Sprintf("%s row %d", buildingsSheet, i+1), Reason: "expected id, name and floors"}
		}
		floors, err := strconv.Atoi(row[2])
		if err != nil || floors < 1 {
			return cs, &types.InvalidConfigError{Field: fmt.Sprintf("%s row %d", buildingsSheet, i+1), Reason: "floors must be a positive integer"}
		}
		b := types.Building{Name: row[1], Floors: floors}
		if len(row) > 3 {
			b.Type = row[3]
		}
		cs.Buildings[row[0]] = b
	}

	roomRows, err := f.GetRows(roomsSheet)
	if err != nil {
		return cs, &types.InvalidConfigError{Field: roomsSheet, Reason: "sheet missing"}
	}
	for i, row := range roomRows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if len(row) < 5 || row[0] == "" {
			return cs, &types.InvalidConfigError{Field: fmt.Sprintf("%s row %d", roomsSheet, i+1), Reason: "expected room id, building id, floor, type and capacity"}
		}
		floor, err := strconv.Atoi(row[2])
		if err != nil {
			return cs, &types.InvalidConfigError{Field: fmt.Sprintf("%s row %d", roomsSheet, i+1), Reason: "floor must be an integer"}
		}
		capacity, err := strconv.Atoi(row[4])
		if err != nil || capacity <= 0 {
			return cs, &types.InvalidConfigError{Field: fmt.Sprintf("%s row %d", roomsSheet, i+1), Reason: "capacity must be a positive integer"}
		}
		cs.Rooms[row[0]] = types.RoomTemplate{
			BuildingID: row[1],
			Floor:      floor,
			Type:       row[3],
			Capacity:   capacity,
		}
	}

	return cs, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheet, cell, value)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Stable sheets make exports diffable.
	sort.Strings(keys)
	return keys
}
