package types

// BoundingBox is one detection returned by the external detector.
// Coordinates are pixels in the source frame.
type BoundingBox struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
}

// DetectionResult is the raw output of the detector capability.
type DetectionResult struct {
	Count          int           `json:"count"`
	Boxes          []BoundingBox `json:"boxes"`
	AnnotatedImage []byte        `json:"annotated_image,omitempty"`
}

// DetectionDetails keeps the per-detection breakdown after the person
// and confidence filters have been applied.
type DetectionDetails struct {
	TotalDetections  int           `json:"total_detections"`
	PersonDetections []BoundingBox `json:"person_detections"`
	ConfidenceScores []float64     `json:"confidence_scores"`
}

// FrameResult is what the detection adapter returns for one frame.
type FrameResult struct {
	RoomID         string           `json:"room_id"`
	PersonCount    int              `json:"person_count"`
	OccupancyLevel string           `json:"occupancy_level"`
	Capacity       int              `json:"capacity"`
	OutputFrame    string           `json:"output_frame,omitempty"`
	Details        DetectionDetails `json:"detection_details"`
	Timestamp      string           `json:"timestamp"`
}
