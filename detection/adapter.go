package detection

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"go-ecoagent/config"
	"go-ecoagent/estimator"
	"go-ecoagent/metrics"
	"go-ecoagent/store"
	"go-ecoagent/types"
)

// PersonLabel is the detector category counted as an occupant.
const PersonLabel = "person"

// Detector is the external detection capability: one frame in, raw
// detections out.
type Detector interface {
	Detect(ctx context.Context, image []byte) (*types.DetectionResult, error)
}

// Adapter turns a raw camera frame into a headcount and pushes it into
// the room store. Failures are scoped to the frame: a bad image or an
// unreachable model never takes down the rest of the pipeline.
type Adapter struct {
	detector Detector
	store    *store.Store
	th       config.Thresholds
	logger   *zap.Logger
}

func NewAdapter(d Detector, st *store.Store, th config.Thresholds, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{detector: d, store: st, th: th, logger: logger}
}

// ProcessFrame decodes a base64 JPEG/PNG frame, runs detection, keeps
// person detections at or above the confidence threshold, updates the
// room's occupancy and returns the annotated result.
func (a *Adapter) ProcessFrame(ctx context.Context, roomID, frameData string, drawBoxes bool) (*types.FrameResult, error) {
	raw, err := base64.StdEncoding.DecodeString(frameData)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64 payload: %v", types.ErrInvalidImage, err)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable frame: %v", types.ErrInvalidImage, err)
	}

	result, err := a.detector.Detect(ctx, raw)
	if err != nil {
		metrics.DetectionFailures.WithLabelValues("model_unavailable").Inc()
		return nil, err
	}

	details := types.DetectionDetails{
		TotalDetections:  len(result.Boxes),
		PersonDetections: []types.BoundingBox{},
		ConfidenceScores: []float64{},
	}
	for _, box := range result.Boxes {
		if box.Label != "" && box.Label != PersonLabel {
			continue
		}
		if box.Confidence < a.th.ConfidenceThreshold {
			continue
		}
		details.PersonDetections = append(details.PersonDetections, box)
		details.ConfidenceScores = append(details.ConfidenceScores, box.Confidence)
	}
	personCount := len(details.PersonDetections)

	previous := a.store.UpdateOccupancy(roomID, personCount)
	room := a.store.Get(roomID)

	a.logger.Info("frame processed",
		zap.String("room_id", roomID),
		zap.String("format", format),
		zap.Int("detections", details.TotalDetections),
		zap.Int("person_count", personCount),
		zap.Int("previous_occupancy", previous))
	metrics.FramesProcessed.Inc()
	metrics.PeopleDetected.Add(float64(personCount))

	out := &types.FrameResult{
		RoomID:         roomID,
		PersonCount:    personCount,
		OccupancyLevel: estimator.OccupancyLevel(room.OccupancyRatio(), a.th),
		Capacity:       room.Capacity,
		Details:        details,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	if drawBoxes {
		out.OutputFrame = annotateFrame(img, details.PersonDetections)
	}
	return out, nil
}
