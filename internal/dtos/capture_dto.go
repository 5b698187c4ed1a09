package dtos

import (
	"time"

	"github.com/justsurfingit/job-portal/internal/capture"
)

// FrameRequest is one client-side detector result. Frame is the current
// video frame as a JPEG data URL or plain base64; it may be omitted when
// unchanged. Error reports that the client lost its camera or model.
type FrameRequest struct {
	Hands []capture.Hand `json:"hands"`
	Frame string         `json:"frame"`
	Error string         `json:"error"`
}

type CaptureSessionResponse struct {
	ID                 string        `json:"id"`
	Phase              capture.Phase `json:"phase"`
	PoseIndex          int           `json:"pose_index"`
	RequiredFingers    int           `json:"required_fingers"`
	ConfirmedPoses     int           `json:"confirmed_poses"`
	TotalPoses         int           `json:"total_poses"`
	HeldSince          *time.Time    `json:"held_since,omitempty"`
	CountdownRemaining *int          `json:"countdown_remaining,omitempty"`
	PhotoURL           string        `json:"photo_url,omitempty"`
	Error              string        `json:"error,omitempty"`
}
