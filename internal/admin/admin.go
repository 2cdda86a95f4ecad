// Package admin implements the AdminAdapter: the narrow interface
// FTSController exposes to the HTTP layer. It owns no state of its own
// beyond a reference to the Controller, through which it reaches the
// ModelRegistry/Index it needs for Enroll; every lifecycle and status operation is a thin
// pass-through, one adapter method per admin action.
package admin

import (
	"context"
	"fmt"

	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/controller"
	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/models"
)

// Result is the {success, message} shape returned by Start/Stop/Restart/
// Enroll/RemoveIdentity.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Adapter is the AdminAdapter implementation.
type Adapter struct {
	ctrl *controller.Controller
}

func New(ctrl *controller.Controller) *Adapter {
	return &Adapter{ctrl: ctrl}
}

func (a *Adapter) Start(ctx context.Context) Result {
	if err := a.ctrl.Start(ctx); err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: "FTS controller started"}
}

func (a *Adapter) Stop() Result {
	if err := a.ctrl.Stop(); err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: "FTS controller stopped"}
}

func (a *Adapter) Restart(ctx context.Context) Result {
	if err := a.ctrl.Restart(ctx); err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: "FTS controller restarted"}
}

func (a *Adapter) Status() models.FTSStatus {
	return a.ctrl.Status()
}

func (a *Adapter) Discover(ctx context.Context) ([]models.DiscoveredCamera, error) {
	return a.ctrl.Discover(ctx)
}

// Enroll extracts an embedding from imageBytes (a JPEG) and adds it to the
// IdentityIndex under employeeID. Fails with ErrNoFace if no face detected,
// ErrMultipleFaces if more than one, ErrDuplicate if employeeID is already
// enrolled.
func (a *Adapter) Enroll(ctx context.Context, employeeID, displayName string, imageBytes []byte) Result {
	index := a.ctrl.Index()
	registry := a.ctrl.Registry()
	if index == nil || registry == nil {
		return Result{Success: false, Message: ftserrors.ErrNotRunning.Error()}
	}

	if _, ok := index.Get(employeeID); ok {
		return Result{Success: false, Message: ftserrors.ErrDuplicate.Error()}
	}

	boxes, confs, err := registry.Detect(ctx, "enroll", imageBytes)
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("detect: %v", err)}
	}
	if len(boxes) == 0 {
		return Result{Success: false, Message: ftserrors.ErrNoFace.Error()}
	}
	if len(boxes) > 1 {
		return Result{Success: false, Message: ftserrors.ErrMultipleFaces.Error()}
	}
	_ = confs

	embeddings, err := registry.Embed(ctx, imageBytes, boxes)
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("embed: %v", err)}
	}
	if len(embeddings) != 1 {
		return Result{Success: false, Message: "enroll: embedder returned unexpected face count"}
	}

	if err := index.Add(employeeID, displayName, embeddings[0]); err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: fmt.Sprintf("enrolled %s", employeeID)}
}

func (a *Adapter) RemoveIdentity(employeeID string) Result {
	index := a.ctrl.Index()
	if index == nil {
		return Result{Success: false, Message: ftserrors.ErrNotRunning.Error()}
	}
	index.Remove(employeeID)
	return Result{Success: true, Message: fmt.Sprintf("removed %s", employeeID)}
}

func (a *Adapter) Snapshot() *config.Config {
	return a.ctrl.Snapshot()
}

// ApplyConfig persists the new camera topology to the sidecar file and
// applies it to the running controller.
func (a *Adapter) ApplyConfig(next *config.Config) Result {
	if err := config.SaveCameras(next.CamerasPath, next.Cameras); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("persist cameras: %v", err)}
	}
	if err := a.ctrl.ApplyConfig(next); err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: "config applied"}
}

// SubscribeMJPEG exposes one camera's MJPEGPublisher subscription. The
// returned unsubscribe func must be called when the caller stops reading.
func (a *Adapter) SubscribeMJPEG(cameraID string) (<-chan []byte, func(), error) {
	p, ok := a.ctrl.PipelineFor(cameraID)
	if !ok {
		return nil, nil, fmt.Errorf("admin: camera %q not running", cameraID)
	}
	ch, unsub := p.Subscribe()
	return ch, unsub, nil
}
