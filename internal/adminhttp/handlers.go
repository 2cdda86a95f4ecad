// Package adminhttp is the thin gin HTTP wrapper around the AdminAdapter,
// the only place gin touches the FTS core: every handler reads whatever
// input it takes from the request (path param, form fields or
// ShouldBindJSON), delegates to the adapter, and shapes the
// response as {success, message} or a gin.H error, with a dedicated
// streaming handler for MJPEG responses.
package adminhttp

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kepler-fts/facetrackd/internal/admin"
	"github.com/kepler-fts/facetrackd/internal/logging"
	"github.com/kepler-fts/facetrackd/internal/models"
)

// Handlers binds gin routes to an AdminAdapter.
type Handlers struct {
	adapter *admin.Adapter
}

func NewHandlers(adapter *admin.Adapter) *Handlers {
	return &Handlers{adapter: adapter}
}

// @Summary Start the FTS controller
// @Success 200 {object} admin.Result
// @Router /fts/start [post]
func (h *Handlers) Start(c *gin.Context) {
	res := h.adapter.Start(c.Request.Context())
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}

// @Summary Stop the FTS controller
// @Success 200 {object} admin.Result
// @Router /fts/stop [post]
func (h *Handlers) Stop(c *gin.Context) {
	res := h.adapter.Stop()
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}

// @Summary Restart the FTS controller
// @Success 200 {object} admin.Result
// @Router /fts/restart [post]
func (h *Handlers) Restart(c *gin.Context) {
	res := h.adapter.Restart(c.Request.Context())
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}

// @Summary Aggregate FTS status
// @Success 200 {object} models.FTSStatus
// @Router /fts/status [get]
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.adapter.Status())
}

// @Summary Run a CameraDiscovery pass
// @Success 200 {array} models.DiscoveredCamera
// @Failure 500 {object} map[string]string
// @Router /fts/discover [post]
func (h *Handlers) Discover(c *gin.Context) {
	cams, err := h.adapter.Discover(c.Request.Context())
	if err != nil {
		logging.Error(c).Err(err).Msg("discovery failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logging.Info(c).Int("count", len(cams)).Msg("discovery completed")
	c.JSON(http.StatusOK, cams)
}

// @Summary Enroll an employee's face
// @Accept multipart/form-data
// @Success 200 {object} admin.Result
// @Failure 400 {object} map[string]string
// @Router /identities [post]
func (h *Handlers) Enroll(c *gin.Context) {
	employeeID := c.PostForm("employee_id")
	displayName := c.PostForm("display_name")
	if employeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id is required"})
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	res := h.adapter.Enroll(c.Request.Context(), employeeID, displayName, imageBytes)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
		logging.Warn(c).Str("employee_id", employeeID).Str("reason", res.Message).Msg("enroll rejected")
	}
	c.JSON(status, res)
}

// @Summary Remove an enrolled identity
// @Success 200 {object} admin.Result
// @Router /identities/{employee_id} [delete]
func (h *Handlers) RemoveIdentity(c *gin.Context) {
	employeeID := c.Param("employee_id")
	c.JSON(http.StatusOK, h.adapter.RemoveIdentity(employeeID))
}

// @Summary Snapshot the current config
// @Success 200 {object} config.Config
// @Router /fts/config [get]
func (h *Handlers) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.adapter.Snapshot())
}

// @Summary Apply a new camera topology/config
// @Accept json
// @Success 200 {object} admin.Result
// @Router /fts/config [put]
func (h *Handlers) ApplyConfig(c *gin.Context) {
	var body struct {
		Cameras []models.CameraDescriptor `json:"cameras"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	next := h.adapter.Snapshot()
	cp := *next
	cp.Cameras = body.Cameras
	res := h.adapter.ApplyConfig(&cp)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}

// @Summary Stream a camera's annotated MJPEG preview
// @Produce multipart/x-mixed-replace
// @Router /cameras/{camera_id}/mjpeg [get]
func (h *Handlers) StreamMJPEG(c *gin.Context) {
	cameraID := c.Param("camera_id")
	frames, unsubscribe, err := h.adapter.SubscribeMJPEG(cameraID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	defer unsubscribe()

	const boundary = "frame"
	c.Writer.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	c.Writer.WriteHeader(http.StatusOK)
	flusher, canFlush := c.Writer.(http.Flusher)

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case jpeg, ok := <-frames:
			if !ok {
				return
			}
			if _, err := c.Writer.Write(partHeader(boundary, len(jpeg))); err != nil {
				return
			}
			if _, err := c.Writer.Write(jpeg); err != nil {
				return
			}
			if _, err := c.Writer.Write([]byte("\r\n")); err != nil {
				return
			}
			if canFlush {
				flusher.Flush()
			}
		}
	}
}

func partHeader(boundary string, length int) []byte {
	return []byte("--" + boundary + "\r\n" +
		"Content-Type: image/jpeg\r\n" +
		"Content-Length: " + strconv.Itoa(length) + "\r\n\r\n")
}
