package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/kepler-fts/facetrackd/internal/models"
)

// Config is the flat, env-driven settings struct shared by every component.
// ConfigSource.Snapshot returns a copy of the current Config; ApplyConfig
// diffs two snapshots to decide which CameraPipelines to restart.
type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	LogLevel    string

	// Logdy (lightweight live log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// NATS (AttendanceEvent notifications)
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	NatsDrainTimeout   time.Duration

	// Admin adapter
	AdminHTTPPort int
	SwaggerHost   string

	// gRPC inference endpoints (ModelRegistry)
	GRPCDetectorAddr string
	GRPCEmbedderAddr string
	InferenceTimeout time.Duration
	InferencePoolSize int

	// Discovery
	DiscoverDevicesMax int           // local device indices 0..K-1
	DiscoverSubnet     string        // CIDR; "" means derive from primary interface
	DiscoverPorts      []int         // default {80,554,8080,8554}
	DiscoverFanout     int           // bounded concurrent TCP probes
	DiscoverProbeTimeout time.Duration

	// Capture
	RTSPTimeout         time.Duration
	ReconnectBackoffMin time.Duration
	ReconnectBackoffMax time.Duration
	ReconnectJitterPct  int
	CaptureFPS          int
	CaptureFailConsecutive int // N_fail consecutive frame-read failures before Degraded
	FailThresholdPerMin    int // pipeline.fail_threshold_per_minute, detector/embedder error ceiling

	// Detect/Identify/Track thresholds
	DetectThreshold  float32 // τ_detect
	IdentifyThreshold float32 // τ_identify
	ReidMargin       float32 // τ_reid = τ_identify + margin
	IoUThreshold     float32 // τ_iou
	TrackExpireFrames int    // N_expire

	// AttendanceRecorder
	DebounceWindow      time.Duration // W
	AttendanceDBPath    string
	AttendanceSpillPath string
	StoreRetryCeiling   time.Duration
	IdentityIndexPath   string

	// MJPEG
	MJPEGPlaceholderHz     int
	MJPEGSubscriberBuffer  int

	// Lifecycle
	ShutdownDeadline  time.Duration
	PanicRestartDelay time.Duration

	// CamerasPath points at the JSON sidecar file holding the camera
	// topology (the admin-owned []CameraDescriptor); FTSController diffs
	// successive snapshots' Cameras to decide which pipelines to touch.
	CamerasPath string
	Cameras     []models.CameraDescriptor
}

// Load reads .env (if present) and environment variables into a Config,
// applying documented defaults for every unset field.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file found, using environment variables and defaults")
	} else {
		log.Info().Msg("loaded configuration from .env file")
	}

	camerasPath := getEnv("CAMERAS_CONFIG_PATH", "./data/cameras.json")

	return &Config{
		CamerasPath: camerasPath,
		Cameras:     loadCameras(camerasPath),

		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "fts-1"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		LogdyEnabled: getEnvBool("LOGDY_ENABLED", true),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1),
		NatsDrainTimeout:   getEnvDuration("NATS_DRAIN_TIMEOUT", 5*time.Second),

		AdminHTTPPort: getEnvInt("ADMIN_HTTP_PORT", 8000),
		SwaggerHost:   getEnv("SWAGGER_HOST", "localhost"),

		GRPCDetectorAddr:  getEnv("GRPC_DETECTOR_ADDR", "localhost:50051"),
		GRPCEmbedderAddr:  getEnv("GRPC_EMBEDDER_ADDR", "localhost:50052"),
		InferenceTimeout:  getEnvDuration("INFERENCE_TIMEOUT", 5*time.Second),
		InferencePoolSize: getEnvInt("INFERENCE_POOL_SIZE", 4),

		DiscoverDevicesMax:   getEnvInt("DISCOVER_DEVICES_MAX", 10),
		DiscoverSubnet:       getEnv("DISCOVER_SUBNET", ""),
		DiscoverPorts:        getEnvIntList("DISCOVER_PORTS", []int{80, 554, 8080, 8554}),
		DiscoverFanout:       getEnvInt("DISCOVER_FANOUT", 50),
		DiscoverProbeTimeout: getEnvDuration("DISCOVER_PROBE_TIMEOUT", 500*time.Millisecond),

		RTSPTimeout:         getEnvDuration("RTSP_TIMEOUT", 10*time.Second),
		ReconnectBackoffMin: getEnvDuration("RECONNECT_BACKOFF_MIN", 1*time.Second),
		ReconnectBackoffMax: getEnvDuration("RECONNECT_BACKOFF_MAX", 30*time.Second),
		ReconnectJitterPct:  getEnvInt("RECONNECT_JITTER_PCT", 20),
		CaptureFPS:             getEnvInt("CAPTURE_FPS", 15),
		CaptureFailConsecutive: getEnvInt("CAPTURE_FAIL_CONSECUTIVE", 30),
		FailThresholdPerMin:    getEnvInt("PIPELINE_FAIL_THRESHOLD_PER_MINUTE", 60),

		DetectThreshold:   float32(getEnvFloat("DETECT_THRESHOLD", 0.5)),
		IdentifyThreshold: float32(getEnvFloat("IDENTIFY_THRESHOLD", 0.6)),
		ReidMargin:        float32(getEnvFloat("IDENTIFY_REID_MARGIN", 0.15)),
		IoUThreshold:      float32(getEnvFloat("TRACK_IOU_THRESHOLD", 0.3)),
		TrackExpireFrames: getEnvInt("TRACK_EXPIRE_FRAMES", 30),

		DebounceWindow:      getEnvDuration("RECORDER_DEBOUNCE_WINDOW", 300*time.Second),
		AttendanceDBPath:    getEnv("ATTENDANCE_DB_PATH", "./data/attendance.db"),
		AttendanceSpillPath: getEnv("ATTENDANCE_SPILL_PATH", "./data/attendance_spill.ndjson"),
		StoreRetryCeiling:   getEnvDuration("STORE_RETRY_CEILING", 1*time.Minute),
		IdentityIndexPath:   getEnv("IDENTITY_INDEX_PATH", "./data/identity_index.bin"),

		MJPEGPlaceholderHz:    getEnvInt("MJPEG_PLACEHOLDER_HZ", 1),
		MJPEGSubscriberBuffer: getEnvInt("MJPEG_SUBSCRIBER_BUFFER", 1),

		ShutdownDeadline:  time.Duration(getEnvInt("SHUTDOWN_DEADLINE_SECONDS", 10)) * time.Second,
		PanicRestartDelay: getEnvDuration("PANIC_RESTART_DELAY", 2*time.Second),
	}
}

// Validate fails at load if a field required for the core to run is missing.
func (c *Config) Validate() error {
	if c.GRPCDetectorAddr == "" {
		return fieldErr("grpc_detector_addr")
	}
	if c.GRPCEmbedderAddr == "" {
		return fieldErr("grpc_embedder_addr")
	}
	if c.IdentityIndexPath == "" {
		return fieldErr("identity_index_path")
	}
	return nil
}

// loadCameras reads the camera topology sidecar file. A missing file is not
// an error: a fresh deployment starts with zero cameras and adds them via
// the admin adapter, which rewrites this file.
func loadCameras(path string) []models.CameraDescriptor {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("config: could not read cameras file")
		}
		return nil
	}
	var cams []models.CameraDescriptor
	if err := json.Unmarshal(data, &cams); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config: malformed cameras file, ignoring")
		return nil
	}
	return cams
}

// SaveCameras persists descriptors to path as the new camera topology
// sidecar, called by the admin adapter before it applies the new config to
// the controller.
func SaveCameras(path string, cams []models.CameraDescriptor) error {
	data, err := json.MarshalIndent(cams, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvIntList(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	start := 0
	for i := 0; i <= len(value); i++ {
		if i == len(value) || value[i] == ',' {
			if i > start {
				if parsed, err := strconv.Atoi(value[start:i]); err == nil {
					out = append(out, parsed)
				}
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
