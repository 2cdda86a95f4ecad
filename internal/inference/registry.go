// Package inference wraps the detector and embedder as a ModelRegistry:
// opaque, pre-trained inference engines loaded once per process and shared
// read-only by every CameraPipeline. Both are accessed over gRPC against an
// out-of-process inference server.
package inference

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/logging"
	"github.com/kepler-fts/facetrackd/internal/models"
	pb "github.com/kepler-fts/facetrackd/proto/inferencepb"
)

// Registry loads the detector and embedder clients once and hands out
// shared, pool-bounded access to every pipeline.
type Registry struct {
	log zerolog.Logger

	detectorAddr string
	embedderAddr string
	timeout      time.Duration

	mu       sync.Mutex
	detConn  *grpc.ClientConn
	detector pb.DetectionServiceClient
	embConn  *grpc.ClientConn
	embedder pb.EmbeddingServiceClient

	sem chan struct{} // bounds concurrent inference calls to pool size
}

// NewRegistry dials both endpoints lazily; the first call to Detect/Embed
// connects if not already connected, and reconnects transparently if the
// connection was lost.
func NewRegistry(cfg *config.Config) *Registry {
	poolSize := cfg.InferencePoolSize
	if poolSize <= 0 {
		poolSize = 1
	}
	return &Registry{
		log:          logging.NewComponentLogger("inference"),
		detectorAddr: cfg.GRPCDetectorAddr,
		embedderAddr: cfg.GRPCEmbedderAddr,
		timeout:      cfg.InferenceTimeout,
		sem:          make(chan struct{}, poolSize),
	}
}

func (r *Registry) ensureDetector() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detector != nil {
		return nil
	}
	conn, err := grpc.NewClient(r.detectorAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("%w: %v", ftserrors.ErrModelLoad, err)
	}
	r.detConn = conn
	r.detector = pb.NewDetectionServiceClient(conn)
	r.log.Info().Str("addr", r.detectorAddr).Msg("connected to detection service")
	return nil
}

func (r *Registry) ensureEmbedder() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.embedder != nil {
		return nil
	}
	conn, err := grpc.NewClient(r.embedderAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("%w: %v", ftserrors.ErrModelLoad, err)
	}
	r.embConn = conn
	r.embedder = pb.NewEmbeddingServiceClient(conn)
	r.log.Info().Str("addr", r.embedderAddr).Msg("connected to embedding service")
	return nil
}

// Detect runs the face detector on one JPEG-encoded frame.
func (r *Registry) Detect(ctx context.Context, cameraID string, jpeg []byte) ([]models.BoundingBox, []float32, error) {
	if err := r.ensureDetector(); err != nil {
		return nil, nil, err
	}
	r.sem <- struct{}{}
	defer func() { <-r.sem }()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.detector.Detect(ctx, &pb.DetectRequest{JpegFrame: jpeg, CameraId: cameraID})
	if err != nil {
		return nil, nil, err
	}
	boxes := make([]models.BoundingBox, 0, len(resp.Faces))
	confs := make([]float32, 0, len(resp.Faces))
	for _, f := range resp.Faces {
		boxes = append(boxes, models.BoundingBox{X1: f.X1, Y1: f.Y1, X2: f.X2, Y2: f.Y2})
		confs = append(confs, f.Confidence)
	}
	return boxes, confs, nil
}

// Embed extracts one D-dimensional embedding per face passed in, same order.
func (r *Registry) Embed(ctx context.Context, jpeg []byte, faces []models.BoundingBox) ([][]float32, error) {
	if len(faces) == 0 {
		return nil, nil
	}
	if err := r.ensureEmbedder(); err != nil {
		return nil, err
	}
	r.sem <- struct{}{}
	defer func() { <-r.sem }()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pbFaces := make([]*pb.Face, 0, len(faces))
	for _, b := range faces {
		pbFaces = append(pbFaces, &pb.Face{X1: b.X1, Y1: b.Y1, X2: b.X2, Y2: b.Y2})
	}
	resp, err := r.embedder.Embed(ctx, &pb.EmbedRequest{JpegFrame: jpeg, Faces: pbFaces})
	if err != nil {
		return nil, err
	}
	out := make([][]float32, 0, len(resp.Embeddings))
	for _, v := range resp.Embeddings {
		out = append(out, v.Values)
	}
	return out, nil
}

// Close releases both gRPC connections.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detConn != nil {
		r.detConn.Close()
	}
	if r.embConn != nil {
		r.embConn.Close()
	}
}
