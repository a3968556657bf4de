// Package metrics exposes frame loop and GPU pass activity as prometheus
// collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
)

const namespace = "floor"

// Collector implements gpu.Observer and records frame timing. A nil
// *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Frames          prometheus.Counter
	ClampedFrames   prometheus.Counter
	FrameDelta      prometheus.Histogram
	UniformPushes   *prometheus.CounterVec
	Uploads         *prometheus.CounterVec
	Draws           *prometheus.CounterVec
	DrawnIndices    *prometheus.CounterVec
	MeshRebuilds    *prometheus.CounterVec
	MeshVertexFloat *prometheus.GaugeVec
	MeshIndices     *prometheus.GaugeVec
}

// New creates a collector registered on its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames rendered",
		}),
		ClampedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_clamped_total",
			Help:      "Frames whose delta hit the clamp",
		}),
		FrameDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_delta_seconds",
			Help:      "Clamped per-frame delta",
			Buckets:   []float64{0.004, 0.008, 0.016, 0.033, 0.05, 0.1, 0.15},
		}),
		UniformPushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uniform_pushes_total",
			Help:      "Uniform uploads by pass and uniform name",
		}, []string{"pass", "uniform"}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buffer_uploads_total",
			Help:      "Vertex/index buffer re-uploads by pass",
		}, []string{"pass"}),
		Draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Draw calls by pass and primitive",
		}, []string{"pass", "mode"}),
		DrawnIndices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drawn_indices_total",
			Help:      "Indices submitted to draw calls by pass",
		}, []string{"pass"}),
		MeshRebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_rebuilds_total",
			Help:      "Geometry rebuilds by pass",
		}, []string{"pass"}),
		MeshVertexFloat: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mesh_vertex_floats",
			Help:      "Floats in the current vertex buffer by pass",
		}, []string{"pass"}),
		MeshIndices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mesh_indices",
			Help:      "Indices in the current index buffer by pass",
		}, []string{"pass"}),
	}

	c.registry.MustRegister(
		c.Frames,
		c.ClampedFrames,
		c.FrameDelta,
		c.UniformPushes,
		c.Uploads,
		c.Draws,
		c.DrawnIndices,
		c.MeshRebuilds,
		c.MeshVertexFloat,
		c.MeshIndices,
	)
	return c
}

// Registry returns the registry the collectors live on.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// FrameObserved records one frame's delta in seconds.
func (c *Collector) FrameObserved(delta float64, clamped bool) {
	if c == nil {
		return
	}
	c.Frames.Inc()
	c.FrameDelta.Observe(delta)
	if clamped {
		c.ClampedFrames.Inc()
	}
}

func (c *Collector) UniformPushed(pass, uniform string) {
	if c == nil {
		return
	}
	c.UniformPushes.WithLabelValues(pass, uniform).Inc()
}

func (c *Collector) BuffersUploaded(pass string, vertexFloats, indices int) {
	if c == nil {
		return
	}
	c.Uploads.WithLabelValues(pass).Inc()
}

func (c *Collector) DrawIssued(pass string, mode gpu.DrawMode, count int) {
	if c == nil {
		return
	}
	c.Draws.WithLabelValues(pass, mode.String()).Inc()
	c.DrawnIndices.WithLabelValues(pass).Add(float64(count))
}

func (c *Collector) MeshRebuilt(pass string, vertexFloats, indices int) {
	if c == nil {
		return
	}
	c.MeshRebuilds.WithLabelValues(pass).Inc()
	c.MeshVertexFloat.WithLabelValues(pass).Set(float64(vertexFloats))
	c.MeshIndices.WithLabelValues(pass).Set(float64(indices))
}

var _ gpu.Observer = (*Collector)(nil)
