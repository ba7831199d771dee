// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/depot/internal/core/ports"
)

// Recorder implements ports.Telemetry on a progrock tape. Each recorded phase
// becomes a vertex whose digest is derived from its name and its parent vertex.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() ports.Telemetry {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex. A vertex already present in ctx becomes
// part of the new vertex's identity, so the same phase under different parents
// is recorded separately.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	id := name
	if parent, ok := ports.VertexFromContext(ctx); ok {
		if pv, ok := parent.(*Vertex); ok {
			id = pv.id.String() + "/" + name
		}
	}

	d := digest.FromString(id)
	vertex := &Vertex{id: d, vertex: r.rec.Vertex(d, name)}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
