package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/saludtech/profiling-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes profile recomputation jobs to a fixed set of workers
// using consistent hashing on the patient id, guaranteeing per-patient
// ordering when a record is enqueued more than once.
type Dispatcher struct {
	workers []chan string
	service ports.PatientService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.PatientService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a patient id to the worker responsible for it.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(patientID string) {
	d.workers[d.shardIndex(patientID)] <- patientID
}

// EnqueueBatch enqueues multiple patient ids preserving per-patient ordering.
func (d *Dispatcher) EnqueueBatch(patientIDs []string) {
	for _, id := range patientIDs {
		d.Enqueue(id)
	}
}

// shardIndex maps a patient id deterministically to a worker index.
func (d *Dispatcher) shardIndex(patientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(patientID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case patientID, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.RecomputeProfile(ctx, patientID); err != nil {
				d.log.Error().Err(err).
					Str("patient_id", patientID).
					Int("worker_id", id).
					Msg("profile recomputation failed")
			}
		}
	}
}
