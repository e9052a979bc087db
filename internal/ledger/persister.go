package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/jobs"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/kv"
)

// persister applies snapshot jobs to the key-value store. Jobs older than
// the last applied version are skipped so a late retry never overwrites a
// newer snapshot.
type persister struct {
	kv  kv.Store
	log zerolog.Logger

	mu      sync.Mutex
	applied uint64
}

func (p *persister) handle(ctx context.Context, job jobs.Job) error {
	snap, ok := job.(*jobs.SnapshotJob)
	if !ok {
		return fmt.Errorf("unexpected job type: %T", job)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if snap.Version < p.applied {
		snap.Status = jobs.JobStatusSuperseded
		p.log.Debug().Uint64("version", snap.Version).Uint64("applied", p.applied).Msg("Skipping superseded snapshot write")
		return nil
	}

	var err error
	switch snap.Type {
	case jobs.JobTypeSaveSnapshot:
		err = p.kv.Put(ctx, snap.Key, snap.Payload)
	case jobs.JobTypeDeleteSnapshot:
		err = p.kv.Delete(ctx, snap.Key)
	default:
		return fmt.Errorf("unknown snapshot job type %q", snap.Type)
	}
	if err != nil {
		p.log.Error().
			Err(err).
			Str("job_id", snap.JobID).
			Uint64("version", snap.Version).
			Int("retry", snap.RetryCount).
			Msg("Snapshot write failed")
		return err
	}

	p.applied = snap.Version
	p.log.Debug().Str("job_id", snap.JobID).Uint64("version", snap.Version).Str("type", string(snap.Type)).Msg("Snapshot written")
	return nil
}
