package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/monolink/pkg/errors"
)

// Job is a deferred reconciliation.
type Job interface {
	// Path identifies the artifact before it is built.
	Path() string
	Run(mode Mode) (Outcome, error)
}

type job[V any] struct {
	path  string
	build func() (*Artifact[V], error)
}

// NewJob returns a job that calls build inside the runner. A build error
// becomes a failed result for path.
func NewJob[V any](path string, build func() (*Artifact[V], error)) Job {
	return &job[V]{path: path, build: build}
}

func (j *job[V]) Path() string { return j.path }

func (j *job[V]) Run(mode Mode) (Outcome, error) {
	a, err := j.build()
	if err != nil {
		return Outcome{}, err
	}
	return Reconcile(a, mode)
}

// Result is the outcome of one job.
type Result struct {
	Path   string
	Status Status
	Detail []string
	Err    error
}

// Run executes jobs with at most workers running at once and returns their
// results sorted by path. Writes must touch disjoint files. Cancelling ctx
// stops jobs that have not started; they are reported as failed.
func Run(ctx context.Context, mode Mode, workers int, jobs []Job) *Report {
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = Result{Path: j.Path()}
			if err := ctx.Err(); err != nil {
				results[i].Status, results[i].Err = Failed, err
				return nil
			}
			out, err := j.Run(mode)
			if err != nil {
				results[i].Status, results[i].Err = Failed, err
				return nil
			}
			results[i].Status, results[i].Detail = out.Status, out.Detail
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(results, func(a, b int) bool { return results[a].Path < results[b].Path })
	return &Report{Mode: mode, Results: results}
}

// Report aggregates the results of a run.
type Report struct {
	Mode    Mode
	Results []Result
}

func (r *Report) filter(s Status) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == s {
			out = append(out, res)
		}
	}
	return out
}

// Unchanged returns results that needed no change.
func (r *Report) Unchanged() []Result { return r.filter(Unchanged) }

// Drifted returns results that are out of date.
func (r *Report) Drifted() []Result { return r.filter(OutOfDate) }

// Written returns results that were written.
func (r *Report) Written() []Result { return r.filter(Written) }

// Failed returns results whose job failed.
func (r *Report) Failed() []Result { return r.filter(Failed) }

// Err returns nil when every artifact is unchanged or written. Failed jobs are
// joined first; drift adds an OUT_OF_DATE error naming every drifted path.
func (r *Report) Err() error {
	var list []error
	for _, res := range r.Failed() {
		list = append(list, fmt.Errorf("%s: %w", res.Path, res.Err))
	}
	if drifted := r.Drifted(); len(drifted) > 0 {
		paths := make([]string, len(drifted))
		for i, res := range drifted {
			paths[i] = res.Path
		}
		list = append(list, errs.New(errs.ErrCodeOutOfDate,
			"%d file(s) out of date: %s", len(drifted), strings.Join(paths, ", ")))
	}
	return errors.Join(list...)
}
