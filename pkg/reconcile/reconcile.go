package reconcile

import (
	"fmt"

	errs "github.com/matzehuels/monolink/pkg/errors"
)

// Mode selects between reporting and writing.
type Mode int

const (
	// Lint reports drift without writing.
	Lint Mode = iota
	// Modify writes the desired value of every drifted artifact.
	Modify
)

func (m Mode) String() string {
	switch m {
	case Lint:
		return "lint"
	case Modify:
		return "modify"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Status is the outcome of reconciling one artifact.
type Status int

const (
	Unchanged Status = iota
	OutOfDate
	Written
	Failed
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case OutOfDate:
		return "out of date"
	case Written:
		return "written"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Artifact is one desired/current pair.
type Artifact[V any] struct {
	// Path identifies the artifact, relative to the monorepo root.
	Path    string
	Desired V
	Current V

	// Equal reports whether two values are the same. Required.
	Equal func(a, b V) bool
	// Write persists the desired value. Required in Modify mode.
	Write func(desired V) error
	// Describe returns human readable detail lines for drift. Optional.
	Describe func(desired, current V) []string
}

// Outcome is the result of reconciling an artifact.
type Outcome struct {
	Status Status
	Detail []string
}

// Reconcile decides and, in Modify mode, applies the change for a.
func Reconcile[V any](a *Artifact[V], mode Mode) (Outcome, error) {
	if a.Equal(a.Desired, a.Current) {
		return Outcome{Status: Unchanged}, nil
	}

	var detail []string
	if a.Describe != nil {
		detail = a.Describe(a.Desired, a.Current)
	}

	switch mode {
	case Lint:
		return Outcome{Status: OutOfDate, Detail: detail}, nil
	case Modify:
		if a.Write == nil {
			return Outcome{}, errs.New(errs.ErrCodeInternal, "%s: artifact is not writable", a.Path)
		}
		if err := a.Write(a.Desired); err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: Written, Detail: detail}, nil
	default:
		return Outcome{}, errs.New(errs.ErrCodeInternal, "unknown mode %v", mode)
	}
}
