package cli

import (
	"errors"
	"io"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/reconcile"
)

// printReport prints every changed, drifted or failed artifact followed by a
// summary line.
func printReport(w io.Writer, r *reconcile.Report) {
	for _, res := range r.Results {
		switch res.Status {
		case reconcile.OutOfDate:
			printWarning(w, "%s is out of date", res.Path)
			for _, line := range res.Detail {
				printDetail(w, "%s", line)
			}
		case reconcile.Written:
			printFile(w, res.Path)
			for _, line := range res.Detail {
				printDetail(w, "%s", line)
			}
		case reconcile.Failed:
			printError(w, "%s: %s", res.Path, errorMessage(res.Err))
		}
	}

	drifted, written, failed := len(r.Drifted()), len(r.Written()), len(r.Failed())
	switch {
	case failed > 0:
		printError(w, "%d of %d files failed", failed, len(r.Results))
	case drifted > 0:
		printWarning(w, "%d of %d files out of date, run with --write to update", drifted, len(r.Results))
	case written > 0:
		printSuccess(w, "Updated %d of %d files", written, len(r.Results))
	default:
		printSuccess(w, "All %d files up to date", len(r.Unchanged()))
	}
}

// errorMessage drops the code prefix of err but keeps its cause.
func errorMessage(err error) string {
	msg := errs.UserMessage(err)
	var e *errs.Error
	if errors.As(err, &e) && e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}
