package notify

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hoopstats/internal/usecase"
)

// Fanout delivers to every notifier and combines their errors. One failing
// sink does not stop the others.
type Fanout []usecase.Notifier

func (f Fanout) Notify(ctx context.Context, announcements []usecase.Announcement) error {
	var combined error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, announcements); err != nil {
			combined = crerr.CombineErrors(combined, err)
		}
	}
	return combined
}
