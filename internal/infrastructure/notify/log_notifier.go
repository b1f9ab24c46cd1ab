package notify

import (
	"context"
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/hoopstats/internal/platform/logging"
	"github.com/riskibarqy/hoopstats/internal/usecase"
)

// LogNotifier logs every announcement and, when out is set, writes the chat
// text to it separated by blank lines.
type LogNotifier struct {
	out    io.Writer
	logger *logging.Logger
}

func NewLogNotifier(out io.Writer, logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{out: out, logger: logger.Named("notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, announcements []usecase.Announcement) error {
	if len(announcements) == 0 {
		return nil
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, a := range announcements {
		n.logger.InfoContext(ctx, "announcement", "kind", a.Kind, "cycle_id", a.CycleID, "text", a.Text)
		if i > 0 {
			_, _ = buf.WriteString("\n")
		}
		_, _ = buf.WriteString(a.Text)
		_, _ = buf.WriteString("\n")
	}

	if n.out == nil {
		return nil
	}
	_, err := n.out.Write(buf.B)
	return err
}
