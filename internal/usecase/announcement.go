package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/hoopstats/internal/domain/milestone"
	"github.com/riskibarqy/hoopstats/internal/domain/records"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

type AnnouncementKind string

const (
	AnnouncementMilestone AnnouncementKind = "milestone"
	AnnouncementRecord    AnnouncementKind = "record"
	AnnouncementLeaders   AnnouncementKind = "leaders"
)

// Announcement is one chat-ready message plus the structured data it was
// rendered from.
type Announcement struct {
	Kind    AnnouncementKind `json:"kind"`
	CycleID string           `json:"cycle_id,omitempty"`
	Text    string           `json:"text"`
	Payload any              `json:"payload,omitempty"`
}

// Notifier delivers announcements to whatever sits downstream.
type Notifier interface {
	Notify(ctx context.Context, announcements []Announcement) error
}

var statEmoji = map[stats.Stat]string{
	stats.StatPoints:     "🏀",
	stats.StatAssists:    "🎯",
	stats.StatRebounds:   "📊",
	stats.StatSteals:     "🦹",
	stats.StatBlocks:     "🛡️",
	stats.StatThreesMade: "🎯",
}

func emojiFor(stat stats.Stat) string {
	if emoji, ok := statEmoji[stat]; ok {
		return emoji
	}
	return "🏆"
}

// RenderMilestone formats n as
// "{emoji} **Milestone Unlocked**: {player} reached {threshold} {Stat} (Total: {total})".
func RenderMilestone(n milestone.Notification) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(emojiFor(n.Stat))
	_, _ = buf.WriteString(" **Milestone Unlocked**: ")
	_, _ = buf.WriteString(n.Player)
	_, _ = buf.WriteString(" reached ")
	_, _ = buf.WriteString(groupThousands(int64(n.Threshold)))
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(n.Stat.DisplayName())
	_, _ = buf.WriteString(" (Total: ")
	_, _ = buf.WriteString(strconv.FormatFloat(n.Total, 'f', 1, 64))
	_, _ = buf.WriteString(")")
	return buf.String()
}

// RenderRecord formats a newly set single-game record.
func RenderRecord(record records.Record) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("🏆 **New Record**: ")
	_, _ = buf.WriteString(record.Holder)
	_, _ = buf.WriteString(" set the single-game ")
	_, _ = buf.WriteString(record.Stat.DisplayName())
	_, _ = buf.WriteString(" record with ")
	_, _ = buf.WriteString(formatStatValue(record.Stat, record.Value))
	if record.Game != "" {
		_, _ = buf.WriteString(" in ")
		_, _ = buf.WriteString(record.Game)
	}
	if record.Date != "" {
		_, _ = buf.WriteString(" on ")
		_, _ = buf.WriteString(record.Date)
	}
	return buf.String()
}

// RenderLeaders lists the top entry of every count statistic, one per line.
func RenderLeaders(leaders stats.Leaders) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("📈 **Season Leaders Updated**")
	for _, stat := range stats.CountStats {
		entries := leaders[stat]
		if len(entries) == 0 {
			continue
		}
		_ = buf.WriteByte('\n')
		_, _ = buf.WriteString(emojiFor(stat))
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(stat.DisplayName())
		_, _ = buf.WriteString(": ")
		_, _ = buf.WriteString(entries[0].Name)
		_, _ = buf.WriteString(" (")
		_, _ = buf.WriteString(strconv.FormatFloat(entries[0].Value, 'f', 1, 64))
		_, _ = buf.WriteString(")")
	}
	return buf.String()
}

func formatStatValue(stat stats.Stat, value float64) string {
	for _, percent := range stats.PercentStats {
		if stat == percent {
			return strconv.FormatFloat(value, 'f', 1, 64) + "%"
		}
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// groupThousands renders v with comma separators, e.g. 1500 -> "1,500".
func groupThousands(v int64) string {
	digits := strconv.FormatInt(v, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	b.WriteString(sign)
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func milestoneAnnouncements(cycleID string, notes []milestone.Notification) []Announcement {
	out := make([]Announcement, 0, len(notes))
	for _, n := range notes {
		out = append(out, Announcement{Kind: AnnouncementMilestone, CycleID: cycleID, Text: RenderMilestone(n), Payload: n})
	}
	return out
}
