package usecase

import (
	"strconv"
	"strings"

	"github.com/misakino/cm-bridge/internal/core/domain"
)

// confirmTrigger is the short text a user replies with to select a
// search result.
const confirmTrigger = "s"

// ConfirmUseCase correlates a reply with a previously rendered search
// result. The only state involved is the chat transcript itself: the
// referenced message text, re-delivered by the host transport, carries
// everything needed to resume ingestion.
type ConfirmUseCase struct{}

func NewConfirmUseCase() *ConfirmUseCase { return &ConfirmUseCase{} }

// ResumeID recognizes a confirmation reply and extracts the external id
// to resume ingestion for. Unrelated replies are extremely common, so
// every mismatch is a cheap silent no-op.
func (*ConfirmUseCase) ResumeID(event domain.ReplyEvent) (domain.ExternalID, bool) {
	if len(event.Segments) != 3 {
		return 0, false
	}

	var referenced string
	var trigger strings.Builder
	replySeen := false
	for _, segment := range event.Segments {
		switch segment.Kind {
		case domain.SegmentReply:
			if replySeen {
				return 0, false
			}
			replySeen = true
			referenced = segment.Text
		case domain.SegmentText:
			trigger.WriteString(segment.Text)
		}
	}
	if !replySeen {
		return 0, false
	}
	if !strings.HasPrefix(referenced, domain.ResultMarker) {
		return 0, false
	}
	if strings.ReplaceAll(trigger.String(), " ", "") != confirmTrigger {
		return 0, false
	}

	lines := strings.Split(referenced, "\n")
	if len(lines) < 2 {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(lines[1]), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return domain.ExternalID(n), true
}
