package onebot

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/misakino/cm-bridge/internal/config"
	"github.com/misakino/cm-bridge/internal/core/domain"
)

// GroupSink delivers rendered search results into one group
// conversation. Depending on configuration the thumbnail travels
// in-band as base64:// or through a short-lived temp file that is
// removed on every exit path.
type GroupSink struct {
	bot     BotTransport
	groupID int64
	mode    string
	tempDir string
}

func NewGroupSink(bot BotTransport, groupID int64, mode, tempDir string) *GroupSink {
	return &GroupSink{
		bot:     bot,
		groupID: groupID,
		mode:    mode,
		tempDir: tempDir,
	}
}

func (s *GroupSink) SendResult(ctx context.Context, result domain.RenderedResult) error {
	segments := []Segment{TextSegment(result.Text)}
	if result.Image == nil {
		return s.bot.SendGroupMessage(ctx, s.groupID, segments)
	}

	if s.mode == config.ThumbnailModeTempFile {
		path, err := writeTempImage(s.tempDir, result.Image)
		if err != nil {
			return err
		}
		defer os.Remove(path)
		segments = append(segments, ImageSegment("file://"+path))
		return s.bot.SendGroupMessage(ctx, s.groupID, segments)
	}

	encoded := base64.StdEncoding.EncodeToString(result.Image)
	segments = append(segments, ImageSegment("base64://"+encoded))
	return s.bot.SendGroupMessage(ctx, s.groupID, segments)
}

func (s *GroupSink) SendText(ctx context.Context, text string) error {
	return s.bot.SendGroupMessage(ctx, s.groupID, []Segment{TextSegment(text)})
}

func writeTempImage(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "cm-thumb-*.img")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp image: %w", err)
	}
	return path, nil
}
