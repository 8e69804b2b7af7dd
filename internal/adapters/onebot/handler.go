package onebot

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/misakino/cm-bridge/internal/config"
	"github.com/misakino/cm-bridge/internal/core/domain"
	"github.com/misakino/cm-bridge/internal/core/ports"
)

const (
	commandName = "cm"

	inactiveMessage = "cm integration is not active, check the logs for the reason"
	usageMessage    = "usage: cm <id | gallery url | search text>"
	badInputMessage = "that is neither an id nor a recognized gallery url"
	transportFailed = "request to the backend failed, try again later"
)

// BotTransport is the part of the bot runtime the handler talks to;
// *Client satisfies it.
type BotTransport interface {
	SendGroupMessage(ctx context.Context, groupID int64, segments []Segment) error
	GetMessageText(ctx context.Context, messageID string) (string, error)
}

// CommandRecorder counts handled commands; nil disables it.
type CommandRecorder interface {
	ObserveCommand(command string, err error)
}

// Handler dispatches inbound group events into the ingestion, search and
// confirmation workflows.
type Handler struct {
	cfg      config.Config
	bot      BotTransport
	logger   *slog.Logger
	recorder CommandRecorder

	ingest   ports.ComicIngestor
	search   ports.ComicSearcher
	resolver ports.ReplyResolver

	active bool
}

func NewHandler(
	cfg config.Config,
	bot BotTransport,
	ingest ports.ComicIngestor,
	search ports.ComicSearcher,
	resolver ports.ReplyResolver,
	logger *slog.Logger,
	recorder CommandRecorder,
	active bool,
) *Handler {
	return &Handler{
		cfg:      cfg,
		bot:      bot,
		logger:   logger,
		recorder: recorder,
		ingest:   ingest,
		search:   search,
		resolver: resolver,
		active:   active,
	}
}

// AllowGroup reports whether a group may use the integration. A pure
// function of configuration: when the filter is disabled every group
// passes.
func AllowGroup(cfg config.Config, groupID int64) bool {
	if !cfg.EnableGroupFilter {
		return true
	}
	return slices.Contains(cfg.FilterGroups, groupID)
}

// IsAdmin reports whether the user may drive the catalog. Only users on
// the configured admin list qualify.
func IsAdmin(cfg config.Config, userID int64) bool {
	return slices.Contains(cfg.Admins, userID)
}

func (h *Handler) HandleEvent(ctx context.Context, event Event) {
	if !event.IsGroupMessage() {
		return
	}
	if !AllowGroup(h.cfg, event.GroupID) {
		return
	}

	if arg, ok := commandArgument(event); ok {
		if !IsAdmin(h.cfg, event.UserID) {
			return
		}
		h.handleCommand(ctx, event, arg)
		return
	}
	h.handleReply(ctx, event)
}

// commandArgument extracts the free-text argument of the cm command.
func commandArgument(event Event) (string, bool) {
	text := strings.TrimSpace(event.PlainText())
	if text == commandName {
		return "", true
	}
	rest, ok := strings.CutPrefix(text, commandName+" ")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func (h *Handler) handleCommand(ctx context.Context, event Event, arg string) {
	log := h.logger.With(
		"command_id", uuid.NewString(),
		"group_id", event.GroupID,
		"user_id", event.UserID,
	)

	if !h.active {
		h.reply(ctx, log, event, inactiveMessage)
		return
	}
	if arg == "" {
		h.reply(ctx, log, event, usageMessage)
		return
	}

	if id, ok := domain.ParseExternalID(arg); ok {
		h.runIngest(ctx, log, event, "ingest", id)
		return
	}
	if looksLikeURL(arg) {
		// Expected user mistake, reported directly and never logged
		// as an error.
		h.reply(ctx, log, event, badInputMessage)
		return
	}

	sink := NewGroupSink(h.bot, event.GroupID, h.cfg.ThumbnailMode, h.cfg.ThumbnailTempDir)
	err := h.search.Search(ctx, arg, sink)
	h.observe("search", err)
	if err != nil {
		h.replyError(ctx, log, event, err)
	}
}

func (h *Handler) handleReply(ctx context.Context, event Event) {
	// Unrelated replies are extremely common; reject on shape before
	// asking the transport to re-deliver the referenced message.
	if len(event.Message) != 3 {
		return
	}
	replyID := ""
	for _, segment := range event.Message {
		if segment.Type == "reply" {
			replyID = segment.StringData("id")
		}
	}
	if replyID == "" {
		return
	}
	if strings.ReplaceAll(strings.TrimSpace(event.PlainText()), " ", "") != "s" {
		return
	}
	if !IsAdmin(h.cfg, event.UserID) {
		return
	}

	log := h.logger.With(
		"command_id", uuid.NewString(),
		"group_id", event.GroupID,
		"user_id", event.UserID,
	)

	referenced, err := h.bot.GetMessageText(ctx, replyID)
	if err != nil {
		log.Warn("referenced message lookup failed", "error", err)
		return
	}

	id, ok := h.resolver.ResumeID(domain.ReplyEvent{Segments: replySegments(event, referenced)})
	if !ok {
		return
	}

	if !h.active {
		h.reply(ctx, log, event, inactiveMessage)
		return
	}
	h.runIngest(ctx, log, event, "confirm", id)
}

func (h *Handler) runIngest(ctx context.Context, log *slog.Logger, event Event, command string, id domain.ExternalID) {
	message, err := h.ingest.Ingest(ctx, id)
	h.observe(command, err)
	if err != nil {
		h.replyError(ctx, log, event, err)
		return
	}
	h.reply(ctx, log, event, message)
}

// replySegments maps the transport event onto the protocol's composite
// shape, substituting the re-delivered text for the reply reference.
func replySegments(event Event, referenced string) []domain.Segment {
	segments := make([]domain.Segment, 0, len(event.Message))
	for _, segment := range event.Message {
		switch segment.Type {
		case "reply":
			segments = append(segments, domain.Segment{Kind: domain.SegmentReply, Text: referenced})
		case "text":
			segments = append(segments, domain.Segment{Kind: domain.SegmentText, Text: segment.StringData("text")})
		default:
			segments = append(segments, domain.Segment{Kind: domain.SegmentOther})
		}
	}
	return segments
}

func looksLikeURL(arg string) bool {
	return strings.Contains(arg, "://") || strings.HasSuffix(arg, ".html")
}

func (h *Handler) replyError(ctx context.Context, log *slog.Logger, event Event, err error) {
	log.Error("command failed", "error", err)

	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) && backendErr.Detail != "" {
		h.reply(ctx, log, event, "backend error: "+backendErr.Detail)
		return
	}
	h.reply(ctx, log, event, transportFailed)
}

func (h *Handler) reply(ctx context.Context, log *slog.Logger, event Event, text string) {
	segments := []Segment{
		ReplySegment(event.MessageID),
		TextSegment(text),
	}
	if err := h.bot.SendGroupMessage(ctx, event.GroupID, segments); err != nil {
		log.Error("reply send failed", "error", err)
	}
}

func (h *Handler) observe(command string, err error) {
	if h.recorder != nil {
		h.recorder.ObserveCommand(command, err)
	}
}
