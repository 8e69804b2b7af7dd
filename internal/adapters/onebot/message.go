package onebot

import (
	"strconv"
	"strings"
)

// Segment is one element of a OneBot v11 message array.
type Segment struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func TextSegment(text string) Segment {
	return Segment{Type: "text", Data: map[string]any{"text": text}}
}

// ImageSegment attaches an image by file reference. The reference may be
// a file:// path or the in-band base64:// form.
func ImageSegment(file string) Segment {
	return Segment{Type: "image", Data: map[string]any{"file": file}}
}

func ReplySegment(messageID int64) Segment {
	return Segment{Type: "reply", Data: map[string]any{"id": messageID}}
}

// StringData reads a data field as a string regardless of whether the
// implementation delivered it as a string or a number.
func (s Segment) StringData(key string) string {
	switch v := s.Data[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Event is an inbound OneBot event. Only group message events are acted
// on; everything else is ignored.
type Event struct {
	PostType    string    `json:"post_type"`
	MessageType string    `json:"message_type"`
	MessageID   int64     `json:"message_id"`
	GroupID     int64     `json:"group_id"`
	UserID      int64     `json:"user_id"`
	Message     []Segment `json:"message"`
	RawMessage  string    `json:"raw_message"`
}

func (e Event) IsGroupMessage() bool {
	return e.PostType == "message" && e.MessageType == "group"
}

// PlainText concatenates the text segments of the event message.
func (e Event) PlainText() string {
	var b strings.Builder
	for _, segment := range e.Message {
		if segment.Type == "text" {
			b.WriteString(segment.StringData("text"))
		}
	}
	return b.String()
}
