package gmail

import (
	"net/mail"
	"strings"
	"time"
)

// Reply check result reasons
const (
	ReasonReplyFound       = "reply_found_in_thread"
	ReasonNoReply          = "no_reply_found"
	ReasonEmptyThread      = "thread_has_no_messages"
	ReasonAlreadyResponded = "already_responded"
)

// ReplyCheckResult is the outcome of scanning a thread for a reply.
type ReplyCheckResult struct {
	Replied   bool       `json:"replied"`
	RepliedAt *time.Time `json:"replied_at,omitempty"`
	Reason    string     `json:"reason"`
}

// DetectReply scans a thread's messages for a reply: a message strictly
// after sentAt whose sender address is non-empty and differs from the
// owner's. Among qualifying messages the latest timestamp wins.
func DetectReply(messages []ThreadMessage, ownerAddress string, sentAt time.Time) ReplyCheckResult {
	if len(messages) == 0 {
		return ReplyCheckResult{Reason: ReasonEmptyThread}
	}

	owner := strings.ToLower(strings.TrimSpace(ownerAddress))
	sentAt = sentAt.UTC()

	var newest time.Time
	found := false

	for _, msg := range messages {
		if msg.InternalDateMs <= 0 {
			continue
		}
		at := time.UnixMilli(msg.InternalDateMs).UTC()
		if !at.After(sentAt) {
			continue
		}

		from := bareAddress(msg.From)
		if from == "" || from == owner {
			continue
		}

		if !found || at.After(newest) {
			newest = at
			found = true
		}
	}

	if found {
		return ReplyCheckResult{Replied: true, RepliedAt: &newest, Reason: ReasonReplyFound}
	}
	return ReplyCheckResult{Reason: ReasonNoReply}
}

// bareAddress extracts the lower-cased address part of a From header.
// Headers that do not parse as an address fall back to the trimmed raw
// value so an unparseable-but-present sender still counts.
func bareAddress(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	addr, err := mail.ParseAddress(header)
	if err != nil {
		return strings.ToLower(header)
	}
	return strings.ToLower(strings.TrimSpace(addr.Address))
}
