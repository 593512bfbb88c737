package domain

// Announcement kinds pushed to live clients. The discriminant travels
// under the fixed "announcement_type" field; payload fields are add-only,
// never renamed or removed.
const (
	AnnounceMessagePut         = "message/put"
	AnnounceMessageDelete      = "message/delete"
	AnnounceMessageAttachments = "message/attachments"
)

// Announcement is a server-initiated push event. Instances are immutable
// once constructed and encoded exactly once per dispatch.
type Announcement interface {
	Kind() string
}

// MessagePutAnnouncement carries a fully-hydrated message. Sent for both
// new and edited messages; receivers upsert by message id.
type MessagePutAnnouncement struct {
	Type    string      `json:"announcement_type"`
	Message MessageRead `json:"message"`
}

func NewMessagePutAnnouncement(m MessageRead) MessagePutAnnouncement {
	return MessagePutAnnouncement{Type: AnnounceMessagePut, Message: m}
}

func (MessagePutAnnouncement) Kind() string { return AnnounceMessagePut }

type MessageDeleteAnnouncement struct {
	Type    string     `json:"announcement_type"`
	Message MessageRef `json:"message"`
}

func NewMessageDeleteAnnouncement(ref MessageRef) MessageDeleteAnnouncement {
	return MessageDeleteAnnouncement{Type: AnnounceMessageDelete, Message: ref}
}

func (MessageDeleteAnnouncement) Kind() string { return AnnounceMessageDelete }

// MessageAttachmentsAnnouncement carries attachment records newly
// associated with a message.
type MessageAttachmentsAnnouncement struct {
	Type        string           `json:"announcement_type"`
	Attachments []AttachmentRead `json:"attachments"`
}

func NewMessageAttachmentsAnnouncement(attachments []AttachmentRead) MessageAttachmentsAnnouncement {
	return MessageAttachmentsAnnouncement{Type: AnnounceMessageAttachments, Attachments: attachments}
}

func (MessageAttachmentsAnnouncement) Kind() string { return AnnounceMessageAttachments }
