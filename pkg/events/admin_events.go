package events

// Domain constants
const (
	ServiceName     = "commentadmin"
	CommentExchange = "admin.comment"
	FailureExchange = "admin.failure"
	IntakeExchange  = "intake.comment"
	EventVersionV1  = "v1"
)

// Event names
const (
	CommentCreatedEvent   = "comment.created"
	CommentSubmittedEvent = "comment.submitted"
	FailureReportedEvent  = "failure.reported"
)

// CommentCreatedPayload represents the payload for comment.created event
type CommentCreatedPayload struct {
	ID         string `json:"id"`
	ItemID     string `json:"itemId"`
	Score      int    `json:"score"`
	CreateTime string `json:"createTime"`
	IDC        string `json:"idc"`
}

// CommentSubmittedPayload is published by intake terminals for every rating
// they collect.
type CommentSubmittedPayload struct {
	ItemID     string `json:"itemId"`
	Score      *int   `json:"score"`
	CreateTime string `json:"createTime"`
	IDC        string `json:"idc"`
	Content    string `json:"content"`
	Contact    string `json:"contact"`
}

type FailureReportedPayload struct {
	ID             string  `json:"id"`
	FailureName    string  `json:"failureName"`
	FailureTime    string  `json:"failureTime"`
	IDC            string  `json:"idc"`
	FailurePicture *string `json:"failurePicture"`
}
