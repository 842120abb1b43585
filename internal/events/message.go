package events

// EmailMessage is the value carried across the queue boundary to the
// delivery worker. It is never persisted by this service.
type EmailMessage struct {
	ToEmail  string `json:"to_email"`
	FullName string `json:"full_name"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}
