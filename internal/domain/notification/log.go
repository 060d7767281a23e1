package notification

import "time"

// Channel is the transport a reminder went out on.
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "Email"
)

// Category identifies the kind of reminder.
type Category string

const (
	CategoryUnpaid  Category = "unpaid"
	CategoryRentDue Category = "rent-due"
)

// Log is one append-only audit record of a send attempt. It doubles as the
// system of record for same-day deduplication: a row for
// (company, category, channel, sent-on date) means that reminder already
// went out today, whatever its outcome.
type Log struct {
	ID          int64     `json:"id"`
	SentAt      time.Time `json:"sent_at"`
	SentOn      time.Time `json:"sent_on"` // calendar date portion of SentAt, the dedup column
	Channel     Channel   `json:"channel"`
	Category    Category  `json:"category"`
	CompanyID   int64     `json:"company_id"`
	CompanyName string    `json:"company_name"`
	Recipient   string    `json:"recipient"` // phone number or email address
	Message     string    `json:"message"`
	Success     bool      `json:"success"`
	ErrorDetail string    `json:"error_detail"` // present iff the attempt failed
}
