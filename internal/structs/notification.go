package structs

import "time"

// InterviewDetails is the interview snapshot kept on a notification.
type InterviewDetails struct {
	Date          string        `bson:"date" json:"date"`
	Time          string        `bson:"time" json:"time"`
	JobTitle      string        `bson:"job_title" json:"job_title"`
	Mode          InterviewMode `bson:"mode" json:"mode"`
	Location      string        `bson:"location" json:"location"`
	EmployerName  string        `bson:"employer_name" json:"employer_name"`
	EmployerEmail string        `bson:"employer_email" json:"employer_email"`
	EmployerPhone string        `bson:"employer_phone,omitempty" json:"employer_phone,omitempty"`
}

// Notification is an in-app message for one user.
type Notification struct {
	ID                string            `bson:"_id" json:"id"`
	UserID            string            `bson:"user_id" json:"user_id"`
	Type              NotificationType  `bson:"type" json:"type"`
	Title             string            `bson:"title" json:"title"`
	Message           string            `bson:"message" json:"message"`
	JobID             string            `bson:"job_id,omitempty" json:"job_id,omitempty"`
	InterviewDetails  *InterviewDetails `bson:"interview_details,omitempty" json:"interview_details,omitempty"`
	InterviewResponse InterviewResponse `bson:"interview_response,omitempty" json:"interview_response,omitempty"`
	IsRead            bool              `bson:"is_read" json:"is_read"`
	CreatedAt         time.Time         `bson:"created_at" json:"created_at"`
}

// NotificationList is the latest notifications with the unread count.
type NotificationList struct {
	Items       []*Notification `json:"items"`
	UnreadCount int64           `json:"unread_count"`
}
