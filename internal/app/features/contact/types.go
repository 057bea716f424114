package contact

import (
	"strings"

	"github.com/dalemusser/pesantrenhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
)

// messageInput is the public contact form.
type messageInput struct {
	Name    string `json:"name" validate:"required,max=120" label:"Name"`
	Email   string `json:"email" validate:"required,mailaddr,max=254" label:"Email"`
	Phone   string `json:"phone" validate:"max=20" label:"Phone"`
	Subject string `json:"subject" validate:"required,max=200" label:"Subject"`
	Message string `json:"message" validate:"required,min=10,max=5000" label:"Message"`
}

func (in *messageInput) normalize() {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Phone = normalize.Phone(in.Phone)
	in.Subject = htmlsanitize.Text(in.Subject)
	in.Message = htmlsanitize.Text(in.Message)
}

func (in messageInput) message() models.ContactMessage {
	return models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	}
}

// triageInput is what an admin may change on a message.
type triageInput struct {
	Status    string `json:"status" validate:"oneof=unread read replied archived" label:"Status"`
	Priority  string `json:"priority" validate:"oneof=low normal high" label:"Priority"`
	ReplyNote string `json:"replyNote" validate:"max=5000" label:"Reply note"`
}

func inputFrom(m models.ContactMessage) triageInput {
	return triageInput{Status: m.Status, Priority: m.Priority, ReplyNote: m.ReplyNote}
}

func (in *triageInput) normalize() {
	in.Status = normalize.Status(in.Status)
	in.Priority = normalize.Status(in.Priority)
	in.ReplyNote = strings.TrimSpace(in.ReplyNote)
}

func (in triageInput) applyTo(m *models.ContactMessage) {
	m.Status = in.Status
	m.Priority = in.Priority
	m.ReplyNote = in.ReplyNote
}
