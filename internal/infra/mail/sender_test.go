package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestRenderSaleNotificationEscapes(t *testing.T) {
	body, err := RenderSaleNotification(SaleNotification{
		SellerName: "Carla",
		LeadName:   "<b>Ana</b>",
		Value:      "R$ 1.234,56",
		Date:       "15/03/2024",
	})

	require.NoError(t, err)
	assert.Contains(t, body, "Olá, Carla!")
	assert.Contains(t, body, "R$ 1.234,56")
	assert.Contains(t, body, "&lt;b&gt;Ana&lt;/b&gt;")
	assert.NotContains(t, body, "Telefone")
}

func TestSendSaleNotification(t *testing.T) {
	d := &fakeDialer{}
	s := NewEmailSender("smtp.example.com", 587, "u", "p", "crm@fortis.com").WithDialer(d)

	err := s.SendSaleNotification(context.Background(), "carla@fortis.com", SaleNotification{LeadName: "Ana", Value: "R$ 10,00"})

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"carla@fortis.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"crm@fortis.com"}, d.sent[0].GetHeader("From"))
}

func TestSendSaleNotificationSMTPError(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	s := NewEmailSender("smtp.example.com", 587, "u", "p", "crm@fortis.com").WithDialer(d)

	err := s.SendSaleNotification(context.Background(), "carla@fortis.com", SaleNotification{})

	assert.ErrorContains(t, err, "erro ao enviar email SMTP")
}
