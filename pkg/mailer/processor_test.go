package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-auth-service/pkg/helpers"
	tpl "github.com/oksasatya/go-auth-service/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	out []sent
	err error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.out = append(f.out, sent{to, subject, text, html})
	return nil
}

func body(t *testing.T, job EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestProcessor_RendersTemplate(t *testing.T) {
	s := &fakeSender{}
	p := NewProcessor(s, nil)
	data := tpl.ToMap(tpl.NewWelcomeData("Shop", "Ada L", "", tpl.WithLoginURL("http://shop.test/login")))

	err := p.Handle(context.Background(), body(t, EmailJob{To: "ada@x.com", Template: tpl.Welcome, Data: data}))
	require.NoError(t, err)
	require.Len(t, s.out, 1)
	assert.Equal(t, "ada@x.com", s.out[0].to)
	assert.Equal(t, "Welcome to Shop", s.out[0].subject)
	assert.Contains(t, s.out[0].text, "ada@x.com")
	assert.Contains(t, s.out[0].html, "http://shop.test/login")
}

func TestProcessor_RawJob(t *testing.T) {
	s := &fakeSender{}
	err := NewProcessor(s, nil).Handle(context.Background(), body(t, EmailJob{To: "a@x.com", Subject: "hi", Text: "hello"}))
	require.NoError(t, err)
	assert.Equal(t, sent{"a@x.com", "hi", "hello", ""}, s.out[0])
}

func TestProcessor_DropsHopelessJobs(t *testing.T) {
	p := NewProcessor(&fakeSender{}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, p.Handle(ctx, []byte("{")), helpers.ErrDropMessage)
	assert.ErrorIs(t, p.Handle(ctx, body(t, EmailJob{Template: tpl.Welcome})), helpers.ErrDropMessage)
	assert.ErrorIs(t, p.Handle(ctx, body(t, EmailJob{To: "a@x.com", Template: "universal"})), helpers.ErrDropMessage)
}

func TestProcessor_SendFailureIsRetryable(t *testing.T) {
	p := NewProcessor(&fakeSender{err: errors.New("mailgun 503")}, nil)
	err := p.Handle(context.Background(), body(t, EmailJob{To: "a@x.com", Subject: "s", Text: "t"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, helpers.ErrDropMessage)
}
