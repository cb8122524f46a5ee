package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithLoginURL(url string) Option { return func(d *EmailData) { d.LoginURL = url } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04 MST")
	}
}

func newData(appName, name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, AppName: appName}
	for _, o := range opts {
		o(&d)
	}
	return d
}

func NewWelcomeData(appName, name, email string, opts ...Option) EmailData {
	return newData(appName, name, email, opts...)
}

func NewLoginNotificationData(appName, name, email string, opts ...Option) EmailData {
	return newData(appName, name, email, opts...)
}
