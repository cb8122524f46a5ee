package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-auth-service/pkg/mailer"
	tpl "github.com/oksasatya/go-auth-service/pkg/mailer/templates"
)

// Notifier sends best-effort account notifications. Implementations must not
// block the calling flow on delivery.
type Notifier interface {
	Welcome(ctx context.Context, u *entity.User)
	LoginAlert(ctx context.Context, u *entity.User)
}

// EmailNotifier enqueues email jobs for the email worker.
type EmailNotifier struct {
	Pub     JobPublisher
	AppName string
	BaseURL string
	Logger  *logrus.Logger
}

func NewEmailNotifier(pub JobPublisher, appName, baseURL string, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{Pub: pub, AppName: appName, BaseURL: baseURL, Logger: logger}
}

func (n *EmailNotifier) Welcome(ctx context.Context, u *entity.User) {
	data := tpl.NewWelcomeData(n.AppName, u.FullName(), u.Email(),
		tpl.WithTime(time.Now()),
		tpl.WithLoginURL(n.BaseURL+"/login"),
	)
	n.publish(ctx, mailer.EmailJob{To: u.Email(), Template: tpl.Welcome, Data: tpl.ToMap(data)})
}

func (n *EmailNotifier) LoginAlert(ctx context.Context, u *entity.User) {
	ci := clientInfoFrom(ctx)
	data := tpl.NewLoginNotificationData(n.AppName, u.FullName(), u.Email(),
		tpl.WithTime(time.Now()),
		tpl.WithIP(ci.IP),
		tpl.WithUserAgent(ci.UserAgent),
	)
	n.publish(ctx, mailer.EmailJob{To: u.Email(), Template: tpl.LoginNotification, Data: tpl.ToMap(data)})
}

func (n *EmailNotifier) publish(ctx context.Context, job mailer.EmailJob) {
	if n.Pub == nil {
		return
	}
	if err := n.Pub.PublishJSON(ctx, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("template", job.Template).Warn("failed to publish email job")
	}
}
